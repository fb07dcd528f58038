// internal/core/impostos/ipi.go
package impostos

import (
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// CalcularIPI apura o IPI de um item de mercadoria. A tabela real (TIPI)
// ainda não foi carregada: só o capítulo 22 (bebidas) tem alíquota, 10%;
// todo o restante sai a 0%.
func CalcularIPI(item domain.ItemNotaFiscal) domain.ResultadoImposto {
	aliquota := catalogo.AliquotaIPIPorNCM(item.NCM)
	if aliquota == 0 {
		return domain.ResultadoImposto{}
	}
	base := baseItem(item)
	return domain.ResultadoImposto{
		BaseCalculo: base,
		Aliquota:    aliquota,
		Valor:       round(base*aliquota/100, 2),
	}
}
