// internal/core/impostos/iss.go
package impostos

import (
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// CalcularISS apura o ISS de um item de serviço. A alíquota vem da tabela
// municipal carregada (quando houver) pelo código do município do
// prestador, com padrão de 5%. A retenção usa a divergência de município
// entre prestador e tomador como aproximação da regra estatutária por
// código de serviço (LC 116/03), que depende de tabela ainda não
// fornecida.
func CalcularISS(item domain.ItemNotaFiscal, emitente, destinatario domain.DadosFiscaisPessoa, tabela *catalogo.TabelaISS) domain.ResultadoISS {
	base := baseServico(item)
	aliquota := tabela.AliquotaPorCodigo(emitente.Endereco.CodigoMunicipio)

	retido := emitente.Endereco.CodigoMunicipio != destinatario.Endereco.CodigoMunicipio &&
		destinatario.Endereco.CodigoMunicipio != ""

	return domain.ResultadoISS{
		ResultadoImposto: domain.ResultadoImposto{
			BaseCalculo: base,
			Aliquota:    aliquota,
			Valor:       round(base*aliquota/100, 2),
		},
		Retido: retido,
	}
}
