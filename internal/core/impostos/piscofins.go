// internal/core/impostos/piscofins.go
package impostos

import (
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// CalcularPisCofins apura PIS e COFINS sobre a mesma base, com alíquotas
// independentes vindas da tabela de regimes do catálogo: cumulativo
// (presumido) 0,65%/3,00%, não cumulativo (real) 1,65%/7,60%. No Simples
// os dois saem zerados porque são absorvidos pela guia unificada.
func CalcularPisCofins(item domain.ItemNotaFiscal, regime domain.RegimeTributario) (pis, cofins domain.ResultadoImposto) {
	aliquotas := catalogo.AliquotasPisCofinsDoRegime(regime)
	if aliquotas.PIS == 0 && aliquotas.COFINS == 0 {
		return domain.ResultadoImposto{}, domain.ResultadoImposto{}
	}

	base := baseItem(item)
	pis = domain.ResultadoImposto{
		BaseCalculo: base,
		Aliquota:    aliquotas.PIS,
		Valor:       round(base*aliquotas.PIS/100, 2),
	}
	cofins = domain.ResultadoImposto{
		BaseCalculo: base,
		Aliquota:    aliquotas.COFINS,
		Valor:       round(base*aliquotas.COFINS/100, 2),
	}
	return pis, cofins
}
