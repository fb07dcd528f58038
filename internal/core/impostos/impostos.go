// internal/core/impostos/impostos.go
//
// Calculadores puros, um por tributo. Cada função recebe o item e o
// contexto (partes, regime) e devolve o resultado daquele tributo; nenhum
// estado é compartilhado entre chamadas.
package impostos

import (
	"math"

	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

func round(val float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(val*pow) / pow
}

// zeroSeNaN trata campo numérico ausente ou corrompido como zero; o
// validador acusa o valor não positivo depois.
func zeroSeNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// baseItem é a base de cálculo candidata de ICMS/PIS/COFINS:
// quantidade×unitário − desconto + frete + seguro + outras despesas.
func baseItem(item domain.ItemNotaFiscal) float64 {
	qtd := zeroSeNaN(item.Quantidade)
	unit := zeroSeNaN(item.ValorUnitario)
	base := qtd*unit - zeroSeNaN(item.Desconto) +
		zeroSeNaN(item.Frete) + zeroSeNaN(item.Seguro) + zeroSeNaN(item.OutrasDespesas)
	return round(base, 2)
}

// baseServico é a base do ISS: total da linha menos o desconto.
func baseServico(item domain.ItemNotaFiscal) float64 {
	qtd := zeroSeNaN(item.Quantidade)
	unit := zeroSeNaN(item.ValorUnitario)
	return round(qtd*unit-zeroSeNaN(item.Desconto), 2)
}
