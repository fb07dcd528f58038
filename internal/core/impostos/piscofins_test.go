package impostos

import (
	"testing"

	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

func TestCalcularPisCofinsPorRegime(t *testing.T) {
	item := itemMercadoria(10, 100, 0) // base 1000

	t.Run("Lucro presumido usa o método cumulativo", func(t *testing.T) {
		pis, cofins := CalcularPisCofins(item, domain.RegimeLucroPresumido)
		if pis.Aliquota != 0.65 || pis.Valor != 6.50 {
			t.Errorf("Esperava PIS 0,65%% = 6.50, obteve alíquota %.2f valor %.2f", pis.Aliquota, pis.Valor)
		}
		if cofins.Aliquota != 3.00 || cofins.Valor != 30.00 {
			t.Errorf("Esperava COFINS 3,00%% = 30.00, obteve alíquota %.2f valor %.2f", cofins.Aliquota, cofins.Valor)
		}
		if pis.BaseCalculo != cofins.BaseCalculo {
			t.Error("PIS e COFINS devem compartilhar a mesma base")
		}
	})

	t.Run("Lucro real usa o método não cumulativo", func(t *testing.T) {
		pis, cofins := CalcularPisCofins(item, domain.RegimeLucroReal)
		if pis.Aliquota != 1.65 || pis.Valor != 16.50 {
			t.Errorf("Esperava PIS 1,65%% = 16.50, obteve alíquota %.2f valor %.2f", pis.Aliquota, pis.Valor)
		}
		if cofins.Aliquota != 7.60 || cofins.Valor != 76.00 {
			t.Errorf("Esperava COFINS 7,60%% = 76.00, obteve alíquota %.2f valor %.2f", cofins.Aliquota, cofins.Valor)
		}
	})

	t.Run("Simples zera os dois tributos", func(t *testing.T) {
		pis, cofins := CalcularPisCofins(item, domain.RegimeSimplesNacional)
		if pis.BaseCalculo != 0 || pis.Valor != 0 || cofins.Valor != 0 {
			t.Errorf("Esperava PIS/COFINS zerados no Simples, obteve PIS %+v COFINS %+v", pis, cofins)
		}
	})
}

func TestCalcularPisCofinsBaseComDesconto(t *testing.T) {
	// Base: 4×250 − 100 = 900
	item := itemMercadoria(4, 250, 100)

	pis, cofins := CalcularPisCofins(item, domain.RegimeLucroPresumido)
	if pis.BaseCalculo != 900.00 {
		t.Errorf("Esperava base 900.00, obteve %.2f", pis.BaseCalculo)
	}
	if pis.Valor != 5.85 {
		t.Errorf("Esperava PIS 5.85, obteve %.2f", pis.Valor)
	}
	if cofins.Valor != 27.00 {
		t.Errorf("Esperava COFINS 27.00, obteve %.2f", cofins.Valor)
	}
}
