package impostos

import (
	"testing"

	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

func pessoaUF(uf, municipio string) domain.DadosFiscaisPessoa {
	return domain.DadosFiscaisPessoa{
		CpfCnpj:     "12345678000195",
		RazaoSocial: "Empresa Teste",
		Endereco:    domain.Endereco{UF: uf, CodigoMunicipio: municipio},
	}
}

func itemMercadoria(qtd, unit, desconto float64) domain.ItemNotaFiscal {
	return domain.ItemNotaFiscal{
		Sequencia:     1,
		Tipo:          domain.ItemMercadoria,
		NCM:           "84713012",
		CFOP:          "6102",
		Quantidade:    qtd,
		ValorUnitario: unit,
		Desconto:      desconto,
	}
}

// TestCalcularICMSInterestadual cobre o modelo de duas faixas da
// Resolução 22/89 com o vetor de referência SP→RJ, base 1000.
func TestCalcularICMSInterestadual(t *testing.T) {
	item := itemMercadoria(10, 100, 0)

	t.Run("SP para RJ aplica 12%", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("SP", "3550308"), pessoaUF("RJ", "3304557"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
		if r.Aliquota != 12 {
			t.Errorf("Esperava alíquota 12, obteve %.2f", r.Aliquota)
		}
		if r.Valor != 120.00 {
			t.Errorf("Esperava ICMS 120.00, obteve %.2f", r.Valor)
		}
		if r.BaseCalculo != 1000.00 {
			t.Errorf("Esperava base 1000.00, obteve %.2f", r.BaseCalculo)
		}
		if r.CST != "00" {
			t.Errorf("Esperava CST 00, obteve %q", r.CST)
		}
	})

	t.Run("SP para BA aplica 7%", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("SP", "3550308"), pessoaUF("BA", "2927408"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
		if r.Aliquota != 7 {
			t.Errorf("Esperava alíquota 7, obteve %.2f", r.Aliquota)
		}
		if r.Valor != 70.00 {
			t.Errorf("Esperava ICMS 70.00, obteve %.2f", r.Valor)
		}
	})

	t.Run("BA para SP aplica 12%", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("BA", "2927408"), pessoaUF("SP", "3550308"), domain.OperacaoSaida, domain.RegimeLucroReal)
		if r.Aliquota != 12 {
			t.Errorf("Esperava alíquota 12, obteve %.2f", r.Aliquota)
		}
	})
}

func TestCalcularICMSInterno(t *testing.T) {
	item := itemMercadoria(2, 50, 0)

	t.Run("UF com alíquota própria", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("RS", "4314902"), pessoaUF("RS", "4305108"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
		if r.Aliquota != 17 {
			t.Errorf("Esperava alíquota interna do RS (17), obteve %.2f", r.Aliquota)
		}
	})

	t.Run("UF desconhecida usa o padrão de 18%", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("XX", "0000000"), pessoaUF("XX", "0000000"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
		if r.Aliquota != 18 {
			t.Errorf("Esperava alíquota padrão 18, obteve %.2f", r.Aliquota)
		}
	})
}

func TestCalcularICMSBaseComAcessorios(t *testing.T) {
	// Base candidata: 10×100 − 50 + 30 (frete) + 10 (seguro) + 5 (outras) = 995
	item := itemMercadoria(10, 100, 50)
	item.Frete = 30
	item.Seguro = 10
	item.OutrasDespesas = 5

	r := CalcularICMS(item, pessoaUF("SP", "3550308"), pessoaUF("RJ", "3304557"), domain.OperacaoSaida, domain.RegimeLucroReal)
	if r.BaseCalculo != 995.00 {
		t.Errorf("Esperava base 995.00, obteve %.2f", r.BaseCalculo)
	}
	if r.Valor != 119.40 {
		t.Errorf("Esperava ICMS 119.40, obteve %.2f", r.Valor)
	}
}

func TestCalcularICMSSimples(t *testing.T) {
	item := itemMercadoria(10, 100, 0)

	t.Run("CSOSN padrão 102 com valores zerados", func(t *testing.T) {
		r := CalcularICMS(item, pessoaUF("SP", "3550308"), pessoaUF("RJ", "3304557"), domain.OperacaoSaida, domain.RegimeSimplesNacional)
		if r.CSOSN != "102" {
			t.Errorf("Esperava CSOSN 102, obteve %q", r.CSOSN)
		}
		if r.BaseCalculo != 0 || r.Aliquota != 0 || r.Valor != 0 {
			t.Errorf("Esperava base/alíquota/valor zerados, obteve %+v", r)
		}
		if r.CST != "" {
			t.Errorf("CST não deve ser preenchido no Simples, obteve %q", r.CST)
		}
	})

	// Pino do ponto de extensão: CSOSN manual é preservado mas a apuração
	// com crédito ainda não existe, então os valores seguem zerados.
	t.Run("CSOSN manual preservado sem apuração", func(t *testing.T) {
		comManual := item
		comManual.CSOSNManual = "101"
		r := CalcularICMS(comManual, pessoaUF("SP", "3550308"), pessoaUF("RJ", "3304557"), domain.OperacaoSaida, domain.RegimeSimplesNacional)
		if r.CSOSN != "101" {
			t.Errorf("Esperava CSOSN manual 101 preservado, obteve %q", r.CSOSN)
		}
		if r.Valor != 0 {
			t.Errorf("Apuração de crédito ainda não implementada; esperava 0, obteve %.2f", r.Valor)
		}
	})
}

func TestCalcularICMSIsento(t *testing.T) {
	item := itemMercadoria(10, 100, 0)

	for _, cst := range []string{"40", "41", "50", "60"} {
		t.Run("CST "+cst+" zera o resultado", func(t *testing.T) {
			comManual := item
			comManual.CSTManual = cst
			r := CalcularICMS(comManual, pessoaUF("SP", "3550308"), pessoaUF("RJ", "3304557"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
			if r.BaseCalculo != 0 || r.Aliquota != 0 || r.Valor != 0 {
				t.Errorf("CST %s deveria zerar o ICMS, obteve %+v", cst, r)
			}
			if r.CST != cst {
				t.Errorf("Esperava CST %s preservado, obteve %q", cst, r.CST)
			}
		})
	}
}

func TestCalcularICMSRegraPorCFOP(t *testing.T) {
	// CFOP 5405 (ST já recolhida) cai na regra venda_mercadoria_st e
	// recebe CST 60, que zera o ICMS próprio.
	item := itemMercadoria(10, 100, 0)
	item.CFOP = "5405"

	r := CalcularICMS(item, pessoaUF("SP", "3550308"), pessoaUF("SP", "3509502"), domain.OperacaoSaida, domain.RegimeLucroPresumido)
	if r.CST != "60" {
		t.Errorf("Esperava CST 60 pela regra do CFOP 5405, obteve %q", r.CST)
	}
	if r.Valor != 0 {
		t.Errorf("CST 60 não apura ICMS próprio; obteve %.2f", r.Valor)
	}
}
