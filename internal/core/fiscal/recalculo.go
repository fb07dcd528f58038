// internal/core/fiscal/recalculo.go
package fiscal

import (
	"math"

	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/impostos"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

func round(val float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(val*pow) / pow
}

func zeroSeNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// recalcularItem recompõe o total da linha e despacha para o conjunto de
// calculadores conforme o tipo do item. O CST/CSOSN manual do operador é
// lido pelos calculadores e sobrevive ao recálculo; o ICMS-ST informado
// previamente também é preservado, já que o motor não o apura.
func recalcularItem(item domain.ItemNotaFiscal, nota *domain.NotaFiscal, regime domain.RegimeTributario, tabelaISS *catalogo.TabelaISS) (domain.ItemNotaFiscal, []domain.Alteracao) {
	anterior := item
	novo := item

	qtd := zeroSeNaN(novo.Quantidade)
	unit := zeroSeNaN(novo.ValorUnitario)
	novo.Quantidade = qtd
	novo.ValorUnitario = unit
	novo.Desconto = zeroSeNaN(novo.Desconto)
	novo.ValorTotal = round(qtd*unit-novo.Desconto, 2)

	switch novo.Tipo {
	case domain.ItemServico:
		iss := impostos.CalcularISS(novo, nota.Emitente, nota.Destinatario, tabelaISS)
		pis, cofins := impostos.CalcularPisCofins(novo, regime)
		novo.Impostos = domain.Impostos{Servico: &domain.ImpostosServico{
			ISS:    iss,
			PIS:    pis,
			COFINS: cofins,
		}}
	default:
		icms := impostos.CalcularICMS(novo, nota.Emitente, nota.Destinatario, nota.Operacao, regime)
		ipi := impostos.CalcularIPI(novo)
		pis, cofins := impostos.CalcularPisCofins(novo, regime)
		merc := &domain.ImpostosMercadoria{
			ICMS:   icms,
			IPI:    ipi,
			PIS:    pis,
			COFINS: cofins,
		}
		if anterior.Impostos.Mercadoria != nil {
			merc.ICMSST = anterior.Impostos.Mercadoria.ICMSST
		}
		novo.Impostos = domain.Impostos{Mercadoria: merc}
	}

	return novo, registrarAlteracoes(anterior, novo)
}

func registrarAlteracoes(antes, depois domain.ItemNotaFiscal) []domain.Alteracao {
	var alteracoes []domain.Alteracao
	registrar := func(campo string, va, vn float64) {
		if va != vn {
			alteracoes = append(alteracoes, domain.Alteracao{Campo: campo, ValorAnterior: va, ValorNovo: vn})
		}
	}

	registrar("valor_total", antes.ValorTotal, depois.ValorTotal)

	switch {
	case depois.Impostos.Mercadoria != nil:
		var va domain.ImpostosMercadoria
		if antes.Impostos.Mercadoria != nil {
			va = *antes.Impostos.Mercadoria
		}
		vn := *depois.Impostos.Mercadoria
		registrar("impostos.icms.valor", va.ICMS.Valor, vn.ICMS.Valor)
		registrar("impostos.ipi.valor", va.IPI.Valor, vn.IPI.Valor)
		registrar("impostos.pis.valor", va.PIS.Valor, vn.PIS.Valor)
		registrar("impostos.cofins.valor", va.COFINS.Valor, vn.COFINS.Valor)
	case depois.Impostos.Servico != nil:
		var va domain.ImpostosServico
		if antes.Impostos.Servico != nil {
			va = *antes.Impostos.Servico
		}
		vn := *depois.Impostos.Servico
		registrar("impostos.iss.valor", va.ISS.Valor, vn.ISS.Valor)
		registrar("impostos.pis.valor", va.PIS.Valor, vn.PIS.Valor)
		registrar("impostos.cofins.valor", va.COFINS.Valor, vn.COFINS.Valor)
	}

	return alteracoes
}

// calcularTotais soma os itens por categoria. ValorProdutos/ValorServicos
// são brutos (quantidade×unitário); o desconto entra uma única vez na
// composição do total geral, como no bloco ICMSTot da NF-e:
// vNF = vProd + vServ + vFrete + vSeg + vOutro − vDesc + vST + vIPI.
func calcularTotais(nota *domain.NotaFiscal) domain.TotaisNotaFiscal {
	var t domain.TotaisNotaFiscal

	for i := range nota.Itens {
		item := &nota.Itens[i]
		bruto := zeroSeNaN(item.Quantidade) * zeroSeNaN(item.ValorUnitario)
		t.Descontos += zeroSeNaN(item.Desconto)
		t.Frete += zeroSeNaN(item.Frete)
		t.Seguro += zeroSeNaN(item.Seguro)
		t.OutrasDespesas += zeroSeNaN(item.OutrasDespesas)

		switch {
		case item.Impostos.Servico != nil:
			t.ValorServicos += bruto
			t.ValorISS += item.Impostos.Servico.ISS.Valor
			t.ValorPIS += item.Impostos.Servico.PIS.Valor
			t.ValorCOFINS += item.Impostos.Servico.COFINS.Valor
		case item.Impostos.Mercadoria != nil:
			t.ValorProdutos += bruto
			t.BaseICMS += item.Impostos.Mercadoria.ICMS.BaseCalculo
			t.ValorICMS += item.Impostos.Mercadoria.ICMS.Valor
			t.ValorICMSST += item.Impostos.Mercadoria.ICMSST.Valor
			t.ValorIPI += item.Impostos.Mercadoria.IPI.Valor
			t.ValorPIS += item.Impostos.Mercadoria.PIS.Valor
			t.ValorCOFINS += item.Impostos.Mercadoria.COFINS.Valor
		default:
			// item ainda não recalculado: só os valores brutos entram
			if item.Tipo == domain.ItemServico {
				t.ValorServicos += bruto
			} else {
				t.ValorProdutos += bruto
			}
		}
	}

	t.ValorProdutos = round(t.ValorProdutos, 2)
	t.ValorServicos = round(t.ValorServicos, 2)
	t.Descontos = round(t.Descontos, 2)
	t.Frete = round(t.Frete, 2)
	t.Seguro = round(t.Seguro, 2)
	t.OutrasDespesas = round(t.OutrasDespesas, 2)
	t.BaseICMS = round(t.BaseICMS, 2)
	t.ValorICMS = round(t.ValorICMS, 2)
	t.ValorICMSST = round(t.ValorICMSST, 2)
	t.ValorIPI = round(t.ValorIPI, 2)
	t.ValorPIS = round(t.ValorPIS, 2)
	t.ValorCOFINS = round(t.ValorCOFINS, 2)
	t.ValorISS = round(t.ValorISS, 2)

	t.ValorTotal = round(t.ValorProdutos+t.ValorServicos+t.Frete+t.Seguro+t.OutrasDespesas-
		t.Descontos+t.ValorICMSST+t.ValorIPI, 2)
	return t
}
