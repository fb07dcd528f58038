// internal/core/impostos/icms.go
package impostos

import (
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// CalcularICMS apura o ICMS próprio de um item de mercadoria.
//
// No Simples Nacional o item recebe o CSOSN padrão 102 (tributada sem
// direito a crédito) com base, alíquota e valor zerados. Um CSOSN manual é
// preservado, mas os CSOSNs que geram crédito (101 etc.) ainda não têm
// cálculo próprio: a apuração dentro do Simples permanece zerada até a
// tabela de faixas do regime ser fornecida.
//
// No regime normal, operação interestadual usa o modelo de duas faixas da
// Resolução 22/89 e operação interna usa a alíquota da UF do emitente.
// CSTs isentos/não tributados zeram o resultado.
func CalcularICMS(item domain.ItemNotaFiscal, emitente, destinatario domain.DadosFiscaisPessoa, operacao domain.TipoOperacao, regime domain.RegimeTributario) domain.ResultadoImposto {
	if regime == domain.RegimeSimplesNacional {
		csosn := item.CSOSNManual
		if csosn == "" {
			csosn = catalogo.CSOSNPadrao
		}
		return domain.ResultadoImposto{CSOSN: csosn}
	}

	cst := item.CSTManual
	if cst == "" {
		if regra := catalogo.RegraPara(item.Tipo, operacao, regime, item.CFOP); regra != nil && regra.CSTPadrao != "" {
			cst = regra.CSTPadrao
		} else {
			cst = catalogo.CSTPadrao
		}
	}

	if catalogo.CSTSemTributacao(cst) {
		return domain.ResultadoImposto{CST: cst}
	}

	ufOrigem := emitente.Endereco.UF
	ufDestino := destinatario.Endereco.UF

	var aliquota float64
	if ufOrigem != ufDestino && ufDestino != "" {
		aliquota = catalogo.AliquotaInterestadual(ufOrigem, ufDestino)
	} else {
		aliquota = catalogo.AliquotaInternaUF(ufOrigem)
	}

	base := baseItem(item)
	return domain.ResultadoImposto{
		BaseCalculo: base,
		Aliquota:    aliquota,
		Valor:       round(base*aliquota/100, 2),
		CST:         cst,
	}
}
