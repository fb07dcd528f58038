// internal/core/catalogo/catalogo.go
package catalogo

import (
	"regexp"

	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// Tabelas estáticas da legislação. Nenhuma função deste pacote retorna
// erro: consulta sem correspondência devolve zero ou nil e o chamador
// aplica o padrão seguro.

// AliquotaInternaPadrao é usada quando a UF não consta na tabela.
const AliquotaInternaPadrao = 18.0

// AliquotaISSPadrao vale enquanto o município não tiver alíquota carregada.
const AliquotaISSPadrao = 5.0

// CSTPadrao e CSOSNPadrao são os códigos atribuídos quando o operador não
// escolheu um manualmente.
const (
	CSTPadrao   = "00"
	CSOSNPadrao = "102"
)

// cfopsConhecidos reúne os códigos de natureza de operação aceitos.
var cfopsConhecidos = map[string]bool{
	// entradas
	"1101": true, "1102": true, "1111": true, "1113": true, "1116": true,
	"1201": true, "1202": true, "1403": true, "1411": true, "1556": true,
	"1949": true,
	"2101": true, "2102": true, "2201": true, "2202": true, "2403": true,
	"2411": true, "2551": true, "2949": true,
	"3101": true, "3102": true, "3949": true,
	// saídas
	"5101": true, "5102": true, "5103": true, "5109": true, "5116": true,
	"5201": true, "5202": true, "5403": true, "5405": true, "5411": true,
	"5551": true, "5929": true, "5949": true,
	"6101": true, "6102": true, "6107": true, "6108": true, "6201": true,
	"6202": true, "6403": true, "6404": true, "6949": true,
	"7101": true, "7102": true, "7949": true,
}

// CFOPValido verifica o código contra a tabela e contra a direção da
// operação: 1/2/3 iniciam entradas, 5/6/7 iniciam saídas.
func CFOPValido(cfop string, operacao domain.TipoOperacao) bool {
	if len(cfop) != 4 || !cfopsConhecidos[cfop] {
		return false
	}
	switch operacao {
	case domain.OperacaoEntrada:
		return cfop[0] == '1' || cfop[0] == '2' || cfop[0] == '3'
	case domain.OperacaoSaida:
		return cfop[0] == '5' || cfop[0] == '6' || cfop[0] == '7'
	}
	return false
}

var cstsValidos = map[string]bool{
	"00": true, "10": true, "20": true, "30": true, "40": true, "41": true,
	"50": true, "51": true, "60": true, "70": true, "90": true,
}

var csosnsValidos = map[string]bool{
	"101": true, "102": true, "103": true, "201": true, "202": true,
	"203": true, "300": true, "400": true, "500": true, "900": true,
}

// cstsSemTributacao zera base, alíquota e valor do ICMS próprio.
var cstsSemTributacao = map[string]bool{
	"40": true, "41": true, "50": true, "60": true,
}

// SituacaoTributariaValida aceita CSOSN no Simples e CST nos demais regimes.
func SituacaoTributariaValida(codigo string, regime domain.RegimeTributario) bool {
	if regime == domain.RegimeSimplesNacional {
		return csosnsValidos[codigo]
	}
	return cstsValidos[codigo]
}

// CSTSemTributacao indica os códigos isentos/não tributados/suspensos.
func CSTSemTributacao(cst string) bool {
	return cstsSemTributacao[cst]
}

var ncmRegex = regexp.MustCompile(`^\d{8}$`)

// NCMValido exige exatamente oito dígitos para mercadorias.
func NCMValido(ncm string) bool {
	return ncmRegex.MatchString(ncm)
}

// CodigoServicoValido exige apenas não-vazio; a lista municipal completa é
// responsabilidade da prefeitura.
func CodigoServicoValido(codigo string) bool {
	return codigo != ""
}

// aliquotasInternas traz as UFs cuja alíquota interna difere (ou confirma)
// o padrão de 18%.
var aliquotasInternas = map[string]float64{
	"AC": 19, "AL": 19, "AM": 20, "AP": 18, "BA": 20.5, "CE": 20,
	"DF": 20, "ES": 17, "GO": 19, "MA": 22, "MG": 18, "MS": 17,
	"MT": 17, "PA": 19, "PB": 20, "PE": 20.5, "PI": 21, "PR": 19.5,
	"RJ": 20, "RN": 18, "RO": 19.5, "RR": 20, "RS": 17, "SC": 17,
	"SE": 19, "SP": 18, "TO": 20,
}

// AliquotaInternaUF retorna a alíquota interna de ICMS da UF, com o padrão
// de 18% para UF desconhecida.
func AliquotaInternaUF(uf string) float64 {
	if aliq, ok := aliquotasInternas[uf]; ok {
		return aliq
	}
	return AliquotaInternaPadrao
}

// Resolução 22/89: saída do Sul/Sudeste (exceto ES) para
// Norte/Nordeste/Centro-Oeste ou ES paga 7%; as demais interestaduais, 12%.
var origemSulSudeste = map[string]bool{
	"MG": true, "PR": true, "RJ": true, "RS": true, "SC": true, "SP": true,
}

var destinoFavorecido = map[string]bool{
	"AC": true, "AL": true, "AM": true, "AP": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MS": true, "MT": true,
	"PA": true, "PB": true, "PE": true, "PI": true, "RN": true, "RO": true,
	"RR": true, "SE": true, "TO": true,
}

// AliquotaInterestadual aplica o modelo de duas faixas. A terceira faixa
// real (4% para conteúdo importado, Resolução 13/2012) depende da FCI do
// produto e fica como ponto de extensão até existir a tabela.
func AliquotaInterestadual(ufOrigem, ufDestino string) float64 {
	if origemSulSudeste[ufOrigem] && destinoFavorecido[ufDestino] {
		return 7
	}
	return 12
}

// AliquotasPisCofins centraliza o par de alíquotas por regime, de modo que
// o calculador seja só consulta e multiplicação.
type AliquotasPisCofins struct {
	PIS    float64
	COFINS float64
}

var pisCofinsPorRegime = map[domain.RegimeTributario]AliquotasPisCofins{
	domain.RegimeSimplesNacional: {PIS: 0, COFINS: 0},
	domain.RegimeLucroPresumido:  {PIS: 0.65, COFINS: 3.00},
	domain.RegimeLucroReal:       {PIS: 1.65, COFINS: 7.60},
}

// AliquotasPisCofinsDoRegime devolve o par do regime; regime desconhecido
// devolve zeros.
func AliquotasPisCofinsDoRegime(regime domain.RegimeTributario) AliquotasPisCofins {
	return pisCofinsPorRegime[regime]
}

// capituloNCMBebidas ancora a única alíquota de IPI tabelada até hoje.
const capituloNCMBebidas = "22"

// AliquotaIPIPorNCM retorna 10% para o capítulo de bebidas e 0% para o
// restante. A TIPI completa entra aqui quando for fornecida.
func AliquotaIPIPorNCM(ncm string) float64 {
	if len(ncm) >= 2 && ncm[:2] == capituloNCMBebidas {
		return 10
	}
	return 0
}

// codigosUF são os códigos numéricos do IBGE usados na chave de acesso.
var codigosUF = map[string]string{
	"AC": "12", "AL": "27", "AM": "13", "AP": "16", "BA": "29", "CE": "23",
	"DF": "53", "ES": "32", "GO": "52", "MA": "21", "MG": "31", "MS": "50",
	"MT": "51", "PA": "15", "PB": "25", "PE": "26", "PI": "22", "PR": "41",
	"RJ": "33", "RN": "24", "RO": "11", "RR": "14", "RS": "43", "SC": "42",
	"SE": "28", "SP": "35", "TO": "17",
}

// CodigoUF devolve o código IBGE da UF ou vazio se desconhecida.
func CodigoUF(uf string) string {
	return codigosUF[uf]
}

// RegraFiscal nomeia uma combinação recorrente de tipo de item, direção e
// regime, com os códigos de situação padrão dela.
type RegraFiscal struct {
	Nome        string
	TipoItem    domain.TipoItem
	Operacao    domain.TipoOperacao
	Regime      domain.RegimeTributario
	CFOP        string
	CSTPadrao   string
	CSOSNPadrao string
}

// As regras restritas por regime ou CFOP vêm antes das genéricas, porque
// a busca é de primeira correspondência.
var regrasFiscais = []RegraFiscal{
	{Nome: "venda_mercadoria_simples", TipoItem: domain.ItemMercadoria, Operacao: domain.OperacaoSaida, Regime: domain.RegimeSimplesNacional, CSOSNPadrao: CSOSNPadrao},
	{Nome: "venda_mercadoria_st", TipoItem: domain.ItemMercadoria, Operacao: domain.OperacaoSaida, CFOP: "5405", CSTPadrao: "60"},
	{Nome: "devolucao_compra", TipoItem: domain.ItemMercadoria, Operacao: domain.OperacaoSaida, CFOP: "5201", CSTPadrao: CSTPadrao},
	{Nome: "venda_mercadoria_normal", TipoItem: domain.ItemMercadoria, Operacao: domain.OperacaoSaida, CSTPadrao: CSTPadrao},
	{Nome: "compra_mercadoria", TipoItem: domain.ItemMercadoria, Operacao: domain.OperacaoEntrada, CSTPadrao: CSTPadrao},
	{Nome: "prestacao_servico", TipoItem: domain.ItemServico, Operacao: domain.OperacaoSaida, CSTPadrao: CSTPadrao},
}

// RegraPara devolve a primeira regra compatível com tipo+direção,
// restringida pelo regime e pelo CFOP quando presentes, ou nil.
func RegraPara(tipo domain.TipoItem, operacao domain.TipoOperacao, regime domain.RegimeTributario, cfop string) *RegraFiscal {
	for i := range regrasFiscais {
		r := &regrasFiscais[i]
		if r.TipoItem != tipo || r.Operacao != operacao {
			continue
		}
		if r.Regime != "" && r.Regime != regime {
			continue
		}
		if r.CFOP != "" && cfop != "" && r.CFOP != cfop {
			continue
		}
		if r.CFOP != "" && cfop == "" {
			continue
		}
		return r
	}
	return nil
}
