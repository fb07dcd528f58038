// internal/domain/projecao.go
package domain

import "encoding/xml"

// Projeção mínima aceita pelas autoridades: cabeçalho + itens com o
// detalhamento de tributos. Namespaces e ordenação completa de elementos
// ficam a cargo do gerador de XML a jusante.

type ProjecaoIde struct {
	Modelo      string `xml:"mod" json:"modelo"`
	Serie       string `xml:"serie" json:"serie"`
	Numero      string `xml:"nNF" json:"numero"`
	DataEmissao string `xml:"dhEmi" json:"data_emissao"`
	NatOperacao string `xml:"natOp" json:"natureza_operacao"`
}

type ProjecaoParte struct {
	CpfCnpj         string `xml:"CNPJ" json:"cpf_cnpj"`
	RazaoSocial     string `xml:"xNome" json:"razao_social"`
	UF              string `xml:"UF" json:"uf"`
	CodigoMunicipio string `xml:"cMun" json:"codigo_municipio"`
}

type ProjecaoImposto struct {
	Nome        string  `xml:"nome" json:"nome"`
	BaseCalculo float64 `xml:"vBC" json:"base_calculo"`
	Aliquota    float64 `xml:"pAliq" json:"aliquota"`
	Valor       float64 `xml:"vTrib" json:"valor"`
	CST         string  `xml:"CST,omitempty" json:"cst,omitempty"`
	CSOSN       string  `xml:"CSOSN,omitempty" json:"csosn,omitempty"`
	Retido      bool    `xml:"vRet,omitempty" json:"retido,omitempty"`
}

type ProjecaoItem struct {
	Sequencia     int               `xml:"nItem,attr" json:"sequencia"`
	Codigo        string            `xml:"cProd" json:"codigo"`
	Descricao     string            `xml:"xProd" json:"descricao"`
	NCM           string            `xml:"NCM,omitempty" json:"ncm,omitempty"`
	CodigoServico string            `xml:"cServ,omitempty" json:"codigo_servico,omitempty"`
	CFOP          string            `xml:"CFOP,omitempty" json:"cfop,omitempty"`
	Unidade       string            `xml:"uCom" json:"unidade"`
	Quantidade    float64           `xml:"qCom" json:"quantidade"`
	ValorUnitario float64           `xml:"vUnCom" json:"valor_unitario"`
	ValorTotal    float64           `xml:"vProd" json:"valor_total"`
	Impostos      []ProjecaoImposto `xml:"imposto>trib" json:"impostos"`
}

type ProjecaoTotais struct {
	ValorProdutos float64 `xml:"vProd" json:"valor_produtos"`
	ValorServicos float64 `xml:"vServ" json:"valor_servicos"`
	Descontos     float64 `xml:"vDesc" json:"descontos"`
	ValorICMS     float64 `xml:"vICMS" json:"valor_icms"`
	ValorICMSST   float64 `xml:"vST" json:"valor_icms_st"`
	ValorIPI      float64 `xml:"vIPI" json:"valor_ipi"`
	ValorPIS      float64 `xml:"vPIS" json:"valor_pis"`
	ValorCOFINS   float64 `xml:"vCOFINS" json:"valor_cofins"`
	ValorISS      float64 `xml:"vISS" json:"valor_iss"`
	ValorNota     float64 `xml:"vNF" json:"valor_nota"`
}

// ProjecaoNota é o documento pronto para serialização em JSON ou XML,
// sempre homogêneo: uma nota mista é dividida antes da projeção.
type ProjecaoNota struct {
	XMLName      xml.Name       `xml:"nota" json:"-"`
	Tipo         TipoNota       `xml:"tipo,attr" json:"tipo"`
	ChaveAcesso  string         `xml:"chave,omitempty" json:"chave_acesso,omitempty"`
	Ide          ProjecaoIde    `xml:"ide" json:"ide"`
	Emitente     ProjecaoParte  `xml:"emit" json:"emitente"`
	Destinatario ProjecaoParte  `xml:"dest" json:"destinatario"`
	Itens        []ProjecaoItem `xml:"det" json:"itens"`
	Totais       ProjecaoTotais `xml:"total" json:"totais"`
}
