// internal/domain/models.go
package domain

import "time"

// RegimeTributario identifica o regime de apuração do emitente.
// Todo cálculo recebe o regime explicitamente; o motor nunca o infere.
type RegimeTributario string

const (
	RegimeSimplesNacional RegimeTributario = "simples"
	RegimeLucroPresumido  RegimeTributario = "lucro_presumido"
	RegimeLucroReal       RegimeTributario = "lucro_real"
)

// Valido informa se o valor corresponde a um dos três regimes conhecidos.
func (r RegimeTributario) Valido() bool {
	switch r {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeLucroReal:
		return true
	}
	return false
}

// TipoItem distingue mercadorias de serviços dentro de uma mesma nota.
type TipoItem string

const (
	ItemMercadoria TipoItem = "mercadoria"
	ItemServico    TipoItem = "servico"
)

// TipoNota é a classificação do documento pelo conjunto de seus itens.
type TipoNota string

const (
	NotaMercadorias TipoNota = "mercadorias"
	NotaServicos    TipoNota = "servicos"
	NotaMista       TipoNota = "mista"
)

// TipoOperacao indica a direção da operação fiscal.
type TipoOperacao string

const (
	OperacaoEntrada TipoOperacao = "entrada"
	OperacaoSaida   TipoOperacao = "saida"
)

// StatusNota acompanha o ciclo de vida do documento. O motor fiscal só
// participa até "validada"; assinatura e transmissão pertencem ao gateway.
type StatusNota string

const (
	StatusRascunho    StatusNota = "rascunho"
	StatusValidada    StatusNota = "validada"
	StatusAssinada    StatusNota = "assinada"
	StatusTransmitida StatusNota = "transmitida"
	StatusAutorizada  StatusNota = "autorizada"
	StatusCancelada   StatusNota = "cancelada"
	StatusDenegada    StatusNota = "denegada"
)

// Endereco carrega os códigos normalizados de UF e município usados
// pelos cálculos de ICMS e ISS.
type Endereco struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Bairro          string `json:"bairro"`
	Municipio       string `json:"municipio"`
	CodigoMunicipio string `json:"codigo_municipio"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// DadosFiscaisPessoa descreve emitente ou destinatário. Imutável para fins
// de cálculo depois de anexado à nota.
type DadosFiscaisPessoa struct {
	CpfCnpj            string   `json:"cpf_cnpj"`
	RazaoSocial        string   `json:"razao_social"`
	InscricaoEstadual  string   `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string   `json:"inscricao_municipal,omitempty"`
	Endereco           Endereco `json:"endereco"`
}

// ResultadoImposto é o resultado de um tributo para um item: base de
// cálculo, alíquota percentual, valor apurado e o código de situação
// aplicável ao regime (CST no regime normal, CSOSN no Simples — nunca os
// dois preenchidos ao mesmo tempo).
type ResultadoImposto struct {
	BaseCalculo float64 `json:"base_calculo"`
	Aliquota    float64 `json:"aliquota"`
	Valor       float64 `json:"valor"`
	CST         string  `json:"cst,omitempty"`
	CSOSN       string  `json:"csosn,omitempty"`
}

// ResultadoISS estende o resultado comum com a retenção na fonte.
type ResultadoISS struct {
	ResultadoImposto
	Retido bool `json:"retido"`
}

// ImpostosMercadoria agrupa os tributos de um item de mercadoria.
type ImpostosMercadoria struct {
	ICMS   ResultadoImposto `json:"icms"`
	ICMSST ResultadoImposto `json:"icms_st"`
	IPI    ResultadoImposto `json:"ipi"`
	PIS    ResultadoImposto `json:"pis"`
	COFINS ResultadoImposto `json:"cofins"`
}

// ImpostosServico agrupa os tributos de um item de serviço.
type ImpostosServico struct {
	ISS    ResultadoISS     `json:"iss"`
	PIS    ResultadoImposto `json:"pis"`
	COFINS ResultadoImposto `json:"cofins"`
}

// Impostos é a união etiquetada dos dois conjuntos de tributos:
// exatamente um dos ponteiros fica preenchido conforme o tipo do item.
type Impostos struct {
	Mercadoria *ImpostosMercadoria `json:"mercadoria,omitempty"`
	Servico    *ImpostosServico    `json:"servico,omitempty"`
}

// ItemNotaFiscal é uma linha da nota. CSTManual/CSOSNManual registram a
// escolha feita pelo operador e sobrevivem a qualquer recálculo; os campos
// calculados vivem em Impostos.
type ItemNotaFiscal struct {
	Sequencia      int      `json:"sequencia"`
	Tipo           TipoItem `json:"tipo"`
	Codigo         string   `json:"codigo"`
	Descricao      string   `json:"descricao"`
	NCM            string   `json:"ncm,omitempty"`
	CodigoServico  string   `json:"codigo_servico,omitempty"`
	CFOP           string   `json:"cfop,omitempty"`
	Unidade        string   `json:"unidade"`
	Quantidade     float64  `json:"quantidade"`
	ValorUnitario  float64  `json:"valor_unitario"`
	ValorTotal     float64  `json:"valor_total"`
	Desconto       float64  `json:"desconto"`
	Frete          float64  `json:"frete"`
	Seguro         float64  `json:"seguro"`
	OutrasDespesas float64  `json:"outras_despesas"`
	CSTManual      string   `json:"cst_manual,omitempty"`
	CSOSNManual    string   `json:"csosn_manual,omitempty"`
	Impostos       Impostos `json:"impostos"`
}

// TotaisNotaFiscal soma os valores da nota por categoria.
type TotaisNotaFiscal struct {
	ValorProdutos  float64 `json:"valor_produtos"`
	ValorServicos  float64 `json:"valor_servicos"`
	Descontos      float64 `json:"descontos"`
	Frete          float64 `json:"frete"`
	Seguro         float64 `json:"seguro"`
	OutrasDespesas float64 `json:"outras_despesas"`
	BaseICMS       float64 `json:"base_icms"`
	ValorICMS      float64 `json:"valor_icms"`
	ValorICMSST    float64 `json:"valor_icms_st"`
	ValorIPI       float64 `json:"valor_ipi"`
	ValorPIS       float64 `json:"valor_pis"`
	ValorCOFINS    float64 `json:"valor_cofins"`
	ValorISS       float64 `json:"valor_iss"`
	ValorTotal     float64 `json:"valor_total"`
}

// NotaFiscal é a raiz do agregado. O motor recebe o valor completo a cada
// chamada e devolve um valor atualizado; nenhuma referência é retida.
type NotaFiscal struct {
	ID                  string             `json:"id"`
	Tipo                TipoNota           `json:"tipo"`
	Operacao            TipoOperacao       `json:"operacao"`
	Numero              string             `json:"numero"`
	Serie               string             `json:"serie"`
	Modelo              string             `json:"modelo"`
	ChaveAcesso         string             `json:"chave_acesso,omitempty"`
	DataEmissao         time.Time          `json:"data_emissao"`
	NaturezaOperacao    string             `json:"natureza_operacao"`
	Emitente            DadosFiscaisPessoa `json:"emitente"`
	Destinatario        DadosFiscaisPessoa `json:"destinatario"`
	Itens               []ItemNotaFiscal   `json:"itens"`
	Totais              TotaisNotaFiscal   `json:"totais"`
	Status              StatusNota         `json:"status"`
	RevalidacaoPendente bool               `json:"revalidacao_pendente"`
}

// ErroValidacao aponta um problema bloqueante em um campo específico.
type ErroValidacao struct {
	Campo    string `json:"campo"`
	Mensagem string `json:"mensagem"`
	Codigo   string `json:"codigo,omitempty"`
}

// AvisoValidacao aponta uma inconsistência que não impede a finalização.
type AvisoValidacao struct {
	Campo    string `json:"campo"`
	Mensagem string `json:"mensagem"`
}

// ResultadoValidacao é imutável depois de produzido pelo validador.
type ResultadoValidacao struct {
	Valida bool             `json:"valida"`
	Erros  []ErroValidacao  `json:"erros"`
	Avisos []AvisoValidacao `json:"avisos"`
}

// Alteracao registra a mudança de um campo durante o recálculo, para o
// livro de auditoria.
type Alteracao struct {
	Campo         string  `json:"campo"`
	ValorAnterior float64 `json:"valor_anterior"`
	ValorNovo     float64 `json:"valor_novo"`
}

// ResultadoRecalculo devolve o item e os totais atualizados junto com as
// alterações detectadas. Imutável depois de produzido.
type ResultadoRecalculo struct {
	Item       ItemNotaFiscal   `json:"item"`
	Totais     TotaisNotaFiscal `json:"totais"`
	Alteracoes []Alteracao      `json:"alteracoes"`
}
