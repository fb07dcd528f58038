// internal/core/chave/service.go
//
// Geração dos identificadores exigidos pela autoridade para a NFC-e
// (modelo 65): chave de acesso de 44 dígitos com dígito verificador
// módulo 11, payload de QR Code para emissão em contingência e numeração
// sequencial por série.
package chave

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
)

// ModeloNFCe é o código de modelo fixo do documento de ponto de venda.
const ModeloNFCe = "65"

// DocumentStore é o colaborador somente-leitura que informa o último
// número emitido de uma série. A loja de documentos é a autoridade; o
// gerador nunca escreve nela.
type DocumentStore interface {
	UltimoNumeroDaSerie(ctx context.Context, tenantID, serie string) (string, error)
}

// DadosChave reúne os campos que compõem a chave de acesso. Código
// aleatório vazio é sorteado na geração.
type DadosChave struct {
	UF              string
	DataEmissao     time.Time
	CnpjEmitente    string
	Serie           string
	Numero          string
	TipoEmissao     int
	CodigoAleatorio string
}

type Service interface {
	GerarChaveNFCe(dados DadosChave) (string, error)
	DigitoVerificador(chave43 string) (int, error)
	PayloadQRContingencia(chave string, dataEmissao time.Time, valorTotal float64) (string, error)
	ProximoNumero(ctx context.Context, tenantID, serie string) string
}

type service struct {
	store DocumentStore
}

// NewService cria o gerador. O store pode ser nil quando a numeração
// sequencial não for usada.
func NewService(store DocumentStore) Service {
	return &service{store: store}
}

var naoDigitoRegex = regexp.MustCompile(`\D`)

// pesos cíclicos do módulo 11 aplicados aos 43 dígitos, da esquerda para
// a direita.
var pesosDV = [8]int{4, 3, 2, 9, 8, 7, 6, 5}

// DigitoVerificador calcula o dígito módulo 11 dos 43 dígitos da chave:
// resto 0 ou 1 resulta em dígito 0, caso contrário 11 − resto.
func (s *service) DigitoVerificador(chave43 string) (int, error) {
	if len(chave43) != 43 {
		return 0, fmt.Errorf("chave parcial deve ter 43 dígitos, recebeu %d", len(chave43))
	}

	soma := 0
	for i, c := range chave43 {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("chave parcial contém caractere não numérico na posição %d", i)
		}
		soma += int(c-'0') * pesosDV[i%8]
	}

	resto := soma % 11
	if resto == 0 || resto == 1 {
		return 0, nil
	}
	return 11 - resto, nil
}

// GerarChaveNFCe monta os 43 dígitos — UF(2) + AAMM(4) + CNPJ(14) +
// modelo(2) + série(3) + número(9) + tipo de emissão(1) + aleatório(8) —
// e anexa o dígito verificador.
func (s *service) GerarChaveNFCe(dados DadosChave) (string, error) {
	codigoUF := catalogo.CodigoUF(dados.UF)
	if codigoUF == "" {
		return "", fmt.Errorf("UF desconhecida: %q", dados.UF)
	}
	if dados.DataEmissao.IsZero() {
		return "", fmt.Errorf("data de emissão não informada")
	}

	cnpj := naoDigitoRegex.ReplaceAllString(dados.CnpjEmitente, "")
	cnpj, err := padraoNumerico(cnpj, 14, "CNPJ do emitente")
	if err != nil {
		return "", err
	}
	serie, err := padraoNumerico(naoDigitoRegex.ReplaceAllString(dados.Serie, ""), 3, "série")
	if err != nil {
		return "", err
	}
	numero, err := padraoNumerico(naoDigitoRegex.ReplaceAllString(dados.Numero, ""), 9, "número")
	if err != nil {
		return "", err
	}
	if dados.TipoEmissao < 1 || dados.TipoEmissao > 9 {
		return "", fmt.Errorf("tipo de emissão fora do intervalo 1-9: %d", dados.TipoEmissao)
	}

	aleatorio := dados.CodigoAleatorio
	if aleatorio == "" {
		aleatorio = fmt.Sprintf("%08d", rand.Intn(100000000))
	}
	aleatorio, err = padraoNumerico(aleatorio, 8, "código aleatório")
	if err != nil {
		return "", err
	}

	chave43 := codigoUF +
		dados.DataEmissao.Format("0601") +
		cnpj +
		ModeloNFCe +
		serie +
		numero +
		strconv.Itoa(dados.TipoEmissao) +
		aleatorio

	dv, err := s.DigitoVerificador(chave43)
	if err != nil {
		return "", err
	}
	return chave43 + strconv.Itoa(dv), nil
}

// PayloadQRContingencia monta o conteúdo do QR Code impresso quando não
// há autorização online: chave, versão do layout, ambiente de produção e
// um fragmento de integridade SHA-256 sobre chave+emissão+valor.
func (s *service) PayloadQRContingencia(chave string, dataEmissao time.Time, valorTotal float64) (string, error) {
	if len(chave) != 44 {
		return "", fmt.Errorf("chave de acesso deve ter 44 dígitos, recebeu %d", len(chave))
	}

	conteudo := fmt.Sprintf("%s|%s|%.2f", chave, dataEmissao.Format("20060102T150405"), valorTotal)
	hash := sha256.Sum256([]byte(conteudo))
	return fmt.Sprintf("%s|2|1|%s", chave, hex.EncodeToString(hash[:])), nil
}

// ProximoNumero consulta o último número emitido da série e devolve o
// seguinte com 9 dígitos. Qualquer falha de consulta cai em "000000001":
// a loja é autoritativa e uma eventual colisão é barrada pela autoridade
// na transmissão, não aqui.
func (s *service) ProximoNumero(ctx context.Context, tenantID, serie string) string {
	const primeiro = "000000001"
	if s.store == nil {
		return primeiro
	}

	ultimo, err := s.store.UltimoNumeroDaSerie(ctx, tenantID, serie)
	if err != nil || ultimo == "" {
		return primeiro
	}
	n, err := strconv.Atoi(strings.TrimSpace(ultimo))
	if err != nil || n < 0 {
		return primeiro
	}
	return fmt.Sprintf("%09d", n+1)
}

func padraoNumerico(s string, tamanho int, campo string) (string, error) {
	if len(s) > tamanho {
		return "", fmt.Errorf("%s excede %d dígitos: %q", campo, tamanho, s)
	}
	return strings.Repeat("0", tamanho-len(s)) + s, nil
}
