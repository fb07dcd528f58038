// internal/core/fiscal/validador.go
package fiscal

import (
	"fmt"
	"math"
	"regexp"

	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

// toleranciaTotais é a divergência de centavos aceita entre os totais
// declarados e os recalculados antes de emitir aviso.
const toleranciaTotais = 0.01

var naoDigitoRegex = regexp.MustCompile(`\D`)

func somenteDigitos(s string) string {
	return naoDigitoRegex.ReplaceAllString(s, "")
}

// validar faz a checagem estrutural da nota sem mutá-la. Erros bloqueiam a
// finalização; avisos são informativos e nunca suprimidos.
func validar(nota *domain.NotaFiscal) domain.ResultadoValidacao {
	var erros []domain.ErroValidacao
	var avisos []domain.AvisoValidacao

	erro := func(campo, mensagem, codigo string) {
		erros = append(erros, domain.ErroValidacao{Campo: campo, Mensagem: mensagem, Codigo: codigo})
	}
	aviso := func(campo, mensagem string) {
		avisos = append(avisos, domain.AvisoValidacao{Campo: campo, Mensagem: mensagem})
	}

	if nota.Numero == "" {
		erro("numero", "Número da nota não informado", "NF001")
	}
	if nota.Serie == "" {
		erro("serie", "Série da nota não informada", "NF002")
	}
	if nota.DataEmissao.IsZero() {
		erro("data_emissao", "Data de emissão não informada", "NF003")
	}
	if nota.NaturezaOperacao == "" {
		erro("natureza_operacao", "Natureza da operação não informada", "NF004")
	}

	validarParte(nota.Emitente, "emitente", erro, aviso)
	validarParte(nota.Destinatario, "destinatario", erro, aviso)

	if len(nota.Itens) == 0 {
		erro("itens", "A nota não possui itens", "NF010")
	}

	for i := range nota.Itens {
		item := &nota.Itens[i]
		prefixo := fmt.Sprintf("itens[%d]", i)

		if item.Quantidade <= 0 {
			erro(prefixo+".quantidade", "Quantidade deve ser maior que zero", "IT001")
		}
		if item.ValorUnitario <= 0 {
			erro(prefixo+".valor_unitario", "Valor unitário deve ser maior que zero", "IT002")
		}

		switch item.Tipo {
		case domain.ItemServico:
			if !catalogo.CodigoServicoValido(item.CodigoServico) {
				erro(prefixo+".codigo_servico", "Código de serviço não informado", "IT010")
			}
		default:
			if !catalogo.NCMValido(item.NCM) {
				erro(prefixo+".ncm", "NCM deve ter exatamente 8 dígitos", "IT020")
			}
			if !catalogo.CFOPValido(item.CFOP, nota.Operacao) {
				erro(prefixo+".cfop", fmt.Sprintf("CFOP inválido ou incompatível com operação de %s", nota.Operacao), "IT021")
			}
		}
	}

	recalculados := calcularTotais(nota)
	if math.Abs(recalculados.ValorTotal-nota.Totais.ValorTotal) > toleranciaTotais {
		aviso("totais.valor_total", fmt.Sprintf(
			"Total declarado (%.2f) diverge do recalculado (%.2f)",
			nota.Totais.ValorTotal, recalculados.ValorTotal))
	}

	return domain.ResultadoValidacao{
		Valida: len(erros) == 0,
		Erros:  erros,
		Avisos: avisos,
	}
}

func validarParte(parte domain.DadosFiscaisPessoa, campo string, erro func(string, string, string), aviso func(string, string)) {
	doc := somenteDigitos(parte.CpfCnpj)
	if len(doc) != 11 && len(doc) != 14 {
		erro(campo+".cpf_cnpj", "CPF/CNPJ deve ter 11 ou 14 dígitos", "PE001")
	}

	if parte.InscricaoEstadual != "" {
		ie := somenteDigitos(parte.InscricaoEstadual)
		if len(ie) < 8 || len(ie) > 14 {
			aviso(campo+".inscricao_estadual", "Inscrição estadual com tamanho suspeito")
		}
	}
}
