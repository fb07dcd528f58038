package fiscal

import (
	"context"
	"testing"
	"time"

	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
)

func temErro(resultado domain.ResultadoValidacao, campo string) bool {
	for _, e := range resultado.Erros {
		if e.Campo == campo {
			return true
		}
	}
	return false
}

func temAviso(resultado domain.ResultadoValidacao, campo string) bool {
	for _, a := range resultado.Avisos {
		if a.Campo == campo {
			return true
		}
	}
	return false
}

func TestValidarNotaCompleta(t *testing.T) {
	svc := NewService(nil, nil)
	nota := notaDeTeste()

	if _, err := svc.RecalcularNota(context.Background(), nota, domain.RegimeLucroPresumido); err != nil {
		t.Fatalf("Erro ao preparar a nota: %v", err)
	}

	resultado, err := svc.ValidarNota(context.Background(), nota)
	if err != nil {
		t.Fatalf("Erro ao validar: %v", err)
	}
	if !resultado.Valida {
		t.Errorf("Nota completa deveria ser válida; erros: %+v", resultado.Erros)
	}
	if len(resultado.Avisos) != 0 {
		t.Errorf("Nota recalculada não deveria gerar avisos, obteve %+v", resultado.Avisos)
	}
}

func TestValidarNotaCamposObrigatorios(t *testing.T) {
	svc := NewService(nil, nil)
	nota := notaDeTeste()
	nota.Numero = ""
	nota.Serie = ""
	nota.DataEmissao = time.Time{}
	nota.NaturezaOperacao = ""
	nota.Itens = nil

	resultado, err := svc.ValidarNota(context.Background(), nota)
	if err != nil {
		t.Fatalf("Erro ao validar: %v", err)
	}
	if resultado.Valida {
		t.Fatal("Nota sem campos obrigatórios não pode ser válida")
	}

	for _, campo := range []string{"numero", "serie", "data_emissao", "natureza_operacao", "itens"} {
		if !temErro(resultado, campo) {
			t.Errorf("Esperava erro no campo %q; erros: %+v", campo, resultado.Erros)
		}
	}
}

func TestValidarNotaItens(t *testing.T) {
	svc := NewService(nil, nil)

	t.Run("NCM curto é bloqueante no item certo", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Itens[0].NCM = "123"

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if resultado.Valida {
			t.Fatal("NCM de 3 dígitos não pode passar")
		}
		if !temErro(resultado, "itens[0].ncm") {
			t.Errorf("Esperava erro em itens[0].ncm; erros: %+v", resultado.Erros)
		}
	})

	t.Run("CFOP de entrada em nota de saída", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Itens[0].CFOP = "1102"

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if !temErro(resultado, "itens[0].cfop") {
			t.Errorf("CFOP 1102 é incompatível com saída; erros: %+v", resultado.Erros)
		}
	})

	t.Run("Serviço sem código de serviço", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Itens[1].CodigoServico = ""

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if !temErro(resultado, "itens[1].codigo_servico") {
			t.Errorf("Esperava erro em itens[1].codigo_servico; erros: %+v", resultado.Erros)
		}
	})

	t.Run("Serviço não exige NCM nem CFOP", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Itens[1].NCM = ""
		nota.Itens[1].CFOP = ""

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if temErro(resultado, "itens[1].ncm") || temErro(resultado, "itens[1].cfop") {
			t.Errorf("Item de serviço não deveria exigir NCM/CFOP; erros: %+v", resultado.Erros)
		}
	})

	t.Run("Quantidade e valor unitário positivos", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Itens[0].Quantidade = 0
		nota.Itens[0].ValorUnitario = -1

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if !temErro(resultado, "itens[0].quantidade") {
			t.Errorf("Quantidade zero deveria bloquear; erros: %+v", resultado.Erros)
		}
		if !temErro(resultado, "itens[0].valor_unitario") {
			t.Errorf("Valor unitário negativo deveria bloquear; erros: %+v", resultado.Erros)
		}
	})
}

func TestValidarNotaPartes(t *testing.T) {
	svc := NewService(nil, nil)

	t.Run("CNPJ com máscara passa", func(t *testing.T) {
		nota := notaDeTeste()
		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if temErro(resultado, "emitente.cpf_cnpj") {
			t.Errorf("CNPJ formatado deveria ser aceito; erros: %+v", resultado.Erros)
		}
	})

	t.Run("Documento de tamanho errado bloqueia", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Destinatario.CpfCnpj = "123456"

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if !temErro(resultado, "destinatario.cpf_cnpj") {
			t.Errorf("Documento de 6 dígitos deveria bloquear; erros: %+v", resultado.Erros)
		}
	})

	t.Run("CPF de 11 dígitos passa", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Destinatario.CpfCnpj = "123.456.789-09"

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if temErro(resultado, "destinatario.cpf_cnpj") {
			t.Errorf("CPF de 11 dígitos deveria ser aceito; erros: %+v", resultado.Erros)
		}
	})

	t.Run("Inscrição estadual curta só avisa", func(t *testing.T) {
		nota := notaDeTeste()
		nota.Emitente.InscricaoEstadual = "123"

		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if temErro(resultado, "emitente.inscricao_estadual") {
			t.Error("IE curta não pode ser bloqueante")
		}
		if !temAviso(resultado, "emitente.inscricao_estadual") {
			t.Errorf("IE curta deveria gerar aviso; avisos: %+v", resultado.Avisos)
		}
	})
}

func TestValidarNotaTotaisDivergentes(t *testing.T) {
	svc := NewService(nil, nil)
	nota := notaDeTeste()
	if _, err := svc.RecalcularNota(context.Background(), nota, domain.RegimeLucroPresumido); err != nil {
		t.Fatalf("Erro ao preparar a nota: %v", err)
	}
	nota.Totais.ValorTotal += 5

	resultado, err := svc.ValidarNota(context.Background(), nota)
	if err != nil {
		t.Fatalf("Erro ao validar: %v", err)
	}
	if !resultado.Valida {
		t.Error("Divergência de totais não pode bloquear, apenas avisar")
	}
	if !temAviso(resultado, "totais.valor_total") {
		t.Errorf("Esperava aviso de divergência de totais; avisos: %+v", resultado.Avisos)
	}

	t.Run("Divergência dentro da tolerância passa limpa", func(t *testing.T) {
		nota.Totais.ValorTotal -= 5
		nota.Totais.ValorTotal += 0.005
		resultado, _ := svc.ValidarNota(context.Background(), nota)
		if temAviso(resultado, "totais.valor_total") {
			t.Error("Meio centavo está dentro da tolerância")
		}
	})
}

func TestValidarNotaNaoMuta(t *testing.T) {
	svc := NewService(nil, nil)
	nota := notaDeTeste()
	nota.RevalidacaoPendente = true
	antes := nota.Totais

	if _, err := svc.ValidarNota(context.Background(), nota); err != nil {
		t.Fatalf("Erro ao validar: %v", err)
	}
	if nota.Totais != antes {
		t.Error("Validação não pode alterar os totais da nota")
	}
	if nota.Itens[0].Impostos.Mercadoria != nil {
		t.Error("Validação não pode calcular tributos")
	}
}
