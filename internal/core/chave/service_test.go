package chave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// storeStub devolve respostas fixas para a consulta de numeração.
type storeStub struct {
	ultimo string
	err    error
}

func (s *storeStub) UltimoNumeroDaSerie(_ context.Context, _, _ string) (string, error) {
	return s.ultimo, s.err
}

func TestDigitoVerificador(t *testing.T) {
	svc := NewService(nil)

	casos := []struct {
		nome     string
		chave43  string
		esperado int
	}{
		{"Chave de São Paulo", "3526011234567800019565001000000123112345678", 8},
		{"Chave do Rio Grande do Sul", "4325120009988700016065012000045001955443322", 3},
		{"Resto 0 ou 1 resulta em dígito 0", "3526011234567800019565001000000123100000000", 0},
	}

	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			dv, err := svc.DigitoVerificador(caso.chave43)
			if err != nil {
				t.Fatalf("Erro ao calcular o dígito: %v", err)
			}
			if dv != caso.esperado {
				t.Errorf("Esperava dígito %d, obteve %d", caso.esperado, dv)
			}
		})
	}

	t.Run("Tamanho errado", func(t *testing.T) {
		if _, err := svc.DigitoVerificador("123"); err == nil {
			t.Error("Chave de 3 dígitos deveria falhar")
		}
	})

	t.Run("Caractere não numérico", func(t *testing.T) {
		chave := "35260112345678000195650010000001231123456X8"
		if _, err := svc.DigitoVerificador(chave); err == nil {
			t.Error("Letra na chave deveria falhar")
		}
	})
}

func TestGerarChaveNFCe(t *testing.T) {
	svc := NewService(nil)
	dados := DadosChave{
		UF:              "SP",
		DataEmissao:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		CnpjEmitente:    "12.345.678/0001-95",
		Serie:           "1",
		Numero:          "123",
		TipoEmissao:     1,
		CodigoAleatorio: "12345678",
	}

	chave, err := svc.GerarChaveNFCe(dados)
	if err != nil {
		t.Fatalf("Erro ao gerar a chave: %v", err)
	}
	if len(chave) != 44 {
		t.Fatalf("Chave deveria ter 44 dígitos, obteve %d", len(chave))
	}
	if chave != "35260112345678000195650010000001231123456788" {
		t.Errorf("Chave inesperada: %s", chave)
	}

	t.Run("Determinística com código aleatório fixo", func(t *testing.T) {
		outra, err := svc.GerarChaveNFCe(dados)
		if err != nil {
			t.Fatalf("Erro ao gerar a chave: %v", err)
		}
		if outra != chave {
			t.Errorf("Mesmas entradas produziram chaves distintas: %s e %s", chave, outra)
		}
	})

	t.Run("Código aleatório sorteado quando vazio", func(t *testing.T) {
		dados := dados
		dados.CodigoAleatorio = ""
		chave, err := svc.GerarChaveNFCe(dados)
		if err != nil {
			t.Fatalf("Erro ao gerar a chave: %v", err)
		}
		if len(chave) != 44 {
			t.Errorf("Chave com 44 dígitos esperada, obteve %d", len(chave))
		}
		if !strings.HasPrefix(chave, "3526011234567800019565001000000123") {
			t.Errorf("Prefixo estrutural da chave alterado: %s", chave)
		}
	})

	t.Run("UF desconhecida", func(t *testing.T) {
		dados := dados
		dados.UF = "XX"
		if _, err := svc.GerarChaveNFCe(dados); err == nil {
			t.Error("UF inexistente deveria falhar")
		}
	})

	t.Run("Número maior que o campo", func(t *testing.T) {
		dados := dados
		dados.Numero = "1234567890"
		if _, err := svc.GerarChaveNFCe(dados); err == nil {
			t.Error("Número de 10 dígitos não cabe no campo de 9")
		}
	})

	t.Run("Tipo de emissão fora do intervalo", func(t *testing.T) {
		dados := dados
		dados.TipoEmissao = 0
		if _, err := svc.GerarChaveNFCe(dados); err == nil {
			t.Error("Tipo de emissão 0 deveria falhar")
		}
	})
}

func TestPayloadQRContingencia(t *testing.T) {
	svc := NewService(nil)
	chave := "35260112345678000195650010000001231123456788"
	emissao := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	payload, err := svc.PayloadQRContingencia(chave, emissao, 1450.00)
	if err != nil {
		t.Fatalf("Erro ao montar o payload: %v", err)
	}

	partes := strings.Split(payload, "|")
	if len(partes) != 4 {
		t.Fatalf("Payload deveria ter 4 campos, obteve %d: %s", len(partes), payload)
	}
	if partes[0] != chave || partes[1] != "2" || partes[2] != "1" {
		t.Errorf("Cabeçalho do payload inesperado: %s", payload)
	}
	if len(partes[3]) != 64 {
		t.Errorf("Fragmento SHA-256 deveria ter 64 hex, obteve %d", len(partes[3]))
	}

	t.Run("Mesmo conteúdo, mesmo fragmento", func(t *testing.T) {
		outro, _ := svc.PayloadQRContingencia(chave, emissao, 1450.00)
		if outro != payload {
			t.Error("Payload deveria ser determinístico")
		}
	})

	t.Run("Valor diferente muda o fragmento", func(t *testing.T) {
		outro, _ := svc.PayloadQRContingencia(chave, emissao, 1450.01)
		if outro == payload {
			t.Error("Valor alterado deveria mudar o fragmento de integridade")
		}
	})

	t.Run("Chave incompleta", func(t *testing.T) {
		if _, err := svc.PayloadQRContingencia(chave[:43], emissao, 10); err == nil {
			t.Error("Chave de 43 dígitos deveria falhar no QR")
		}
	})
}

func TestProximoNumero(t *testing.T) {
	ctx := context.Background()

	casos := []struct {
		nome     string
		store    DocumentStore
		esperado string
	}{
		{"Sem store cai no primeiro", nil, "000000001"},
		{"Erro de consulta cai no primeiro", &storeStub{err: errors.New("indisponível")}, "000000001"},
		{"Série nova cai no primeiro", &storeStub{ultimo: ""}, "000000001"},
		{"Último número ilegível cai no primeiro", &storeStub{ultimo: "abc"}, "000000001"},
		{"Incrementa preservando o preenchimento", &storeStub{ultimo: "000000041"}, "000000042"},
		{"Aceita número sem zeros à esquerda", &storeStub{ultimo: "41"}, "000000042"},
	}

	for _, caso := range casos {
		t.Run(caso.nome, func(t *testing.T) {
			svc := NewService(caso.store)
			obtido := svc.ProximoNumero(ctx, "tenant-1", "001")
			if obtido != caso.esperado {
				t.Errorf("Esperava %q, obteve %q", caso.esperado, obtido)
			}
		})
	}
}
