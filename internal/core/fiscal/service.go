// internal/core/fiscal/service.go
package fiscal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
	"go.uber.org/zap"
)

// RegistroAuditoria é o colaborador externo que recebe uma entrada por
// operação mutadora. A escrita é melhor-esforço: falha não desfaz nem
// contamina o cálculo em memória.
type RegistroAuditoria interface {
	AppendLog(ctx context.Context, notaID, operacao string, antes, depois interface{}) error
}

// Service é a fachada única do motor fiscal para handlers e hooks de UI.
type Service interface {
	RecalcularItem(ctx context.Context, nota *domain.NotaFiscal, sequencia int, regime domain.RegimeTributario) (domain.ResultadoRecalculo, error)
	RecalcularNota(ctx context.Context, nota *domain.NotaFiscal, regime domain.RegimeTributario) (*domain.NotaFiscal, error)
	ValidarNota(ctx context.Context, nota *domain.NotaFiscal) (domain.ResultadoValidacao, error)
	ClassificarNota(nota *domain.NotaFiscal) (domain.TipoNota, error)
	DividirNota(nota *domain.NotaFiscal) (*domain.NotaFiscal, *domain.NotaFiscal, error)
	ProjetarNota(nota *domain.NotaFiscal) ([]domain.ProjecaoNota, error)
	AtualizarTabelaISS(tabela *catalogo.TabelaISS)
}

type service struct {
	auditoria RegistroAuditoria
	logger    *zap.Logger

	mu        sync.RWMutex
	tabelaISS *catalogo.TabelaISS
}

// NewService cria a fachada. O registro de auditoria pode ser nil em
// cenários de teste; nesse caso nada é registrado.
func NewService(auditoria RegistroAuditoria, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{auditoria: auditoria, logger: logger}
}

// AtualizarTabelaISS troca a tabela municipal consultada pelo calculador
// de ISS. Única peça de estado da fachada; documentos nunca são retidos.
func (s *service) AtualizarTabelaISS(tabela *catalogo.TabelaISS) {
	s.mu.Lock()
	s.tabelaISS = tabela
	s.mu.Unlock()
}

func (s *service) tabela() *catalogo.TabelaISS {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tabelaISS
}

func (s *service) RecalcularItem(ctx context.Context, nota *domain.NotaFiscal, sequencia int, regime domain.RegimeTributario) (domain.ResultadoRecalculo, error) {
	if nota == nil {
		return domain.ResultadoRecalculo{}, errors.New("nota fiscal não informada")
	}
	if !regime.Valido() {
		return domain.ResultadoRecalculo{}, fmt.Errorf("regime tributário inválido: %q", regime)
	}

	indice := -1
	for i := range nota.Itens {
		if nota.Itens[i].Sequencia == sequencia {
			indice = i
			break
		}
	}
	if indice < 0 {
		return domain.ResultadoRecalculo{}, fmt.Errorf("item de sequência %d não encontrado na nota", sequencia)
	}

	antes := nota.Itens[indice]
	item, alteracoes := recalcularItem(antes, nota, regime, s.tabela())
	nota.Itens[indice] = item
	nota.Totais = calcularTotais(nota)
	nota.RevalidacaoPendente = true

	resultado := domain.ResultadoRecalculo{
		Item:       item,
		Totais:     nota.Totais,
		Alteracoes: alteracoes,
	}
	s.registrarAuditoria(ctx, nota.ID, "recalculo_item", antes, item)
	return resultado, nil
}

func (s *service) RecalcularNota(ctx context.Context, nota *domain.NotaFiscal, regime domain.RegimeTributario) (*domain.NotaFiscal, error) {
	if nota == nil {
		return nil, errors.New("nota fiscal não informada")
	}
	if !regime.Valido() {
		return nil, fmt.Errorf("regime tributário inválido: %q", regime)
	}
	if len(nota.Itens) == 0 {
		return nil, errors.New("nota fiscal sem itens não pode ser recalculada")
	}

	antes := nota.Totais
	for i := range nota.Itens {
		item, _ := recalcularItem(nota.Itens[i], nota, regime, s.tabela())
		nota.Itens[i] = item
	}
	nota.Totais = calcularTotais(nota)
	nota.RevalidacaoPendente = true

	s.registrarAuditoria(ctx, nota.ID, "recalculo_nota", antes, nota.Totais)
	return nota, nil
}

func (s *service) ValidarNota(ctx context.Context, nota *domain.NotaFiscal) (domain.ResultadoValidacao, error) {
	if nota == nil {
		return domain.ResultadoValidacao{}, errors.New("nota fiscal não informada")
	}

	resultado := validar(nota)
	s.registrarAuditoria(ctx, nota.ID, "validacao", nil, resultado)
	return resultado, nil
}

// ClassificarNota determina se a nota é de mercadorias, de serviços ou
// mista pelo conjunto dos tipos de item.
func (s *service) ClassificarNota(nota *domain.NotaFiscal) (domain.TipoNota, error) {
	if nota == nil {
		return "", errors.New("nota fiscal não informada")
	}

	temMercadoria := false
	temServico := false
	for i := range nota.Itens {
		if nota.Itens[i].Tipo == domain.ItemServico {
			temServico = true
		} else {
			temMercadoria = true
		}
	}

	switch {
	case temMercadoria && temServico:
		return domain.NotaMista, nil
	case temServico:
		return domain.NotaServicos, nil
	default:
		return domain.NotaMercadorias, nil
	}
}

// DividirNota separa uma nota mista em duas sub-notas homogêneas, uma por
// autoridade de destino. As sequências são renumeradas e os totais
// recompostos em cada metade.
func (s *service) DividirNota(nota *domain.NotaFiscal) (*domain.NotaFiscal, *domain.NotaFiscal, error) {
	tipo, err := s.ClassificarNota(nota)
	if err != nil {
		return nil, nil, err
	}
	if tipo != domain.NotaMista {
		return nil, nil, fmt.Errorf("somente nota mista pode ser dividida; esta é %q", tipo)
	}

	mercadorias := copiarCabecalho(nota, domain.NotaMercadorias)
	servicos := copiarCabecalho(nota, domain.NotaServicos)

	for i := range nota.Itens {
		item := nota.Itens[i]
		if item.Tipo == domain.ItemServico {
			item.Sequencia = len(servicos.Itens) + 1
			servicos.Itens = append(servicos.Itens, item)
		} else {
			item.Sequencia = len(mercadorias.Itens) + 1
			mercadorias.Itens = append(mercadorias.Itens, item)
		}
	}

	mercadorias.Totais = calcularTotais(mercadorias)
	servicos.Totais = calcularTotais(servicos)
	return mercadorias, servicos, nil
}

func copiarCabecalho(nota *domain.NotaFiscal, tipo domain.TipoNota) *domain.NotaFiscal {
	copia := *nota
	copia.Tipo = tipo
	copia.Itens = nil
	copia.ChaveAcesso = ""
	copia.Totais = domain.TotaisNotaFiscal{}
	return &copia
}

// ProjetarNota produz a projeção aceita pelas autoridades. Nota mista é
// dividida antes, já que mercadorias e serviços são recebidos por
// autoridades distintas em documentos fisicamente separados.
func (s *service) ProjetarNota(nota *domain.NotaFiscal) ([]domain.ProjecaoNota, error) {
	tipo, err := s.ClassificarNota(nota)
	if err != nil {
		return nil, err
	}
	if len(nota.Itens) == 0 {
		return nil, errors.New("nota fiscal sem itens não pode ser projetada")
	}

	if tipo == domain.NotaMista {
		mercadorias, servicos, err := s.DividirNota(nota)
		if err != nil {
			return nil, err
		}
		return []domain.ProjecaoNota{
			projetar(mercadorias, domain.NotaMercadorias),
			projetar(servicos, domain.NotaServicos),
		}, nil
	}
	return []domain.ProjecaoNota{projetar(nota, tipo)}, nil
}

func projetar(nota *domain.NotaFiscal, tipo domain.TipoNota) domain.ProjecaoNota {
	p := domain.ProjecaoNota{
		Tipo:        tipo,
		ChaveAcesso: nota.ChaveAcesso,
		Ide: domain.ProjecaoIde{
			Modelo:      nota.Modelo,
			Serie:       nota.Serie,
			Numero:      nota.Numero,
			DataEmissao: nota.DataEmissao.Format("2006-01-02T15:04:05-07:00"),
			NatOperacao: nota.NaturezaOperacao,
		},
		Emitente:     projetarParte(nota.Emitente),
		Destinatario: projetarParte(nota.Destinatario),
		Totais: domain.ProjecaoTotais{
			ValorProdutos: nota.Totais.ValorProdutos,
			ValorServicos: nota.Totais.ValorServicos,
			Descontos:     nota.Totais.Descontos,
			ValorICMS:     nota.Totais.ValorICMS,
			ValorICMSST:   nota.Totais.ValorICMSST,
			ValorIPI:      nota.Totais.ValorIPI,
			ValorPIS:      nota.Totais.ValorPIS,
			ValorCOFINS:   nota.Totais.ValorCOFINS,
			ValorISS:      nota.Totais.ValorISS,
			ValorNota:     nota.Totais.ValorTotal,
		},
	}

	for i := range nota.Itens {
		p.Itens = append(p.Itens, projetarItem(nota.Itens[i]))
	}
	return p
}

func projetarParte(parte domain.DadosFiscaisPessoa) domain.ProjecaoParte {
	return domain.ProjecaoParte{
		CpfCnpj:         somenteDigitos(parte.CpfCnpj),
		RazaoSocial:     parte.RazaoSocial,
		UF:              parte.Endereco.UF,
		CodigoMunicipio: parte.Endereco.CodigoMunicipio,
	}
}

func projetarItem(item domain.ItemNotaFiscal) domain.ProjecaoItem {
	p := domain.ProjecaoItem{
		Sequencia:     item.Sequencia,
		Codigo:        item.Codigo,
		Descricao:     item.Descricao,
		NCM:           item.NCM,
		CodigoServico: item.CodigoServico,
		CFOP:          item.CFOP,
		Unidade:       item.Unidade,
		Quantidade:    item.Quantidade,
		ValorUnitario: item.ValorUnitario,
		ValorTotal:    item.ValorTotal,
	}

	trib := func(nome string, r domain.ResultadoImposto) domain.ProjecaoImposto {
		return domain.ProjecaoImposto{
			Nome:        nome,
			BaseCalculo: r.BaseCalculo,
			Aliquota:    r.Aliquota,
			Valor:       r.Valor,
			CST:         r.CST,
			CSOSN:       r.CSOSN,
		}
	}

	switch {
	case item.Impostos.Mercadoria != nil:
		m := item.Impostos.Mercadoria
		p.Impostos = append(p.Impostos,
			trib("ICMS", m.ICMS), trib("IPI", m.IPI), trib("PIS", m.PIS), trib("COFINS", m.COFINS))
		if m.ICMSST.Valor != 0 {
			p.Impostos = append(p.Impostos, trib("ICMS-ST", m.ICMSST))
		}
	case item.Impostos.Servico != nil:
		sv := item.Impostos.Servico
		iss := trib("ISS", sv.ISS.ResultadoImposto)
		iss.Retido = sv.ISS.Retido
		p.Impostos = append(p.Impostos, iss, trib("PIS", sv.PIS), trib("COFINS", sv.COFINS))
	}
	return p
}

// registrarAuditoria grava a entrada no colaborador externo e engole a
// falha, apenas registrando no canal operacional.
func (s *service) registrarAuditoria(ctx context.Context, notaID, operacao string, antes, depois interface{}) {
	if s.auditoria == nil {
		return
	}
	if err := s.auditoria.AppendLog(ctx, notaID, operacao, antes, depois); err != nil {
		s.logger.Warn("falha ao registrar auditoria fiscal",
			zap.String("nota_id", notaID),
			zap.String("operacao", operacao),
			zap.Error(err))
	}
}
