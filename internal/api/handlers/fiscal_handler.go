// internal/api/handlers/fiscal_handler.go
package handlers

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/LuisEduardoPedra/motorFiscal/internal/api/responses"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/chave"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/fiscal"
	"github.com/LuisEduardoPedra/motorFiscal/internal/domain"
	"github.com/gin-gonic/gin"
)

// FiscalHandler expõe a fachada do motor fiscal pela API.
type FiscalHandler struct {
	service fiscal.Service
	chaves  chave.Service
}

func NewFiscalHandler(service fiscal.Service, chaves chave.Service) *FiscalHandler {
	return &FiscalHandler{service: service, chaves: chaves}
}

type notaRequest struct {
	Nota   *domain.NotaFiscal      `json:"nota" binding:"required"`
	Regime domain.RegimeTributario `json:"regime"`
}

type recalculoItemRequest struct {
	Nota      *domain.NotaFiscal      `json:"nota" binding:"required"`
	Sequencia int                     `json:"sequencia" binding:"required"`
	Regime    domain.RegimeTributario `json:"regime" binding:"required"`
}

// HandleRecalcularItem recalcula uma única linha e devolve o resultado
// com o registro de alterações.
func (h *FiscalHandler) HandleRecalcularItem(c *gin.Context) {
	var req recalculoItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	resultado, err := h.service.RecalcularItem(c.Request.Context(), req.Nota, req.Sequencia, req.Regime)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao recalcular item", err.Error())
		return
	}
	responses.Success(c, resultado, "Item recalculado")
}

// HandleRecalcularNota recalcula todos os itens e os totais da nota.
func (h *FiscalHandler) HandleRecalcularNota(c *gin.Context) {
	var req notaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	nota, err := h.service.RecalcularNota(c.Request.Context(), req.Nota, req.Regime)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao recalcular nota", err.Error())
		return
	}
	responses.Success(c, nota, "Nota recalculada")
}

// HandleValidarNota roda a validação estrutural sem alterar a nota.
func (h *FiscalHandler) HandleValidarNota(c *gin.Context) {
	var req notaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	resultado, err := h.service.ValidarNota(c.Request.Context(), req.Nota)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao validar nota", err.Error())
		return
	}
	responses.Success(c, resultado, "Validação concluída")
}

// HandleClassificarNota informa se a nota é de mercadorias, serviços ou
// mista.
func (h *FiscalHandler) HandleClassificarNota(c *gin.Context) {
	var req notaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	tipo, err := h.service.ClassificarNota(req.Nota)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao classificar nota", err.Error())
		return
	}
	responses.Success(c, gin.H{"tipo": tipo}, "Nota classificada")
}

// HandleDividirNota separa uma nota mista nas duas sub-notas homogêneas.
func (h *FiscalHandler) HandleDividirNota(c *gin.Context) {
	var req notaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	mercadorias, servicos, err := h.service.DividirNota(req.Nota)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao dividir nota", err.Error())
		return
	}
	responses.Success(c, gin.H{"mercadorias": mercadorias, "servicos": servicos}, "Nota dividida")
}

// HandleProjetarNota gera a projeção para a autoridade, em JSON ou em XML
// quando ?formato=xml.
func (h *FiscalHandler) HandleProjetarNota(c *gin.Context) {
	var req notaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	projecoes, err := h.service.ProjetarNota(req.Nota)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao projetar nota", err.Error())
		return
	}

	if c.Query("formato") == "xml" {
		payload, err := xml.MarshalIndent(projecoes, "", "  ")
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Erro ao serializar projeção", err.Error())
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", payload)
		return
	}
	responses.Success(c, projecoes, "Projeção gerada")
}

type chaveRequest struct {
	UF           string  `json:"uf" binding:"required"`
	DataEmissao  string  `json:"data_emissao" binding:"required"`
	CnpjEmitente string  `json:"cnpj_emitente" binding:"required"`
	Serie        string  `json:"serie" binding:"required"`
	Numero       string  `json:"numero"`
	TipoEmissao  int     `json:"tipo_emissao"`
	ValorTotal   float64 `json:"valor_total"`
}

// HandleGerarChave monta a chave de acesso da NFC-e e o payload de QR de
// contingência. Número ausente usa a numeração sequencial da série.
func (h *FiscalHandler) HandleGerarChave(c *gin.Context) {
	var req chaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}

	dataEmissao, err := time.Parse(time.RFC3339, req.DataEmissao)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Data de emissão inválida; use RFC3339", err.Error())
		return
	}

	numero := req.Numero
	if numero == "" {
		tenantID := c.GetString("tenant_id")
		numero = h.chaves.ProximoNumero(c.Request.Context(), tenantID, req.Serie)
	}

	tipoEmissao := req.TipoEmissao
	if tipoEmissao == 0 {
		tipoEmissao = 1
	}

	chaveAcesso, err := h.chaves.GerarChaveNFCe(chave.DadosChave{
		UF:           req.UF,
		DataEmissao:  dataEmissao,
		CnpjEmitente: req.CnpjEmitente,
		Serie:        req.Serie,
		Numero:       numero,
		TipoEmissao:  tipoEmissao,
	})
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao gerar chave de acesso", err.Error())
		return
	}

	qr, err := h.chaves.PayloadQRContingencia(chaveAcesso, dataEmissao, req.ValorTotal)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar QR de contingência", err.Error())
		return
	}

	responses.Success(c, gin.H{
		"chave_acesso":    chaveAcesso,
		"numero":          numero,
		"qr_contingencia": qr,
	}, "Chave gerada")
}
