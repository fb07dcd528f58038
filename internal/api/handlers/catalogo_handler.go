// internal/api/handlers/catalogo_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/LuisEduardoPedra/motorFiscal/internal/api/responses"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/catalogo"
	"github.com/LuisEduardoPedra/motorFiscal/internal/core/fiscal"
	"github.com/gin-gonic/gin"
)

// CatalogoHandler recebe as tabelas de apoio do catálogo fiscal.
type CatalogoHandler struct {
	fiscalService fiscal.Service
}

func NewCatalogoHandler(fiscalService fiscal.Service) *CatalogoHandler {
	return &CatalogoHandler{fiscalService: fiscalService}
}

// HandleCargaAliquotasISS carrega a planilha municipal de alíquotas de
// ISS (.xlsx, .xls ou .csv) e a disponibiliza para o calculador.
func (h *CatalogoHandler) HandleCargaAliquotasISS(c *gin.Context) {
	tabelaFileHeader, err := c.FormFile("tabelaFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo de alíquotas não encontrado ou inválido")
		return
	}

	tabelaFile, err := tabelaFileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de alíquotas")
		return
	}
	defer tabelaFile.Close()

	tabela, err := catalogo.CarregarTabelaISS(tabelaFile, tabelaFileHeader.Filename)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao processar a tabela de alíquotas", err.Error())
		return
	}

	h.fiscalService.AtualizarTabelaISS(tabela)
	responses.Success(c, gin.H{"municipios": tabela.Tamanho()},
		fmt.Sprintf("Tabela de ISS carregada com %d municípios", tabela.Tamanho()))
}
