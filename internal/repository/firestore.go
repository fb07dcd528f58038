// internal/repository/firestore.go
//
// Colaboradores externos do motor fiscal apoiados em Firestore: o livro
// de auditoria e a consulta de numeração por série. O motor em si nunca
// persiste nada; estes adaptadores ficam do lado de fora da fachada.
package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const (
	colecaoAuditoria = "auditoria_fiscal"
	colecaoNotas     = "notas_fiscais"
)

// AuditoriaFirestore grava uma entrada por operação mutadora da fachada.
type AuditoriaFirestore struct {
	db *firestore.Client
}

func NewAuditoriaFirestore(db *firestore.Client) *AuditoriaFirestore {
	return &AuditoriaFirestore{db: db}
}

// AppendLog registra a operação com os retratos antes/depois. O chamador
// trata a escrita como melhor-esforço; daqui só sai o erro cru.
func (r *AuditoriaFirestore) AppendLog(ctx context.Context, notaID, operacao string, antes, depois interface{}) error {
	entrada := map[string]interface{}{
		"nota_id":       notaID,
		"operacao":      operacao,
		"antes":         antes,
		"depois":        depois,
		"registrado_em": time.Now().UTC(),
	}

	_, err := r.db.Collection(colecaoAuditoria).Doc(uuid.NewString()).Set(ctx, entrada)
	if err != nil {
		return fmt.Errorf("falha ao gravar auditoria da nota %s: %w", notaID, err)
	}
	return nil
}

// NotasFirestore consulta a numeração já emitida de cada série.
type NotasFirestore struct {
	db *firestore.Client
}

func NewNotasFirestore(db *firestore.Client) *NotasFirestore {
	return &NotasFirestore{db: db}
}

// UltimoNumeroDaSerie devolve o maior número emitido para a série do
// tenant, ou vazio quando a série ainda não tem emissão.
func (r *NotasFirestore) UltimoNumeroDaSerie(ctx context.Context, tenantID, serie string) (string, error) {
	query := r.db.Collection(colecaoNotas).
		Where("tenant_id", "==", tenantID).
		Where("serie", "==", serie).
		OrderBy("numero", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer query.Stop()

	doc, err := query.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("falha ao consultar numeração da série %s: %w", serie, err)
	}

	numero, err := doc.DataAt("numero")
	if err != nil {
		return "", fmt.Errorf("documento da série %s sem campo numero: %w", serie, err)
	}
	if s, ok := numero.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", numero), nil
}
