package knowledge

import (
	"context"
	"fmt"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type KnowledgeRepository interface {
	PersistDocument(ctx context.Context, doc models.KnowledgeDocument) (*models.KnowledgeDocument, error)
	GetDocument(ctx context.Context, id int) (*models.KnowledgeDocument, error)
	GetDocuments(ctx context.Context, filter DocumentFilter) ([]models.KnowledgeDocument, error)
	UpdateDocument(ctx context.Context, id int, changes map[string]interface{}) (*models.KnowledgeDocument, error)
	DeleteDocument(ctx context.Context, id int) error
	GetNote(ctx context.Context, documentID int) (*models.DocumentNote, error)
	SaveNote(ctx context.Context, note models.DocumentNote) (*models.DocumentNote, error)
}

type knowledgeRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) KnowledgeRepository {
	return &knowledgeRepository{repository: r}
}

var (
	documentColumns = []interface{}{"id", "title", "content", "is_active", "created_at", "updated_at"}
	noteColumns     = []interface{}{"document_id", "content", "author", "updated_at"}
)

func (r *knowledgeRepository) PersistDocument(ctx context.Context, doc models.KnowledgeDocument) (*models.KnowledgeDocument, error) {
	var persisted models.KnowledgeDocument
	_, err := r.repository.GoquDBWrapper.Insert("knowledge_documents").
		Rows(goqu.Record{
			"title":     doc.Title,
			"content":   doc.Content,
			"is_active": doc.IsActive,
		}).
		Returning(documentColumns...).
		Executor().ScanStructContext(ctx, &persisted)
	if err != nil {
		return nil, custom_error.WrapDBError(err)
	}

	return &persisted, nil
}

func (r *knowledgeRepository) GetDocument(ctx context.Context, id int) (*models.KnowledgeDocument, error) {
	var doc models.KnowledgeDocument
	found, err := r.repository.GoquDBWrapper.From("knowledge_documents").
		Select(documentColumns...).
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &doc, nil
}

func (r *knowledgeRepository) GetDocuments(ctx context.Context, filter DocumentFilter) ([]models.KnowledgeDocument, error) {
	query := r.repository.GoquDBWrapper.From("knowledge_documents").
		Select(documentColumns...).
		Order(goqu.I("title").Asc(), goqu.I("id").Asc())
	if filter.ActiveOnly {
		query = query.Where(goqu.Ex{"is_active": true})
	}

	docs := []models.KnowledgeDocument{}
	if err := query.ScanStructsContext(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

func (r *knowledgeRepository) UpdateDocument(ctx context.Context, id int, changes map[string]interface{}) (*models.KnowledgeDocument, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	for column, value := range changes {
		record[column] = value
	}

	var updated models.KnowledgeDocument
	found, err := r.repository.GoquDBWrapper.Update("knowledge_documents").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Returning(documentColumns...).
		Executor().ScanStructContext(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update document %d: %w", id, err)
	}
	if !found {
		return nil, custom_error.NotFound("document %d not found", id)
	}

	return &updated, nil
}

func (r *knowledgeRepository) DeleteDocument(ctx context.Context, id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("knowledge_documents").Where(goqu.Ex{"id": id}).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return custom_error.NotFound("document %d not found", id)
	}

	return nil
}

func (r *knowledgeRepository) GetNote(ctx context.Context, documentID int) (*models.DocumentNote, error) {
	var note models.DocumentNote
	found, err := r.repository.GoquDBWrapper.From("document_notes").
		Select(noteColumns...).
		Where(goqu.Ex{"document_id": documentID}).
		ScanStructContext(ctx, &note)
	if err != nil {
		return nil, fmt.Errorf("failed to get note of document %d: %w", documentID, err)
	}
	if !found {
		return nil, nil
	}

	return &note, nil
}

// SaveNote keeps a single note per document.
func (r *knowledgeRepository) SaveNote(ctx context.Context, note models.DocumentNote) (*models.DocumentNote, error) {
	var saved models.DocumentNote
	_, err := r.repository.GoquDBWrapper.Insert("document_notes").
		Rows(goqu.Record{
			"document_id": note.DocumentID,
			"content":     note.Content,
			"author":      note.Author,
			"updated_at":  goqu.L("NOW()"),
		}).
		OnConflict(goqu.DoUpdate("document_id", goqu.Record{
			"content":    goqu.L("EXCLUDED.content"),
			"author":     goqu.L("EXCLUDED.author"),
			"updated_at": goqu.L("NOW()"),
		})).
		Returning(noteColumns...).
		Executor().ScanStructContext(ctx, &saved)
	if err != nil {
		return nil, custom_error.WrapDBError(err)
	}

	return &saved, nil
}
