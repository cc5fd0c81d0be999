package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"go.uber.org/zap"
)

const contextSeparator = "\n\n---\n\n"

type KnowledgeService struct {
	repo  KnowledgeRepository
	audit auditlog.Logger
	log   *zap.Logger
}

func NewService(repo KnowledgeRepository, audit auditlog.Logger, log *zap.Logger) *KnowledgeService {
	return &KnowledgeService{repo: repo, audit: audit, log: log}
}

func (s *KnowledgeService) CreateDocument(ctx context.Context, req DocumentRequest) (*models.KnowledgeDocument, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	doc := models.KnowledgeDocument{Title: req.Title, Content: req.Content, IsActive: true}
	if req.IsActive != nil {
		doc.IsActive = *req.IsActive
	}

	persisted, err := s.repo.PersistDocument(ctx, doc)
	if err != nil {
		s.log.Error("Unable to create document", zap.String("title", doc.Title), zap.Error(err))
		return nil, custom_error.Persistence(err)
	}

	return persisted, nil
}

func (s *KnowledgeService) UpdateDocument(ctx context.Context, id int, req UpdateDocumentRequest) (*models.KnowledgeDocument, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	changes := req.changes()
	if len(changes) == 0 {
		return s.GetDocument(ctx, id)
	}

	doc, err := s.repo.UpdateDocument(ctx, id, changes)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	return doc, nil
}

func (s *KnowledgeService) SetActive(ctx context.Context, actor *models.User, id int, req ActiveRequest) (*models.KnowledgeDocument, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	doc, err := s.repo.UpdateDocument(ctx, id, map[string]interface{}{"is_active": *req.IsActive})
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	action := "deactivated"
	if doc.IsActive {
		action = "activated"
	}
	go s.audit.Log(context.WithoutCancel(ctx), action, map[string]interface{}{"title": doc.Title}, doc, actor)

	return doc, nil
}

func (s *KnowledgeService) DeleteDocument(ctx context.Context, actor *models.User, id int) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return custom_error.Persistence(err)
	}

	go s.audit.Log(context.WithoutCancel(ctx), "deleted", map[string]interface{}{"title": doc.Title}, doc, actor)
	return nil
}

func (s *KnowledgeService) GetDocument(ctx context.Context, id int) (*models.KnowledgeDocument, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if doc == nil {
		return nil, custom_error.NotFound("document %d not found", id)
	}
	return doc, nil
}

func (s *KnowledgeService) ListDocuments(ctx context.Context, filter DocumentFilter) ([]models.KnowledgeDocument, error) {
	docs, err := s.repo.GetDocuments(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	return docs, nil
}

// GetNote returns an empty note for documents nobody has annotated yet.
func (s *KnowledgeService) GetNote(ctx context.Context, documentID int) (*models.DocumentNote, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	note, err := s.repo.GetNote(ctx, documentID)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if note == nil {
		return &models.DocumentNote{DocumentID: documentID}, nil
	}
	return note, nil
}

func (s *KnowledgeService) SaveNote(ctx context.Context, actor *models.User, documentID int, req NoteRequest) (*models.DocumentNote, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	note := models.DocumentNote{DocumentID: documentID, Content: req.Content}
	if actor != nil {
		note.Author = actor.DisplayName()
	}

	saved, err := s.repo.SaveNote(ctx, note)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	return saved, nil
}

// AssistantContext concatenates every active document, each under its title
// as a level one heading.
func (s *KnowledgeService) AssistantContext(ctx context.Context) (*AssistantContext, error) {
	docs, err := s.repo.GetDocuments(ctx, DocumentFilter{ActiveOnly: true})
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	sections := make([]string, 0, len(docs))
	for _, doc := range docs {
		sections = append(sections, fmt.Sprintf("# %s\n\n%s", doc.Title, strings.TrimSpace(doc.Content)))
	}

	return &AssistantContext{
		Documents: len(docs),
		Content:   strings.Join(sections, contextSeparator),
	}, nil
}
