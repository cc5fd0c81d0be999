package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/rate_limiter"
	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) PersistDocument(ctx context.Context, doc models.KnowledgeDocument) (*models.KnowledgeDocument, error) {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeRepository) GetDocument(ctx context.Context, id int) (*models.KnowledgeDocument, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeRepository) GetDocuments(ctx context.Context, filter DocumentFilter) ([]models.KnowledgeDocument, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeRepository) UpdateDocument(ctx context.Context, id int, changes map[string]interface{}) (*models.KnowledgeDocument, error) {
	args := m.Called(id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KnowledgeDocument), args.Error(1)
}

func (m *MockKnowledgeRepository) DeleteDocument(ctx context.Context, id int) error {
	return m.Called(id).Error(0)
}

func (m *MockKnowledgeRepository) GetNote(ctx context.Context, documentID int) (*models.DocumentNote, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DocumentNote), args.Error(1)
}

func (m *MockKnowledgeRepository) SaveNote(ctx context.Context, note models.DocumentNote) (*models.DocumentNote, error) {
	args := m.Called(note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DocumentNote), args.Error(1)
}

type recordingAudit struct {
	entries chan string
}

func (r *recordingAudit) Log(ctx context.Context, action string, data map[string]interface{}, item auditlog.Auditable, actor *models.User) {
	r.entries <- action
}

var editor = &models.User{ID: "user_1", Name: "Ana", Role: "operator"}

func TestCreateDocumentDefaultsToActive(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	s := NewService(repo, auditlog.Nop{}, zap.NewNop())

	repo.On("PersistDocument", models.KnowledgeDocument{Title: "Receiving", Content: "Count twice.", IsActive: true}).
		Return(&models.KnowledgeDocument{ID: 1, Title: "Receiving", IsActive: true}, nil).Once()

	doc, err := s.CreateDocument(context.Background(), DocumentRequest{Title: "  Receiving ", Content: "Count twice."})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.ID)
	repo.AssertExpectations(t)

	_, err = s.CreateDocument(context.Background(), DocumentRequest{Title: "   "})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
	assert.Equal(t, "title is required", err.Error())
}

func TestUpdateDocument(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	s := NewService(repo, auditlog.Nop{}, zap.NewNop())

	title := "Picking"
	repo.On("UpdateDocument", 4, map[string]interface{}{"title": "Picking"}).
		Return(&models.KnowledgeDocument{ID: 4, Title: "Picking"}, nil).Once()

	doc, err := s.UpdateDocument(context.Background(), 4, UpdateDocumentRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Picking", doc.Title)

	t.Run("empty update reads the document", func(t *testing.T) {
		repo.On("GetDocument", 4).Return(&models.KnowledgeDocument{ID: 4, Title: "Picking"}, nil).Once()
		doc, err := s.UpdateDocument(context.Background(), 4, UpdateDocumentRequest{})
		require.NoError(t, err)
		assert.Equal(t, 4, doc.ID)
	})

	t.Run("blank title", func(t *testing.T) {
		blank := "  "
		_, err := s.UpdateDocument(context.Background(), 4, UpdateDocumentRequest{Title: &blank})
		assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
	})

	repo.AssertExpectations(t)
}

func TestSetActiveWritesAudit(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	audit := &recordingAudit{entries: make(chan string, 1)}
	s := NewService(repo, audit, zap.NewNop())

	off := false
	repo.On("UpdateDocument", 2, map[string]interface{}{"is_active": false}).
		Return(&models.KnowledgeDocument{ID: 2, IsActive: false}, nil).Once()

	doc, err := s.SetActive(context.Background(), editor, 2, ActiveRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, doc.IsActive)

	select {
	case action := <-audit.entries:
		assert.Equal(t, "deactivated", action)
	case <-time.After(time.Second):
		t.Fatal("audit entry was not written")
	}

	_, err = s.SetActive(context.Background(), editor, 2, ActiveRequest{})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
}

func TestNotes(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	s := NewService(repo, auditlog.Nop{}, zap.NewNop())
	ctx := context.Background()

	repo.On("GetDocument", 3).Return(&models.KnowledgeDocument{ID: 3}, nil)
	repo.On("GetDocument", 9).Return(nil, nil)

	t.Run("missing note is empty", func(t *testing.T) {
		repo.On("GetNote", 3).Return(nil, nil).Once()
		note, err := s.GetNote(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, models.DocumentNote{DocumentID: 3}, *note)
	})

	t.Run("save records the author", func(t *testing.T) {
		repo.On("SaveNote", models.DocumentNote{DocumentID: 3, Content: "check lot", Author: "Ana"}).
			Return(&models.DocumentNote{DocumentID: 3, Content: "check lot", Author: "Ana"}, nil).Once()
		note, err := s.SaveNote(ctx, editor, 3, NoteRequest{Content: "check lot"})
		require.NoError(t, err)
		assert.Equal(t, "Ana", note.Author)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := s.SaveNote(ctx, editor, 9, NoteRequest{Content: "x"})
		assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
		repo.AssertNotCalled(t, "SaveNote", models.DocumentNote{DocumentID: 9, Content: "x", Author: "Ana"})
	})
}

func TestDeleteDocument(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	audit := &recordingAudit{entries: make(chan string, 1)}
	s := NewService(repo, audit, zap.NewNop())

	repo.On("GetDocument", 5).Return(&models.KnowledgeDocument{ID: 5, Title: "Old"}, nil).Once()
	repo.On("DeleteDocument", 5).Return(nil).Once()

	require.NoError(t, s.DeleteDocument(context.Background(), editor, 5))
	select {
	case action := <-audit.entries:
		assert.Equal(t, "deleted", action)
	case <-time.After(time.Second):
		t.Fatal("audit entry was not written")
	}
	repo.AssertExpectations(t)
}

func TestAssistantContext(t *testing.T) {
	repo := new(MockKnowledgeRepository)
	s := NewService(repo, auditlog.Nop{}, zap.NewNop())

	repo.On("GetDocuments", DocumentFilter{ActiveOnly: true}).Return([]models.KnowledgeDocument{
		{ID: 1, Title: "Receiving", Content: "Count twice.\n", IsActive: true},
		{ID: 2, Title: "Scrap", Content: "Photograph damage.", IsActive: true},
	}, nil).Once()

	bundle, err := s.AssistantContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Documents)
	assert.Equal(t, "# Receiving\n\nCount twice.\n\n---\n\n# Scrap\n\nPhotograph damage.", bundle.Content)
}

func TestAssistantContextIsRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockKnowledgeRepository)
	repo.On("GetDocuments", DocumentFilter{ActiveOnly: true}).Return([]models.KnowledgeDocument{}, nil)
	handler := NewHandler(NewService(repo, auditlog.Nop{}, zap.NewNop()), rate_limiter.NewRateLimiter(2, time.Minute))

	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		security.SetCurrentUser(c, &models.User{ID: "u", Role: "viewer"})
		c.Next()
	})
	handler.RegisterRoutes(group)

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge/context", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusOK {
			var body struct {
				OK   bool             `json:"ok"`
				Data AssistantContext `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.True(t, body.OK)
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
