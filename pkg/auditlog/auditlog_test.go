package auditlog

import (
	"context"
	"errors"
	"testing"

	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error {
	args := m.Called(auditLog, data)
	return args.Error(0)
}

func TestLogFillsActionAndUser(t *testing.T) {
	persister := new(MockPersister)
	a := NewAuditLog(persister, zap.NewNop())
	location := &models.Location{ID: 4}
	actor := &models.User{ID: "user_1"}
	data := map[string]interface{}{"product_id": 9}

	persister.On("PersistLog", mock.MatchedBy(func(l models.AuditLog) bool {
		return l.ResourceID == 4 && l.ResourceType == "location" && l.Action == "assign" && *l.UserID == "user_1"
	}), data).Return(nil).Once()

	a.Log(context.Background(), "assign", data, location, actor)

	persister.AssertExpectations(t)
}

func TestLogSwallowsPersistErrors(t *testing.T) {
	persister := new(MockPersister)
	a := NewAuditLog(persister, zap.NewNop())

	persister.On("PersistLog", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		a.Log(context.Background(), "deleted", nil, &models.Product{ID: 1}, nil)
	})
	persister.AssertExpectations(t)
}
