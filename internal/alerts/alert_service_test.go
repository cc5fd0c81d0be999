package alerts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memAlerts struct {
	alerts     map[int]models.Alert
	nextID     int
	lastFilter AlertFilter
}

func newMemAlerts() *memAlerts {
	return &memAlerts{alerts: map[int]models.Alert{}}
}

func (m *memAlerts) PersistAlert(ctx context.Context, alert models.Alert) (*models.Alert, error) {
	m.nextID++
	alert.ID = m.nextID
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = alert.CreatedAt
	m.alerts[alert.ID] = alert
	return &alert, nil
}

func (m *memAlerts) GetAlert(ctx context.Context, id int) (*models.Alert, error) {
	alert, ok := m.alerts[id]
	if !ok {
		return nil, nil
	}
	return &alert, nil
}

func (m *memAlerts) GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, int, error) {
	m.lastFilter = filter
	alerts := []models.Alert{}
	for id := 1; id <= m.nextID; id++ {
		alert, ok := m.alerts[id]
		if !ok {
			continue
		}
		if filter.Status != "" && string(alert.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(alert.Priority) != filter.Priority {
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, len(alerts), nil
}

func (m *memAlerts) UpdateStatus(ctx context.Context, id int, status models.AlertStatus, resolvedAt *time.Time) (*models.Alert, error) {
	alert, ok := m.alerts[id]
	if !ok {
		return nil, custom_error.NotFound("alert %d not found", id)
	}
	alert.Status = status
	alert.ResolvedAt = resolvedAt
	m.alerts[id] = alert
	return &alert, nil
}

func (m *memAlerts) DeleteAlert(ctx context.Context, id int) error {
	if _, ok := m.alerts[id]; !ok {
		return custom_error.NotFound("alert %d not found", id)
	}
	delete(m.alerts, id)
	return nil
}

type catalogue map[int]models.Product

func (c catalogue) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, custom_error.NotFound("product %d not found", id)
	}
	return &p, nil
}

type recordingAudit struct {
	entries chan string
}

func (r *recordingAudit) Log(ctx context.Context, action string, data map[string]interface{}, item auditlog.Auditable, actor *models.User) {
	r.entries <- action
}

var operator = &models.User{ID: "user_1", Name: "Ana", Role: "operator"}

func newTestService(repo AlertRepository, audit auditlog.Logger) *AlertService {
	products := catalogue{3: {ID: 3, Code: "X1", Name: "Bolt M8"}}
	s := NewService(repo, products, audit, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func intPtr(v int) *int { return &v }

func TestCreateAlert(t *testing.T) {
	repo := newMemAlerts()
	s := newTestService(repo, auditlog.Nop{})

	alert, err := s.CreateAlert(context.Background(), operator, CreateAlertRequest{
		ProductID: intPtr(3),
		Type:      " damaged ",
	})
	require.NoError(t, err)

	assert.Equal(t, "X1", alert.ProductCode)
	assert.Equal(t, "Bolt M8", alert.ProductName)
	assert.Equal(t, "damaged", alert.Type)
	assert.Equal(t, models.PriorityMedium, alert.Priority)
	assert.Equal(t, models.AlertPending, alert.Status)
	assert.Equal(t, "Ana", alert.Reporter)
	assert.Nil(t, alert.ResolvedAt)
}

func TestCreateAlertErrors(t *testing.T) {
	tests := []struct {
		name string
		req  CreateAlertRequest
		kind custom_error.Kind
	}{
		{name: "type required", req: CreateAlertRequest{Type: "  "}, kind: custom_error.KindValidation},
		{name: "unknown priority", req: CreateAlertRequest{Type: "damaged", Priority: "urgent"}, kind: custom_error.KindValidation},
		{name: "unknown product", req: CreateAlertRequest{Type: "damaged", ProductID: intPtr(99)}, kind: custom_error.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemAlerts()
			_, err := newTestService(repo, auditlog.Nop{}).CreateAlert(context.Background(), operator, tt.req)
			assert.True(t, custom_error.IsKind(err, tt.kind), "got %v", err)
			assert.Empty(t, repo.alerts)
		})
	}
}

func TestChangeStatusTracksResolution(t *testing.T) {
	repo := newMemAlerts()
	audit := &recordingAudit{entries: make(chan string, 4)}
	s := newTestService(repo, audit)
	ctx := context.Background()

	alert, err := s.CreateAlert(ctx, operator, CreateAlertRequest{Type: "count mismatch"})
	require.NoError(t, err)

	updated, err := s.ChangeStatus(ctx, operator, alert.ID, StatusRequest{Status: models.AlertInProgress})
	require.NoError(t, err)
	assert.Nil(t, updated.ResolvedAt)

	updated, err = s.ChangeStatus(ctx, operator, alert.ID, StatusRequest{Status: models.AlertCompleted})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, s.now(), *updated.ResolvedAt)

	updated, err = s.ChangeStatus(ctx, operator, alert.ID, StatusRequest{Status: models.AlertPending})
	require.NoError(t, err)
	assert.Nil(t, updated.ResolvedAt)

	for i := 0; i < 3; i++ {
		select {
		case action := <-audit.entries:
			assert.Equal(t, "status_changed", action)
		case <-time.After(time.Second):
			t.Fatal("audit entry was not written")
		}
	}

	t.Run("same status is a no-op", func(t *testing.T) {
		_, err := s.ChangeStatus(ctx, operator, alert.ID, StatusRequest{Status: models.AlertPending})
		require.NoError(t, err)
		select {
		case action := <-audit.entries:
			t.Fatalf("unexpected audit entry %q", action)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := s.ChangeStatus(ctx, operator, alert.ID, StatusRequest{Status: "closed"})
		assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
	})

	t.Run("unknown alert", func(t *testing.T) {
		_, err := s.ChangeStatus(ctx, operator, 42, StatusRequest{Status: models.AlertCompleted})
		assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
	})
}

func TestListAlerts(t *testing.T) {
	repo := newMemAlerts()
	s := newTestService(repo, auditlog.Nop{})
	ctx := context.Background()

	for _, p := range []models.AlertPriority{models.PriorityLow, models.PriorityHigh, models.PriorityHigh} {
		_, err := s.CreateAlert(ctx, operator, CreateAlertRequest{Type: "restock", Priority: p})
		require.NoError(t, err)
	}

	page, err := s.ListAlerts(ctx, AlertFilter{Priority: "high", PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, repo.lastFilter.PageSize)

	_, err = s.ListAlerts(ctx, AlertFilter{Status: "open"})
	assert.True(t, custom_error.IsKind(err, custom_error.KindValidation), "got %v", err)
}

func TestDeleteAlert(t *testing.T) {
	repo := newMemAlerts()
	audit := &recordingAudit{entries: make(chan string, 1)}
	s := newTestService(repo, audit)
	ctx := context.Background()

	alert, err := s.CreateAlert(ctx, operator, CreateAlertRequest{Type: "damaged"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAlert(ctx, operator, alert.ID))
	assert.Empty(t, repo.alerts)
	select {
	case action := <-audit.entries:
		assert.Equal(t, "deleted", action)
	case <-time.After(time.Second):
		t.Fatal("audit entry was not written")
	}

	err = s.DeleteAlert(ctx, operator, alert.ID)
	assert.True(t, custom_error.IsKind(err, custom_error.KindNotFound), "got %v", err)
}

func TestAlertRoutesRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "viewer lists", role: "viewer", method: http.MethodGet, path: "/alerts", want: http.StatusOK},
		{name: "viewer cannot create", role: "viewer", method: http.MethodPost, path: "/alerts", body: `{"type":"damaged"}`, want: http.StatusForbidden},
		{name: "operator creates", role: "operator", method: http.MethodPost, path: "/alerts", body: `{"type":"damaged"}`, want: http.StatusCreated},
		{name: "operator cannot delete", role: "operator", method: http.MethodDelete, path: "/alerts/1", want: http.StatusForbidden},
		{name: "missing alert", role: "viewer", method: http.MethodGet, path: "/alerts/7", want: http.StatusNotFound},
		{name: "bad id", role: "viewer", method: http.MethodGet, path: "/alerts/abc", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			group := router.Group("", func(c *gin.Context) {
				security.SetCurrentUser(c, &models.User{ID: "u", Role: tt.role})
				c.Next()
			})
			NewHandler(newTestService(newMemAlerts(), auditlog.Nop{})).RegisterRoutes(group)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
