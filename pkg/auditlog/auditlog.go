package auditlog

import (
	"context"

	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"go.uber.org/zap"
)

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Persister interface {
	PersistLog(ctx context.Context, auditLog models.AuditLog, data interface{}) error
}

// Logger is what services depend on; *Auditlog implements it.
type Logger interface {
	Log(ctx context.Context, action string, data map[string]interface{}, item Auditable, actor *models.User)
}

type Auditlog struct {
	r   Persister
	log *zap.Logger
}

func NewAuditLog(r Persister, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}

// Log never fails the caller; a lost audit entry is only reported.
func (a *Auditlog) Log(ctx context.Context, action string, data map[string]interface{}, item Auditable, actor *models.User) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	if actor != nil {
		auditLog.UserID = &actor.ID
	}

	if err := a.r.PersistLog(ctx, auditLog, data); err != nil {
		a.log.Warn("Unable to create AuditLog entry",
			zap.String("resource_type", auditLog.ResourceType),
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("Created AuditLog entry",
		zap.String("resource_type", auditLog.ResourceType),
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}

type Nop struct{}

func (Nop) Log(context.Context, string, map[string]interface{}, Auditable, *models.User) {}
