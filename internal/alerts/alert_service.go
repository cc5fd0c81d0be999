package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/lucasz92/zenitwms-sub000/pkg/auditlog"
	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/validation"

	"go.uber.org/zap"
)

// ProductReader returns NotFound for unknown ids.
type ProductReader interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

type AlertService struct {
	repo     AlertRepository
	products ProductReader
	audit    auditlog.Logger
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo AlertRepository, products ProductReader, audit auditlog.Logger, log *zap.Logger) *AlertService {
	return &AlertService{
		repo:     repo,
		products: products,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// CreateAlert snapshots the product code and name so the alert still reads
// correctly after the product changes or is deleted.
func (s *AlertService) CreateAlert(ctx context.Context, actor *models.User, req CreateAlertRequest) (*models.Alert, error) {
	req.Type = strings.TrimSpace(req.Type)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	alert := models.Alert{
		ProductID:   req.ProductID,
		Type:        req.Type,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      models.AlertPending,
		Reporter:    strings.TrimSpace(req.Reporter),
	}
	if alert.Priority == "" {
		alert.Priority = models.PriorityMedium
	}
	if alert.Reporter == "" && actor != nil {
		alert.Reporter = actor.DisplayName()
	}

	if req.ProductID != nil {
		product, err := s.products.GetProduct(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		alert.ProductCode = product.Code
		alert.ProductName = product.Name
	}

	persisted, err := s.repo.PersistAlert(ctx, alert)
	if err != nil {
		s.log.Error("Unable to create alert", zap.String("type", alert.Type), zap.Error(err))
		return nil, custom_error.Persistence(err)
	}

	return persisted, nil
}

// ChangeStatus sets resolved_at when the alert becomes completed and clears
// it when a completed alert is reopened.
func (s *AlertService) ChangeStatus(ctx context.Context, actor *models.User, id int, req StatusRequest) (*models.Alert, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status == req.Status {
		return alert, nil
	}

	var resolvedAt *time.Time
	if req.Status == models.AlertCompleted {
		now := s.now()
		resolvedAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, id, req.Status, resolvedAt)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	go s.audit.Log(context.WithoutCancel(ctx), "status_changed", map[string]interface{}{
		"from": alert.Status,
		"to":   updated.Status,
	}, updated, actor)

	return updated, nil
}

func (s *AlertService) GetAlert(ctx context.Context, id int) (*models.Alert, error) {
	alert, err := s.repo.GetAlert(ctx, id)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}
	if alert == nil {
		return nil, custom_error.NotFound("alert %d not found", id)
	}
	return alert, nil
}

func (s *AlertService) ListAlerts(ctx context.Context, filter AlertFilter) (*AlertPage, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	filter.normalize()

	alerts, total, err := s.repo.GetAlerts(ctx, filter)
	if err != nil {
		return nil, custom_error.Persistence(err)
	}

	return &AlertPage{Items: alerts, Total: total, Page: filter.Page}, nil
}

func (s *AlertService) DeleteAlert(ctx context.Context, actor *models.User, id int) error {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAlert(ctx, id); err != nil {
		return custom_error.Persistence(err)
	}

	go s.audit.Log(context.WithoutCancel(ctx), "deleted", map[string]interface{}{
		"type":         alert.Type,
		"product_code": alert.ProductCode,
	}, alert, actor)

	return nil
}
