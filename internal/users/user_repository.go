package users

import (
	"context"
	"fmt"

	"github.com/lucasz92/zenitwms-sub000/internal/repository"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UserRepository interface {
	EnsureUser(ctx context.Context, q repository.Querier, user models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepository{repository: r}
}

// EnsureUser mirrors the identity provider record on first write. An
// existing row is left untouched.
func (r *userRepository) EnsureUser(ctx context.Context, q repository.Querier, user models.User) error {
	query := q.Insert("users").
		Rows(goqu.Record{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"role":       user.Role,
			"avatar_url": user.AvatarURL,
		}).
		OnConflict(goqu.DoNothing())

	if _, err := query.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", user.ID, err)
	}

	return nil
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.repository.GoquDBWrapper.From("users").
		Select("id", "email", "name", "role", "avatar_url", "created_at").
		Where(goqu.Ex{"id": id}).
		ScanStructContext(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.repository.GoquDBWrapper.From("users").
		Select("id", "email", "name", "role", "avatar_url", "created_at").
		Order(goqu.I("name").Asc()).
		ScanStructsContext(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
