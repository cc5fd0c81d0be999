package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const dialect = "postgres"

// Querier is satisfied by both *goqu.Database and *goqu.TxDatabase so
// repository methods can run inside or outside a transaction.
type Querier interface {
	From(from ...interface{}) *goqu.SelectDataset
	Select(cols ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx Querier) error) error
}

// Store is what services hold: a transaction root plus the plain querier
// for reads outside a transaction.
type Store interface {
	Transactor
	Querier() Querier
}

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New(dialect, db),
	}
}

// Querier returns the non-transactional query root.
func (r *Repository) Querier() Querier {
	return r.GoquDBWrapper
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx Querier) error) error {
	return WithTransaction(ctx, r.GoquDBWrapper, fn)
}

func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx Querier) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
