// Package catalog is the OpenCart-side boundary of the importer: name to
// id resolution over the reference tables and the product write set. All
// queries are parameterized; all writes for one product run inside one
// transaction.
package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Defaults carries the configured catalog identifiers and the column
// defaults applied to newly created products.
type Defaults struct {
	LanguageID    int
	StoreID       int
	LayoutID      int
	StockStatusID int
	Quantity      int
	Minimum       int
	Shipping      int
	Subtract      int
	WeightClassID int
	LengthClassID int
}

// AttributeValue is one resolved attribute cell: the group and attribute
// names as they appeared in the workbook plus their catalog ids.
type AttributeValue struct {
	GroupName string
	GroupID   int64
	Name      string
	ID        int64
	Text      string
}

// ProductFields is the per-row product payload consumed by both the
// create and update paths.
type ProductFields struct {
	SKU            string
	Name           string
	Model          string
	Description    string
	ManufacturerID int64
	Price          float64
}

// Store owns the catalog connection for one import run. It is not safe
// to share across concurrent runs against the same catalog.
type Store struct {
	db       *sqlx.DB
	defaults Defaults
}

// NewStore wraps an open connection.
func NewStore(db *sqlx.DB, defaults Defaults) *Store {
	return &Store{db: db, defaults: defaults}
}

// Open connects to the catalog database.
func Open(dsn string, defaults Defaults) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}
	return NewStore(db, defaults), nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is one row's transactional write scope.
type Tx struct {
	tx       *sqlx.Tx
	defaults Defaults
}

// WithinTx runs fn inside a transaction, committing on success and
// rolling back on any error so a failed row leaves no partial writes.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Tx{tx: txx, defaults: s.defaults}); err != nil {
		if rbErr := txx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := txx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
