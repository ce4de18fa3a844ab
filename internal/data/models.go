// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound is returned when no active row matches the id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidOwner is returned by Insert when the input carries no owner.
	ErrInvalidOwner = errors.New("book owner must be a non-nil uuid")
)

// BookStore is the set of operations the HTTP layer needs from a book
// gateway. Every method ignores soft-deleted rows.
type BookStore interface {
	GetAll(ctx context.Context, filters ListFilters) ([]*BookView, int, error)
	Get(ctx context.Context, id uuid.UUID) (*BookView, error)
	Insert(ctx context.Context, input CreateBookInput) (*BookView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*BookView, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Check(ctx context.Context) DBStatus
}

// Models groups every gateway the application talks to.
type Models struct {
	Books  BookStore
	Health HealthChecker
}

// NewModels returns Models backed by the PostgreSQL pool db.
func NewModels(db *sql.DB) Models {
	return Models{
		Books:  BookModel{DB: db},
		Health: HealthModel{DB: db},
	}
}

// NewMemoryModels returns Models backed by an in-process go-memdb
// database. Nothing is persisted across restarts.
func NewMemoryModels() (Models, error) {
	books, err := NewMemoryBookModel()
	if err != nil {
		return Models{}, err
	}
	return Models{
		Books:  books,
		Health: books,
	}, nil
}

// ListFilters holds pagination, search and filter parameters for GetAll.
// Nil pointers and an empty Search or Author mean "no constraint".
type ListFilters struct {
	Page     int
	PageSize int
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Author   string
}

// limit returns the SQL LIMIT value derived from PageSize.
func (f ListFilters) limit() int { return f.PageSize }

// offset returns the SQL OFFSET value derived from Page and PageSize.
func (f ListFilters) offset() int { return (f.Page - 1) * f.PageSize }

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// CalculateMetadata computes page metadata from the total number of
// matching records and the requested page and page size.
func CalculateMetadata(total, page, pageSize int) Metadata {
	md := Metadata{Page: page, Limit: pageSize, Total: total}
	if pageSize > 0 {
		md.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return md
}
