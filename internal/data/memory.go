package data

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

const memBooksTable = "libros"

// memBook is the record stored in go-memdb. Records are never mutated in
// place: updates insert a modified copy.
type memBook struct {
	Key     string
	Seq     uint64
	Deleted bool
	Book    Book
}

// MemoryBookModel is an in-process BookStore backed by go-memdb. It is used
// when no database is configured and by the handler tests.
type MemoryBookModel struct {
	db  *memdb.MemDB
	seq atomic.Uint64
	now func() time.Time
}

var (
	_ BookStore     = (*MemoryBookModel)(nil)
	_ HealthChecker = (*MemoryBookModel)(nil)
)

// NewMemoryBookModel creates an empty in-memory book store.
func NewMemoryBookModel() (*MemoryBookModel, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memBooksTable: {
				Name: memBooksTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
					"deleted": {
						Name:    "deleted",
						Indexer: &memdb.BoolFieldIndex{Field: "Deleted"},
					},
				},
			},
		},
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &MemoryBookModel{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// SetClock replaces the time source used for created_at and updated_at.
func (m *MemoryBookModel) SetClock(now func() time.Time) {
	m.now = now
}

func (m *MemoryBookModel) active(txn *memdb.Txn, id uuid.UUID) (*memBook, error) {
	raw, err := txn.First(memBooksTable, "id", id.String())
	if err != nil {
		return nil, wrapDBError("get book", err)
	}
	if raw == nil {
		return nil, ErrRecordNotFound
	}
	rec := raw.(*memBook)
	if rec.Deleted {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (f ListFilters) matches(b *Book) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Name), term) && !strings.Contains(strings.ToLower(b.Author), term) {
			return false
		}
	}
	if f.MinPrice != nil && b.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && b.Price > *f.MaxPrice {
		return false
	}
	if f.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(f.Author)) {
		return false
	}
	return true
}

// GetAll mirrors BookModel.GetAll over the in-memory table.
func (m *MemoryBookModel) GetAll(_ context.Context, filters ListFilters) ([]*BookView, int, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memBooksTable, "deleted", false)
	if err != nil {
		return nil, 0, wrapDBError("list books", err)
	}

	var matched []*memBook
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*memBook)
		if filters.matches(&rec.Book) {
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Book.CreatedAt.Equal(b.Book.CreatedAt) {
			return a.Book.CreatedAt.After(b.Book.CreatedAt)
		}
		return a.Seq > b.Seq
	})

	books := []*BookView{}
	start := filters.offset()
	if start < 0 {
		start = 0
	}
	for i := start; i < len(matched) && len(books) < filters.limit(); i++ {
		books = append(books, matched[i].Book.View())
	}
	return books, len(matched), nil
}

func (m *MemoryBookModel) Get(_ context.Context, id uuid.UUID) (*BookView, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	rec, err := m.active(txn, id)
	if err != nil {
		return nil, err
	}
	return rec.Book.View(), nil
}

func (m *MemoryBookModel) Insert(_ context.Context, input CreateBookInput) (*BookView, error) {
	if input.OwnerID == uuid.Nil {
		return nil, ErrInvalidOwner
	}

	now := m.now()
	book := Book{
		ID:        uuid.New(),
		Name:      input.Name,
		Author:    input.Author,
		Price:     input.Price,
		OwnerID:   uuid.NullUUID{UUID: input.OwnerID, Valid: true},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		book.Description = sql.NullString{String: *input.Description, Valid: true}
	}

	txn := m.db.Txn(true)
	defer txn.Abort()
	rec := &memBook{Key: book.ID.String(), Seq: m.seq.Add(1), Book: book}
	if err := txn.Insert(memBooksTable, rec); err != nil {
		return nil, wrapDBError("insert book", err)
	}
	txn.Commit()

	return book.View(), nil
}

func (m *MemoryBookModel) Update(_ context.Context, id uuid.UUID, input UpdateBookInput) (*BookView, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	rec, err := m.active(txn, id)
	if err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return rec.Book.View(), nil
	}

	updated := *rec
	if input.Name != nil {
		updated.Book.Name = *input.Name
	}
	if input.Author != nil {
		updated.Book.Author = *input.Author
	}
	if input.Price != nil {
		updated.Book.Price = *input.Price
	}
	if input.DescriptionSet {
		updated.Book.Description = sql.NullString{}
		if input.Description != nil {
			updated.Book.Description = sql.NullString{String: *input.Description, Valid: true}
		}
	}
	updated.Book.UpdatedAt = m.now()

	if err := txn.Insert(memBooksTable, &updated); err != nil {
		return nil, wrapDBError("update book", err)
	}
	txn.Commit()

	return updated.Book.View(), nil
}

func (m *MemoryBookModel) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	rec, err := m.active(txn, id)
	if err == ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted := *rec
	deleted.Deleted = true
	deleted.Book.IsDeleted = true
	if err := txn.Insert(memBooksTable, &deleted); err != nil {
		return false, wrapDBError("delete book", err)
	}
	txn.Commit()
	return true, nil
}

func (m *MemoryBookModel) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case err == ErrRecordNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (m *MemoryBookModel) Count(_ context.Context) (int, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memBooksTable, "deleted", false)
	if err != nil {
		return 0, wrapDBError("count books", err)
	}
	total := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		total++
	}
	return total, nil
}

// Check always succeeds; the in-memory store has no remote dependency.
func (m *MemoryBookModel) Check(_ context.Context) DBStatus {
	now := m.now()
	return DBStatus{Success: true, Version: "go-memdb (in-memory)", CurrentTime: &now}
}
