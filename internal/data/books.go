// internal/data/books.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// bookColumns is the column list every query scans, in scanBook order.
const bookColumns = `id_libro, name, author, price, description, id_user, is_deleted, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so user input only ever matches
// literally. Backslash is the default ESCAPE character in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into an ILIKE pattern matching any value that
// contains s.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// BookModel is the PostgreSQL gateway for the libros table.
type BookModel struct {
	DB *sql.DB
}

var _ BookStore = BookModel{}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var book Book
	err := row.Scan(
		&book.ID,
		&book.Name,
		&book.Author,
		&book.Price,
		&book.Description,
		&book.OwnerID,
		&book.IsDeleted,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// where builds the conjunctive WHERE clause for a listing together with its
// positional arguments. The soft-delete filter is always present.
func (f ListFilters) where() (string, []any) {
	conditions := []string{"is_deleted = false"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg(containsPattern(f.Search))
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %s OR author ILIKE %s)", p, p))
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*f.MaxPrice))
	}
	if f.Author != "" {
		conditions = append(conditions, "author ILIKE "+arg(containsPattern(f.Author)))
	}

	return strings.Join(conditions, " AND "), args
}

// GetAll returns one page of active books, newest first, together with the
// number of active books matching the same filters regardless of paging.
func (m BookModel) GetAll(ctx context.Context, filters ListFilters) ([]*BookView, int, error) {
	where, args := filters.where()

	query := fmt.Sprintf(`
		SELECT %s
		FROM libros
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, bookColumns, where, len(args)+1, len(args)+2)

	rows, err := m.DB.QueryContext(ctx, query, append(args, filters.limit(), filters.offset())...)
	if err != nil {
		return nil, 0, wrapDBError("list books", err)
	}
	defer rows.Close()

	books := []*BookView{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, wrapDBError("list books", err)
		}
		books = append(books, book.View())
	}
	if err = rows.Err(); err != nil {
		return nil, 0, wrapDBError("list books", err)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM libros WHERE %s`, where)
	err = m.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, wrapDBError("count books", err)
	}

	return books, total, nil
}

// Get retrieves a single active book by id.
// Returns ErrRecordNotFound if no active book with that id exists.
func (m BookModel) Get(ctx context.Context, id uuid.UUID) (*BookView, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM libros
		WHERE id_libro = $1 AND is_deleted = false`, bookColumns)

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, wrapDBError("get book", err)
	}
	return book.View(), nil
}

// Insert stores a new book under a freshly generated UUID v4 and returns
// the persisted row, timestamps included.
func (m BookModel) Insert(ctx context.Context, input CreateBookInput) (*BookView, error) {
	if input.OwnerID == uuid.Nil {
		return nil, ErrInvalidOwner
	}

	query := fmt.Sprintf(`
		INSERT INTO libros (id_libro, name, author, price, description, id_user)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, bookColumns)

	args := []any{
		uuid.New(),
		input.Name,
		input.Author,
		input.Price,
		input.Description,
		input.OwnerID,
	}

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapDBError("insert book", err)
	}
	return book.View(), nil
}

// Update writes the supplied fields of input to the active book id and
// returns the refreshed row. An empty input returns the current row
// untouched. Returns ErrRecordNotFound if the book is missing or deleted.
func (m BookModel) Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*BookView, error) {
	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return current, nil
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.Author != nil {
		set("author", *input.Author)
	}
	if input.Price != nil {
		set("price", *input.Price)
	}
	if input.DescriptionSet {
		set("description", input.Description)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE libros
		SET %s
		WHERE id_libro = $%d AND is_deleted = false
		RETURNING %s`, strings.Join(sets, ", "), len(args), bookColumns)

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, wrapDBError("update book", err)
	}
	return book.View(), nil
}

// SoftDelete hides the active book id. It reports false when no row was
// affected, i.e. the book never existed or was already deleted.
func (m BookModel) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE libros
		SET is_deleted = true
		WHERE id_libro = $1 AND is_deleted = false`

	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, wrapDBError("delete book", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, wrapDBError("delete book", err)
	}
	return rowsAffected > 0, nil
}

// Exists reports whether an active book with the given id exists.
func (m BookModel) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM libros WHERE id_libro = $1 AND is_deleted = false)`

	var exists bool
	if err := m.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, wrapDBError("check book", err)
	}
	return exists, nil
}

// Count returns the number of active books.
func (m BookModel) Count(ctx context.Context) (int, error) {
	var total int
	err := m.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM libros WHERE is_deleted = false`).Scan(&total)
	if err != nil {
		return 0, wrapDBError("count books", err)
	}
	return total, nil
}
