// Package data provides the book model, its persistence gateways and the
// rules a book payload must satisfy before it reaches the store.
package data

import (
	"database/sql"
	"time"

	"github.com/aoideee/books-api/internal/validator"
	"github.com/google/uuid"
)

// Book is a single row of the libros table.
type Book struct {
	ID          uuid.UUID
	Name        string
	Author      string
	Price       float64
	Description sql.NullString
	OwnerID     uuid.NullUUID
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookView is the public representation of a book returned by the API.
// The soft-delete flag never leaves the store.
type BookView struct {
	ID          uuid.UUID  `json:"id_libro"`
	Name        string     `json:"name"`
	Author      string     `json:"author"`
	Price       float64    `json:"price"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	OwnerID     *uuid.UUID `json:"id_user"`
}

// View formats the row for output.
func (b *Book) View() *BookView {
	view := &BookView{
		ID:        b.ID,
		Name:      b.Name,
		Author:    b.Author,
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Description.Valid {
		d := b.Description.String
		view.Description = &d
	}
	if b.OwnerID.Valid {
		owner := b.OwnerID.UUID
		view.OwnerID = &owner
	}
	return view
}

// CreateBookInput holds the fields required to create a new book. OwnerID
// identifies the principal creating the record and must not be uuid.Nil.
type CreateBookInput struct {
	Name        string
	Author      string
	Price       float64
	Description *string
	OwnerID     uuid.UUID
}

// UpdateBookInput holds the fields a client may change on an existing book.
// A nil pointer means "not provided". Description can also be cleared, so
// DescriptionSet records whether the key was supplied at all; with
// DescriptionSet true and Description nil the column is set to NULL.
type UpdateBookInput struct {
	Name           *string
	Author         *string
	Price          *float64
	Description    *string
	DescriptionSet bool
}

// IsEmpty reports whether the input would change no column.
func (in UpdateBookInput) IsEmpty() bool {
	return in.Name == nil && in.Author == nil && in.Price == nil && !in.DescriptionSet
}

// BookFields lists the payload keys a client may write.
var BookFields = []string{"name", "author", "price", "description"}

// SanitizedBookFields lists the textual payload keys that are trimmed and
// HTML-escaped before validation.
var SanitizedBookFields = []string{"name", "author", "description"}

var createBookRules = []validator.FieldRules{
	validator.Field("name", validator.Required(), validator.IsString(), validator.Min(3), validator.Max(255)),
	validator.Field("author", validator.Required(), validator.IsString(), validator.Min(3), validator.Max(255)),
	validator.Field("price", validator.Required(), validator.Numeric(), validator.Positive(), validator.Decimal()),
	validator.Field("description", validator.Optional(), validator.IsString(), validator.Max(1000)),
}

var updateBookRules = []validator.FieldRules{
	validator.Field("name", validator.IsString(), validator.Min(3), validator.Max(255)),
	validator.Field("author", validator.IsString(), validator.Min(3), validator.Max(255)),
	validator.Field("price", validator.Numeric(), validator.Positive(), validator.Decimal()),
	validator.Field("description", validator.Optional(), validator.IsString(), validator.Max(1000)),
}

// ValidateBookPayload checks a decoded request body against the create
// rules, or against the partial update rules when partial is true.
func ValidateBookPayload(v *validator.Validator, payload map[string]any, partial bool) {
	if partial {
		v.Apply(payload, updateBookRules)
		return
	}
	v.Apply(payload, createBookRules)
}

// NewCreateBookInput converts a validated payload into a CreateBookInput
// owned by owner.
func NewCreateBookInput(payload map[string]any, owner uuid.UUID) CreateBookInput {
	in := CreateBookInput{OwnerID: owner}
	in.Name, _ = payload["name"].(string)
	in.Author, _ = payload["author"].(string)
	in.Price, _ = validator.AsNumber(payload["price"])
	if d, ok := payload["description"].(string); ok {
		in.Description = &d
	}
	return in
}

// NewUpdateBookInput converts a validated partial payload into an
// UpdateBookInput. Keys holding null are skipped, except description which
// is cleared.
func NewUpdateBookInput(payload map[string]any) UpdateBookInput {
	var in UpdateBookInput
	if s, ok := payload["name"].(string); ok {
		in.Name = &s
	}
	if s, ok := payload["author"].(string); ok {
		in.Author = &s
	}
	if n, ok := validator.AsNumber(payload["price"]); ok {
		in.Price = &n
	}
	if d, present := payload["description"]; present {
		in.DescriptionSet = true
		if s, ok := d.(string); ok {
			in.Description = &s
		}
	}
	return in
}
