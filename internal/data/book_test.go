package data

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aoideee/books-api/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBookPayloadCreate(t *testing.T) {
	v := validator.New()
	ValidateBookPayload(v, map[string]any{"author": "Frank Herbert", "price": json.Number("19.99")}, false)

	assert.Equal(t, validator.Errors{"name": {"name is required"}}, v.Errors)
}

func TestValidateBookPayloadCreateLimits(t *testing.T) {
	v := validator.New()
	ValidateBookPayload(v, map[string]any{
		"name":        "Du",
		"author":      strings.Repeat("a", 256),
		"price":       "10.999",
		"description": strings.Repeat("d", 1001),
	}, false)

	assert.Equal(t, validator.Errors{
		"name":        {"name must be at least 3 characters"},
		"author":      {"author must not exceed 255 characters"},
		"price":       {"price must be a valid decimal with max 2 decimal places"},
		"description": {"description must not exceed 1000 characters"},
	}, v.Errors)
}

func TestValidateBookPayloadPartial(t *testing.T) {
	v := validator.New()
	ValidateBookPayload(v, map[string]any{"price": "-5"}, true)

	require.False(t, v.Valid())
	assert.Equal(t, []string{
		"price must be positive",
		"price must be a valid decimal with max 2 decimal places",
	}, v.Errors["price"])
	assert.NotContains(t, v.Errors, "name")

	v = validator.New()
	ValidateBookPayload(v, map[string]any{"description": nil, "name": nil}, true)
	assert.True(t, v.Valid())
}

func TestNewCreateBookInput(t *testing.T) {
	in := NewCreateBookInput(map[string]any{
		"name":   "Dune",
		"author": "Frank Herbert",
		"price":  json.Number("19.99"),
	}, testOwner)

	assert.Equal(t, "Dune", in.Name)
	assert.Equal(t, "Frank Herbert", in.Author)
	assert.Equal(t, 19.99, in.Price)
	assert.Nil(t, in.Description)
	assert.Equal(t, testOwner, in.OwnerID)

	in = NewCreateBookInput(map[string]any{"price": "24.50", "description": ""}, testOwner)
	assert.Equal(t, 24.5, in.Price)
	require.NotNil(t, in.Description)
	assert.Equal(t, "", *in.Description)
}

func TestNewUpdateBookInput(t *testing.T) {
	in := NewUpdateBookInput(map[string]any{})
	assert.True(t, in.IsEmpty())

	in = NewUpdateBookInput(map[string]any{"name": nil})
	assert.True(t, in.IsEmpty(), "null name is ignored")

	in = NewUpdateBookInput(map[string]any{"description": nil})
	assert.False(t, in.IsEmpty())
	assert.True(t, in.DescriptionSet)
	assert.Nil(t, in.Description)

	in = NewUpdateBookInput(map[string]any{"author": "Borges", "price": 12.0, "description": "short"})
	require.NotNil(t, in.Author)
	assert.Equal(t, "Borges", *in.Author)
	require.NotNil(t, in.Price)
	assert.Equal(t, 12.0, *in.Price)
	require.NotNil(t, in.Description)
	assert.Equal(t, "short", *in.Description)
	assert.Nil(t, in.Name)
}

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		total, page, limit int
		wantPages          int
	}{
		{0, 1, 10, 0},
		{1, 1, 10, 1},
		{10, 1, 10, 1},
		{11, 2, 10, 2},
		{15, 1, 1, 15},
		{101, 1, 100, 2},
	}

	for _, tt := range tests {
		md := CalculateMetadata(tt.total, tt.page, tt.limit)
		assert.Equal(t, tt.wantPages, md.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
		assert.Equal(t, tt.total, md.Total)
		assert.Equal(t, tt.page, md.Page)
		assert.Equal(t, tt.limit, md.Limit)
	}
}

func TestBookViewJSON(t *testing.T) {
	b := Book{Name: "Dune", Author: "Frank Herbert", Price: 19.99}
	js, err := json.Marshal(b.View())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(js, &out))
	assert.Contains(t, out, "id_libro")
	assert.Contains(t, out, "id_user")
	assert.Nil(t, out["description"])
	assert.Equal(t, 19.99, out["price"])
	assert.NotContains(t, out, "is_deleted")
}

func TestWrapDBError(t *testing.T) {
	assert.NoError(t, wrapDBError("op", nil))
	assert.Equal(t, ErrRecordNotFound, wrapDBError("op", ErrRecordNotFound))

	first := wrapDBError("inner", assert.AnError)
	assert.Same(t, first, wrapDBError("outer", first))
	assert.ErrorIs(t, first, assert.AnError)
}
