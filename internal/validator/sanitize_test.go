package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeString(t *testing.T) {
	in := " <b>Hi</b> "
	got := SanitizeString(&in)
	require.NotNil(t, got)
	assert.Equal(t, "&lt;b&gt;Hi&lt;/b&gt;", *got)
	assert.NotContains(t, *got, "<")
	assert.NotContains(t, *got, ">")

	quotes := `Tom & "Jerry's"`
	assert.Equal(t, "Tom &amp; &quot;Jerry&#039;s&quot;", *SanitizeString(&quotes))

	assert.Nil(t, SanitizeString(nil))
}

func TestSanitizeStringDropsInvalidUTF8(t *testing.T) {
	for _, in := range []string{"Du\xff\xfene", "\xc3", "ok \xed\xa0\x80"} {
		got := SanitizeString(&in)
		require.NotNil(t, got)
		assert.Empty(t, *got, "%q", in)
	}

	accented := "  Cortázar  "
	assert.Equal(t, "Cortázar", *SanitizeString(&accented))
}

func TestSanitizeFields(t *testing.T) {
	data := map[string]any{
		"name":   "  Dune  ",
		"author": 42,
		"other":  " <i> ",
	}

	SanitizeFields(data, "name", "author", "description")

	assert.Equal(t, "Dune", data["name"])
	assert.Equal(t, 42, data["author"])
	assert.Equal(t, " <i> ", data["other"])
	_, present := data["description"]
	assert.False(t, present)
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"262786f6-a6bf-4249-a709-4229be7c39f1", true},
		{"262786F6-A6BF-4249-A709-4229BE7C39F1", true},
		{uuid.NewString(), true},
		{"262786f6-a6bf-1249-a709-4229be7c39f1", false},
		{"262786f6-a6bf-4249-c709-4229be7c39f1", false},
		{"262786f6a6bf4249a7094229be7c39f1", false},
		{"{262786f6-a6bf-4249-a709-4229be7c39f1}", false},
		{"not-a-uuid", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidUUID(tt.in), tt.in)
	}
}
