package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

type createPayload struct {
	Name     string `json:"name" validate:"required,max=10"`
	Slug     string `json:"slug" validate:"required,slug"`
	Category string `json:"category" validate:"required,oneof=climate ocean"`
	Score    *int   `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type deletePayload struct {
	IDs    []uint `json:"ids,omitempty" validate:"omitempty,max=3,dive,gt=0"`
	Source string `json:"source,omitempty"`
}

func (p deletePayload) HasFilter() bool        { return len(p.IDs) > 0 || p.Source != "" }
func (p deletePayload) FilterFields() []string { return []string{"ids", "source"} }

func details(t *testing.T, err error) []string {
	t.Helper()
	var ve *pkgerrors.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Details
}

func TestValidate_ValidPayloadIsReturned(t *testing.T) {
	v := New()
	score := 42
	in := createPayload{Name: "Smog", Slug: "delhi-smog", Category: "climate", Score: &score}

	out, err := Validate(v, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValidate_FieldPathMessages(t *testing.T) {
	v := New()
	score := 101

	_, err := Validate(v, createPayload{Name: "A very long name", Slug: "Bad Slug", Category: "space", Score: &score})

	assert.ElementsMatch(t, []string{
		"name: must be at most 10 characters long",
		"slug: must contain only lowercase letters, digits and hyphens",
		"category: must be one of [climate ocean]",
		"score: must be less than or equal to 100",
	}, details(t, err))
}

func TestValidate_MissingRequired(t *testing.T) {
	_, err := Validate(New(), createPayload{})

	assert.Contains(t, details(t, err), "name: is required")
	assert.Contains(t, details(t, err), "slug: is required")
}

func TestValidate_SliceElementPath(t *testing.T) {
	_, err := Validate(New(), deletePayload{IDs: []uint{4, 0}})

	assert.Equal(t, []string{"ids[1]: must be greater than 0"}, details(t, err))
}

func TestValidate_DeletionRequiresFilter(t *testing.T) {
	_, err := Validate(New(), deletePayload{})

	assert.Equal(t, []string{"filter: at least one of ids, source is required"}, details(t, err))
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	in := deletePayload{IDs: []uint{3, 2, 1}}

	out, err := Validate(New(), in)
	require.NoError(t, err)

	assert.Equal(t, []uint{3, 2, 1}, in.IDs)
	assert.Equal(t, in, out)
}
