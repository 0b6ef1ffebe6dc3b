package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

type bookForm struct {
	Title    string     `form:"title" validate:"required;max:10"`
	Summary  string     `form:"summary" validate:"max:20"`
	AuthorID int64      `form:"author" validate:"required"`
	Genres   []int64    `form:"genre" validate:"required;max:2"`
	Language *int64     `form:"language"`
	Born     *time.Time `form:"date_of_birth" validate:"required"`
	Page     int        `query:"page" validate:"min:1;max:100"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	born := time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("valid struct", func(t *testing.T) {
		t.Parallel()
		f := bookForm{Title: "Dune", AuthorID: 1, Genres: []int64{1}, Born: &born, Page: 1}
		assert.NoError(t, validator.ValidateStruct(&f))
	})

	t.Run("reports each failing field by tag name", func(t *testing.T) {
		t.Parallel()
		f := bookForm{Title: "A very long title", Summary: "", Genres: []int64{1, 2, 3}, Page: 0}
		err := validator.ValidateStruct(f)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"Ensure this value has at most 10 characters."}, ve.Get("title"))
		assert.Equal(t, []string{validator.MsgRequired}, ve.Get("author"))
		assert.Equal(t, []string{"Select at most 2 item(s)."}, ve.Get("genre"))
		assert.Equal(t, []string{validator.MsgRequired}, ve.Get("date_of_birth"))
		assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, ve.Get("page"))
		assert.False(t, ve.Has("summary"))
		assert.False(t, ve.Has("language"))
	})

	t.Run("required short-circuits bounds", func(t *testing.T) {
		t.Parallel()
		f := bookForm{AuthorID: 1, Genres: nil, Born: &born, Page: 1}
		ve := validator.ExtractValidationErrors(validator.ValidateStruct(&f))
		assert.Equal(t, []string{validator.MsgRequired}, ve.Get("genre"))
		assert.Equal(t, []string{validator.MsgRequired}, ve.Get("title"))
	})

	t.Run("rejects non-struct targets", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, validator.ValidateStruct("nope"), validator.ErrNotStruct)
		var nilForm *bookForm
		assert.ErrorIs(t, validator.ValidateStruct(nilForm), validator.ErrNotStruct)
	})

	t.Run("rejects malformed tags", func(t *testing.T) {
		t.Parallel()
		type bad struct {
			Name string `validate:"between:1"`
		}
		err := validator.ValidateStruct(bad{})
		require.Error(t, err)
		assert.False(t, validator.IsValidationError(err))
	})
}
