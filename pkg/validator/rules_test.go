package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/locallibrary/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	errPast := errors.New("Invalid date - renewal in past")

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.NoError("renewal_date", nil),
			validator.Custom("date_of_death", "bad order", func() bool { return true }),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure in order", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.NoError("renewal_date", errPast),
			validator.Custom("date_of_death", "Date of death precedes date of birth.", func() bool { return false }),
			validator.Custom("isbn", "unused", func() bool { return true }),
		)
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.Equal(t, "renewal_date", ve[0].Field)
		assert.Equal(t, "Invalid date - renewal in past", ve[0].Message)
		assert.Equal(t, []string{"Date of death precedes date of birth."}, ve.Get("date_of_death"))
		assert.False(t, ve.Has("isbn"))
	})

	t.Run("zero rule passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.Rule{}))
	})
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("wrapped errors are detected", func(t *testing.T) {
		t.Parallel()
		var ve validator.ValidationErrors
		ve.Add("title", "bad")
		err := fmt.Errorf("create book: %w", ve)

		assert.True(t, validator.IsValidationError(err))
		assert.Equal(t, []string{"bad"}, validator.ExtractValidationErrors(err).Get("title"))
	})

	t.Run("plain errors are not validation errors", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		assert.False(t, validator.IsValidationError(err))
		assert.Nil(t, validator.ExtractValidationErrors(err))
	})

	t.Run("merge keeps order", func(t *testing.T) {
		t.Parallel()
		a := validator.ValidationErrors{{Field: "a", Message: "1"}}
		b := validator.ValidationErrors{{Field: "b", Message: "2"}}
		merged := a.Merge(b)
		require.Len(t, merged, 2)
		assert.Equal(t, "a", merged[0].Field)
		assert.Equal(t, "b", merged[1].Field)
		assert.Len(t, a, 1)
	})

	t.Run("error string lists fields", func(t *testing.T) {
		t.Parallel()
		ve := validator.ValidationErrors{{Field: "title", Message: "required"}, {Message: "general"}}
		assert.Equal(t, "validation failed: title: required; general", ve.Error())
		assert.True(t, validator.ValidationErrors{}.IsEmpty())
	})
}
