package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateRecordNotFound(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
}

func TestTranslateDuplicateKeyIsConflict(t *testing.T) {
	err := errors.New(`pq: duplicate key value violates unique constraint "itineraries_draft_id_key"`)
	assert.ErrorIs(t, translate(err), ErrConflict)
}

func TestTranslateUnknownIsTransientAndKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := translate(cause)
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, cause)
}

func TestTranslateNil(t *testing.T) {
	assert.NoError(t, translate(nil))
}

func TestInvalidMatchesValidationKind(t *testing.T) {
	err := invalid("title is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "title is required", err.Error())
}

func TestAsValidationWrapsFreeFormErrors(t *testing.T) {
	err := AsValidation(errors.New("day 2 has no stops"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "day 2 has no stops", err.Error())
}

func TestAsValidationPassesTaxonomyThrough(t *testing.T) {
	assert.Equal(t, ErrNotFound, AsValidation(ErrNotFound))
	assert.Equal(t, ErrConflict, AsValidation(ErrConflict))
	assert.NoError(t, AsValidation(nil))
}
