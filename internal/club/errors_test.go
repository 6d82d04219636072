package club

import (
	"errors"
	"fmt"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapStorageErrClassification(t *testing.T) {
	assert.NoError(t, mapStorageErr(nil))

	assert.ErrorIs(t, mapStorageErr(gorm.ErrRecordNotFound), ErrNotFound)

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.ErrorIs(t, mapStorageErr(busy), ErrConcurrencyConflict)

	locked := fmt.Errorf("update users: %w", sqlite3.Error{Code: sqlite3.ErrLocked})
	assert.ErrorIs(t, mapStorageErr(locked), ErrConcurrencyConflict)

	// Other sqlite failures pass through untranslated.
	constraint := sqlite3.Error{Code: sqlite3.ErrConstraint}
	assert.NotErrorIs(t, mapStorageErr(constraint), ErrConcurrencyConflict)

	plain := errors.New("disk I/O error")
	assert.Equal(t, plain, mapStorageErr(plain))
}
