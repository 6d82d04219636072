package club

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrValidation            = errors.New("incomplete submission")
	ErrLimitReached          = errors.New("submission limit reached")
	ErrMissionInactive       = errors.New("mission inactive")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyVerified       = errors.New("submission already verified")
	ErrConcurrencyConflict   = errors.New("storage conflict, retry")
	ErrResetAlreadyPerformed = errors.New("monthly close already performed")
)

// mapStorageErr translates storage-layer failures into the engine taxonomy.
// Serialization failures surface as ErrConcurrencyConflict so the caller
// knows a retry is safe.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return ErrConcurrencyConflict
		}
	}

	return err
}
