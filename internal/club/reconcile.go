package club

import (
	"time"

	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
)

// Reconcile recomputes a member's current points from the approved
// submissions of the open period and repairs the cached account field if it
// drifted. The ledger is the source of truth; the account column is only a
// cache of it. Returns the drift that was found (cached minus recomputed),
// zero when the account was consistent.
func (e *Engine) Reconcile(userID string, now time.Time) (int, error) {

	var drift int
	err := e.storage.Transact(func(tx storage.Storage) error {
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}

		earned, err := tx.SumApprovedPoints(userID, MonthYear(now))
		if err != nil {
			return err
		}

		drift = user.CurrentPoints - earned
		if drift == 0 {
			return nil
		}

		return tx.SetUserCurrentPoints(userID, earned)
	})
	if err != nil {
		return 0, mapStorageErr(err)
	}

	if drift != 0 {
		logger.Warn("points account drifted from ledger, repaired",
			zap.String("user", userID),
			zap.Int("drift", drift))
	}

	return drift, nil
}
