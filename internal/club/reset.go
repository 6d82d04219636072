package club

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
)

type CloseResult struct {
	MonthYear string
	Standings []*storage.LeaderboardEntry
	Winners   []*storage.PrizeRecord
}

// CloseMonth finalizes a period: it freezes the live standings as the
// permanent snapshot for monthYear, awards prize records to the top three
// members with nonzero points, zeroes everyone's current points and marks
// the period closed. Winner notifications are written as rows inside the
// same transaction; delivering them is the dispatcher's job, so a delivery
// failure can never undo a committed close.
//
// Re-running for an already-closed period returns ErrResetAlreadyPerformed
// and changes nothing, which makes a retried scheduled job harmless.
func (e *Engine) CloseMonth(monthYear string, now time.Time) (*CloseResult, error) {

	var result CloseResult
	err := e.storage.Transact(func(tx storage.Storage) error {
		// The marker insert is the authoritative guard: whoever gets the
		// row in performs the close, everyone else backs off.
		created, err := tx.CreateResetMarker(&storage.ResetMarker{
			MonthYear:   monthYear,
			PerformedAt: now.UTC(),
		})
		if err != nil {
			return err
		}
		if !created {
			return ErrResetAlreadyPerformed
		}

		standings, err := liveStandings(tx, monthYear)
		if err != nil {
			return err
		}

		if err := tx.CreateLeaderboardEntries(standings); err != nil {
			return err
		}

		winners, err := awardPrizes(tx, monthYear, standings, now)
		if err != nil {
			return err
		}

		if err := tx.ResetAllCurrentPoints(); err != nil {
			return err
		}

		result = CloseResult{MonthYear: monthYear, Standings: standings, Winners: winners}
		return nil
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	logger.Info("month closed",
		zap.String("monthYear", monthYear),
		zap.Int("ranked", len(result.Standings)),
		zap.Int("winners", len(result.Winners)))

	return &result, nil
}

// awardPrizes creates prize records for places 1-3. Places whose standing
// has zero points stay unfilled; no backfilling from further down the board.
func awardPrizes(tx storage.Storage, monthYear string, standings []*storage.LeaderboardEntry, now time.Time) ([]*storage.PrizeRecord, error) {

	catalog, err := prizeCatalog(tx, monthYear)
	if err != nil {
		return nil, err
	}

	var records []*storage.PrizeRecord
	for _, entry := range standings {
		if entry.Rank > 3 {
			break
		}
		if entry.Points <= 0 {
			continue
		}

		records = append(records, &storage.PrizeRecord{
			MonthYear: monthYear,
			Place:     entry.Rank,
			UserID:    entry.UserID,
			PrizeName: catalog[entry.Rank-1].Title,
			WinDate:   now.UTC(),
		})
	}

	if err := tx.CreatePrizeRecords(records); err != nil {
		return nil, err
	}

	for _, record := range records {
		err := tx.CreateNotification(&storage.Notification{
			ID:        uuid.NewString(),
			UserID:    record.UserID,
			Title:     "You won a prize!",
			Message:   fmt.Sprintf("You finished #%d in %s and won: %s", record.Place, record.MonthYear, record.PrizeName),
			Type:      "achievement",
			CreatedAt: now.UTC(),
		})
		if err != nil {
			return nil, err
		}
	}

	return records, nil
}

// MonthClosed reports whether the close already ran for a period.
func (e *Engine) MonthClosed(monthYear string) (bool, error) {
	_, err := e.storage.GetResetMarker(monthYear)
	if err != nil {
		if mapped := mapStorageErr(err); errors.Is(mapped, ErrNotFound) {
			return false, nil
		}
		return false, mapStorageErr(err)
	}
	return true, nil
}

// PrizeWinners returns the immutable award records of a closed period.
func (e *Engine) PrizeWinners(monthYear string) ([]*storage.PrizeRecord, error) {
	records, err := e.storage.GetPrizeRecords(monthYear)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return records, nil
}
