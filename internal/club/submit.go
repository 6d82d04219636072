package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
)

type SubmitRequest struct {
	UserID      string
	MissionID   string
	Description string
	PhotoURL    string
	URL         string
}

// Submit records a member's claim to have completed a mission. The entry is
// stored pending with the mission's point value frozen in, so later catalog
// edits never change what an approval credits. The cap check and the insert
// run in one transaction; two racing submissions cannot both pass the check.
func (e *Engine) Submit(req SubmitRequest, now time.Time) (*storage.Submission, error) {

	mission, err := e.storage.GetMission(req.MissionID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if !mission.IsActive {
		return nil, ErrMissionInactive
	}

	if err := checkRequirements(mission, req); err != nil {
		return nil, err
	}

	missionCap := capForMission(mission)

	submission := &storage.Submission{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		MissionID:    mission.ID,
		MissionTitle: mission.Title,
		Description:  req.Description,
		PhotoURL:     req.PhotoURL,
		URL:          req.URL,
		PointsEarned: mission.Points,
		Status:       storage.StatusPending,
		MonthYear:    MonthYear(now),
		CreatedAt:    now.UTC(),
	}

	err = e.storage.Transact(func(tx storage.Storage) error {
		if since, counted := missionCap.windowStart(now); counted {
			count, err := tx.CountUserMissionSubmissions(req.UserID, mission.ID, since)
			if err != nil {
				return err
			}
			if count >= int64(missionCap.Limit) {
				return ErrLimitReached
			}
		}

		return tx.CreateSubmission(submission)
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	logger.Info("submission recorded",
		zap.String("submission", submission.ID),
		zap.String("user", req.UserID),
		zap.String("mission", mission.ID),
		zap.Int("points", mission.Points))

	return submission, nil
}

// checkRequirements enforces the mission's proof flags. Limits are counted
// elsewhere; this is only about the shape of the claim.
func checkRequirements(mission *storage.Mission, req SubmitRequest) error {
	if mission.RequiresDescription && req.Description == "" {
		return fmt.Errorf("%w: description required", ErrValidation)
	}
	if mission.RequiresPhoto && req.PhotoURL == "" {
		return fmt.Errorf("%w: photo required", ErrValidation)
	}
	if mission.RequiresLink && req.URL == "" {
		return fmt.Errorf("%w: link required", ErrValidation)
	}
	return nil
}

// PendingSubmissions lists the verification queue, oldest first.
func (e *Engine) PendingSubmissions() ([]*storage.Submission, error) {
	submissions, err := e.storage.GetSubmissionsByStatus(storage.StatusPending)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return submissions, nil
}

// UserSubmissions lists a member's submissions for a period, newest first.
func (e *Engine) UserSubmissions(userID string, monthYear string) ([]*storage.Submission, error) {
	submissions, err := e.storage.GetUserSubmissions(userID, monthYear)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return submissions, nil
}
