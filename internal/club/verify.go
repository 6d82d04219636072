package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panscim/panscim/internal/logger"
	"github.com/panscim/panscim/internal/storage"
	"go.uber.org/zap"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type VerifyResult struct {
	Submission *storage.Submission
	// Outcome is the terminal status of the submission after the call.
	Outcome storage.VerificationStatus
	// AlreadyVerified is set when the submission had been decided before
	// this call; Outcome then reports the prior decision.
	AlreadyVerified bool
}

// Verify applies an administrator decision to a pending submission. The
// status flip and the point credit commit in one transaction. Re-invoking on
// an already-decided submission is a no-op returning the prior outcome
// together with ErrAlreadyVerified; admin clients double-submit.
//
// This is the only path that credits points from submissions.
func (e *Engine) Verify(submissionID string, decision Decision, adminID string, now time.Time) (*VerifyResult, error) {

	var status storage.VerificationStatus
	switch decision {
	case DecisionApproved:
		status = storage.StatusApproved
	case DecisionRejected:
		status = storage.StatusRejected
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}

	var result VerifyResult
	err := e.storage.Transact(func(tx storage.Storage) error {
		submission, err := tx.GetSubmission(submissionID)
		if err != nil {
			return err
		}

		// An approval credits the period it lands in, so the ledger row is
		// re-stamped to the open month. A claim left pending across a close
		// must count into the new period, never the frozen one.
		monthYear := submission.MonthYear
		if status == storage.StatusApproved {
			monthYear = MonthYear(now)
		}

		claimed, err := tx.MarkSubmissionVerified(submissionID, status, now.UTC(), adminID, monthYear)
		if err != nil {
			return err
		}

		if !claimed {
			// Someone decided this submission first. Report what they did.
			result = VerifyResult{
				Submission:      submission,
				Outcome:         submission.Status,
				AlreadyVerified: true,
			}
			return nil
		}

		if status == storage.StatusApproved {
			user, err := tx.GetUser(submission.UserID)
			if err != nil {
				return err
			}

			level := LevelForPoints(user.TotalPoints + submission.PointsEarned)
			if err := tx.AddUserPoints(submission.UserID, submission.PointsEarned, level); err != nil {
				return err
			}
		}

		if err := tx.CreateNotification(verificationNotification(submission, status, now)); err != nil {
			return err
		}

		submission.Status = status
		submission.MonthYear = monthYear
		verifiedAt := now.UTC()
		submission.VerifiedAt = &verifiedAt
		submission.VerifiedBy = adminID
		result = VerifyResult{Submission: submission, Outcome: status}
		return nil
	})
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if result.AlreadyVerified {
		return &result, ErrAlreadyVerified
	}

	logger.Info("submission verified",
		zap.String("submission", submissionID),
		zap.String("decision", string(decision)),
		zap.String("admin", adminID))

	return &result, nil
}

func verificationNotification(submission *storage.Submission, status storage.VerificationStatus, now time.Time) *storage.Notification {

	notification := &storage.Notification{
		ID:        uuid.NewString(),
		UserID:    submission.UserID,
		CreatedAt: now.UTC(),
	}

	if status == storage.StatusApproved {
		notification.Title = "Mission approved"
		notification.Message = fmt.Sprintf("%q earned you %d points.", submission.MissionTitle, submission.PointsEarned)
		notification.Type = "success"
	} else {
		notification.Title = "Mission rejected"
		notification.Message = fmt.Sprintf("Your submission for %q was not approved.", submission.MissionTitle)
		notification.Type = "warning"
	}

	return notification
}
