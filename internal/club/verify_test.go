package club

import (
	"testing"
	"time"

	"github.com/panscim/panscim/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestApproveCreditsPointsAndLevel(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Grand tour", Points: 600, Frequency: storage.FrequencyOneTime,
	}, testNow)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, testNow)
	assert.NoError(t, err)

	result, err := engine.Verify(submission.ID, DecisionApproved, "admin", testNow)
	assert.NoError(t, err)
	assert.Equal(t, storage.StatusApproved, result.Outcome)
	assert.False(t, result.AlreadyVerified)
	assert.NotNil(t, result.Submission.VerifiedAt)
	assert.Equal(t, "admin", result.Submission.VerifiedBy)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 600, account.CurrentPoints)
	assert.Equal(t, 600, account.TotalPoints)
	assert.Equal(t, LevelLocalFriend, account.Level)
}

func TestRejectDoesNotCredit(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 25, Frequency: storage.FrequencyDaily,
	}, testNow)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, testNow)
	assert.NoError(t, err)

	result, err := engine.Verify(submission.ID, DecisionRejected, "admin", testNow)
	assert.NoError(t, err)
	assert.Equal(t, storage.StatusRejected, result.Outcome)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Zero(t, account.CurrentPoints)
	assert.Zero(t, account.TotalPoints)
}

func TestVerifyUnknownSubmission(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Verify("missing", DecisionApproved, "admin", testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyRejectsUnknownDecision(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Verify("anything", Decision("maybe"), "admin", testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApproveIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 25, Frequency: storage.FrequencyDaily,
	}, testNow)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, testNow)
	assert.NoError(t, err)

	_, err = engine.Verify(submission.ID, DecisionApproved, "admin", testNow)
	assert.NoError(t, err)

	// A double-submitted click must not double-credit.
	result, err := engine.Verify(submission.ID, DecisionApproved, "admin", testNow.Add(time.Second))
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.True(t, result.AlreadyVerified)
	assert.Equal(t, storage.StatusApproved, result.Outcome)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 25, account.CurrentPoints)
	assert.Equal(t, 25, account.TotalPoints)
}

func TestVerifiedStatusIsTerminal(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 25, Frequency: storage.FrequencyDaily,
	}, testNow)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, testNow)
	assert.NoError(t, err)

	_, err = engine.Verify(submission.ID, DecisionRejected, "admin", testNow)
	assert.NoError(t, err)

	// An approval after a rejection reports the prior outcome, no credit.
	result, err := engine.Verify(submission.ID, DecisionApproved, "admin", testNow)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, storage.StatusRejected, result.Outcome)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Zero(t, account.CurrentPoints)
}

func TestVerificationEnqueuesNotification(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 25, Frequency: storage.FrequencyDaily,
	}, testNow)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, testNow)
	assert.NoError(t, err)

	_, err = engine.Verify(submission.ID, DecisionApproved, "admin", testNow)
	assert.NoError(t, err)

	notifications, err := store.GetUndispatchedNotifications(10)
	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, user.ID, notifications[0].UserID)
	assert.Equal(t, "Mission approved", notifications[0].Title)
}

func TestAccountMatchesLedgerAfterMixedDecisions(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 10, Frequency: storage.FrequencyDaily,
	}, testNow)

	decisions := []Decision{
		DecisionApproved, DecisionRejected, DecisionApproved,
		DecisionApproved, DecisionRejected, DecisionApproved,
	}

	approved := 0
	for i, decision := range decisions {
		at := testNow.Add(time.Duration(i) * time.Minute)
		submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, at)
		assert.NoError(t, err)

		_, err = engine.Verify(submission.ID, decision, "admin", at)
		assert.NoError(t, err)

		if decision == DecisionApproved {
			approved++
		}

		// The account must equal the approved ledger sum after every step.
		drift, err := engine.Reconcile(user.ID, at)
		assert.NoError(t, err)
		assert.Zero(t, drift)

		account, err := engine.GetMember(user.ID)
		assert.NoError(t, err)
		assert.Equal(t, approved*10, account.CurrentPoints)
	}
}

func TestApprovalAfterMonthCloseCreditsOpenPeriod(t *testing.T) {
	engine, store := newTestEngine(t)
	january := time.Date(2025, 1, 31, 22, 0, 0, 0, time.UTC)

	user := newMember(t, engine, "alice", january.AddDate(0, -1, 0))
	mission := newMission(t, engine, MissionParams{
		Title: "Late review", Points: 50, Frequency: storage.FrequencyOneTime,
	}, january)

	submission, err := engine.Submit(SubmitRequest{UserID: user.ID, MissionID: mission.ID}, january)
	assert.NoError(t, err)
	assert.Equal(t, "2025-01", submission.MonthYear)

	_, err = engine.CloseMonth("2025-01", january.Add(time.Hour))
	assert.NoError(t, err)

	// The claim sat pending across the close; approval belongs to February.
	february := time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC)
	result, err := engine.Verify(submission.ID, DecisionApproved, "admin", february)
	assert.NoError(t, err)
	assert.Equal(t, "2025-02", result.Submission.MonthYear)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 50, account.CurrentPoints)

	earned, err := store.SumApprovedPoints(user.ID, "2025-02")
	assert.NoError(t, err)
	assert.Equal(t, 50, earned)

	// The account matches the open-period ledger; nothing to repair.
	drift, err := engine.Reconcile(user.ID, february)
	assert.NoError(t, err)
	assert.Zero(t, drift)

	account, err = engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 50, account.CurrentPoints)

	// The frozen January standings are not retroactively credited.
	entries, err := engine.Leaderboard("2025-01", february)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Zero(t, entries[0].Points)
}

func TestReconcileRepairsDriftedAccount(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newMember(t, engine, "alice", testNow)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 10, Frequency: storage.FrequencyDaily,
	}, testNow)

	earnPoints(t, engine, user.ID, mission.ID, testNow)

	// Corrupt the cached account field behind the engine's back.
	assert.NoError(t, store.SetUserCurrentPoints(user.ID, 999))

	drift, err := engine.Reconcile(user.ID, testNow)
	assert.NoError(t, err)
	assert.Equal(t, 989, drift)

	account, err := engine.GetMember(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, account.CurrentPoints)
}
