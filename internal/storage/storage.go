package storage

import "time"

type Storage interface {
	// Transact runs fn inside a single transaction; every Storage call made
	// through the argument sees and mutates the same uncommitted state.
	Transact(fn func(tx Storage) error) error

	// users
	GetUser(id string) (*User, error)
	GetUsers() ([]*User, error)
	GetUsersRankedByCurrentPoints() ([]*User, error)
	CreateUser(user *User) error
	AddUserPoints(id string, points int, level string) error
	SetUserCurrentPoints(id string, points int) error
	ResetAllCurrentPoints() error

	// missions
	GetMission(id string) (*Mission, error)
	GetMissions(activeOnly bool) ([]*Mission, error)
	CreateMission(mission *Mission) error
	UpdateMission(mission *Mission) error

	// submissions
	GetSubmission(id string) (*Submission, error)
	GetSubmissionsByStatus(status VerificationStatus) ([]*Submission, error)
	GetUserSubmissions(userID string, monthYear string) ([]*Submission, error)
	CountUserMissionSubmissions(userID string, missionID string, since time.Time) (int64, error)
	CreateSubmission(submission *Submission) error
	MarkSubmissionVerified(id string, status VerificationStatus, verifiedAt time.Time, verifiedBy string, monthYear string) (bool, error)
	SumApprovedPoints(userID string, monthYear string) (int, error)

	// leaderboard snapshots
	GetLeaderboardEntries(monthYear string) ([]*LeaderboardEntry, error)
	CreateLeaderboardEntries(entries []*LeaderboardEntry) error

	// prizes
	GetPrizeCatalog(monthYear string) ([]*Prize, error)
	UpsertPrize(prize *Prize) error
	GetPrizeRecords(monthYear string) ([]*PrizeRecord, error)
	CreatePrizeRecords(records []*PrizeRecord) error
	MarkPrizeUsed(monthYear string, place int, useDate time.Time) (bool, error)

	// notifications
	CreateNotification(notification *Notification) error
	GetUndispatchedNotifications(limit int) ([]*Notification, error)
	MarkNotificationDispatched(id string) error

	// reset markers
	GetResetMarker(monthYear string) (*ResetMarker, error)
	CreateResetMarker(marker *ResetMarker) (bool, error)
}

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

type Frequency string

const (
	FrequencyOneTime Frequency = "one-time"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
)
