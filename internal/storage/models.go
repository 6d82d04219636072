package storage

import "time"

type User struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Username      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	Country       string
	AvatarURL     string
	ClubCardCode  string `gorm:"uniqueIndex;not null"`
	CurrentPoints int    `gorm:"default:0"`
	TotalPoints   int    `gorm:"default:0"`
	Level         string `gorm:"default:Explorer"`
	IsAdmin       bool   `gorm:"default:false"`
	CreatedAt     time.Time
}

type Mission struct {
	ID                  string `gorm:"primaryKey"`
	Title               string `gorm:"not null"`
	Description         string
	Points              int       `gorm:"not null"`
	Frequency           Frequency `gorm:"not null"`
	DailyLimit          int       `gorm:"default:0"`
	WeeklyLimit         int       `gorm:"default:0"`
	IsActive            bool      `gorm:"default:true"`
	RequiresDescription bool      `gorm:"default:false"`
	RequiresPhoto       bool      `gorm:"default:false"`
	RequiresLink        bool      `gorm:"default:false"`
	// RequiresApproval is carried for the admin and member clients only;
	// the engine queues every submission for verification regardless, as
	// approval is the sole path that credits points.
	RequiresApproval bool `gorm:"default:true"`
	CreatedAt           time.Time
}

type Submission struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"index:idx_submission_user_mission;not null"`
	MissionID    string `gorm:"index:idx_submission_user_mission;not null"`
	MissionTitle string
	Description  string
	PhotoURL     string
	URL          string
	PointsEarned int                `gorm:"not null"`
	Status       VerificationStatus `gorm:"index;not null"`
	MonthYear    string             `gorm:"index;not null"`
	CreatedAt    time.Time
	VerifiedAt   *time.Time
	VerifiedBy   string
}

// LeaderboardEntry rows exist only for closed periods; open periods are
// ranked live from users.
type LeaderboardEntry struct {
	MonthYear string `gorm:"primaryKey"`
	Rank      int    `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Username  string
	Country   string
	Points    int
	Level     string
}

type PrizeRecord struct {
	MonthYear string `gorm:"primaryKey"`
	Place     int    `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	PrizeName string
	WinDate   time.Time
	UseDate   *time.Time
}

type Prize struct {
	Position    int    `gorm:"primaryKey"`
	MonthYear   string `gorm:"primaryKey"`
	Title       string
	Description string
	ImageURL    string
	IsCustom    bool `gorm:"default:false"`
}

type Notification struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index;not null"`
	Title      string
	Message    string
	Type       string
	Read       bool `gorm:"default:false"`
	Dispatched bool `gorm:"index;default:false"`
	CreatedAt  time.Time
}

// ResetMarker records that the monthly close already ran for a period.
type ResetMarker struct {
	MonthYear   string `gorm:"primaryKey"`
	PerformedAt time.Time
}
