package storage

import (
	"time"

	"github.com/panscim/panscim/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(dsn string) *SqliteStorage {

	logger.Debug("initializing database...")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = db.AutoMigrate(
		&User{},
		&Mission{},
		&Submission{},
		&LeaderboardEntry{},
		&PrizeRecord{},
		&Prize{},
		&Notification{},
		&ResetMarker{},
	)

	if err != nil {
		panic(err)
	}

	return &SqliteStorage{
		db: db,
	}
}

func (s *SqliteStorage) Transact(fn func(tx Storage) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&SqliteStorage{db: tx})
	})
}

func (s *SqliteStorage) GetUser(id string) (*User, error) {

	var user User
	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *SqliteStorage) GetUsers() ([]*User, error) {

	var users []*User
	err := s.db.Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (s *SqliteStorage) GetUsersRankedByCurrentPoints() ([]*User, error) {

	var users []*User
	err := s.db.Order("current_points desc, created_at asc").Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (s *SqliteStorage) CreateUser(user *User) error {
	return s.db.Create(user).Error
}

func (s *SqliteStorage) AddUserPoints(id string, points int, level string) error {
	logger.Debug("crediting user points...")

	err := s.db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_points": gorm.Expr("current_points + ?", points),
		"total_points":   gorm.Expr("total_points + ?", points),
		"level":          level,
	}).Error

	if err != nil {
		return err
	}

	logger.Debug("crediting user points... done")
	return nil
}

func (s *SqliteStorage) SetUserCurrentPoints(id string, points int) error {
	return s.db.Model(&User{}).Where("id = ?", id).
		Update("current_points", points).Error
}

func (s *SqliteStorage) ResetAllCurrentPoints() error {
	return s.db.Model(&User{}).Where("current_points <> 0").
		Update("current_points", 0).Error
}

func (s *SqliteStorage) GetMission(id string) (*Mission, error) {

	var mission Mission
	err := s.db.Where("id = ?", id).First(&mission).Error
	if err != nil {
		return nil, err
	}

	return &mission, nil
}

func (s *SqliteStorage) GetMissions(activeOnly bool) ([]*Mission, error) {

	var missions []*Mission
	query := s.db.Order("created_at asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	err := query.Find(&missions).Error
	if err != nil {
		return nil, err
	}

	return missions, nil
}

func (s *SqliteStorage) CreateMission(mission *Mission) error {
	return s.db.Create(mission).Error
}

func (s *SqliteStorage) UpdateMission(mission *Mission) error {
	return s.db.Save(mission).Error
}

func (s *SqliteStorage) GetSubmission(id string) (*Submission, error) {

	var submission Submission
	err := s.db.Where("id = ?", id).First(&submission).Error
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

func (s *SqliteStorage) GetSubmissionsByStatus(status VerificationStatus) ([]*Submission, error) {

	var submissions []*Submission
	err := s.db.Where("status = ?", status).Order("created_at asc").Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (s *SqliteStorage) GetUserSubmissions(userID string, monthYear string) ([]*Submission, error) {

	var submissions []*Submission
	err := s.db.Where("user_id = ? and month_year = ?", userID, monthYear).
		Order("created_at desc").Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (s *SqliteStorage) CountUserMissionSubmissions(userID string, missionID string, since time.Time) (int64, error) {

	var count int64
	err := s.db.Model(&Submission{}).
		Where("user_id = ? and mission_id = ? and created_at >= ?", userID, missionID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *SqliteStorage) CreateSubmission(submission *Submission) error {
	return s.db.Create(submission).Error
}

// MarkSubmissionVerified flips a pending submission to its terminal status
// and stamps the period the decision settles it into. Returns false when the
// row was not pending anymore, leaving it untouched.
func (s *SqliteStorage) MarkSubmissionVerified(id string, status VerificationStatus, verifiedAt time.Time, verifiedBy string, monthYear string) (bool, error) {
	logger.Debug("marking submission verified...")

	result := s.db.Model(&Submission{}).
		Where("id = ? and status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"verified_at": verifiedAt,
			"verified_by": verifiedBy,
			"month_year":  monthYear,
		})
	if result.Error != nil {
		return false, result.Error
	}

	logger.Debug("marking submission verified... done")
	return result.RowsAffected > 0, nil
}

func (s *SqliteStorage) SumApprovedPoints(userID string, monthYear string) (int, error) {

	var total int
	err := s.db.Raw(`
		select coalesce(sum(points_earned), 0) as total
		from submissions
		where user_id = ? and month_year = ? and status = ?
	`, userID, monthYear, StatusApproved).Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (s *SqliteStorage) GetLeaderboardEntries(monthYear string) ([]*LeaderboardEntry, error) {

	var entries []*LeaderboardEntry
	err := s.db.Where("month_year = ?", monthYear).Order("rank asc").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *SqliteStorage) CreateLeaderboardEntries(entries []*LeaderboardEntry) error {
	logger.Debug("persisting leaderboard snapshot...")

	if len(entries) == 0 {
		logger.Debug("no leaderboard entries to persist")
		return nil
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month_year"}, {Name: "rank"}},
		DoNothing: true,
	}).CreateInBatches(entries, 100).Error

	if err != nil {
		return err
	}

	logger.Debug("persisting leaderboard snapshot... done")
	return nil
}

func (s *SqliteStorage) GetPrizeCatalog(monthYear string) ([]*Prize, error) {

	var prizes []*Prize
	err := s.db.Where("month_year = ?", monthYear).Order("position asc").Find(&prizes).Error
	if err != nil {
		return nil, err
	}

	return prizes, nil
}

func (s *SqliteStorage) UpsertPrize(prize *Prize) error {
	logger.Debug("upserting prize...")

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "position"}, {Name: "month_year"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "image_url", "is_custom"}),
	}).Create(prize).Error

	if err != nil {
		return err
	}

	logger.Debug("upserting prize... done")
	return nil
}

func (s *SqliteStorage) GetPrizeRecords(monthYear string) ([]*PrizeRecord, error) {

	var records []*PrizeRecord
	err := s.db.Where("month_year = ?", monthYear).Order("place asc").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (s *SqliteStorage) CreatePrizeRecords(records []*PrizeRecord) error {

	if len(records) == 0 {
		return nil
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month_year"}, {Name: "place"}},
		DoNothing: true,
	}).Create(records).Error
}

func (s *SqliteStorage) MarkPrizeUsed(monthYear string, place int, useDate time.Time) (bool, error) {

	result := s.db.Model(&PrizeRecord{}).
		Where("month_year = ? and place = ? and use_date is null", monthYear, place).
		Update("use_date", useDate)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (s *SqliteStorage) CreateNotification(notification *Notification) error {
	return s.db.Create(notification).Error
}

func (s *SqliteStorage) GetUndispatchedNotifications(limit int) ([]*Notification, error) {

	var notifications []*Notification
	err := s.db.Where("dispatched = ?", false).
		Order("created_at asc").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (s *SqliteStorage) MarkNotificationDispatched(id string) error {
	return s.db.Model(&Notification{}).Where("id = ?", id).
		Update("dispatched", true).Error
}

func (s *SqliteStorage) GetResetMarker(monthYear string) (*ResetMarker, error) {

	var marker ResetMarker
	err := s.db.Where("month_year = ?", monthYear).First(&marker).Error
	if err != nil {
		return nil, err
	}

	return &marker, nil
}

// CreateResetMarker inserts the close-performed marker for a period.
// Returns false when the marker already existed.
func (s *SqliteStorage) CreateResetMarker(marker *ResetMarker) (bool, error) {

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month_year"}},
		DoNothing: true,
	}).Create(marker)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
