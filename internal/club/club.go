// Package club implements the loyalty club points engine: mission
// submissions, manual verification, point crediting, monthly leaderboards
// and prize assignment. All operations take the acting user and the current
// time as explicit arguments; the engine keeps no ambient session state.
package club

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panscim/panscim/internal/storage"
)

type Engine struct {
	storage storage.Storage
}

func NewEngine(s storage.Storage) *Engine {
	return &Engine{
		storage: s,
	}
}

type MemberParams struct {
	Name     string
	Username string
	Email    string
	Country  string
}

// CreateMember registers a club member with a fresh club-card code. The
// code is unique and never changes for the lifetime of the account.
func (e *Engine) CreateMember(params MemberParams, now time.Time) (*storage.User, error) {

	if params.Name == "" || params.Username == "" || params.Email == "" {
		return nil, ErrValidation
	}

	id := uuid.NewString()
	user := &storage.User{
		ID:           id,
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		Country:      params.Country,
		ClubCardCode: clubCardCode(id),
		Level:        LevelExplorer,
		CreatedAt:    now.UTC(),
	}

	if err := e.storage.CreateUser(user); err != nil {
		return nil, mapStorageErr(err)
	}

	return user, nil
}

func (e *Engine) GetMember(userID string) (*storage.User, error) {
	user, err := e.storage.GetUser(userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return user, nil
}

func (e *Engine) ListMembers() ([]*storage.User, error) {
	users, err := e.storage.GetUsers()
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return users, nil
}

func clubCardCode(id string) string {
	return "DPC-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
