package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/panscim/panscim/internal/storage"
)

type MissionParams struct {
	Title               string
	Description         string
	Points              int
	Frequency           storage.Frequency
	DailyLimit          int
	WeeklyLimit         int
	RequiresDescription bool
	RequiresPhoto       bool
	RequiresLink        bool
	RequiresApproval    bool
}

func validateMissionParams(params MissionParams) error {
	if params.Title == "" {
		return fmt.Errorf("%w: mission title required", ErrValidation)
	}
	if params.Points <= 0 {
		return fmt.Errorf("%w: mission points must be positive", ErrValidation)
	}
	switch params.Frequency {
	case storage.FrequencyOneTime, storage.FrequencyDaily, storage.FrequencyWeekly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrValidation, params.Frequency)
	}
	if params.DailyLimit < 0 || params.WeeklyLimit < 0 {
		return fmt.Errorf("%w: limits cannot be negative", ErrValidation)
	}
	return nil
}

// CreateMission adds a point-earning mission to the catalog.
func (e *Engine) CreateMission(params MissionParams, now time.Time) (*storage.Mission, error) {

	if err := validateMissionParams(params); err != nil {
		return nil, err
	}

	mission := &storage.Mission{
		ID:                  uuid.NewString(),
		Title:               params.Title,
		Description:         params.Description,
		Points:              params.Points,
		Frequency:           params.Frequency,
		DailyLimit:          params.DailyLimit,
		WeeklyLimit:         params.WeeklyLimit,
		IsActive:            true,
		RequiresDescription: params.RequiresDescription,
		RequiresPhoto:       params.RequiresPhoto,
		RequiresLink:        params.RequiresLink,
		RequiresApproval:    params.RequiresApproval,
		CreatedAt:           now.UTC(),
	}

	if err := e.storage.CreateMission(mission); err != nil {
		return nil, mapStorageErr(err)
	}

	return mission, nil
}

// UpdateMission rewrites a mission definition. Point value changes only
// affect future submissions; recorded ones keep their frozen value.
func (e *Engine) UpdateMission(missionID string, params MissionParams) (*storage.Mission, error) {

	if err := validateMissionParams(params); err != nil {
		return nil, err
	}

	mission, err := e.storage.GetMission(missionID)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	mission.Title = params.Title
	mission.Description = params.Description
	mission.Points = params.Points
	mission.Frequency = params.Frequency
	mission.DailyLimit = params.DailyLimit
	mission.WeeklyLimit = params.WeeklyLimit
	mission.RequiresDescription = params.RequiresDescription
	mission.RequiresPhoto = params.RequiresPhoto
	mission.RequiresLink = params.RequiresLink
	mission.RequiresApproval = params.RequiresApproval

	if err := e.storage.UpdateMission(mission); err != nil {
		return nil, mapStorageErr(err)
	}

	return mission, nil
}

// DeactivateMission retires a mission from the catalog. Missions are never
// deleted; history keeps pointing at them.
func (e *Engine) DeactivateMission(missionID string) error {

	mission, err := e.storage.GetMission(missionID)
	if err != nil {
		return mapStorageErr(err)
	}

	mission.IsActive = false
	if err := e.storage.UpdateMission(mission); err != nil {
		return mapStorageErr(err)
	}

	return nil
}

func (e *Engine) ListMissions(activeOnly bool) ([]*storage.Mission, error) {
	missions, err := e.storage.GetMissions(activeOnly)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return missions, nil
}

type MissionView struct {
	Mission *storage.Mission
	// Available reports whether the member can submit right now, i.e. the
	// cap window still has room.
	Available bool
	// Completed reports whether a one-time mission has been submitted.
	Completed bool
}

// MissionsForUser lists the active catalog annotated with per-member
// availability, mirroring what the member-facing client shows.
func (e *Engine) MissionsForUser(userID string, now time.Time) ([]*MissionView, error) {

	missions, err := e.storage.GetMissions(true)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	views := make([]*MissionView, 0, len(missions))
	for _, mission := range missions {
		view := &MissionView{Mission: mission, Available: true}

		missionCap := capForMission(mission)
		if since, counted := missionCap.windowStart(now); counted {
			count, err := e.storage.CountUserMissionSubmissions(userID, mission.ID, since)
			if err != nil {
				return nil, mapStorageErr(err)
			}
			view.Available = count < int64(missionCap.Limit)
			if missionCap.Kind == CapOneTime {
				view.Completed = count > 0
			}
		}

		views = append(views, view)
	}

	return views, nil
}
