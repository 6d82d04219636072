package club

import (
	"testing"
	"time"

	"github.com/panscim/panscim/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestEmailValuesForTrailingMember(t *testing.T) {
	engine, _ := newTestEngine(t)
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

	first := newMember(t, engine, "alice", now.AddDate(0, -3, 0))
	second := newMember(t, engine, "bob", now.AddDate(0, -2, 0))
	third := newMember(t, engine, "carol", now.AddDate(0, -1, 0))
	trailing := newMember(t, engine, "dave", now)

	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 100, Frequency: storage.FrequencyDaily,
	}, now)

	for i, user := range []*storage.User{first, first, first, second, second, third} {
		earnPoints(t, engine, user.ID, mission.ID, now.Add(time.Duration(i)*time.Minute))
	}
	earnPoints(t, engine, trailing.ID, mission.ID, now)

	values, err := engine.EmailValuesFor(trailing.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, "dave", values.UserName)
	assert.Equal(t, 100, values.UserPoints)
	assert.Equal(t, LevelExplorer, values.UserLevel)
	// dave ties third place on points, so the gap is zero even though the
	// join-date tie-break ranks him fourth.
	assert.Equal(t, 0, values.PointsToTop3)

	podium, err := engine.EmailValuesFor(first.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, 0, podium.PointsToTop3)
	assert.Equal(t, 300, podium.UserPoints)
}

func TestEmailValuesPointsGap(t *testing.T) {
	engine, _ := newTestEngine(t)
	now := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

	leaders := []*storage.User{
		newMember(t, engine, "alice", now.AddDate(0, -3, 0)),
		newMember(t, engine, "bob", now.AddDate(0, -2, 0)),
		newMember(t, engine, "carol", now.AddDate(0, -1, 0)),
	}
	trailing := newMember(t, engine, "dave", now)

	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 100, Frequency: storage.FrequencyDaily,
	}, now)

	for _, leader := range leaders {
		earnPoints(t, engine, leader.ID, mission.ID, now)
		earnPoints(t, engine, leader.ID, mission.ID, now.Add(time.Minute))
	}

	values, err := engine.EmailValuesFor(trailing.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, 0, values.UserPoints)
	assert.Equal(t, 200, values.PointsToTop3)
}
