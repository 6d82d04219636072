package club

import (
	"testing"
	"time"

	"github.com/panscim/panscim/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestLeaderboardOrdersByPointsThenJoinDate(t *testing.T) {
	engine, _ := newTestEngine(t)

	// A and B tie on points; A joined earlier and must rank above B.
	a := newMember(t, engine, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	b := newMember(t, engine, "bob", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 100, Frequency: storage.FrequencyDaily,
	}, now)

	earnPoints(t, engine, b.ID, mission.ID, now)
	earnPoints(t, engine, a.ID, mission.ID, now)

	for i := 0; i < 3; i++ {
		entries, err := engine.Leaderboard("2025-03", now)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, a.ID, entries[0].UserID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, b.ID, entries[1].UserID)
		assert.Equal(t, 2, entries[1].Rank)
	}
}

func TestLeaderboardReflectsApprovalsLive(t *testing.T) {
	engine, _ := newTestEngine(t)
	a := newMember(t, engine, "alice", testNow)
	b := newMember(t, engine, "bob", testNow.Add(time.Hour))
	mission := newMission(t, engine, MissionParams{
		Title: "Check-in", Points: 10, Frequency: storage.FrequencyDaily,
	}, testNow)

	earnPoints(t, engine, b.ID, mission.ID, testNow)

	entries, err := engine.Leaderboard(MonthYear(testNow), testNow)
	assert.NoError(t, err)
	assert.Equal(t, b.ID, entries[0].UserID)
	assert.Equal(t, 10, entries[0].Points)

	earnPoints(t, engine, a.ID, mission.ID, testNow.Add(time.Minute))
	earnPoints(t, engine, a.ID, mission.ID, testNow.Add(2*time.Minute))

	entries, err = engine.Leaderboard(MonthYear(testNow), testNow)
	assert.NoError(t, err)
	assert.Equal(t, a.ID, entries[0].UserID)
	assert.Equal(t, 20, entries[0].Points)
}

func TestLeaderboardUnknownClosedMonth(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Leaderboard("2019-07", testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}
