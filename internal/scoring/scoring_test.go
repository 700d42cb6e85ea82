package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	home uint = 10
	away uint = 20
)

func ptr[T any](v T) *T { return &v }

// inningsEvents spreads runs and wickets over consecutive legal balls and
// finishes exactly on (lastOver, lastBall).
func inningsEvents(innings, runs, wickets, lastOver, lastBall int) []BallEvent {
	var evs []BallEvent
	for over := 0; over <= lastOver; over++ {
		maxBall := 6
		if over == lastOver {
			maxBall = lastBall
		}
		for ball := 1; ball <= maxBall; ball++ {
			evs = append(evs, BallEvent{InningsNumber: innings, OverNumber: over, BallNumber: ball})
		}
	}
	for i := 0; i < runs; i++ {
		evs[i%len(evs)].Runs++
	}
	for i := 0; i < wickets; i++ {
		evs[len(evs)-1-i].IsWicket = true
	}
	return evs
}

func TestComputeScores_EmptyLog(t *testing.T) {
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, nil)
	assert.Nil(t, res.HomeScore)
	assert.Nil(t, res.AwayScore)
	assert.Nil(t, res.CurrentInnings)
	assert.Nil(t, res.CurrentOver)

	res = ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away), TossDecision: ptr("bat")}, []BallEvent{})
	assert.True(t, res.Equal(Result{}))
}

func TestComputeScores_ScenarioA_HomeWinsTossAndBats(t *testing.T) {
	m := MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(home), TossDecision: ptr(TossBat)}
	res := ComputeScores(m, inningsEvents(1, 120, 3, 19, 6))

	require.NotNil(t, res.HomeScore)
	assert.Equal(t, "120/3", *res.HomeScore)
	require.NotNil(t, res.AwayScore)
	assert.Equal(t, "0/0", *res.AwayScore)
	require.NotNil(t, res.CurrentInnings)
	assert.Equal(t, 1, *res.CurrentInnings)
	require.NotNil(t, res.CurrentOver)
	assert.InDelta(t, 19.6, *res.CurrentOver, 1e-9)
}

func TestComputeScores_ScenarioB_SecondInningsInProgress(t *testing.T) {
	m := MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(home), TossDecision: ptr(TossBat)}
	evs := append(inningsEvents(1, 120, 3, 19, 6), inningsEvents(2, 45, 1, 8, 2)...)
	res := ComputeScores(m, evs)

	assert.Equal(t, "120/3", *res.HomeScore)
	assert.Equal(t, "45/1", *res.AwayScore)
	assert.Equal(t, 2, *res.CurrentInnings)
	assert.InDelta(t, 8.2, *res.CurrentOver, 1e-9)
}

func TestComputeScores_ScenarioC_AwayWinsTossAndBowls(t *testing.T) {
	m := MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away), TossDecision: ptr(TossBowl)}
	res := ComputeScores(m, inningsEvents(1, 88, 2, 11, 3))

	assert.Equal(t, "88/2", *res.HomeScore)
	assert.Equal(t, "0/0", *res.AwayScore)
	assert.Equal(t, 1, *res.CurrentInnings)
	assert.InDelta(t, 11.3, *res.CurrentOver, 1e-9)
}

func TestComputeScores_ScenarioD_NoTossFallsBackToHome(t *testing.T) {
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, inningsEvents(1, 30, 0, 4, 1))
	assert.Equal(t, "30/0", *res.HomeScore)
	assert.Equal(t, "0/0", *res.AwayScore)
}

func TestComputeScores_TossWinnerBatsFirstRegardlessOfSide(t *testing.T) {
	evs := append(inningsEvents(1, 150, 4, 19, 6), inningsEvents(2, 60, 2, 7, 5)...)

	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away), TossDecision: ptr(TossBat)}, evs)
	assert.Equal(t, "150/4", *res.AwayScore)
	assert.Equal(t, "60/2", *res.HomeScore)

	res = ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(home), TossDecision: ptr(TossBowl)}, evs)
	assert.Equal(t, "150/4", *res.AwayScore)
	assert.Equal(t, "60/2", *res.HomeScore)
}

func TestComputeScores_IncompleteOrUnknownTossUsesFallback(t *testing.T) {
	evs := inningsEvents(1, 12, 1, 1, 2)
	cases := []struct {
		name string
		m    MatchInfo
	}{
		{"winner only", MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away)}},
		{"decision only", MatchInfo{HomeTeamID: home, AwayTeamID: away, TossDecision: ptr(TossBat)}},
		{"winner not playing", MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(uint(99)), TossDecision: ptr(TossBat)}},
		{"unknown decision", MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away), TossDecision: ptr("field")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ComputeScores(tc.m, evs)
			assert.Equal(t, "12/1", *res.HomeScore)
			assert.Equal(t, "0/0", *res.AwayScore)
		})
	}
}

func TestComputeScores_CountsAreOrderIndependent(t *testing.T) {
	m := MatchInfo{HomeTeamID: home, AwayTeamID: away}
	evs := append(inningsEvents(1, 201, 7, 19, 6), inningsEvents(2, 99, 5, 12, 4)...)
	want := ComputeScores(m, evs)

	shuffled := make([]BallEvent, len(evs))
	copy(shuffled, evs)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := ComputeScores(m, shuffled)
		assert.True(t, want.Equal(got), "shuffle %d produced %+v", i, got)
	}
	assert.Equal(t, "201/7", *want.HomeScore)
	assert.Equal(t, "99/5", *want.AwayScore)
}

func TestComputeScores_Idempotent(t *testing.T) {
	m := MatchInfo{HomeTeamID: home, AwayTeamID: away, TossWinnerID: ptr(away), TossDecision: ptr(TossBowl)}
	evs := inningsEvents(1, 17, 2, 2, 4)
	first := ComputeScores(m, evs)
	second := ComputeScores(m, evs)
	assert.True(t, first.Equal(second))
}

func TestComputeScores_ExtrasCountedOnlyThroughRuns(t *testing.T) {
	evs := []BallEvent{
		{InningsNumber: 1, OverNumber: 0, BallNumber: 1, Runs: 1},
		{InningsNumber: 1, OverNumber: 0, BallNumber: 1, Runs: 5},
		{InningsNumber: 1, OverNumber: 0, BallNumber: 2, Runs: 4, IsWicket: true},
	}
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.Equal(t, "10/1", *res.HomeScore)
	assert.InDelta(t, 0.2, *res.CurrentOver, 1e-9)
}

func TestComputeScores_PositionIsLargestOverBallPair(t *testing.T) {
	// A full over followed by the first ball of the next reads 1.1, not 1.6.
	var evs []BallEvent
	for b := 1; b <= 6; b++ {
		evs = append(evs, BallEvent{InningsNumber: 1, OverNumber: 0, BallNumber: b, Runs: 1})
	}
	evs = append(evs, BallEvent{InningsNumber: 1, OverNumber: 1, BallNumber: 1, Runs: 4})
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.Equal(t, "10/0", *res.HomeScore)
	assert.InDelta(t, 1.1, *res.CurrentOver, 1e-9)

	// Order of the log does not matter.
	evs = []BallEvent{
		{InningsNumber: 1, OverNumber: 4, BallNumber: 1},
		{InningsNumber: 1, OverNumber: 3, BallNumber: 5},
	}
	res = ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.InDelta(t, 4.1, *res.CurrentOver, 1e-9)
}

func TestComputeScores_IgnoresInningsBeyondSecond(t *testing.T) {
	evs := []BallEvent{{InningsNumber: 3, OverNumber: 1, BallNumber: 1, Runs: 4}}
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.True(t, res.Equal(Result{}))

	evs = append(evs, BallEvent{InningsNumber: 1, OverNumber: 0, BallNumber: 1, Runs: 2})
	res = ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.Equal(t, "2/0", *res.HomeScore)
	assert.Equal(t, 1, *res.CurrentInnings)
}

func TestComputeScores_NoLegalBallLeavesInningsUnset(t *testing.T) {
	evs := []BallEvent{{InningsNumber: 1, OverNumber: 0, BallNumber: 0, Runs: 1}}
	res := ComputeScores(MatchInfo{HomeTeamID: home, AwayTeamID: away}, evs)
	assert.Equal(t, "1/0", *res.HomeScore)
	assert.Nil(t, res.CurrentInnings)
	assert.Nil(t, res.CurrentOver)
}

func TestMatchResult(t *testing.T) {
	text, winner := MatchResult(home, away, "India", "Australia", ptr("250/8"), ptr("230/10"))
	assert.Equal(t, "India won by 20 runs", text)
	require.NotNil(t, winner)
	assert.Equal(t, home, *winner)

	text, winner = MatchResult(home, away, "India", "Australia", ptr("180/9"), ptr("181/3"))
	assert.Equal(t, "Australia won by 1 runs", text)
	assert.Equal(t, away, *winner)

	text, winner = MatchResult(home, away, "India", "Australia", ptr("100/10"), ptr("100/10"))
	assert.Equal(t, "Match tied", text)
	assert.Nil(t, winner)

	text, winner = MatchResult(home, away, "India", "Australia", nil, ptr("1/0"))
	assert.Empty(t, text)
	assert.Nil(t, winner)
}
