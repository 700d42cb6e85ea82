// Package scoring derives the live score fields of a match from its ball log.
package scoring

import (
	"fmt"
)

const (
	TossBat  = "bat"
	TossBowl = "bowl"
)

// MatchInfo is the toss metadata needed to resolve batting order.
type MatchInfo struct {
	HomeTeamID   uint
	AwayTeamID   uint
	TossWinnerID *uint
	TossDecision *string
}

// BallEvent is one delivery as recorded in the commentary log.
// Runs already include any extras awarded on the delivery.
type BallEvent struct {
	InningsNumber int
	OverNumber    int
	BallNumber    int
	Runs          int
	IsWicket      bool
}

// Result holds the four derived match fields. A nil field means "not set".
type Result struct {
	HomeScore      *string  `json:"home_score"`
	AwayScore      *string  `json:"away_score"`
	CurrentInnings *int     `json:"current_innings"`
	CurrentOver    *float64 `json:"current_over"`
}

// Equal reports whether two results carry the same values.
func (r Result) Equal(o Result) bool {
	return eqString(r.HomeScore, o.HomeScore) &&
		eqString(r.AwayScore, o.AwayScore) &&
		eqInt(r.CurrentInnings, o.CurrentInnings) &&
		eqFloat(r.CurrentOver, o.CurrentOver)
}

type inningsTally struct {
	runs    int
	wickets int
	// maxOver and maxBall are the largest (over, ball) position seen.
	maxOver int
	maxBall int
	balls   int
}

func (t inningsTally) score() string {
	return fmt.Sprintf("%d/%d", t.runs, t.wickets)
}

// over encodes completed overs and balls of the current over as overs.balls,
// e.g. over 45 ball 4 becomes 45.4.
func (t inningsTally) over() float64 {
	return float64(t.maxOver*10+t.maxBall) / 10
}

// BattingOrder returns the team batting first and the team batting second.
// Home bats first when the toss is missing, incomplete or names a team
// that is not playing.
func BattingOrder(m MatchInfo) (first, second uint) {
	if m.TossWinnerID == nil || m.TossDecision == nil {
		return m.HomeTeamID, m.AwayTeamID
	}

	winner := *m.TossWinnerID
	var other uint
	switch winner {
	case m.HomeTeamID:
		other = m.AwayTeamID
	case m.AwayTeamID:
		other = m.HomeTeamID
	default:
		return m.HomeTeamID, m.AwayTeamID
	}

	switch *m.TossDecision {
	case TossBat:
		return winner, other
	case TossBowl:
		return other, winner
	}
	return m.HomeTeamID, m.AwayTeamID
}

// ComputeScores folds the full ball log of a match into its derived fields.
// Events outside innings 1 and 2 are ignored. The input order does not matter.
func ComputeScores(m MatchInfo, events []BallEvent) Result {
	var tallies [2]inningsTally
	for _, ev := range events {
		if ev.InningsNumber != 1 && ev.InningsNumber != 2 {
			continue
		}
		t := &tallies[ev.InningsNumber-1]
		t.balls++
		t.runs += ev.Runs
		if ev.IsWicket {
			t.wickets++
		}
		if ev.BallNumber > 0 && (ev.OverNumber > t.maxOver ||
			(ev.OverNumber == t.maxOver && ev.BallNumber > t.maxBall)) {
			t.maxOver, t.maxBall = ev.OverNumber, ev.BallNumber
		}
	}

	var res Result
	if tallies[0].balls == 0 && tallies[1].balls == 0 {
		return res
	}

	first, _ := BattingOrder(m)
	firstScore, secondScore := tallies[0].score(), tallies[1].score()
	if first == m.HomeTeamID {
		res.HomeScore, res.AwayScore = &firstScore, &secondScore
	} else {
		res.HomeScore, res.AwayScore = &secondScore, &firstScore
	}

	for i := 1; i >= 0; i-- {
		if tallies[i].maxBall > 0 {
			innings := i + 1
			over := tallies[i].over()
			res.CurrentInnings = &innings
			res.CurrentOver = &over
			break
		}
	}
	return res
}

// MatchResult describes the outcome from two final score strings, or returns
// "" with no winner when either score is missing or unparsable.
func MatchResult(homeTeamID, awayTeamID uint, homeName, awayName string, homeScore, awayScore *string) (string, *uint) {
	if homeScore == nil || awayScore == nil {
		return "", nil
	}
	homeRuns, ok1 := parseRuns(*homeScore)
	awayRuns, ok2 := parseRuns(*awayScore)
	if !ok1 || !ok2 {
		return "", nil
	}

	switch {
	case homeRuns > awayRuns:
		id := homeTeamID
		return fmt.Sprintf("%s won by %d runs", homeName, homeRuns-awayRuns), &id
	case awayRuns > homeRuns:
		id := awayTeamID
		return fmt.Sprintf("%s won by %d runs", awayName, awayRuns-homeRuns), &id
	}
	return "Match tied", nil
}

func parseRuns(score string) (int, bool) {
	var runs, wickets int
	if _, err := fmt.Sscanf(score, "%d/%d", &runs, &wickets); err != nil {
		return 0, false
	}
	return runs, true
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
