package domain

import "strings"

// Team identifies one side of the scoreboard
type Team string

const (
	TeamLocal Team = "local"
	TeamGuest Team = "guest"
)

// ParseTeam converts a caller-supplied identifier into a Team
func ParseTeam(s string) (Team, error) {
	switch Team(strings.ToLower(strings.TrimSpace(s))) {
	case TeamLocal:
		return TeamLocal, nil
	case TeamGuest:
		return TeamGuest, nil
	default:
		return "", ErrInvalidTeam
	}
}

// UpdateScore adds points (negative for corrections) to a team's score,
// clamped at zero. It returns the new score.
func (g *GameState) UpdateScore(team Team, points int) (int, error) {
	var score *int
	switch team {
	case TeamLocal:
		score = &g.ScoreLocal
	case TeamGuest:
		score = &g.ScoreGuest
	default:
		return 0, ErrInvalidTeam
	}

	*score = max(0, *score+points)
	return *score, nil
}
