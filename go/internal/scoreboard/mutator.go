package scoreboard

import (
	"fmt"
	"math"
)

// Apply validates cmd against s and returns the resulting state. It is a pure
// function: on error the returned state is s, unchanged.
func Apply(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case AdjustScore:
		switch c.Team {
		case TeamHome:
			s.HomeScore = addScore(s.HomeScore, c.Delta)
		case TeamAway:
			s.AwayScore = addScore(s.AwayScore, c.Delta)
		default:
			return s, fmt.Errorf("%w: %q", ErrInvalidTeam, c.Team)
		}

	case SetNames:
		if c.Home != nil && *c.Home != "" {
			s.HomeName = TruncateName(*c.Home, MaxNameLength)
		}
		if c.Away != nil && *c.Away != "" {
			s.AwayName = TruncateName(*c.Away, MaxNameLength)
		}

	case SetColor:
		if c.Team != TeamHome && c.Team != TeamAway {
			return s, fmt.Errorf("%w: %q", ErrInvalidTeam, c.Team)
		}
		color, err := ParseRGB(c.Color)
		if err != nil {
			return s, err
		}
		if c.Team == TeamHome {
			s.HomeBgColor = color
		} else {
			s.AwayBgColor = color
		}

	case ClockAction:
		switch c.Action {
		case ClockStart:
			s.ClockRunning = true
		case ClockStop:
			s.ClockRunning = false
		case ClockSet:
			s.ClockSeconds = max(0, c.Seconds)
		default:
			return s, fmt.Errorf("%w: %q", ErrInvalidAction, c.Action)
		}

	case Tick:
		if !s.ClockRunning || s.ClockSeconds <= 0 {
			return s, ErrNoChange
		}
		s.ClockSeconds--

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	return s, nil
}

// addScore adds delta to a non-negative score, clamping at zero and
// saturating at math.MaxInt.
func addScore(score, delta int) int {
	if delta > 0 && score > math.MaxInt-delta {
		return math.MaxInt
	}
	return max(0, score+delta)
}
