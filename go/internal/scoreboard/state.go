package scoreboard

import "fmt"

const (
	// MaxNameLength is the longest team name the board stores, in characters.
	MaxNameLength = 8

	// DefaultClockSeconds is a 12:00 period.
	DefaultClockSeconds = 720
)

// Team identifies one side of the board
type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

// State is the authoritative scoreboard state. It holds no references, so a
// plain assignment is a full copy.
type State struct {
	HomeName     string `json:"home_name"`
	AwayName     string `json:"away_name"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	HomeBgColor  RGB    `json:"home_bg_color"`
	AwayBgColor  RGB    `json:"away_bg_color"`
	BgColor      RGB    `json:"bg_color"`
	ClockRunning bool   `json:"clock_running"`
	ClockSeconds int    `json:"clock_seconds"`
}

// Snapshot is an immutable point-in-time copy of the state. Version grows by
// one with every accepted mutation.
type Snapshot struct {
	State
	Version uint64 `json:"version"`
}

// DefaultState returns the state the board boots with
func DefaultState() State {
	return State{
		HomeName:     "HOME",
		AwayName:     "AWAY",
		HomeBgColor:  RGB{R: 0, G: 80, B: 30},
		AwayBgColor:  RGB{R: 80, G: 0, B: 30},
		BgColor:      RGB{},
		ClockSeconds: DefaultClockSeconds,
	}
}

// ClockText formats the clock as MM:SS.
func (s State) ClockText() string {
	secs := max(0, s.ClockSeconds)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// TruncateName cuts a name to at most n characters (runes, not bytes).
func TruncateName(name string, n int) string {
	runes := []rune(name)
	if len(runes) <= n {
		return name
	}
	return string(runes[:n])
}
