package scoreboard

// Command is one control-plane intent. The set is closed: only the types in
// this file implement it.
type Command interface {
	// Kind is a stable label for logs and metrics.
	Kind() string
	command()
}

// AdjustScore adds Delta to a team's score.
type AdjustScore struct {
	Team  Team
	Delta int
}

// SetNames replaces team names. Nil or empty fields are left alone.
type SetNames struct {
	Home *string
	Away *string
}

// SetColor sets a team's background from an "r,g,b" string.
type SetColor struct {
	Team  Team
	Color string
}

// ClockActionKind is the verb of a ClockAction
type ClockActionKind string

const (
	ClockStart ClockActionKind = "start"
	ClockStop  ClockActionKind = "stop"
	ClockSet   ClockActionKind = "set"
)

// ClockAction starts, stops or sets the game clock. Seconds is only read
// for ClockSet.
type ClockAction struct {
	Action  ClockActionKind
	Seconds int
}

// Tick is issued by the ClockTicker once per interval.
type Tick struct{}

func (AdjustScore) Kind() string { return "score_delta" }
func (SetNames) Kind() string    { return "set_names" }
func (SetColor) Kind() string    { return "set_color" }
func (ClockAction) Kind() string { return "clock" }
func (Tick) Kind() string        { return "tick" }

func (AdjustScore) command() {}
func (SetNames) command()    {}
func (SetColor) command()    {}
func (ClockAction) command() {}
func (Tick) command()        {}
