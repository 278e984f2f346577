package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// MessageType is the "type" discriminator of a control frame
type MessageType string

const (
	MessageScoreDelta MessageType = "score_delta"
	MessageSetNames   MessageType = "set_names"
	MessageSetColor   MessageType = "set_color"
	MessageClock      MessageType = "clock"

	MessageState MessageType = "state"
	MessageError MessageType = "error"
)

// ErrMalformedMessage means the frame could not be understood at all. The
// connection that sent it is closed.
var ErrMalformedMessage = errors.New("malformed message")

// ErrInvalidField means the frame was understood but a field had the wrong
// shape (a non-integer delta, a team that is not a string). The command is
// dropped and the connection stays open.
var ErrInvalidField = fmt.Errorf("%w: invalid field value", scoreboard.ErrInvalidCommand)

// OutboundMessage is what the server sends to clients
type OutboundMessage struct {
	Type  MessageType          `json:"type"`
	Data  *scoreboard.Snapshot `json:"data,omitempty"`
	Error string               `json:"error,omitempty"`
}

// EncodeState builds a "state" frame.
func EncodeState(snap scoreboard.Snapshot) ([]byte, error) {
	return json.Marshal(OutboundMessage{Type: MessageState, Data: &snap})
}

// EncodeError builds an "error" frame acknowledging a rejected command.
func EncodeError(err error) ([]byte, error) {
	return json.Marshal(OutboundMessage{Type: MessageError, Error: err.Error()})
}

// DecodeCommand parses one client frame. Errors wrap either
// ErrMalformedMessage or scoreboard.ErrInvalidCommand.
func DecodeCommand(data []byte) (scoreboard.Command, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedMessage)
	}

	var msgType MessageType
	if raw, ok := fields["type"]; !ok || json.Unmarshal(raw, &msgType) != nil {
		return nil, fmt.Errorf("%w: missing or non-string type", ErrMalformedMessage)
	}

	switch msgType {
	case MessageScoreDelta:
		team, err := stringField(fields, "team")
		if err != nil {
			return nil, err
		}
		delta, err := intField(fields, "delta")
		if err != nil {
			return nil, err
		}
		return scoreboard.AdjustScore{Team: scoreboard.Team(team), Delta: delta}, nil

	case MessageSetNames:
		home, err := optionalStringField(fields, "home")
		if err != nil {
			return nil, err
		}
		away, err := optionalStringField(fields, "away")
		if err != nil {
			return nil, err
		}
		return scoreboard.SetNames{Home: home, Away: away}, nil

	case MessageSetColor:
		team, err := stringField(fields, "team")
		if err != nil {
			return nil, err
		}
		color, err := stringField(fields, "color")
		if err != nil {
			return nil, err
		}
		return scoreboard.SetColor{Team: scoreboard.Team(team), Color: color}, nil

	case MessageClock:
		action, err := stringField(fields, "action")
		if err != nil {
			return nil, err
		}
		cmd := scoreboard.ClockAction{Action: scoreboard.ClockActionKind(action)}
		if cmd.Action == scoreboard.ClockSet {
			if cmd.Seconds, err = intField(fields, "seconds"); err != nil {
				return nil, err
			}
		}
		return cmd, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedMessage, msgType)
	}
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringField reads a string; an absent field reads as "".
func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw := fields[name]
	if isAbsent(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidField, name)
	}
	return s, nil
}

func optionalStringField(fields map[string]json.RawMessage, name string) (*string, error) {
	raw := fields[name]
	if isAbsent(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, name)
	}
	return &s, nil
}

// intField reads an integer given as a JSON number or a numeric string. An
// absent field reads as 0.
func intField(fields map[string]json.RawMessage, name string) (int, error) {
	raw := fields[name]
	if isAbsent(raw) {
		return 0, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidField, name)
		}
		text = num.String()
	}

	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || n < math.MinInt || n > math.MaxInt {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidField, name)
	}
	return int(n), nil
}
