package scoreboard

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a 24-bit color. On the wire and in config files it is written as
// "r,g,b".
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// White is what the renderer falls back to.
var White = RGB{R: 255, G: 255, B: 255}

// ParseRGB parses "r,g,b" with each channel an integer in [0,255].
// Whitespace around channels is ignored.
func ParseRGB(value string) (RGB, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}

	var channels [3]uint8
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 255 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		channels[i] = uint8(n)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
