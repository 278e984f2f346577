package scoreboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("0,80,30")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0, G: 80, B: 30}, c)
	assert.Equal(t, "0,80,30", c.String())

	for _, bad := range []string{"", "bogus", "1,2", "1,2,x", "1.5,2,3", "300,0,0", " , , "} {
		_, err := ParseRGB(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, "input %q", bad)
	}
}

func TestRGB_JSON(t *testing.T) {
	data, err := json.Marshal(DefaultState())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"home_bg_color":"0,80,30"`)
	assert.Contains(t, string(data), `"bg_color":"0,0,0"`)

	var c RGB
	require.NoError(t, json.Unmarshal([]byte(`"12,34,56"`), &c))
	assert.Equal(t, RGB{R: 12, G: 34, B: 56}, c)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &c))
}
