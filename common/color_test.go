package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	for _, in := range []string{"#00ff00", "00FF00", "0x00ff00", "#0f0"} {
		c, err := ParseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, Color{R: 0, G: 1, B: 0, A: 1}, c, in)
	}

	_, err := ParseHexColor("#12")
	assert.Error(t, err)
	_, err = ParseHexColor("#gggggg")
	assert.Error(t, err)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#00ff00", ColorFromHex(0x00ff00).Hex())
	assert.Equal(t, "#ffffff", Color{R: 2, G: 1, B: 1}.Hex())
}
