package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-sandbox/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerLinesShareOneWidth(t *testing.T) {
	cfg := config.Default()
	cfg.Panel.Enabled = true

	for _, name := range []string{"box", "plane", "camera", strings.Repeat("x", 80)} {
		lines := bannerLines(name, cfg)
		require.Len(t, lines, 6)
		for _, line := range lines {
			assert.Equal(t, bannerWidth+2, utf8.RuneCountInString(line), "%q", line)
		}
	}

	cfg.Panel.Enabled = false
	assert.Len(t, bannerLines("box", cfg), 5)
	assert.Contains(t, bannerLines("plane", cfg)[1], "oxy-sandbox - plane")
}
