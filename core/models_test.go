package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("Io is volcanic.")
		b := IDFromContent("Io is volcanic.")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		a := IDFromContent("Io is volcanic.")
		b := IDFromContent("Europa has a subsurface ocean.")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		// Hash of empty input is still a stable id
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestIDString(t *testing.T) {
	id := IDFromContent("Ganymede")
	s := id.String()
	assert.True(t, strings.HasPrefix(s, "chunk-"))
	assert.Len(t, s, len("chunk-")+16)

	// String form is stable across calls
	assert.Equal(t, s, id.String())
}
