package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTestModePicksUpEnvChanges(t *testing.T) {
	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())

	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
