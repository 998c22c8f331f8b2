package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	l := Init(Config{Level: "debug"})
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l = Init(Config{Level: "nonsense"})
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twentyfour.log")
	l := Init(Config{Level: "info", File: path})
	l.Info("vault call", "action", "read")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vault call")
	assert.Contains(t, string(data), "action=read")
}
