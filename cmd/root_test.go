package cmd

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"check", "scan", "correlate", "calibrate", "policy"}, names)

	for _, flag := range []string{"mode", "policy", "log-level", "log-format", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCmd_EnvAndLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv("BIBDEDUP_MODE", "biblatex")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"correlate", "A title", "a title"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "similarity: 1.0000")
	assert.Equal(t, "biblatex", root.PersistentFlags().Lookup("mode").Value.String())
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "chatty", "correlate", "a", "b"})

	assert.Error(t, root.Execute())
}
