package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"onchaindice/internal/config"
)

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.True(t, strings.HasPrefix(out.String(), "dicebet "), out.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.Config{LogLevel: "info", LogFormat: config.LogFormatJSON})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"k":"v"`)

	_, err = newLogger(&buf, config.Config{LogLevel: "dice:debug,*:error", LogFormat: config.LogFormatPlain})
	require.NoError(t, err)

	_, err = newLogger(&buf, config.Config{LogLevel: "dice:loud", LogFormat: config.LogFormatPlain})
	require.Error(t, err)
}
