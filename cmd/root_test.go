package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "profile", "report", "check"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "territory-profile", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	for _, want := range []string{"warehouse.driver", "TERRITORY_", ".env", "report", "serve"} {
		assert.Contains(t, rootCmd.Long, want)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestProfileCommand_Flags(t *testing.T) {
	for _, name := range []string{"region", "territory"} {
		assert.NotNil(t, profileCmd.Flags().Lookup(name), "profile should have --%s flag", name)
	}
}

func TestReportCommand_Flags(t *testing.T) {
	for _, name := range []string{"region", "territory", "out"} {
		assert.NotNil(t, reportCmd.Flags().Lookup(name), "report should have --%s flag", name)
	}
}

func TestCheckCommand_Flags(t *testing.T) {
	flag := checkCmd.Flags().Lookup("timeout")
	require.NotNil(t, flag)
	assert.Equal(t, "30s", flag.DefValue)
}
