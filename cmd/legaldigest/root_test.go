package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"ensure-superuser"},
		{"tags"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestRootCmd_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfgFile = ""

	rootCmd.SetArgs([]string{"tags"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestServeCmd_MigrateFlag(t *testing.T) {
	f := serveCmd.Flags().Lookup("migrate")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}
