package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipMigrateFlag(t *testing.T) {
	tests := map[string]struct {
		parse func(args []string) error
	}{
		"root command":  {RootCmd.ParseFlags},
		"serve command": {serveCmd.ParseFlags},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			skipMigrate = false
			defer func() { skipMigrate = false }()

			assert.NoError(t, tc.parse([]string{"--skip-migrate"}))
			assert.True(t, skipMigrate)
		})
	}
}

func TestMigrateCommandIsRegistered(t *testing.T) {
	found, _, err := RootCmd.Find([]string{"migrate"})
	assert.NoError(t, err)
	assert.Equal(t, migrateCmd, found)

	found, _, err = RootCmd.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.Equal(t, serveCmd, found)
}
