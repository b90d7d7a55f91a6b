package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"login", "logout", "status", "export", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestRootCmd_DebugFlagIsPersistent(t *testing.T) {
	root := newRootCmd()
	sub, _, err := root.Find([]string{"status"})
	require.NoError(t, err)

	assert.NotNil(t, sub.InheritedFlags().Lookup("debug"))
}

func TestExportCmd_RequiresID(t *testing.T) {
	cmd := newExportCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"abc"}))
}

func TestExportCmd_RejectsUnknownFormat(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"export", "abc", "--format", "pdf"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestLoginCmd_TokenRequired(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"login"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}
