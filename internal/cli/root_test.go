package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := NewRootCmd("1.2.3")

	assert.Equal(t, "aijournal", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
}

func TestRootFlags(t *testing.T) {
	root := NewRootCmd("dev")

	require.NotNil(t, root.PersistentFlags().Lookup("config"))
	require.NotNil(t, root.PersistentFlags().Lookup("debug"))
	assert.Equal(t, "c", root.PersistentFlags().Lookup("config").Shorthand)
}
