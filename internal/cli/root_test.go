package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_NoArgs_ShowsHelp(t *testing.T) {
	root := NewRootCommand(nil, "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{})

	err := root.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Item Management:")
	assert.Contains(t, out, "Sharing:")
	assert.Contains(t, out, "Backup and Export:")
	assert.Contains(t, out, "serve")
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "1.2.3")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	env := newLocalEnv(t)
	env.container.AppConfig.Warnings = []string{"unknown section: agents"}
	root := NewRootCommand(env.container, "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"list"})

	require.NoError(t, root.Execute())

	assert.Contains(t, errOut.String(), "Warning: unknown section: agents")
}

func TestParseRef(t *testing.T) {
	ref, err := parseRef("letter/ab12")
	require.NoError(t, err)
	assert.Equal(t, "letter/ab12", ref.String())

	ref, err = parseRef("ab12")
	require.NoError(t, err)
	assert.Empty(t, ref.Kind)
	assert.Equal(t, "ab12", ref.ID)

	_, err = parseRef("task/")
	assert.Error(t, err)
}
