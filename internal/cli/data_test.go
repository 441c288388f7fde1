package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
)

func TestExportImportJSON(t *testing.T) {
	// Setup
	dir := t.TempDir()
	src := newLocalEnv(t)
	_, err := src.run("add", "Report")
	require.NoError(t, err)

	// Execute: export
	out, err := src.run("export", "json", "--dir", dir)

	// Assert
	require.NoError(t, err)
	path := filepath.Join(dir, "taskmaster_backup_2024-03-10_12-00.json")
	assert.Equal(t, "Exported 1 items to "+path+"\n", out)
	require.FileExists(t, path)

	// Execute: import into an empty store
	dst := newLocalEnv(t)
	out, err = dst.run("import", path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Restored 1 items and 0 chats\n", out)
	it := dst.persist.ItemRepo.Peek(domain.ItemRef{Kind: domain.KindTask, ID: "id-1"})
	require.NotNil(t, it)
	assert.Equal(t, "Report", it.Name)
}

func TestImportCommand_InvalidFile(t *testing.T) {
	env := newLocalEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"savedChats": []}`), 0o600))

	_, err := env.run("import", path)

	assert.ErrorIs(t, err, domain.ErrInvalidBackup)
}

func TestExportXLSX(t *testing.T) {
	dir := t.TempDir()
	env := newLocalEnv(t)

	_, err := env.run("export", "xlsx", "--dir", dir)
	assert.ErrorIs(t, err, domain.ErrNoDataToExport)

	_, err = env.run("add", "Report")
	require.NoError(t, err)
	out, err := env.run("export", "xlsx", "--dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 rows")
	data, err := os.ReadFile(filepath.Join(dir, "Tasks_Export_2024-03-10.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(data))
	require.Len(t, env.sheets.Rows, 1)
}

func TestBackupSendCommand(t *testing.T) {
	// Setup
	env := newManagedEnv(t, "alice")

	// Execute
	out, err := env.run("backup", "send")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "to alice@example.com")
	require.Len(t, env.mailer.Sent, 1)
	assert.Equal(t, "alice@example.com", env.mailer.Sent[0].To)

	// Execute: explicit recipient
	_, err = env.run("backup", "send", "--to", "archive@example.com")

	// Assert
	require.NoError(t, err)
	require.Len(t, env.mailer.Sent, 2)
	assert.Equal(t, "archive@example.com", env.mailer.Sent[1].To)
}

func TestBackupSendCommand_NoMailer(t *testing.T) {
	env := newLocalEnv(t)

	_, err := env.run("backup", "send", "--to", "archive@example.com")

	assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)
}

func TestBackupAutoCommand(t *testing.T) {
	env := newLocalEnv(t)

	out, err := env.run("backup", "auto", "on")
	require.NoError(t, err)
	assert.Equal(t, "Scheduled backups on\n", out)
	assert.True(t, env.prefs.AutoBackup)

	_, err = env.run("backup", "auto", "off")
	require.NoError(t, err)
	assert.False(t, env.prefs.AutoBackup)

	_, err = env.run("backup", "auto", "sometimes")
	assert.Error(t, err)
}
