package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

func TestExportSpreadsheet_Execute(t *testing.T) {
	// Setup
	persist := testutil.NewMockPersistence(domain.StoreLocal)
	now := at(2024, time.March, 10, 12, 0)
	open := task("t-1", "Report", at(2024, time.March, 12, 9, 0))
	open.Detail = "Q1 numbers"
	persist.ItemRepo.Put(open)
	done := letter("l-1", "Leave", at(2024, time.March, 9, 9, 0))
	done.IsDone = true
	done.Result = "Approved"
	done.Reminder = nil
	persist.ItemRepo.Put(done)
	writer := &testutil.MockSpreadsheetWriter{}
	uc := usecase.NewExportSpreadsheet(persist, writer, clockAt(now))

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Tasks_Export_2024-03-10.xlsx", out.Filename)
	assert.Equal(t, []byte("xlsx"), out.Data)
	assert.Equal(t, 2, out.Rows)
	require.Len(t, writer.Rows, 2)

	assert.Equal(t, domain.SheetRow{
		Name:      "Report",
		Detail:    "Q1 numbers",
		Type:      "Task",
		Status:    "Active",
		Priority:  domain.DefaultPriority,
		CreatedAt: "2024-03-05 09:00",
		DueDate:   "2024-03-12 09:00",
		Result:    "-",
	}, writer.Rows[0])

	l := writer.Rows[1]
	assert.Equal(t, "Completed", l.Status)
	assert.Equal(t, "-", l.DueDate)
	assert.Equal(t, "Approved", l.Result)
}

func TestExportSpreadsheet_Execute_Errors(t *testing.T) {
	now := clockAt(at(2024, time.March, 10, 12, 0))

	t.Run("nothing to export", func(t *testing.T) {
		writer := &testutil.MockSpreadsheetWriter{}
		uc := usecase.NewExportSpreadsheet(testutil.NewMockPersistence(domain.StoreLocal), writer, now)

		_, err := uc.Execute(context.Background())

		assert.ErrorIs(t, err, domain.ErrNoDataToExport)
		assert.Nil(t, writer.Rows)
	})

	t.Run("writer fails", func(t *testing.T) {
		persist := testutil.NewMockPersistence(domain.StoreLocal)
		persist.ItemRepo.Put(task("t-1", "Report", at(2024, time.March, 12, 9, 0)))
		uc := usecase.NewExportSpreadsheet(persist, &testutil.MockSpreadsheetWriter{Err: assert.AnError}, now)

		_, err := uc.Execute(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
	})
}

type backupSetup struct {
	persist *testutil.MockPersistence
	sharing *testutil.MockSharingStore
	mailer  *testutil.MockMailer
	config  *testutil.MockConfigLoader
	logger  *testutil.MockLogger
	now     time.Time
}

func newBackupSetup() *backupSetup {
	s := &backupSetup{
		sharing: testutil.NewMockSharingStore(),
		mailer:  &testutil.MockMailer{},
		config:  &testutil.MockConfigLoader{Config: domain.NewDefaultConfig()},
		logger:  &testutil.MockLogger{},
		now:     at(2024, time.March, 10, 17, 0),
	}
	s.persist = s.sharing.Session("alice")
	s.persist.ItemRepo.Put(task("t-1", "Report", at(2024, time.March, 12, 9, 0)))
	s.sharing.DirRepo.Add(domain.Profile{UID: "alice", Name: "Alice", Email: "alice@example.com"})
	return s
}

func (s *backupSetup) sendBackup() *usecase.SendBackup {
	clock := clockAt(s.now)
	export := usecase.NewExportSnapshot(s.persist, clock)
	return usecase.NewSendBackup(export, s.mailer, s.sharing, s.config, "alice", clock, s.logger)
}

func TestSendBackup_Execute(t *testing.T) {
	// Setup
	s := newBackupSetup()

	// Execute
	out, err := s.sendBackup().Execute(context.Background(), usecase.SendBackupInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.To)
	assert.Equal(t, "HTS_Task_Backup_2024-03-10_17-00.json", out.Filename)
	assert.Equal(t, 1, out.Count)

	require.Len(t, s.mailer.Sent, 1)
	mail := s.mailer.Sent[0]
	assert.Equal(t, "HTS Task Backup 2024-03-10 17:00", mail.Subject)
	assert.Contains(t, mail.Body, "Hello Alice,")
	assert.Equal(t, out.Filename, mail.AttachmentName)
	assert.True(t, json.Valid(mail.Attachment))
	assert.True(t, s.logger.Has("INFO", "alice@example.com"))
}

func TestSendBackup_Execute_Recipient(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		config   string
		profile  bool
		want     string
		wantName string
	}{
		{name: "explicit wins", explicit: "ops@example.com", config: "cfg@example.com", profile: true, want: "ops@example.com", wantName: "Alice"},
		{name: "configured address", config: "cfg@example.com", profile: true, want: "cfg@example.com", wantName: "Alice"},
		{name: "profile e-mail", profile: true, want: "alice@example.com", wantName: "Alice"},
		{name: "no profile", config: "cfg@example.com", want: "cfg@example.com", wantName: "cfg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBackupSetup()
			s.config.Config.Backup.Email = tt.config
			if !tt.profile {
				delete(s.sharing.DirRepo.Profiles, "alice")
			}

			out, err := s.sendBackup().Execute(context.Background(), usecase.SendBackupInput{To: tt.explicit})

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.To)
			assert.Contains(t, s.mailer.Sent[0].Body, "Hello "+tt.wantName+",")
		})
	}
}

func TestSendBackup_Execute_Errors(t *testing.T) {
	t.Run("mail not configured", func(t *testing.T) {
		s := newBackupSetup()
		export := usecase.NewExportSnapshot(s.persist, clockAt(s.now))
		uc := usecase.NewSendBackup(export, nil, s.sharing, s.config, "alice", clockAt(s.now), nil)

		_, err := uc.Execute(context.Background(), usecase.SendBackupInput{})

		assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)
	})

	t.Run("no recipient", func(t *testing.T) {
		s := newBackupSetup()
		delete(s.sharing.DirRepo.Profiles, "alice")

		_, err := s.sendBackup().Execute(context.Background(), usecase.SendBackupInput{})

		assert.ErrorIs(t, err, domain.ErrNoBackupRecipient)
		assert.Empty(t, s.mailer.Sent)
	})

	t.Run("send fails", func(t *testing.T) {
		s := newBackupSetup()
		s.mailer.Err = assert.AnError

		_, err := s.sendBackup().Execute(context.Background(), usecase.SendBackupInput{})

		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, s.logger.Has("ERROR", "send to alice@example.com"))
	})
}

func TestAutoBackup(t *testing.T) {
	// Setup
	s := newBackupSetup()
	prefs := testutil.NewMockPrefs()
	set := usecase.NewSetAutoBackup(prefs)
	run := usecase.NewRunAutoBackup(prefs, s.sendBackup(), nil)

	// Execute: switched off
	out, err := run.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Empty(t, s.mailer.Sent)

	// Execute: switched on
	require.NoError(t, set.Execute(context.Background(), usecase.SetAutoBackupInput{Enabled: true}))
	out, err = run.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Skipped)
	require.NotNil(t, out.Sent)
	assert.Equal(t, "alice@example.com", out.Sent.To)
	assert.Len(t, s.mailer.Sent, 1)
}

func TestRunAutoBackup_Execute_Errors(t *testing.T) {
	t.Run("setting unreadable", func(t *testing.T) {
		prefs := testutil.NewMockPrefs()
		prefs.Err = assert.AnError

		_, err := usecase.NewRunAutoBackup(prefs, nil, nil).Execute(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("send fails", func(t *testing.T) {
		s := newBackupSetup()
		s.mailer.Err = assert.AnError
		prefs := testutil.NewMockPrefs()
		prefs.AutoBackup = true

		_, err := usecase.NewRunAutoBackup(prefs, s.sendBackup(), nil).Execute(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "auto-backup")
	})
}
