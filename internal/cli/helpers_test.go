package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

// testEnv bundles a container with the mocks behind it.
type testEnv struct {
	container *app.Container
	persist   *testutil.MockPersistence
	store     *testutil.MockSharingStore
	prefs     *testutil.MockPrefs
	notifier  *testutil.MockNotifier
	mailer    *testutil.MockMailer
	sheets    *testutil.MockSpreadsheetWriter
	configs   *testutil.MockConfigManager
}

func testConfig() *domain.Config {
	cfg := domain.NewDefaultConfig()
	cfg.Location = time.UTC
	return cfg
}

// newLocalEnv returns a local-mode container without mail.
func newLocalEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		persist:  testutil.NewMockPersistence(domain.StoreLocal),
		prefs:    testutil.NewMockPrefs(),
		notifier: &testutil.MockNotifier{},
		sheets:   &testutil.MockSpreadsheetWriter{},
		configs:  &testutil.MockConfigManager{FileInfo: domain.ConfigInfo{Path: "/data/config.toml"}},
	}
	env.container = app.NewWithDeps(app.Config{}, app.Deps{
		Persistence:   env.persist,
		Local:         env.persist,
		Prefs:         env.prefs,
		Clock:         &testutil.MockClock{NowTime: testNow},
		Notifier:      env.notifier,
		Spreadsheet:   env.sheets,
		ConfigLoader:  &testutil.MockConfigLoader{},
		ConfigManager: env.configs,
		AppConfig:     testConfig(),
	})
	return env
}

// newManagedEnv returns a container signed in as actor over a seeded store.
func newManagedEnv(t *testing.T, actor string) *testEnv {
	t.Helper()
	return newManagedEnvOn(t, newSeededStore(), actor)
}

// newSeededStore returns a store where alice owns task t-1 and alice
// (code 7) and bob (code 42) are registered.
func newSeededStore() *testutil.MockSharingStore {
	store := testutil.NewMockSharingStore()
	reminder := testNow.Add(48 * time.Hour)
	store.UserItems("alice").Put(&domain.Item{
		Kind:         domain.KindTask,
		ID:           "t-1",
		OwnerID:      "alice",
		Name:         "Budget",
		Number:       1,
		Priority:     domain.DefaultPriority,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
		StartTime:    testNow,
		Reminder:     &reminder,
		NameConfig:   domain.DefaultNameConfig(),
		DetailConfig: domain.DefaultFieldConfig(),
	})
	store.DirRepo.Add(domain.Profile{UID: "alice", Name: "Alice", Email: "alice@example.com", ShareCode: 7})
	store.DirRepo.Add(domain.Profile{UID: "bob", Name: "Bob", Email: "bob@example.com", ShareCode: 42})
	return store
}

// newManagedEnvOn returns a container signed in as actor over store.
func newManagedEnvOn(t *testing.T, store *testutil.MockSharingStore, actor string) *testEnv {
	t.Helper()
	env := &testEnv{
		persist:  store.Session(actor),
		store:    store,
		prefs:    testutil.NewMockPrefs(),
		notifier: &testutil.MockNotifier{},
		mailer:   &testutil.MockMailer{},
		sheets:   &testutil.MockSpreadsheetWriter{},
	}
	env.container = app.NewWithDeps(app.Config{}, app.Deps{
		Persistence: env.persist,
		Sharing:     store,
		Local:       testutil.NewMockPersistence(domain.StoreLocal),
		Prefs:       env.prefs,
		Clock:       &testutil.MockClock{NowTime: testNow},
		Mailer:      env.mailer,
		Notifier:    env.notifier,
		Spreadsheet: env.sheets,
		AppConfig:   testConfig(),
		Actor:       actor,
	})
	return env
}

// run executes the root command with args and returns stdout.
func (e *testEnv) run(args ...string) (string, error) {
	root := NewRootCommand(e.container, "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
