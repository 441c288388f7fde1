// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/infra/config"
	"github.com/hts-group/hts-tasks/internal/infra/docstore"
	"github.com/hts-group/hts-tasks/internal/infra/jsonstore"
	"github.com/hts-group/hts-tasks/internal/infra/logging"
	"github.com/hts-group/hts-tasks/internal/infra/mailer"
	"github.com/hts-group/hts-tasks/internal/infra/notifier"
	"github.com/hts-group/hts-tasks/internal/infra/spreadsheet"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	DataDir    string // Root of config, store, prefs and logs
	ConfigPath string // Path to config.toml
	StorePath  string // Database (managed) or JSON file (local)
	LocalPath  string // Offline JSON store, the source of "hts migrate"
	PrefsPath  string // Per-device preferences
	LogPath    string // Log file
}

// newConfig resolves the paths under dataDir.
func newConfig(dataDir string, appConfig *domain.Config) Config {
	return Config{
		DataDir:    dataDir,
		ConfigPath: domain.ConfigPath(dataDir),
		StorePath:  appConfig.StorePath(dataDir),
		LocalPath:  filepath.Join(dataDir, domain.DefaultLocalFile),
		PrefsPath:  filepath.Join(dataDir, domain.PrefsFileName),
		LogPath:    domain.LogPath(dataDir),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Persistence   domain.Persistence
	Sharing       domain.SharingStore // nil in local mode
	Local         domain.Persistence  // Offline store
	Prefs         domain.Preferences
	Clock         domain.Clock
	Logger        domain.Logger
	Mailer        domain.Mailer // nil when SMTP is not configured
	Notifier      domain.Notifier
	Spreadsheet   domain.SpreadsheetWriter
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	closers   []io.Closer

	// Signed-in user; empty in local mode
	Actor string

	// Configuration
	Config Config
}

// New creates a new Container for dataDir. The persistence mode is chosen
// here, once: managed when a session uid is configured and the mode is not
// forced to local, local otherwise.
func New(ctx context.Context, dataDir string) (*Container, error) {
	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}
	mode, err := appConfig.StoreMode()
	if err != nil {
		return nil, err
	}
	if appConfig.Session.UID == "" {
		mode = domain.StoreLocal
		appConfig.Store.Mode = string(domain.StoreLocal)
	}

	cfg := newConfig(dataDir, appConfig)
	logger := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))

	c := &Container{
		Local:         jsonstore.New(cfg.LocalPath),
		Prefs:         jsonstore.NewPrefs(cfg.PrefsPath),
		Clock:         domain.RealClock{Location: appConfig.Location},
		Logger:        logger,
		Spreadsheet:   spreadsheet.NewWriter(),
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dataDir),
		AppConfig:     appConfig,
		Config:        cfg,
		closers:       []io.Closer{logger},
	}

	if mode == domain.StoreManaged {
		store, err := docstore.Open(ctx, cfg.StorePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store)
		c.Actor = appConfig.Session.UID
		c.Sharing = store
		c.Persistence = store.Session(c.Actor)
	} else {
		c.Persistence = jsonstore.New(cfg.StorePath)
	}

	if m, err := mailer.New(appConfig.SMTP); err == nil {
		c.Mailer = m
	} else if !errors.Is(err, domain.ErrMailerNotConfigured) {
		return nil, err
	}

	if appConfig.Notify.Disabled {
		c.Notifier = notifier.NewWriter(os.Stdout)
	} else {
		c.Notifier = notifier.New("")
	}

	return c, nil
}

// Deps are the ports NewWithDeps binds. Nil Clock and Logger get defaults.
type Deps struct {
	Persistence   domain.Persistence
	Sharing       domain.SharingStore
	Local         domain.Persistence
	Prefs         domain.Preferences
	Clock         domain.Clock
	Logger        domain.Logger
	Mailer        domain.Mailer
	Notifier      domain.Notifier
	Spreadsheet   domain.SpreadsheetWriter
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	AppConfig     *domain.Config
	Actor         string
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	c := &Container{
		Persistence:   deps.Persistence,
		Sharing:       deps.Sharing,
		Local:         deps.Local,
		Prefs:         deps.Prefs,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
		Mailer:        deps.Mailer,
		Notifier:      deps.Notifier,
		Spreadsheet:   deps.Spreadsheet,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		AppConfig:     deps.AppConfig,
		Actor:         deps.Actor,
		Config:        cfg,
	}
	if c.Clock == nil {
		c.Clock = domain.RealClock{}
	}
	if c.Logger == nil {
		c.Logger = domain.NopLogger{}
	}
	if c.AppConfig == nil {
		c.AppConfig = domain.NewDefaultConfig()
	}
	return c
}

// Close releases the database and the log file.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Mode reports the persistence mode chosen at construction.
func (c *Container) Mode() domain.StoreMode {
	return c.Persistence.Mode()
}

// UseCase factory methods

// CreateItemUseCase returns a new CreateItem use case.
func (c *Container) CreateItemUseCase() *usecase.CreateItem {
	return usecase.NewCreateItem(c.Persistence, c.Actor, c.Clock, c.Logger)
}

// CreateItemsFromFileUseCase returns a new CreateItemsFromFile use case.
func (c *Container) CreateItemsFromFileUseCase() *usecase.CreateItemsFromFile {
	return usecase.NewCreateItemsFromFile(c.CreateItemUseCase(), c.ConfigLoader)
}

// ListItemsUseCase returns a new ListItems use case.
func (c *Container) ListItemsUseCase() *usecase.ListItems {
	return usecase.NewListItems(c.Persistence, c.Clock)
}

// GetItemUseCase returns a new GetItem use case.
func (c *Container) GetItemUseCase() *usecase.GetItem {
	return usecase.NewGetItem(c.Persistence, c.Sharing, c.Actor, c.Clock)
}

// UpdateItemUseCase returns a new UpdateItem use case.
func (c *Container) UpdateItemUseCase() *usecase.UpdateItem {
	return usecase.NewUpdateItem(c.Persistence, c.Sharing, c.Prefs, c.Actor, c.Clock, c.Logger)
}

// UpdateReceivedItemUseCase returns a new UpdateReceivedItem use case.
func (c *Container) UpdateReceivedItemUseCase() *usecase.UpdateReceivedItem {
	return usecase.NewUpdateReceivedItem(c.Sharing, c.Actor, c.Clock, c.Logger)
}

// ToggleDoneUseCase returns a new ToggleDone use case.
func (c *Container) ToggleDoneUseCase() *usecase.ToggleDone {
	return usecase.NewToggleDone(c.Persistence, c.Sharing, c.UpdateItemUseCase(), c.Actor, c.Clock)
}

// DeleteItemUseCase returns a new DeleteItem use case.
func (c *Container) DeleteItemUseCase() *usecase.DeleteItem {
	return usecase.NewDeleteItem(c.Persistence, c.Prefs, c.Logger)
}

// BulkDeleteUseCase returns a new BulkDelete use case.
func (c *Container) BulkDeleteUseCase() *usecase.BulkDelete {
	return usecase.NewBulkDelete(c.Persistence, c.Logger)
}

// CleanUpUseCase returns a new CleanUp use case.
func (c *Container) CleanUpUseCase() *usecase.CleanUp {
	return usecase.NewCleanUp(c.Persistence, c.Clock, c.Logger)
}

// ClearAllUseCase returns a new ClearAll use case.
func (c *Container) ClearAllUseCase() *usecase.ClearAll {
	return usecase.NewClearAll(c.Persistence, c.Logger)
}

// ShareItemUseCase returns a new ShareItem use case.
func (c *Container) ShareItemUseCase() *usecase.ShareItem {
	return usecase.NewShareItem(c.Persistence, c.Sharing, c.Actor, c.Clock, c.Logger)
}

// UnshareItemUseCase returns a new UnshareItem use case.
func (c *Container) UnshareItemUseCase() *usecase.UnshareItem {
	return usecase.NewUnshareItem(c.Persistence, c.Sharing, c.Actor, c.Clock, c.Logger)
}

// ListSharesUseCase returns a new ListShares use case.
func (c *Container) ListSharesUseCase() *usecase.ListShares {
	return usecase.NewListShares(c.Persistence, c.Sharing, c.Actor)
}

// ListReceivedUseCase returns a new ListReceived use case.
func (c *Container) ListReceivedUseCase() *usecase.ListReceived {
	return usecase.NewListReceived(c.Sharing, c.Actor)
}

// MarkAsSeenUseCase returns a new MarkAsSeen use case.
func (c *Container) MarkAsSeenUseCase() *usecase.MarkAsSeen {
	return usecase.NewMarkAsSeen(c.Sharing, c.Actor, c.Clock, c.Logger)
}

// ResyncReceivedUseCase returns a new ResyncReceived use case.
func (c *Container) ResyncReceivedUseCase() *usecase.ResyncReceived {
	return usecase.NewResyncReceived(c.Sharing, c.Actor, c.Logger)
}

// DeleteReceivedItemUseCase returns a new DeleteReceivedItem use case.
func (c *Container) DeleteReceivedItemUseCase() *usecase.DeleteReceivedItem {
	return usecase.NewDeleteReceivedItem(c.Sharing, c.Actor, c.Logger)
}

// RegisterProfileUseCase returns a new RegisterProfile use case.
func (c *Container) RegisterProfileUseCase() *usecase.RegisterProfile {
	return usecase.NewRegisterProfile(c.Sharing, c.Actor, c.Clock, c.Logger)
}

// GetProfileUseCase returns a new GetProfile use case.
func (c *Container) GetProfileUseCase() *usecase.GetProfile {
	return usecase.NewGetProfile(c.Sharing, c.Actor)
}

// UpdateShareCodeUseCase returns a new UpdateShareCode use case.
func (c *Container) UpdateShareCodeUseCase() *usecase.UpdateShareCode {
	return usecase.NewUpdateShareCode(c.Sharing, c.Actor, c.Logger)
}

// SetProfilePhotoUseCase returns a new SetProfilePhoto use case.
func (c *Container) SetProfilePhotoUseCase() *usecase.SetProfilePhoto {
	return usecase.NewSetProfilePhoto(c.Sharing, c.Actor, c.Logger)
}

// GetProfilePhotoUseCase returns a new GetProfilePhoto use case.
func (c *Container) GetProfilePhotoUseCase() *usecase.GetProfilePhoto {
	return usecase.NewGetProfilePhoto(c.Sharing, c.Actor)
}

// SendVerificationCodeUseCase returns a new SendVerificationCode use case.
func (c *Container) SendVerificationCodeUseCase() *usecase.SendVerificationCode {
	return usecase.NewSendVerificationCode(c.Mailer, c.Sharing, c.Actor, c.Logger)
}

// ExportSnapshotUseCase returns a new ExportSnapshot use case.
func (c *Container) ExportSnapshotUseCase() *usecase.ExportSnapshot {
	return usecase.NewExportSnapshot(c.Persistence, c.Clock)
}

// ImportSnapshotUseCase returns a new ImportSnapshot use case.
func (c *Container) ImportSnapshotUseCase() *usecase.ImportSnapshot {
	return usecase.NewImportSnapshot(c.Persistence, c.Clock, c.Logger)
}

// ExportSpreadsheetUseCase returns a new ExportSpreadsheet use case.
func (c *Container) ExportSpreadsheetUseCase() *usecase.ExportSpreadsheet {
	return usecase.NewExportSpreadsheet(c.Persistence, c.Spreadsheet, c.Clock)
}

// SendBackupUseCase returns a new SendBackup use case.
func (c *Container) SendBackupUseCase() *usecase.SendBackup {
	return usecase.NewSendBackup(c.ExportSnapshotUseCase(), c.Mailer, c.Sharing, c.ConfigLoader, c.Actor, c.Clock, c.Logger)
}

// SetAutoBackupUseCase returns a new SetAutoBackup use case.
func (c *Container) SetAutoBackupUseCase() *usecase.SetAutoBackup {
	return usecase.NewSetAutoBackup(c.Prefs)
}

// RunAutoBackupUseCase returns a new RunAutoBackup use case.
func (c *Container) RunAutoBackupUseCase() *usecase.RunAutoBackup {
	return usecase.NewRunAutoBackup(c.Prefs, c.SendBackupUseCase(), c.Logger)
}

// CheckRemindersUseCase returns a new CheckReminders use case.
func (c *Container) CheckRemindersUseCase() *usecase.CheckReminders {
	return usecase.NewCheckReminders(c.Persistence, c.Prefs, c.Notifier, c.AppConfig.Notify.Language, c.Clock, c.Logger)
}

// WatchRemindersUseCase returns a new WatchReminders use case.
func (c *Container) WatchRemindersUseCase() *usecase.WatchReminders {
	return usecase.NewWatchReminders(c.CheckRemindersUseCase(), c.Logger)
}

// MigrateStoreUseCase returns a new MigrateStore use case that copies the
// offline store into the signed-in user's collections.
func (c *Container) MigrateStoreUseCase() *usecase.MigrateStore {
	return usecase.NewMigrateStore(c.Local, c.Persistence, c.Actor, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
