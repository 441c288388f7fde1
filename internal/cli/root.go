// Package cli provides the command-line interface for hts.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupItems   = "items"
	groupSharing = "sharing"
	groupData    = "data"
	groupRuntime = "runtime"
)

// NewRootCommand creates the root command for hts.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "hts",
		Short: "Task and approval-letter manager",
		Long: `hts keeps track of tasks and approval letters, reminds you when they
come due, and shares them with colleagues by share code.

Items live in a local JSON file until a session uid is configured; with a
uid they are kept in the shared database, where sharing, the inbox and
profile commands become available.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupItems, Title: "Item Management:"},
		&cobra.Group{ID: groupSharing, Title: "Sharing:"},
		&cobra.Group{ID: groupData, Title: "Backup and Export:"},
		&cobra.Group{ID: groupRuntime, Title: "Background Services:"},
	)

	grouped := func(groupID string, cmds ...*cobra.Command) {
		for _, cmd := range cmds {
			cmd.GroupID = groupID
			root.AddCommand(cmd)
		}
	}

	grouped(groupSetup,
		newConfigCommand(c),
		newProfileCommand(c),
		newMigrateCommand(c),
	)
	grouped(groupItems,
		newAddCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newSetCommand(c),
		newDoneCommand(c),
		newRmCommand(c),
		newCleanupCommand(c),
		newClearCommand(c),
	)
	grouped(groupSharing,
		newShareCommand(c),
		newUnshareCommand(c),
		newSharesCommand(c),
		newReceivedCommand(c),
	)
	grouped(groupData,
		newExportCommand(c),
		newImportCommand(c),
		newBackupCommand(c),
	)
	grouped(groupRuntime,
		newRemindCommand(c),
		newWatchCommand(c),
		newServeCommand(c),
	)

	return root
}
