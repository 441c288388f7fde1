package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export items to a file",
	}
	cmd.AddCommand(newExportJSONCommand(c), newExportXLSXCommand(c))
	return cmd
}

func newExportJSONCommand(c *app.Container) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Write the JSON backup document",
		Long: `Write every item and saved chat to taskmaster_backup_<date>.json.
The file can be restored with "hts import".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportSnapshotUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			path, err := writeExport(dir, out.Filename, out.Data)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", out.Count, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")

	return cmd
}

func newExportXLSXCommand(c *app.Container) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write a spreadsheet of all items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportSpreadsheetUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			path, err := writeExport(dir, out.Filename, out.Data)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", out.Rows, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")

	return cmd
}

func writeExport(dir, filename string, data []byte) (string, error) {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a JSON backup",
		Long: `Restore a JSON backup.

With a session the backup is merged by id onto existing items and fields
the backup omits are kept. In local mode the backup replaces all data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			out, err := c.ImportSnapshotUseCase().Execute(cmd.Context(), usecase.ImportSnapshotInput{Data: data})
			if err != nil {
				return err
			}
			verb := "Merged"
			if out.Mode == domain.StoreLocal {
				verb = "Restored"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d items and %d chats\n", verb, out.Items, out.Chats)
			return nil
		},
	}
}

// newBackupCommand creates the backup command.
func newBackupCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "E-mail backups",
		Long: `E-mail the JSON backup as an attachment.

The recipient is --to, then [backup] email, then the profile e-mail.
Scheduled backups run inside "hts serve" when switched on.`,
	}
	cmd.AddCommand(
		newBackupSendCommand(c),
		newBackupAutoCommand(c),
	)
	return cmd
}

func newBackupSendCommand(c *app.Container) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "E-mail a backup now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SendBackupUseCase().Execute(cmd.Context(), usecase.SendBackupInput{To: to})
			if err != nil {
				if errors.Is(err, domain.ErrMailerNotConfigured) {
					return fmt.Errorf("%w: set [smtp] host and from, and %s", err, "HTS_SMTP_PASSWORD")
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sent %s (%d items) to %s\n", out.Filename, out.Count, out.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address")

	return cmd
}

func newBackupAutoCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:       "auto <on|off>",
		Short:     "Switch scheduled backups on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("want on or off, got %q", args[0])
			}
			if err := c.SetAutoBackupUseCase().Execute(cmd.Context(), usecase.SetAutoBackupInput{Enabled: enabled}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheduled backups %s\n", args[0])
			return nil
		},
	}
}
