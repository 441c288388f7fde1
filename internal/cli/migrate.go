package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var skipChats bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move offline items into your account",
		Long: `Copy the items kept in local mode into the signed-in user's shared
collections, keeping ids and numbers.

Items already present with the same content are skipped. If any item
exists with different content nothing is written.

Examples:
  # After "hts config init --uid <uid>"
  hts migrate

  # Items only
  hts migrate --skip-chats`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.MigrateStoreUseCase().Execute(cmd.Context(), usecase.MigrateStoreInput{SkipChats: skipChats})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d of %d items (%d already present), %d chats\n",
				out.Migrated, out.Total, out.Skipped, out.Chats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipChats, "skip-chats", false, "Do not migrate saved chats")

	return cmd
}
