package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// newShareCommand creates the share command.
func newShareCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "share <ref> <share-code>",
		Short: "Send a copy of an item to another user",
		Long: `Send a copy of an owned item to the user holding <share-code>.

Sharing the same item with the same user again does nothing unless --force
is given, which delivers another copy.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			code, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidShareCode, args[1])
			}

			out, err := c.ShareItemUseCase().Execute(cmd.Context(), usecase.ShareItemInput{
				Ref:       ref,
				ShareCode: code,
				Force:     force,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch out.Result {
			case domain.ShareSuccess:
				_, _ = fmt.Fprintf(w, "Shared with %s\n", out.Recipient.Name)
			case domain.ShareAlreadyShared:
				_, _ = fmt.Fprintf(w, "Already shared with %s (use --force to send another copy)\n", out.Recipient.Name)
			case domain.ShareUserNotFound:
				return fmt.Errorf("%w: no user has share code %d", domain.ErrUserNotFound, code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Share again even if already shared")

	return cmd
}

// newUnshareCommand creates the unshare command.
func newUnshareCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unshare <ref> <uid>",
		Short: "Revoke a recipient's copy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			out, err := c.UnshareItemUseCase().Execute(cmd.Context(), usecase.UnshareItemInput{
				Ref:          ref,
				RecipientUID: args[1],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unshared from %s (%d copies removed)\n", args[1], out.CopiesRemoved)
			return nil
		},
	}
}

// newSharesCommand creates the shares command.
func newSharesCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "shares <ref>",
		Short: "List who an item was shared with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			out, err := c.ListSharesUseCase().Execute(cmd.Context(), usecase.ListSharesInput{Ref: ref})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, headerStyle.Render(out.Item.Name))
			printShares(w, out.Shares, location(c))
			return nil
		},
	}
}

// newReceivedCommand creates the received command and its subcommands.
func newReceivedCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "received",
		Aliases: []string{"inbox"},
		Short:   "List items shared with you",
		Long: `List the copies other users shared with you, newest first.
Unseen copies are highlighted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListReceivedUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Items) == 0 {
				_, _ = fmt.Fprintln(w, "Nothing received.")
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s (%d unseen)\n", headerStyle.Render("Received"), out.Unseen)
			loc := location(c)
			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tKIND\tFROM\tSHARED\tNAME")
			for _, r := range out.Items {
				name := r.Data.Name
				if r.SeenAt == nil {
					name = unseenStyle.Render("* ") + name
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.OriginalItemType.Display(), r.SenderName, formatTime(&r.SharedAt, loc), name)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(
		newReceivedSeenCommand(c),
		newReceivedSetCommand(c),
		newReceivedRmCommand(c),
		newReceivedResyncCommand(c),
	)

	return cmd
}

func newReceivedSeenCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "seen <id>",
		Short: "Mark a received copy as seen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.MarkAsSeenUseCase().Execute(cmd.Context(), usecase.MarkAsSeenInput{ID: args[0]})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.FirstSeen {
				_, _ = fmt.Fprintf(w, "Marked %s as seen\n", args[0])
			} else {
				_, _ = fmt.Fprintf(w, "%s was already seen\n", args[0])
			}
			if !out.OwnerTold {
				_, _ = fmt.Fprintln(w, "Warning: the owner could not be told")
			}
			return nil
		},
	}
}

func newReceivedSetCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Edit a received copy",
		Long:  `Edit a received copy. The edit reaches the owner and every other recipient.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := domain.ParseField(args[1])
			if err != nil {
				return err
			}
			value, err := domain.ParseFieldValue(field, args[2], location(c))
			if err != nil {
				return err
			}
			out, err := c.UpdateReceivedItemUseCase().Execute(cmd.Context(), usecase.UpdateReceivedItemInput{
				ID:      args[0],
				Updates: []domain.FieldUpdate{{Field: field, Value: value}},
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Updated %s of %s\n", field, out.Received.Data.Name)
			if !out.OwnerUpdated {
				_, _ = fmt.Fprintln(w, "Warning: the owner's item could not be updated")
			}
			if out.FanOutFailures > 0 {
				_, _ = fmt.Fprintf(w, "Warning: %d recipient copies could not be updated\n", out.FanOutFailures)
			}
			return nil
		},
	}
}

func newReceivedRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a received copy from your inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.DeleteReceivedItemUseCase().Execute(cmd.Context(), usecase.DeleteReceivedItemInput{ID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newReceivedResyncCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Refresh every received copy from its owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ResyncReceivedUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d, orphaned %d, failed %d\n", out.Updated, out.Orphaned, out.Failed)
			return nil
		},
	}
}
