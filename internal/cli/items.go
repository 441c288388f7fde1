package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// newAddCommand creates the add command for creating items.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Kind           string
		Detail         string
		FurtherDetails string
		Reminder       string
		Start          string
		LetterCode     string
		SentTo         string
		LetterType     string
		From           string
		Priority       int
		Urgent         bool
		ForceUrgent    bool
		DryRun         bool
	}

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a task or letter",
		Long: `Create a task or an approval letter.

Without --reminder the reminder is 09:00 on the fourth working day after
creation, counting from the next morning when created at or after 17:00.
Friday and Saturday are rest days. Urgent items are due two hours after
creation, or at 08:30 the next day when created at or after 15:00.

Examples:
  # Create a task
  hts add "Quarterly report"

  # Create an urgent letter
  hts add "Leave request" --kind letter --code L-12 --sent-to sentTo_hr --urgent

  # Create with an explicit reminder
  hts add "Budget review" --reminder "2024-03-20 09:00"

  # Create items from a file
  hts add --from items.md

  # Preview items from a file without creating
  hts add --from items.md --dry-run

File format for --from:
  ---
  name: Item 1
  kind: letter
  priority: 3
  ---
  Detail text here.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.From != "" {
				return createItemsFromFile(cmd, c, opts.From, opts.DryRun)
			}
			if len(args) == 0 {
				return errors.New("name is required unless --from is used")
			}

			kind, err := domain.ParseKind(opts.Kind)
			if err != nil {
				return err
			}
			reminder, err := parseTimeFlag(c, opts.Reminder)
			if err != nil {
				return err
			}
			start, err := parseTimeFlag(c, opts.Start)
			if err != nil {
				return err
			}

			input := usecase.CreateItemInput{
				Reminder:            reminder,
				StartTime:           start,
				Kind:                kind,
				Name:                args[0],
				Detail:              opts.Detail,
				FurtherDetails:      opts.FurtherDetails,
				Priority:            opts.Priority,
				IsUrgent:            opts.Urgent,
				ForceUrgentDeadline: opts.ForceUrgent,
			}
			if kind == domain.KindLetter {
				input.Letter = &domain.Letter{
					LetterCode: opts.LetterCode,
					SentTo:     opts.SentTo,
					LetterType: opts.LetterType,
				}
			}

			out, err := c.CreateItemUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s), reminder %s\n",
				strings.ToLower(kind.Display()), number(out.Item), out.Item.ID, formatTime(out.Item.Reminder, location(c)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "task", "Item kind: task or letter")
	cmd.Flags().StringVar(&opts.Detail, "detail", "", "Detail text")
	cmd.Flags().StringVar(&opts.FurtherDetails, "further", "", "Further details text")
	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", 0, "Priority 1-10 (default 5)")
	cmd.Flags().BoolVarP(&opts.Urgent, "urgent", "u", false, "Mark as urgent")
	cmd.Flags().StringVar(&opts.Reminder, "reminder", "", "Reminder time (default: computed)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Start time (default: now)")
	cmd.Flags().BoolVar(&opts.ForceUrgent, "force-urgent", false, "Let the urgent deadline replace --reminder")
	cmd.Flags().StringVar(&opts.LetterCode, "code", "", "Letter code (letters only)")
	cmd.Flags().StringVar(&opts.SentTo, "sent-to", "", "Letter recipient key (letters only)")
	cmd.Flags().StringVar(&opts.LetterType, "type", "", "Letter type key (letters only)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Create items from a Markdown file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview items without creating (requires --from)")

	return cmd
}

// createItemsFromFile creates items from a Markdown file.
func createItemsFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	out, err := c.CreateItemsFromFileUseCase().Execute(cmd.Context(), usecase.CreateItemsFromFileInput{
		Content: string(content),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(w, "Dry run - items that would be created:")
		_, _ = fmt.Fprintln(w, "")
	}
	loc := location(c)
	for i, it := range out.Items {
		if dryRun {
			_, _ = fmt.Fprintf(w, "%s %d:\n", it.Kind.Display(), i+1)
		} else {
			_, _ = fmt.Fprintf(w, "Created %s %s (%s):\n", strings.ToLower(it.Kind.Display()), number(it), it.ID)
		}
		_, _ = fmt.Fprintf(w, "  Name: %s\n", it.Name)
		_, _ = fmt.Fprintf(w, "  Priority: %d\n", it.Priority)
		if it.Reminder != nil {
			_, _ = fmt.Fprintf(w, "  Reminder: %s\n", formatTime(it.Reminder, loc))
		}
	}
	return nil
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Kind   string
		Status string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items by status",
		Long: `Display tasks and letters grouped into active, expired and completed.

Items are classified at the moment the command runs and listed newest first.

Examples:
  hts list
  hts list --kind letter
  hts list --status expired`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input usecase.ListItemsInput
			if opts.Kind != "" {
				kind, err := domain.ParseKind(opts.Kind)
				if err != nil {
					return err
				}
				input.Kind = kind
			}
			if opts.Status != "" {
				status, err := parseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = status
			}

			out, err := c.ListItemsUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			loc := location(c)
			for i, kind := range domain.AllKinds() {
				if input.Kind != "" && input.Kind != kind {
					continue
				}
				if i > 0 && input.Kind == "" {
					_, _ = fmt.Fprintln(w)
				}
				printView(w, kind, out.View(kind), loc)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Only this kind: task or letter")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Only this status: active, expired or completed")

	return cmd
}

func parseStatus(s string) (domain.Status, error) {
	for _, st := range domain.AllStatuses() {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want active, expired or completed)", s)
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show item details",
		Long: `Show one item. <ref> is "task/<id>", "letter/<id>" or a bare id.

For a shared item the recipients are listed; a received copy's id shows
the copy and its sender.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			out, err := c.GetItemUseCase().Execute(cmd.Context(), usecase.GetItemInput{Ref: ref})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			loc := location(c)
			if out.Received != nil {
				_, _ = fmt.Fprintf(w, "%s %s (%s)\n", labelStyle.Render("Received from:"), out.Received.SenderName, out.Received.OwnerUID())
			}
			printItem(w, out.Item, out.Status, loc)
			if len(out.Shares) > 0 {
				_, _ = fmt.Fprintln(w)
				printShares(w, out.Shares, loc)
			}
			return nil
		},
	}
}

// newSetCommand creates the set command for field edits.
func newSetCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Direction  string
		FontSize   string
		FontFamily string
	}

	cmd := &cobra.Command{
		Use:   "set <ref> <field> [value]",
		Short: "Edit one field of an item",
		Long: `Edit one field of an owned item or a received copy. Edits to shared
items reach every other holder.

Fields: name, detail, furtherDetails, result, priority, isUrgent, reminder,
startTime, createdAt, isDone, completedAt, letterCode, sentTo, letterType.
Time fields accept "2006-01-02 15:04" or RFC 3339; "none" clears them.
Without a value, text fields open in $EDITOR.

Examples:
  hts set task/ab12 priority 2
  hts set ab12 reminder "2024-03-20 09:00"
  hts set ab12 detail "دەقی نوێ" --direction rtl`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			field, err := domain.ParseField(args[1])
			if err != nil {
				return err
			}
			var raw string
			if len(args) == 3 {
				raw = args[2]
			} else {
				if raw, err = editField(cmd, c, ref, field); err != nil {
					return err
				}
			}
			value, err := domain.ParseFieldValue(field, raw, location(c))
			if err != nil {
				return err
			}
			update := domain.FieldUpdate{Field: field, Value: value}
			if opts.Direction != "" || opts.FontSize != "" || opts.FontFamily != "" {
				if !field.HasConfig() {
					return fmt.Errorf("%w: %s takes no display settings", domain.ErrInvalidField, field)
				}
				cfg := domain.DefaultFieldConfig()
				if field == domain.FieldName {
					cfg = domain.DefaultNameConfig()
				}
				if opts.Direction != "" {
					cfg.Direction = opts.Direction
				}
				if opts.FontSize != "" {
					cfg.FontSize = opts.FontSize
				}
				cfg.FontFamily = opts.FontFamily
				update.Config = &cfg
			}

			out, err := c.UpdateItemUseCase().Execute(cmd.Context(), usecase.UpdateItemInput{
				Ref:     ref,
				Updates: []domain.FieldUpdate{update},
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Updated %s of %s\n", field, out.Item.Name)
			if out.FanOutFailures > 0 {
				_, _ = fmt.Fprintf(w, "Warning: %d recipient copies could not be updated\n", out.FanOutFailures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Direction, "direction", "", "Text direction: rtl or ltr")
	cmd.Flags().StringVar(&opts.FontSize, "font-size", "", "Font size, e.g. 14px")
	cmd.Flags().StringVar(&opts.FontFamily, "font-family", "", "Font family")

	return cmd
}

// editField opens the field's current text in the editor.
func editField(cmd *cobra.Command, c *app.Container, ref domain.ItemRef, field domain.Field) (string, error) {
	if !field.HasConfig() {
		return "", fmt.Errorf("a value is required for %s", field)
	}
	out, err := c.GetItemUseCase().Execute(cmd.Context(), usecase.GetItemInput{Ref: ref})
	if err != nil {
		return "", err
	}
	return editText(textOf(out.Item, field))
}

func textOf(it *domain.Item, field domain.Field) string {
	switch field {
	case domain.FieldName:
		return it.Name
	case domain.FieldDetail:
		return it.Detail
	case domain.FieldFurtherDetails:
		return it.FurtherDetails
	case domain.FieldResult:
		return it.Result
	}
	return ""
}

// newDoneCommand creates the done command that toggles completion.
func newDoneCommand(c *app.Container) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle an item between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			completedAt, err := parseTimeFlag(c, at)
			if err != nil {
				return err
			}
			out, err := c.ToggleDoneUseCase().Execute(cmd.Context(), usecase.ToggleDoneInput{
				CompletedAt: completedAt,
				Ref:         ref,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Item.IsDone {
				_, _ = fmt.Fprintf(w, "Completed %s\n", out.Item.Name)
			} else {
				_, _ = fmt.Fprintf(w, "Reopened %s\n", out.Item.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Completion time (default: now)")

	return cmd
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <ref>...",
		Short: "Delete items",
		Long: `Delete one or more owned items. Recipients keep their copies.

Several refs are removed in one batch per kind.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]domain.ItemRef, 0, len(args))
			for _, arg := range args {
				ref, err := parseRef(arg)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}

			w := cmd.OutOrStdout()
			if len(refs) == 1 {
				if err := c.DeleteItemUseCase().Execute(cmd.Context(), usecase.DeleteItemInput{Ref: refs[0]}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "Deleted %s\n", refs[0].ID)
				return nil
			}

			out, err := c.BulkDeleteUseCase().Execute(cmd.Context(), usecase.BulkDeleteInput{Refs: refs})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "Deleted %d tasks and %d letters\n", out.Tasks, out.Letters)
			return nil
		},
	}
}

// newCleanupCommand creates the cleanup command.
func newCleanupCommand(c *app.Container) *cobra.Command {
	categories := make([]string, 0, len(domain.AllCleanUpCategories()))
	for _, cat := range domain.AllCleanUpCategories() {
		categories = append(categories, string(cat))
	}

	return &cobra.Command{
		Use:       "cleanup <category>",
		Short:     "Delete every completed or expired item of one kind",
		Long:      "Delete every item in a category: " + strings.Join(categories, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := domain.ParseCleanUpCategory(args[0])
			if err != nil {
				return err
			}
			out, err := c.CleanUpUseCase().Execute(cmd.Context(), usecase.CleanUpInput{Category: category})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d items\n", out.Deleted)
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all owned items and saved chats",
		Long: `Delete every owned item and saved chat. Received copies are kept.

Requires --yes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.ClearAllUseCase().Execute(cmd.Context(), usecase.ClearAllInput{Confirm: yes}); err != nil {
				if errors.Is(err, domain.ErrConfirmationRequired) {
					return fmt.Errorf("%w: pass --yes to delete everything", err)
				}
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All items deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}
