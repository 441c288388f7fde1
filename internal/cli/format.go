package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/domain"
)

const displayTime = "2006-01-02 15:04"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	expiredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	urgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unseenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusExpired:
		return expiredStyle.Render(s.Display())
	case domain.StatusCompleted:
		return completedStyle.Render(s.Display())
	default:
		return activeStyle.Render(s.Display())
	}
}

// parseRef reads "kind/id" or a bare id. A bare id leaves the kind empty so
// use cases search both kinds.
func parseRef(arg string) (domain.ItemRef, error) {
	kind, id, ok := strings.Cut(arg, "/")
	if !ok {
		return domain.ItemRef{ID: arg}, nil
	}
	k, err := domain.ParseKind(kind)
	if err != nil {
		return domain.ItemRef{}, err
	}
	if id == "" {
		return domain.ItemRef{}, fmt.Errorf("%w: missing id in %q", domain.ErrInvalidItem, arg)
	}
	return domain.ItemRef{Kind: k, ID: id}, nil
}

// location returns the zone reminders are computed in.
func location(c *app.Container) *time.Location {
	if c.AppConfig != nil && c.AppConfig.Location != nil {
		return c.AppConfig.Location
	}
	return time.Local
}

// parseTimeFlag parses an optional time flag; empty means unset.
func parseTimeFlag(c *app.Container, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseTime(s, location(c))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(displayTime)
}

func number(it *domain.Item) string {
	if it.Number == 0 {
		return "-"
	}
	return fmt.Sprintf("#%d", it.Number)
}

func itemName(it *domain.Item) string {
	if it.IsUrgent {
		return urgentStyle.Render("!") + " " + it.Name
	}
	return it.Name
}

// printView writes one kind's board, one section per non-empty status.
func printView(w io.Writer, kind domain.Kind, view domain.View, loc *time.Location) {
	sections := []struct {
		items  []*domain.Item
		status domain.Status
	}{
		{view.Active, domain.StatusActive},
		{view.Expired, domain.StatusExpired},
		{view.Completed, domain.StatusCompleted},
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(kind.Display()+"s"))
	if view.Len() == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	for _, sec := range sections {
		if len(sec.items) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s (%d)\n", statusLabel(sec.status), len(sec.items))
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, "  NO\tID\tPRI\tREMINDER\tNAME")
		for _, it := range sec.items {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\n",
				number(it), it.ID, it.Priority, formatTime(it.Reminder, loc), itemName(it))
		}
		_ = tw.Flush()
	}
}

// printItem writes the detail view of one item.
func printItem(w io.Writer, it *domain.Item, status domain.Status, loc *time.Location) {
	field := func(label, value string) {
		if value == "" {
			return
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	_, _ = fmt.Fprintf(w, "%s %s %s\n", it.Kind.Display(), number(it), itemName(it))
	field("ID", it.ID)
	field("Status", statusLabel(status))
	field("Priority", fmt.Sprintf("%d", it.Priority))
	if it.IsUrgent {
		field("Urgent", "yes")
	}
	field("Reminder", formatTime(it.Reminder, loc))
	if it.OriginalReminder != nil {
		field("Original reminder", formatTime(it.OriginalReminder, loc))
	}
	field("Start", formatTime(&it.StartTime, loc))
	field("Created", formatTime(&it.CreatedAt, loc))
	if it.CompletedAt != nil {
		field("Completed", formatTime(it.CompletedAt, loc))
	}
	if it.Letter != nil {
		field("Letter code", it.LetterCode)
		field("Sent to", it.SentTo)
		field("Letter type", it.LetterType)
	}
	if it.SharedCount > 0 {
		field("Shared with", fmt.Sprintf("%d", it.SharedCount))
	}
	if it.Detail != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", it.Detail)
	}
	if it.FurtherDetails != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", it.FurtherDetails)
	}
	if it.Result != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", labelStyle.Render("Result:"), it.Result)
	}
}

func printShares(w io.Writer, shares []domain.ShareRecord, loc *time.Location) {
	if len(shares) == 0 {
		_, _ = fmt.Fprintln(w, "Not shared.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UID\tNAME\tSHARED\tLAST SEEN")
	for _, s := range shares {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.UID, s.Name, formatTime(&s.SharedAt, loc), formatTime(s.LastSeen, loc))
	}
	_ = tw.Flush()
}
