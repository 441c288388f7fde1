// Package notifier raises desktop notifications.
package notifier

import (
	"fmt"
	"io"

	"github.com/gen2brain/beeep"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Ensure notifiers implement domain.Notifier.
var (
	_ domain.Notifier = (*Desktop)(nil)
	_ domain.Notifier = (*Writer)(nil)
)

// Desktop shows notifications through the platform notification service.
type Desktop struct {
	notify func(title, body string) error
	icon   string
}

// New creates a Desktop notifier. icon may be empty.
func New(icon string) *Desktop {
	d := &Desktop{icon: icon}
	d.notify = func(title, body string) error {
		return beeep.Notify(title, body, d.icon)
	}
	return d
}

// Notify shows one notification.
func (d *Desktop) Notify(title, body string) error {
	if err := d.notify(title, body); err != nil {
		return fmt.Errorf("notify %q: %w", title, err)
	}
	return nil
}

// Writer prints notifications instead of showing them.
// Used on headless hosts and by "hts remind --print".
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Notify prints "title: body".
func (w *Writer) Notify(title, body string) error {
	_, err := fmt.Fprintf(w.out, "%s: %s\n", title, body)
	return err
}
