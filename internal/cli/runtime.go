package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hts-group/hts-tasks/internal/api"
	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/infra/schedule"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

// newRemindCommand creates the remind command.
func newRemindCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Raise notifications for due reminders once",
		Long: `Scan owned items once and raise a notification for every reminder that
has passed and was not notified before.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CheckRemindersUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%d reminders fired\n", len(out.Fired))
			if out.Failed > 0 {
				_, _ = fmt.Fprintf(w, "Warning: %d notifications could not be shown\n", out.Failed)
			}
			return nil
		},
	}
}

// newWatchCommand creates the watch command.
func newWatchCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Raise notifications for due reminders until interrupted",
		Long:  `Scan owned items every [notify] interval (default 15s) until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval := c.AppConfig.NotifyInterval()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching reminders every %s\n", interval)
			return c.WatchRemindersUseCase().Execute(cmd.Context(), usecase.WatchRemindersInput{Interval: interval})
		},
	}
}

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Addr     string
		NoWatch  bool
		NoBackup bool
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API with reminders and scheduled backups",
		Long: `Serve the JSON API on [server] addr. Alongside the server, reminders are
watched and the e-mail backup runs on [backup] schedule when switched on
with "hts backup auto on".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := opts.Addr
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}

			g, ctx := errgroup.WithContext(cmd.Context())

			if !opts.NoBackup {
				sched := schedule.New(location(c), c.Logger)
				err := sched.Add(ctx, "auto-backup", c.AppConfig.Backup.Schedule, func(ctx context.Context) error {
					_, err := c.RunAutoBackupUseCase().Execute(ctx)
					return err
				})
				if err != nil {
					return err
				}
				g.Go(func() error {
					sched.Run(ctx)
					return nil
				})
			}

			if !opts.NoWatch {
				g.Go(func() error {
					return c.WatchRemindersUseCase().Execute(ctx, usecase.WatchRemindersInput{
						Interval: c.AppConfig.NotifyInterval(),
					})
				})
			}

			srv := api.NewServer(c)
			g.Go(func() error {
				return srv.Run(ctx, addr)
			})

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %s mode on http://%s\n", c.Mode(), addr)
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default: [server] addr)")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Do not watch reminders")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "Do not run scheduled backups")

	return cmd
}
