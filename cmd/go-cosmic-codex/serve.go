package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cosmic-codex/internal/calendar"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/tartampluch/go-cosmic-codex/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	f := &timelineFlags{}
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Fail fast on bad input instead of serving 503s forever.
			if err := f.validate(); err != nil {
				return err
			}
			if _, err := f.birthDate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			srv := server.NewTimelineServer(a.settings.Server.Port)
			go a.refreshLoop(ctx, srv, f, a.settings.Server.RefreshInterval)
			return srv.Start(ctx)
		},
	}
	f.register(cmd)
	cmd.Flags().String(config.FlagPort, "", config.FlagDescPort)
	_ = a.v.BindPFlag(config.SettingServerPort, cmd.Flags().Lookup(config.FlagPort))
	return cmd
}

// refreshLoop publishes a fresh timeline immediately and then on every tick
// until ctx is cancelled.
func (a *app) refreshLoop(ctx context.Context, srv *server.TimelineServer, f *timelineFlags, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info(config.MsgWorkerStart,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyInterval, interval.String(),
	)

	for {
		if err := a.refresh(ctx, srv, f); err != nil && ctx.Err() == nil {
			slog.Error(config.MsgRefreshFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err,
			)
		}

		select {
		case <-ctx.Done():
			slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompWorker)
			return
		case <-ticker.C:
		}
	}
}

func (a *app) refresh(ctx context.Context, srv *server.TimelineServer, f *timelineFlags) error {
	tl, err := a.generate(ctx, f)
	if err != nil {
		return err
	}
	ics, err := calendar.Encode(tl, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(tl)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	srv.Update(ics, data)
	return nil
}
