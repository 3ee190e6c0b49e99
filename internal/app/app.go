// Package app wires the daemon together: config, logging, audit storage,
// the sound library and player, the shared rule store, and the goroutines
// that serve the operator console and the playout loop.
package app

import (
	"context"
	"io"
	"sync"

	"carillon/internal/audio"
	"carillon/internal/config"
	"carillon/internal/editor"
	"carillon/internal/housekeeping"
	"carillon/internal/notify"
	"carillon/internal/playout"
	"carillon/internal/schedule"
	"carillon/internal/storage"
	logx "carillon/pkg/logx"
	"carillon/pkg/sdnotify"
)

type App struct {
	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	store *schedule.Store
	lib   audio.Library
	audit storage.Store

	loop *playout.Loop
	ed   *editor.Editor
	hk   *housekeeping.Service
	tg   *notify.Telegram // nil unless configured

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds the full application from a config path. The console reads
// from in and writes to out (normally the process stdin/stdout).
func New(cfgPath string, in io.Reader, out io.Writer) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(mapLogConfig(cfg))
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	// Optional Telegram alerts: the notifier consumes the logx alert sink.
	var tg *notify.Telegram
	if cfg.Telegram != nil {
		tg, err = notify.NewTelegram(notify.Config{
			Token:  cfg.Telegram.Token,
			ChatID: cfg.Telegram.ChatID,
		}, log.With(logx.String("comp", "notify")))
		if err != nil {
			_ = logSvc.Close()
			return nil, err
		}
		logSvc.SetAlertFunc(tg.Alert)
	}

	// Audit storage (optional)
	var audit storage.Store
	if cfg.Storage != nil {
		busy, _ := cfg.StorageBusyTimeout()
		audit, err = storage.Open(storage.Config{
			Driver:      cfg.Storage.Driver,
			Path:        cfg.Storage.Path,
			BusyTimeout: busy,
		}, log.With(logx.String("comp", "storage")))
		if err != nil {
			_ = logSvc.Close()
			return nil, err
		}
		if audit != nil {
			log.Info("audit storage enabled", logx.String("driver", cfg.Storage.Driver))
		}
	}

	lib := audio.NewLibrary(cfg.Sounds.Dir, cfg.Sounds.Extension)
	if cfg.Sounds.VerifyOnStart {
		if err := lib.VerifyStrikes(); err != nil {
			log.Warn("strike file set incomplete", logx.Err(err))
		}
	}
	player := audio.NewExecPlayer(lib, cfg.Sounds.Player, cfg.Sounds.PlayerArgs,
		log.With(logx.String("comp", "audio")))

	var store *schedule.Store
	if cfg.ScheduleDefaultsEnabled() {
		store = schedule.NewStore(schedule.DefaultRules(cfg.Schedule.StartHour, cfg.ScheduleEndHour())...)
	} else {
		store = schedule.NewStore()
	}

	a := &App{
		cfgm:  cfgm,
		logs:  logSvc,
		log:   log,
		store: store,
		lib:   lib,
		audit: audit,
		tg:    tg,
	}
	a.loop = playout.NewLoop(store, lib, player, playout.SystemClock{}, audit,
		log.With(logx.String("comp", "playout")))
	a.ed = editor.New(store, lib, audit, in, out,
		log.With(logx.String("comp", "editor")))
	a.hk = housekeeping.New(housekeeping.Config{Retention: cfg.Retention()}, lib, audit,
		log.With(logx.String("comp", "housekeeping")))
	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if err := a.hk.Start(); err != nil {
		return err
	}

	a.spawn(func() { _ = a.cfgm.Watch(ctx) })
	a.spawn(func() { a.watchConfig(ctx) })
	if a.tg != nil {
		a.spawn(func() { a.tg.Run(ctx) })
	}
	a.spawn(func() { _ = a.loop.Run(ctx) })
	a.spawn(func() {
		// Console EOF is not fatal; playout keeps the process alive.
		if err := a.ed.Run(ctx); err == nil {
			a.log.Info("operator console closed")
		}
	})
	a.spawn(func() { sdnotify.Watchdog(ctx) })

	sdnotify.Ready()
	a.log.Info("carillon started", logx.Int("rules", a.store.Len()))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	sdnotify.Stopping()
	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("shutdown timed out waiting for goroutines")
	}

	a.hk.Stop()
	if a.audit != nil {
		_ = a.audit.Close()
	}
	a.log.Info("carillon stopped")
	return a.logs.Close()
}

func (a *App) spawn(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// watchConfig hot-applies what can change at runtime: logging sinks and
// levels. Structural changes (sound dir, storage driver) need a restart.
func (a *App) watchConfig(ctx context.Context) {
	ch := a.cfgm.Subscribe(1)
	defer a.cfgm.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok || cfg == nil {
				return
			}
			a.logs.Apply(mapLogConfig(cfg))
			a.log.Info("logging config reapplied", logx.String("level", cfg.Logging.Level))
		}
	}
}

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Alert: logx.AlertConfig{
			Enabled:    cfg.Logging.Alert.Enabled,
			MinLevel:   cfg.Logging.Alert.MinLevel,
			RatePerSec: cfg.Logging.Alert.RatePerSec,
		},
	}
}
