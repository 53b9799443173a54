package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/internal/api"
	"github.com/habitflash/habitflash/internal/clock"
	"github.com/habitflash/habitflash/internal/config"
	daemonpkg "github.com/habitflash/habitflash/internal/daemon"
	"github.com/habitflash/habitflash/internal/eventloop"
	"github.com/habitflash/habitflash/internal/notify"
	"github.com/habitflash/habitflash/internal/power"
	"github.com/habitflash/habitflash/internal/server"
	"github.com/habitflash/habitflash/internal/sound"
	"github.com/habitflash/habitflash/internal/storage"
	"github.com/habitflash/habitflash/pkg/credman/keyring"
	"github.com/habitflash/habitflash/pkg/logger"
	"github.com/spf13/afero"
)

const (
	dbFileName        = "habitflash.db"
	logFileName       = "habitflash.log"
	loopDepth         = 256
	permissionTimeout = 5 * time.Second
)

// DaemonComponents holds all initialized daemon components so that they
// can be started and released in one place.
type DaemonComponents struct {
	Config   *config.Config
	DB       *storage.DB
	Loop     *eventloop.Loop
	Notifier notify.Notifier
	Api      *api.Api
	Server   *server.Server
	Power    power.Monitor
	Runner   *daemonpkg.Runner
	logger   logger.Logger
}

// Run starts the event loop, the engine, the power monitor and the RPC
// server, and blocks until ctx is canceled or serving fails.
func (c *DaemonComponents) Run(ctx context.Context) error {
	lctx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		c.Loop.Run(lctx)
	}()

	if err := c.Api.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	pctx, stopPower := context.WithCancel(ctx)
	defer stopPower()
	eventloop.Go(c.logger, "power", func() {
		if err := c.Power.Run(pctx, c.Api.PowerHandler()); err != nil {
			c.logger.Warning("power monitor stopped: %v", err)
		}
	})

	c.logger.Info("daemon listening on %s", c.Config.Addr())
	err := c.Runner.Start(ctx)
	stopPower()
	stopLoop()
	<-loopDone
	return err
}

// Close releases the components in reverse order of initialization.
func (c *DaemonComponents) Close() {
	if c.Notifier != nil {
		_ = c.Notifier.Close()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.logger.Error("close database: %v", err)
		}
	}
	if c.logger != nil {
		c.logger.Info("daemon stopped")
		_ = c.logger.Close()
	}
}

// newDaemonLogger logs to the JSON log file and, in debug mode or when the
// file is disabled, to stderr.
func newDaemonLogger(cfg *config.Config) (logger.Logger, error) {
	var ls []logger.Logger
	if cfg.LogFile {
		fl, err := logger.NewFileLogger(cfg.Path(logFileName), "daemon")
		if err != nil {
			return nil, err
		}
		ls = append(ls, fl)
	}
	if cfg.Debug || !cfg.LogFile {
		ls = append(ls, logger.NewStandardLogger(log.New(os.Stderr, "habitflash: ", log.LstdFlags)))
	}
	return logger.NewMultiLogger(ls...), nil
}

// newNotifier picks the system notifier. Auto tries the session bus on
// Linux and falls back to the log.
var newNotifier = func(mode string, l logger.Logger) (notify.Notifier, error) {
	switch mode {
	case "log":
		return notify.NewLogNotifier(l), nil
	case "dbus":
		return notify.NewDBusNotifier()
	}
	if runtime.GOOS == "linux" {
		n, err := notify.NewDBusNotifier()
		if err == nil {
			return n, nil
		}
		l.Warning("notifications: session bus unavailable, logging instead: %v", err)
	}
	return notify.NewLogNotifier(l), nil
}

// requestPermission asks once for notification permission. A denial is
// logged and startup continues.
func requestPermission(n notify.Notifier, l logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), permissionTimeout)
	defer cancel()
	if err := n.RequestPermission(ctx); err != nil {
		l.Warning("notifications: permission denied: %v", err)
	}
}

// initDaemonComponents builds every daemon component from cfg. On error,
// anything already opened is released before returning.
var initDaemonComponents = func(cfg *config.Config) (_ *DaemonComponents, err error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l, err := newDaemonLogger(cfg)
	if err != nil {
		return nil, err
	}
	c := &DaemonComponents{Config: cfg, logger: l}
	defer func() {
		if err != nil {
			l.Error("daemon initialization failed: %v", err)
			c.Close()
		}
	}()

	c.DB, err = storage.Open(cfg.Path(dbFileName))
	if err != nil {
		return nil, err
	}
	c.Notifier, err = newNotifier(cfg.Notifier, l)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}
	requestPermission(c.Notifier, l)
	token, err := keyring.Ensure(keyring.NewKeyring(), keyring.NewFileTokenStore(afero.NewOsFs(), cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("rpc token: %w", err)
	}
	c.Power, err = power.New(cfg.PowerMonitor, l)
	if err != nil {
		return nil, err
	}

	c.Loop = eventloop.New(l, loopDepth)
	c.Api = api.NewApi(l, api.Options{
		Clock:    clock.New(),
		Exec:     c.Loop,
		Groups:   storage.NewGroupRepository(c.DB),
		Settings: storage.NewSettingsRepository(c.DB),
		Notifier: c.Notifier,
		Player:   sound.NewCommandPlayer(afero.NewOsFs(), sound.DefaultDirs(cfg.SoundDirs...)),
		Rand:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid()))),
		Version: common.VersionResult{
			Version:   currentBuildArgs.Version,
			Commit:    currentBuildArgs.Commit,
			BuildType: currentBuildArgs.BuildType,
		},
	})
	c.Server = server.New(l, c.Api, token)
	c.Runner = daemonpkg.New(
		&daemonpkg.Config{Addr: cfg.Addr(), ShutdownTimeout: cfg.ShutdownTimeout},
		&daemonpkg.Dependencies{
			ListenerFactory: net.Listen,
			Serve:           c.Server.Serve,
			ShutdownFunc: func(ctx context.Context) error {
				return errors.Join(
					c.Api.Close(ctx),
					c.Server.Shutdown(ctx),
				)
			},
		},
	)
	return c, nil
}
