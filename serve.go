package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/api"
	"github.com/llehouerou/mediaplayerd/internal/catalog"
	"github.com/llehouerou/mediaplayerd/internal/config"
	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/logging"
	"github.com/llehouerou/mediaplayerd/internal/mpris"
	"github.com/llehouerou/mediaplayerd/internal/playback"
	"github.com/llehouerou/mediaplayerd/internal/player"
	"github.com/llehouerou/mediaplayerd/internal/remote"
	"github.com/llehouerou/mediaplayerd/internal/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the player daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	engine, err := player.NewBeep(player.DefaultSampleRate)
	if err != nil {
		logger.Error(errmsg.Format(errmsg.OpPipelineInit, err))
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn(errmsg.Format(errmsg.OpPipelineClose, err))
		}
	}()

	prefs, err := settings.Open(cfg.StateFile, logger.Named("settings"))
	if err != nil {
		logger.Error(errmsg.Format(errmsg.OpSettingsLoad, err))
		return err
	}
	defer prefs.Close()

	session := playback.New(engine, playback.Options{
		TickInterval: cfg.TickInterval,
		Volume:       cfg.Volume(),
		Preferences:  prefs,
		Logger:       logger.Named("playback"),
	})
	defer session.Close()

	if saved, err := prefs.Load(); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpSettingsLoad, err))
	} else if saved != nil {
		session.Restore(saved.Volume, saved.LoopMode)
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	var controller remote.Controller
	if cfg.HasBluetoothConfig() {
		bt, err := remote.NewBlueZ(cfg.Bluetooth.Device, logger.Named("remote"))
		if err != nil {
			logger.Warn(errmsg.Format(errmsg.OpRemoteWatch, err))
		} else {
			defer bt.Close()
			controller = bt
		}
	}

	dispatcher := api.New(session, controller, logger.Named("api"))

	if bt, ok := controller.(*remote.BlueZ); ok {
		if connected, err := bt.Connected(); err == nil && connected {
			dispatcher.RemotePeerChanged(true)
		}
		wg.Go(func() {
			err := bt.Watch(ctx, dispatcher.RemotePeerChanged)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn(errmsg.Format(errmsg.OpRemoteWatch, err))
			}
		})
	}

	scanner := catalog.New(cfg.MediaDirs, logger.Named("catalog"))
	if err := session.ReplacePlaylist(scanner.Scan()); err != nil {
		logger.Info("no media found", zap.Strings("dirs", cfg.MediaDirs))
	}
	wg.Go(func() {
		err := scanner.Watch(ctx, session)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(errmsg.Format(errmsg.OpCatalogWatch, err))
		}
	})

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(cfg.MPRIS.Name, dispatcher, session, logger.Named("mpris"))
		if err != nil {
			logger.Warn(errmsg.Format(errmsg.OpMprisStart, err))
		} else {
			defer adapter.Close()
		}
	}

	logger.Info("player ready",
		zap.Int("tracks", len(session.Tracks())),
		zap.Int("volume", session.Volume()),
		zap.Stringer("loop", session.LoopMode()))

	session.Run(ctx)
	logger.Info("shutting down")
	return nil
}
