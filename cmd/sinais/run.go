package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/capture"
	"github.com/ayusman/sinais/internal/config"
	"github.com/ayusman/sinais/internal/detector"
	"github.com/ayusman/sinais/internal/plugin"
	"github.com/ayusman/sinais/internal/server"
	"github.com/ayusman/sinais/internal/tray"
)

type runOptions struct {
	phrase string
	bind   string
	replay string
	record string
	noTray bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Recognize gestures from the camera and serve the web API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runPipeline(signalCtx, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.phrase, "phrase", "p", "", "Stored phrase to recognize instead of the configured one")
	cmd.Flags().StringVar(&opts.bind, "bind", "", "HTTP listen address (overrides paths.api_bind)")
	cmd.Flags().StringVar(&opts.replay, "replay", "", "Loop a landmark recording instead of using the camera")
	cmd.Flags().StringVar(&opts.record, "record", "", "Write every landmark sample to this file for later replay")
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Do not show the system tray menu")
	return cmd
}

func runPipeline(ctx context.Context, cc *commandContext, opts runOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another sinais instance is already running")
	}
	defer lock.Unlock()

	logger, err := cc.logger()
	if err != nil {
		return err
	}

	st, err := cc.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	plugins := plugin.NewManager(cfg.Paths.PluginDir, logger.With("component", "plugins"))
	if err := plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", "dir", cfg.Paths.PluginDir, "error", err)
	}

	tgt, err := resolveTarget(cfg, st, opts.phrase)
	if err != nil {
		return err
	}

	src, frames, closeSource, err := openSource(cfg, opts.replay, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	if opts.record != "" {
		rec, err := newRecorder(src, opts.record)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("recording incomplete", "path", opts.record, "error", err)
			} else {
				logger.Info("recording saved", "path", opts.record, "frames", rec.Frames())
			}
		}()
		src = rec
	}

	driver, err := app.New(app.Config{
		Session:       tgt.session,
		PhraseName:    tgt.name,
		PhraseID:      tgt.id,
		Interval:      cfg.SampleInterval(),
		StartDisabled: !cfg.Pipeline.StartEnabled,
		Store:         st,
		RecordRuns:    cfg.Pipeline.RecordRuns,
		Plugins:       plugins,
		PluginTimeout: cfg.PluginTimeout(),
		Logger:        logger,
	}, src)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := driver.Start(runCtx); err != nil {
		return err
	}
	defer driver.Stop()

	bind := cfg.Paths.APIBind
	if opts.bind != "" {
		bind = opts.bind
	}
	srv := server.New(server.Config{
		StaticDir: cfg.Paths.StaticDir,
		Store:     st,
		Plugins:   plugins,
		Driver:    driver,
		Frames:    frames,
		Logger:    logger,
	})

	serveErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(runCtx, bind)
		if err != nil {
			logger.Error("http server failed", "error", err)
		}
		serveErr <- err
		cancel()
	}()

	if cfg.Tray.Enabled && !opts.noTray {
		runTray(runCtx, cancel, driver, webURL(bind), logger)
	} else {
		<-runCtx.Done()
	}
	cancel()

	if err := <-serveErr; err != nil {
		return err
	}
	return nil
}

// openSource returns the landmark source and, for a camera, the frame source
// behind the MJPEG stream. A recording is looped so the web UI keeps moving.
func openSource(cfg *config.Config, replayPath string, logger *slog.Logger) (app.Source, app.FrameSource, func(), error) {
	if replayPath != "" {
		playback, err := detector.LoadPlayback(replayPath, true)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("replaying landmarks", "path", replayPath, "frames", playback.Len())
		return playback, nil, func() {}, nil
	}

	det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("hand detector: %w", err)
	}
	camera := capture.NewCamera(capture.Options{
		DeviceID: cfg.Camera.DeviceID,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
		FPS:      cfg.Camera.FPS,
	})
	source := app.NewCameraSource(camera, det)
	if err := source.Open(); err != nil {
		det.Close()
		return nil, nil, nil, fmt.Errorf("open camera %d: %w", cfg.Camera.DeviceID, err)
	}
	logger.Info("camera opened", "device", cfg.Camera.DeviceID, "width", cfg.Camera.Width, "height", cfg.Camera.Height)

	return source, source, func() {
		if err := source.Close(); err != nil {
			logger.Warn("close camera source", "error", err)
		}
	}, nil
}

// runTray shows the tray menu until the user quits or ctx ends. It blocks
// and must run on the main goroutine.
func runTray(ctx context.Context, quit context.CancelFunc, driver *app.App, url string, logger *slog.Logger) {
	tr := tray.New(driver.IsEnabled())
	tr.OnToggle(func(enabled bool) {
		if err := driver.SetEnabled(enabled); err != nil {
			logger.Warn("toggle detection failed", "error", err)
		}
	})
	tr.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			logger.Warn("open browser failed", "url", url, "error", err)
		}
	})
	tr.OnQuit(quit)

	updates, unsubscribe := driver.Subscribe()
	defer unsubscribe()
	go tr.Watch(updates)
	tr.Update(driver.Progress())

	go func() {
		<-ctx.Done()
		tr.Quit()
	}()
	tr.Run()
}

func webURL(bind string) string {
	if strings.HasPrefix(bind, ":") {
		return "http://localhost" + bind
	}
	return "http://" + bind
}
