package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ayusman/sinais/internal/app"
	"github.com/ayusman/sinais/internal/detector"
	"github.com/ayusman/sinais/internal/logging"
	"github.com/ayusman/sinais/internal/plugin"
	"github.com/ayusman/sinais/internal/store"
)

type replayOptions struct {
	phrase     string
	recordRuns bool
	actions    bool
	quiet      bool
}

// replayEvent is one acceptance or reset seen during a replay.
type replayEvent struct {
	offset time.Duration
	frame  int
	kind   string
	detail string
}

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Run recognition over a landmark recording",
		Long: `Run recognition over a landmark recording made with "sinais run --record".
Frames are processed one per sample interval of simulated time, so holds,
cooldowns and resets behave as they did live.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runReplay(signalCtx, cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.phrase, "phrase", "p", "", "Stored phrase to recognize instead of the configured one")
	cmd.Flags().BoolVar(&opts.recordRuns, "record-runs", false, "Record runs in the database")
	cmd.Flags().BoolVar(&opts.actions, "actions", false, "Fire completion actions (implies --record-runs)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

func runReplay(ctx context.Context, cmd *cobra.Command, cc *commandContext, path string, opts replayOptions) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	playback, err := detector.LoadPlayback(path, false)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if opts.actions {
		opts.recordRuns = true
		if logger, err = cc.logger(); err != nil {
			return err
		}
	}

	var st *store.Store
	if opts.recordRuns || opts.phrase != "" {
		if st, err = cc.openStore(); err != nil {
			return err
		}
		defer st.Close()
	}

	tgt, err := resolveTarget(cfg, st, opts.phrase)
	if err != nil {
		return err
	}

	var plugins *plugin.Manager
	if opts.actions {
		plugins = plugin.NewManager(cfg.Paths.PluginDir, logger.With("component", "plugins"))
		if err := plugins.Discover(); err != nil {
			return fmt.Errorf("discover plugins: %w", err)
		}
	}

	driver, err := app.New(app.Config{
		Session:       tgt.session,
		PhraseName:    tgt.name,
		PhraseID:      tgt.id,
		Interval:      cfg.SampleInterval(),
		Store:         st,
		RecordRuns:    opts.recordRuns,
		Plugins:       plugins,
		PluginTimeout: cfg.PluginTimeout(),
		Logger:        logger,
	}, playback)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !opts.quiet {
		bar = progressbar.NewOptions(playback.Len(),
			progressbar.OptionSetDescription("Replaying"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
		)
	}

	events, completions, frames, err := replayFrames(ctx, driver, bar)
	driver.WaitActions()
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Phrase: %s\n", driver.PhraseName())
	if len(events) > 0 {
		rows := make([][]string, len(events))
		for i, e := range events {
			rows[i] = []string{e.offset.String(), fmt.Sprint(e.frame), e.kind, e.detail}
		}
		aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft}
		fmt.Fprintln(out, renderTable(out, []string{"Time", "Frame", "Event", "Detail"}, rows, aligns))
	}
	fmt.Fprintf(out, "%d frame(s), %d completion(s)\n", frames, completions)
	return nil
}

// replayFrames steps driver over every recorded frame using simulated time
// and collects acceptances, completions and resets.
func replayFrames(ctx context.Context, driver *app.App, bar *progressbar.ProgressBar) ([]replayEvent, int, int, error) {
	var (
		events      []replayEvent
		completions int
		frames      int
	)

	interval := driver.Interval()
	start := time.Now()
	prev := driver.Progress().Sequence

	for {
		if err := ctx.Err(); err != nil {
			return events, completions, frames, err
		}
		offset := time.Duration(frames+1) * interval
		_, _, err := driver.Step(ctx, start.Add(offset))
		if errors.Is(err, detector.ErrSourceExhausted) {
			return events, completions, frames, nil
		}
		frames++
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			continue
		}

		seq := driver.Progress().Sequence
		if prev.Complete && !seq.Complete {
			events = append(events, replayEvent{offset: offset, frame: frames, kind: "reset", detail: "next: " + seq.Next.String()})
		}
		if seq.Step > prev.Step || (prev.Complete && !seq.Complete && seq.Step > 0) {
			l := seq.Accepted[len(seq.Accepted)-1]
			events = append(events, replayEvent{
				offset: offset,
				frame:  frames,
				kind:   "accepted",
				detail: fmt.Sprintf("%s (%d/%d)", l, seq.Step, len(seq.Target)),
			})
		}
		if seq.Complete && !prev.Complete {
			completions++
			events = append(events, replayEvent{offset: offset, frame: frames, kind: "complete", detail: driver.PhraseName()})
		}
		prev = seq
	}
}
