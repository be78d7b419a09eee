package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/sinais/internal/detector"
	"github.com/ayusman/sinais/internal/gesture"
	"github.com/ayusman/sinais/internal/store"
)

// loop is the periodic driver. It owns the reset timer: the timer is armed
// once when the phrase completes and is not re-armed by later ticks.
func (a *App) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.config.Interval)
	defer ticker.Stop()

	var (
		reset  *time.Timer
		resetC <-chan time.Time
	)
	defer func() {
		if reset != nil {
			reset.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			p, ok, _ := a.tick(ctx, a.clock())
			if ok && p.Sequence.Complete && reset == nil {
				reset = time.NewTimer(a.session.ResetDelay())
				resetC = reset.C
			}

		case <-resetC:
			reset, resetC = nil, nil
			if remaining, ok := a.reset(a.clock()); !ok {
				reset = time.NewTimer(remaining)
				resetC = reset.C
			}
		}
	}
}

// Step runs a single tick at now outside the driver loop. A completed phrase
// whose reset delay has elapsed at now is reset first. It reports whether a
// hand was processed and returns the source error, if any.
func (a *App) Step(ctx context.Context, now time.Time) (Progress, bool, error) {
	if a.Running() {
		return Progress{}, false, ErrAlreadyRunning
	}
	if a.session.Snapshot().Complete {
		a.reset(now)
	}
	return a.tick(ctx, now)
}

// tick samples the source once and feeds the session. Ticks that arrive
// while another is in flight are dropped. Source failures are logged and the
// next tick tries again.
func (a *App) tick(ctx context.Context, now time.Time) (Progress, bool, error) {
	if !a.busy.CompareAndSwap(false, true) {
		a.logger.Debug("tick dropped, previous tick still running")
		return Progress{}, false, nil
	}
	defer a.busy.Store(false)

	if !a.enabled.Load() {
		return Progress{}, false, nil
	}

	hands, err := a.source.Hands(ctx)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, detector.ErrSourceExhausted) {
			a.logger.Warn("landmark source failed", "error", err)
		}
		return Progress{}, false, err
	}

	res, ok := a.session.Process(hands, now)
	if !ok {
		a.publishIdle(now, len(hands))
		return Progress{}, false, nil
	}

	a.logger.Debug("tick",
		"raw", res.Raw.String(),
		"stable", res.Stable.String(),
		"hold", res.Hold.Count,
		"step", res.Progress.Step,
	)

	if res.Accepted != gesture.None {
		a.logger.Info("gesture accepted",
			"label", res.Accepted.String(),
			"step", res.Progress.Step,
			"of", len(res.Progress.Target),
		)
		a.recordAcceptance(res)
	}
	if res.Completed {
		a.logger.Info("phrase completed",
			"phrase", a.config.PhraseName,
			"labels", gesture.JoinLabels(res.Progress.Accepted),
			"reset_in", a.session.ResetDelay(),
		)
		a.recordCompletion(now)
		a.runActions(ctx, res)
	}

	hand := res.Hand
	p := Progress{
		At:          now,
		Enabled:     true,
		Phrase:      a.config.PhraseName,
		HandVisible: true,
		Hand:        &hand,
		Features:    res.Features,
		Raw:         res.Raw,
		Stable:      res.Stable,
		HasStable:   res.HasStable,
		Hold:        res.Hold,
		Sequence:    res.Progress,
	}
	a.publish(p)
	return p, true, nil
}

// publishIdle marks the hand as gone without touching recognition state.
func (a *App) publishIdle(now time.Time, hands int) {
	if hands > 0 {
		a.logger.Debug("malformed hand discarded", "hands", hands)
	}
	p := a.Progress()
	if !p.HandVisible && p.Hand == nil {
		return
	}
	p.At = now
	p.HandVisible = false
	p.Hand = nil
	a.publish(p)
}

// reset returns a completed phrase to its first step. When the delay has not
// yet elapsed at now it reports the time remaining.
func (a *App) reset(now time.Time) (time.Duration, bool) {
	if !a.busy.CompareAndSwap(false, true) {
		return time.Millisecond, false
	}
	defer a.busy.Store(false)

	snap := a.session.Snapshot()
	if !snap.Complete {
		return 0, true
	}
	if !a.session.Reset(now) {
		due := a.completedAt.Add(a.session.ResetDelay())
		remaining := due.Sub(now)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		return remaining, false
	}

	a.logger.Info("phrase reset", "phrase", a.config.PhraseName)
	p := a.Progress()
	p.At = now
	p.Hold = gesture.HoldState{}
	p.Sequence = a.session.Snapshot()
	a.publish(p)
	return 0, true
}

func (a *App) recordAcceptance(res gesture.Result) {
	if a.config.Store == nil || !a.config.RecordRuns {
		return
	}

	runs := a.config.Store.Runs()
	if a.run == nil {
		labels := make([]string, len(res.Progress.Target))
		for i, l := range res.Progress.Target {
			labels[i] = string(l)
		}
		run := &store.Run{
			ID:        uuid.NewString(),
			PhraseID:  a.config.PhraseID,
			Labels:    labels,
			StartedAt: res.At,
		}
		if err := runs.Start(run); err != nil {
			a.logger.Warn("record run start failed", "error", err)
			return
		}
		a.run = run
	}

	err := runs.Accept(a.run.ID, store.Acceptance{
		Step:       res.Progress.Step,
		Label:      string(res.Accepted),
		AcceptedAt: res.At,
	})
	if err != nil {
		a.logger.Warn("record acceptance failed", "run_id", a.run.ID, "error", err)
	}
}

func (a *App) recordCompletion(now time.Time) {
	a.completedAt = now
	if a.run == nil {
		return
	}
	run := a.run
	a.run = nil

	if err := a.config.Store.Runs().Complete(run.ID, now); err != nil {
		a.logger.Warn("record completion failed", "run_id", run.ID, "error", err)
	}
}
