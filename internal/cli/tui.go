package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/tempo/internal/app"
	"github.com/llehouerou/tempo/internal/mpris"
	"github.com/llehouerou/tempo/internal/notify"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/stderr"
)

// runTUI drives seq from a bubbletea program until the user quits.
func runTUI(ctx context.Context, e *env, seq *playback.Sequencer, store state.Interface, autoplay bool) error {
	e.serveMetrics()

	// Logging to a file keeps captured lines from looping back into fd 2.
	if e.cfg.Log.File != "" {
		capture, err := stderr.Start(e.log)
		if err != nil {
			e.log.WithError(err).Warn("capture stderr")
		} else {
			defer capture.Stop()
		}
	}

	opts := []app.Option{
		app.WithSessionSaver(store),
		app.WithPlaylists(store),
		app.WithDownloader(e.newDownloader()),
	}
	if autoplay {
		opts = append(opts, app.WithAutoplay())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return seq.Run(gctx)
	})
	if e.cfg.Desktop.Notifications {
		w := e.notifier(seq)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}
	if e.cfg.MPRISEnabled() {
		a, err := mpris.New(gctx, seq, e.log)
		if err != nil {
			e.log.WithError(err).Warn("mpris unavailable")
		} else {
			defer a.Close()
		}
	}
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(app.New(gctx, seq, opts...), tea.WithAltScreen(), tea.WithContext(gctx))
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *env) notifier(seq *playback.Sequencer) *notify.Watcher {
	n, err := notify.New()
	if err != nil {
		e.log.WithError(err).Warn("desktop notifications unavailable")
	}
	return notify.NewWatcher(seq, n, notify.WithLogger(e.log))
}
