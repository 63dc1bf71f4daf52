package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/errmsg"
)

// WatchServiceEvents returns a command that waits for the next sequencer event.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg(e)
		case e := <-sub.PlaylistChanged:
			return ServicePlaylistChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ServiceModeChangedMsg(e)
		case e := <-sub.DurationChanged:
			return ServiceDurationChangedMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchEngine returns a command that waits for the next progress or state
// event from the engine.
func (m Model) WatchEngine() tea.Cmd {
	sub := m.engine
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Progress:
			return ProgressMsg(e)
		case e := <-sub.StateChanged:
			return EngineStateMsg(e)
		case <-sub.Done:
			return nil
		}
	}
}

// runAction runs a blocking control call (which may fetch from the network)
// outside the update loop.
func (m Model) runAction(op errmsg.Op, fn func(ctx context.Context) error) tea.Cmd {
	return m.runNotice(op, func(ctx context.Context) (string, error) {
		return "", fn(ctx)
	})
}

// runNotice is runAction for calls that report a message on success.
func (m Model) runNotice(op errmsg.Op, fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		notice, err := fn(ctx)
		return ActionDoneMsg{Op: op, Err: err, Notice: notice}
	}
}
