// Package cli implements the tempo command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/state"
)

// NewRootCmd builds the tempo command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tempo",
		Short: "A terminal music player for local files and a music server",
		Long: "tempo plays local files and playlists from a music server.\n" +
			"Without a subcommand it reopens the last played playlist.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runResume,
	}
	root.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/tempo/config.toml, ./config.toml)")

	root.AddCommand(
		newPlayCmd(),
		newSheetsCmd(),
		newPlaylistsCmd(),
		newCacheCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runResume(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer e.Close()

	store, err := e.openStore()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	seq := e.newSequencer(store)

	if err := restoreSession(seq, store); err != nil {
		e.log.WithError(err).Warn(errmsg.Format(errmsg.OpSessionRestore, err))
	}
	return runTUI(cmd.Context(), e, seq, store, false)
}

// restoreSession selects the playlist, track and mode saved by the last run.
func restoreSession(seq playback.Service, store state.Interface) error {
	sess, err := store.GetSession()
	if err != nil || sess == nil {
		return err
	}
	pl, err := store.GetPlaylist(sess.PlaylistID)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	seq.SetPlaylist(pl, sess.TrackIndex)
	seq.SetPlayMode(sess.Mode)
	return nil
}
