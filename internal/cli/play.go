package cli

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playlist"
)

const localPlaylistID = "local"

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <file|dir>...",
		Short: "Play local files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := playlist.CollectFromPaths(afero.NewOsFs(), args)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpFileLoad, err))
			}
			if len(tracks) == 0 {
				return errors.New("no playable files found")
			}

			e, err := newEnv(cmd)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}
			defer e.Close()

			store, err := e.openStore()
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpInitialize, err))
			}

			pl := playlist.New(localPlaylistID, "Local files", "", playlist.Local)
			pl.Add(tracks...)
			if err := store.SavePlaylist(cmd.Context(), pl); err != nil {
				e.log.WithError(err).Warn(errmsg.Format(errmsg.OpPlaylistSave, err))
			}

			seq := e.newSequencer(store)
			seq.SetPlaylist(pl, 0)
			return runTUI(cmd.Context(), e, seq, store, true)
		},
	}
}
