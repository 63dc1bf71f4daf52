package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/download"
	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/musicserver"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/state"
)

var errNoServer = errors.New("no music server configured (set server.url)")

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sheets [all|top20|top1]",
		Short:     "List playlists published by the music server",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(musicserver.QueryAll), string(musicserver.QueryTop20), string(musicserver.QueryTop1)},
		RunE:      runSheets,
	}
	cmd.Flags().IntP("play", "p", 0, "play the sheet with this number from the list")
	cmd.Flags().IntP("save", "s", 0, "add the sheet with this number to your playlists without playing it")
	cmd.MarkFlagsMutuallyExclusive("play", "save")
	return cmd
}

func runSheets(cmd *cobra.Command, args []string) error {
	query := musicserver.QueryAll
	if len(args) == 1 {
		q, err := musicserver.ParseQuery(args[0])
		if err != nil {
			return err
		}
		query = q
	}

	e, err := newEnv(cmd)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer e.Close()

	client := e.client()
	if client == nil {
		return errNoServer
	}

	sheets, err := client.QuerySheets(cmd.Context(), query)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpSheetsLoad, err))
	}

	play := lo.Must(cmd.Flags().GetInt("play"))
	save := lo.Must(cmd.Flags().GetInt("save"))
	n := lo.Ternary(save != 0, save, play)
	if n == 0 {
		printSheets(out(cmd), sheets)
		return nil
	}
	if n < 1 || n > len(sheets) {
		return fmt.Errorf("no sheet number %d (have %d)", n, len(sheets))
	}

	store, err := e.openStore()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	pl := storeSheet(cmd.Context(), e, client, store, sheets[n-1])
	if save > 0 {
		if pl == nil {
			return fmt.Errorf("sheet %q was not saved", sheets[n-1].Name)
		}
		fmt.Fprintf(out(cmd), "Saved %q as %s (%d tracks)\n", pl.Name, pl.ID, pl.Len())
		return nil
	}
	if pl == nil {
		pl = sheets[n-1].Playlist()
	}

	seq := e.newSequencer(store)
	seq.SetPlaylist(pl, 0)
	return runTUI(cmd.Context(), e, seq, store, true)
}

func printSheets(w io.Writer, sheets []musicserver.Sheet) {
	if len(sheets) == 0 {
		fmt.Fprintln(w, "No playlists on the server.")
		return
	}
	rows := lo.Map(sheets, func(s musicserver.Sheet, i int) []string {
		created := "-"
		if t := s.CreatedAt(); !t.IsZero() {
			created = humanize.Time(t)
		}
		return []string{strconv.Itoa(i + 1), s.Name, s.Creator, strconv.Itoa(len(s.MusicItems)), created}
	})
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("#", "NAME", "CREATOR", "TRACKS", "CREATED").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

// storeSheet adds sheet, with its cover, to the stored playlists. It returns
// nil when the playlist could not be saved.
func storeSheet(ctx context.Context, e *env, client *musicserver.Client, store state.PlaylistStore, sheet musicserver.Sheet) *playlist.Playlist {
	pl := sheet.Playlist()
	if sheet.Picture != "" {
		path, err := saveCover(ctx, afero.NewOsFs(), client, sheet.UUID)
		if err != nil {
			e.log.WithError(err).WithField("sheet", sheet.UUID).Warn("cover download")
		} else {
			pl.CoverPath = path
		}
	}
	if err := store.SavePlaylist(ctx, pl); err != nil {
		e.log.WithError(err).Warn(errmsg.Format(errmsg.OpPlaylistSave, err))
		return nil
	}
	return pl
}

// saveCover downloads a sheet picture into the XDG cache directory.
func saveCover(ctx context.Context, fsys afero.Fs, client *musicserver.Client, uuid string) (string, error) {
	path, err := xdg.CacheFile(filepath.Join("tempo", "covers", uuid))
	if err != nil {
		return "", err
	}
	body, err := client.FetchPicture(ctx, uuid)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if _, err := download.Save(fsys, path, body); err != nil {
		return "", err
	}
	return path, nil
}
