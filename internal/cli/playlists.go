package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/errmsg"
	"github.com/llehouerou/tempo/internal/playlist"
	"github.com/llehouerou/tempo/internal/state"
)

func newPlaylistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "playlists",
		Aliases: []string{"pl"},
		Short:   "Manage saved playlists",
		Args:    cobra.NoArgs,
		RunE:    runPlaylistsList,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved playlists",
			Args:  cobra.NoArgs,
			RunE:  runPlaylistsList,
		},
		&cobra.Command{
			Use:   "play <id>",
			Short: "Play a saved playlist",
			Args:  cobra.ExactArgs(1),
			RunE:  runPlaylistsPlay,
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a saved playlist",
			Args:  cobra.ExactArgs(1),
			RunE:  runPlaylistsDelete,
		},
		&cobra.Command{
			Use:   "create <name> <file|dir>...",
			Short: "Save local files and directories as a named playlist",
			Args:  cobra.MinimumNArgs(2),
			RunE:  runPlaylistsCreate,
		},
	)
	return cmd
}

// withStore opens the environment and the state store for a playlists
// subcommand.
func withStore(cmd *cobra.Command, fn func(e *env, store *state.Manager) error) error {
	e, err := newEnv(cmd)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer e.Close()

	store, err := e.openStore()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return fn(e, store)
}

func runPlaylistsList(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(_ *env, store *state.Manager) error {
		list, err := store.ListPlaylists()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpPlaylistLoad, err))
		}
		printPlaylists(out(cmd), list)
		return nil
	})
}

func printPlaylists(w io.Writer, list []state.Summary) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved playlists.")
		return
	}
	rows := lo.Map(list, func(s state.Summary, _ int) []string {
		owner := lo.Ternary(s.Owner == "", "-", s.Owner)
		return []string{s.ID, s.Name, owner, s.Kind.String(), strconv.Itoa(s.TrackCount), humanize.Time(s.UpdatedAt)}
	})
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "OWNER", "KIND", "TRACKS", "UPDATED").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func runPlaylistsPlay(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(e *env, store *state.Manager) error {
		pl, err := loadPlaylist(store, args[0])
		if err != nil {
			return err
		}
		if pl.Len() == 0 {
			return fmt.Errorf("playlist %q is empty", pl.Name)
		}
		seq := e.newSequencer(store)
		seq.SetPlaylist(pl, 0)
		return runTUI(cmd.Context(), e, seq, store, true)
	})
}

func runPlaylistsDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(_ *env, store *state.Manager) error {
		id := args[0]
		err := store.DeletePlaylist(id)
		if errors.Is(err, state.ErrNotFound) {
			return fmt.Errorf("no playlist %q: %w", id, err)
		}
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpPlaylistDelete, id, err))
		}
		fmt.Fprintf(out(cmd), "Deleted %s\n", id)
		return nil
	})
}

func runPlaylistsCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	id := localID(name)
	if id == "" {
		return fmt.Errorf("invalid playlist name %q", args[0])
	}
	tracks, err := playlist.CollectFromPaths(afero.NewOsFs(), args[1:])
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpFileLoad, err))
	}
	if len(tracks) == 0 {
		return errors.New("no playable files found")
	}

	return withStore(cmd, func(_ *env, store *state.Manager) error {
		if _, err := store.GetPlaylist(id); err == nil {
			return fmt.Errorf("playlist %s already exists", id)
		}
		pl := playlist.New(id, name, "", playlist.Local)
		pl.Add(tracks...)
		if err := store.SavePlaylist(cmd.Context(), pl); err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpPlaylistCreate, name, err))
		}
		fmt.Fprintf(out(cmd), "Created %s with %d tracks\n", id, pl.Len())
		return nil
	})
}

func loadPlaylist(store state.Interface, id string) (*playlist.Playlist, error) {
	pl, err := store.GetPlaylist(id)
	if errors.Is(err, state.ErrNotFound) {
		return nil, fmt.Errorf("no playlist %q: %w", id, err)
	}
	if err != nil {
		return nil, errors.New(errmsg.FormatWith(errmsg.OpPlaylistLoad, id, err))
	}
	return pl, nil
}

// localID derives a playlist id from a display name: "Road Trip" becomes
// "local:road-trip".
func localID(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, name)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if slug == "" {
		return ""
	}
	return localPlaylistID + ":" + slug
}
