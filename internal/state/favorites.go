package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/llehouerou/tempo/internal/playlist"
)

// FavoritesID is the id of the playlist favorite tracks are collected in.
const FavoritesID = "favorites"

// PlaylistStore reads and writes stored playlists.
type PlaylistStore interface {
	GetPlaylist(id string) (*playlist.Playlist, error)
	SavePlaylist(ctx context.Context, pl *playlist.Playlist) error
}

// ToggleFavorite adds t to the Favorites playlist if not there, removes it if
// already favorited. The playlist is created on first use.
// Returns the new favorite status (true = now favorited).
func ToggleFavorite(ctx context.Context, s PlaylistStore, t playlist.Track) (bool, error) {
	fav, err := s.GetPlaylist(FavoritesID)
	switch {
	case errors.Is(err, ErrNotFound):
		fav = playlist.New(FavoritesID, "Favorites", "", playlist.Local)
	case err != nil:
		return false, fmt.Errorf("load favorites: %w", err)
	}

	favorited := true
	if i := fav.IndexOf(t.ID); i >= 0 {
		fav.Remove(i)
		favorited = false
	} else {
		fav.Add(t)
	}
	if err := s.SavePlaylist(ctx, fav); err != nil {
		return false, fmt.Errorf("save favorites: %w", err)
	}
	return favorited, nil
}
