package state

import (
	"database/sql"
	"errors"

	"github.com/llehouerou/tempo/internal/playlist"
)

// Session is what is needed to pick playback up where it stopped.
type Session struct {
	PlaylistID string
	TrackIndex int
	Mode       playlist.PlayMode
}

func getSession(db *sql.DB) (*Session, error) {
	var s Session
	var mode int
	err := db.QueryRow(`
		SELECT playlist_id, track_index, mode FROM session_state WHERE id = 1
	`).Scan(&s.PlaylistID, &s.TrackIndex, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session
	}
	if err != nil {
		return nil, err
	}
	s.Mode = playlist.PlayMode(mode)
	return &s, nil
}

func saveSession(db *sql.DB, s Session) error {
	_, err := db.Exec(`
		INSERT INTO session_state (id, playlist_id, track_index, mode)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			playlist_id = excluded.playlist_id,
			track_index = excluded.track_index,
			mode = excluded.mode
	`, s.PlaylistID, s.TrackIndex, int(s.Mode))
	return err
}
