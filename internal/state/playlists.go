package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/tempo/internal/db"
	"github.com/llehouerou/tempo/internal/playlist"
)

// ErrNotFound is returned when a playlist id is unknown.
var ErrNotFound = errors.New("playlist not found")

// Summary describes a stored playlist without its tracks.
type Summary struct {
	ID         string
	Name       string
	Owner      string
	Kind       playlist.Kind
	TrackCount int
	UpdatedAt  time.Time
}

// ListPlaylists returns stored playlists, most recently saved first.
func (m *Manager) ListPlaylists() ([]Summary, error) {
	rows, err := m.db.Query(`
		SELECT p.id, p.name, p.owner, p.kind, p.updated_at,
			(SELECT COUNT(*) FROM playlist_tracks t WHERE t.playlist_id = p.id)
		FROM playlists p
		ORDER BY p.updated_at DESC, p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var owner sql.NullString
		var kind int
		var updated int64
		if err := rows.Scan(&s.ID, &s.Name, &owner, &kind, &updated, &s.TrackCount); err != nil {
			return nil, err
		}
		s.Owner = db.NullStringValue(owner)
		s.Kind = playlist.Kind(kind)
		s.UpdatedAt = time.Unix(updated, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlaylist loads a playlist and its tracks in order.
func (m *Manager) GetPlaylist(id string) (*playlist.Playlist, error) {
	var name string
	var owner, cover sql.NullString
	var kind int
	var created int64
	err := m.db.QueryRow(`
		SELECT name, owner, kind, cover_path, created_at FROM playlists WHERE id = ?
	`, id).Scan(&name, &owner, &kind, &cover, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	pl := playlist.New(id, name, db.NullStringValue(owner), playlist.Kind(kind))
	pl.CoverPath = db.NullStringValue(cover)
	pl.CreatedAt = time.Unix(created, 0)

	rows, err := m.db.Query(`
		SELECT track_id, title, artist, kind, duration_ms
		FROM playlist_tracks WHERE playlist_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t playlist.Track
		var artist sql.NullString
		var tkind int
		var dur sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Title, &artist, &tkind, &dur); err != nil {
			return nil, err
		}
		t.Artist = db.NullStringValue(artist)
		t.Kind = playlist.Kind(tkind)
		t.Duration = db.NullMillis(dur)
		pl.Add(t)
	}
	return pl, rows.Err()
}

// SavePlaylist stores pl, replacing any previous version with the same id.
func (m *Manager) SavePlaylist(ctx context.Context, pl *playlist.Playlist) error {
	if pl.ID == "" {
		return errors.New("playlist has no id")
	}
	now := time.Now().Unix()
	created := pl.CreatedAt.Unix()
	if pl.CreatedAt.IsZero() {
		created = now
	}

	return db.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO playlists (id, name, owner, kind, cover_path, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				owner = excluded.owner,
				kind = excluded.kind,
				cover_path = excluded.cover_path,
				updated_at = excluded.updated_at
		`, pl.ID, pl.Name, nullString(pl.Owner), int(pl.Kind), nullString(pl.CoverPath), created, now)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ?`, pl.ID); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO playlist_tracks (playlist_id, position, track_id, title, artist, kind, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range pl.Tracks() {
			if _, err := stmt.Exec(pl.ID, i, t.ID, t.Title, nullString(t.Artist), int(t.Kind), db.Millis(t.Duration)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePlaylist removes a playlist and its tracks.
func (m *Manager) DeletePlaylist(id string) error {
	res, err := m.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTrackDuration records a measured duration for every occurrence of
// trackID in the playlist. Unknown playlists are ignored.
func (m *Manager) SetTrackDuration(playlistID, trackID string, d time.Duration) error {
	_, err := m.db.Exec(`
		UPDATE playlist_tracks SET duration_ms = ?
		WHERE playlist_id = ? AND track_id = ?
	`, db.Millis(d), playlistID, trackID)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
