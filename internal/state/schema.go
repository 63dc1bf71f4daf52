package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner TEXT,
			kind INTEGER NOT NULL DEFAULT 0,
			cover_path TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlist_tracks (
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			kind INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER,
			PRIMARY KEY (playlist_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_playlist_tracks_track ON playlist_tracks(playlist_id, track_id);
		CREATE INDEX IF NOT EXISTS idx_playlists_updated ON playlists(updated_at DESC);

		CREATE TABLE IF NOT EXISTS session_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			playlist_id TEXT NOT NULL,
			track_index INTEGER NOT NULL DEFAULT -1,
			mode INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
