package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
)

// AlbumRepository persists the local cache of the saved album library.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new [AlbumRepository] with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Upsert writes one album, replacing any prior row with the same ID.
func (r *AlbumRepository) Upsert(album services.Album) error {
	query := `
		INSERT INTO albums (id, name, artist, release_date, total_tracks, uri, image_url, added_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			artist = excluded.artist,
			release_date = excluded.release_date,
			total_tracks = excluded.total_tracks,
			uri = excluded.uri,
			image_url = excluded.image_url,
			added_at = excluded.added_at,
			fetched_at = excluded.fetched_at
	`

	_, err := r.db.Exec(query,
		album.ID, album.Name, album.Artist, album.ReleaseDate,
		album.TotalTracks, album.URI, album.ImageURL, album.AddedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert album: %w", err)
	}

	return nil
}

// UpsertAll writes a batch of albums in one transaction.
func (r *AlbumRepository) UpsertAll(albums []services.Album) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO albums (id, name, artist, release_date, total_tracks, uri, image_url, added_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			artist = excluded.artist,
			release_date = excluded.release_date,
			total_tracks = excluded.total_tracks,
			uri = excluded.uri,
			image_url = excluded.image_url,
			added_at = excluded.added_at,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, album := range albums {
		if _, err := stmt.Exec(
			album.ID, album.Name, album.Artist, album.ReleaseDate,
			album.TotalTracks, album.URI, album.ImageURL, album.AddedAt, now,
		); err != nil {
			return fmt.Errorf("failed to upsert album %s: %w", album.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit albums: %w", err)
	}

	return nil
}

// Get retrieves a cached album by ID.
func (r *AlbumRepository) Get(id string) (*services.Album, error) {
	query := `
		SELECT id, name, artist, release_date, total_tracks, uri, image_url, added_at
		FROM albums WHERE id = ?
	`

	var album services.Album
	err := r.db.QueryRow(query, id).Scan(
		&album.ID, &album.Name, &album.Artist, &album.ReleaseDate,
		&album.TotalTracks, &album.URI, &album.ImageURL, &album.AddedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query album: %w", err)
	}

	return &album, nil
}

// List returns all cached albums ordered by artist, then name.
func (r *AlbumRepository) List() ([]services.Album, error) {
	query := `
		SELECT id, name, artist, release_date, total_tracks, uri, image_url, added_at
		FROM albums ORDER BY artist, name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []services.Album
	for rows.Next() {
		var album services.Album
		if err := rows.Scan(
			&album.ID, &album.Name, &album.Artist, &album.ReleaseDate,
			&album.TotalTracks, &album.URI, &album.ImageURL, &album.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}

	return albums, rows.Err()
}

// Count returns the number of cached albums.
func (r *AlbumRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM albums").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return count, nil
}

// Clear removes every cached album.
func (r *AlbumRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM albums"); err != nil {
		return fmt.Errorf("failed to clear albums: %w", err)
	}
	return nil
}
