package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/vitorfontenele/videos-api/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS videos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    duration REAL NOT NULL CHECK (duration > 0),
    uploaded_at TEXT NOT NULL
)`

// SQLiteVideoRepository persists videos in a local SQLite database.
type SQLiteVideoRepository struct {
	db *sql.DB
}

// NewSQLiteVideoRepository wraps an open SQLite handle.
func NewSQLiteVideoRepository(db *sql.DB) *SQLiteVideoRepository {
	return &SQLiteVideoRepository{db: db}
}

// EnsureSchema creates the videos table when it does not exist yet.
func (r *SQLiteVideoRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create videos table: %w", err)
	}
	return nil
}

func (r *SQLiteVideoRepository) FindAll(ctx context.Context, search string) ([]models.VideoRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if search == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT id, title, duration, uploaded_at FROM videos ORDER BY rowid`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
        SELECT id, title, duration, uploaded_at
        FROM videos
        WHERE title LIKE ? ESCAPE '\'
        ORDER BY rowid
    `, containsPattern(search))
	}
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]models.VideoRecord, 0)
	for rows.Next() {
		var video models.VideoRecord
		if err := rows.Scan(&video.ID, &video.Title, &video.Duration, &video.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

func (r *SQLiteVideoRepository) FindByID(ctx context.Context, id string) (models.VideoRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, duration, uploaded_at FROM videos WHERE id = ?`, id)

	var video models.VideoRecord
	if err := row.Scan(&video.ID, &video.Title, &video.Duration, &video.UploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VideoRecord{}, ErrNotFound
		}
		return models.VideoRecord{}, fmt.Errorf("select video by id: %w", err)
	}

	return video, nil
}

func (r *SQLiteVideoRepository) Insert(ctx context.Context, video models.VideoRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (id, title, duration, uploaded_at) VALUES (?, ?, ?, ?)`,
		video.ID, video.Title, video.Duration, video.UploadedAt,
	)
	if err != nil {
		if isSQLiteKeyViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *SQLiteVideoRepository) UpdateByID(ctx context.Context, id string, video models.VideoRecord) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE videos SET id = ?, title = ?, duration = ?, uploaded_at = ? WHERE id = ?`,
		video.ID, video.Title, video.Duration, video.UploadedAt, id,
	)
	if err != nil {
		if isSQLiteKeyViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

func (r *SQLiteVideoRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}

func (r *SQLiteVideoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isSQLiteKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

var _ Store = (*SQLiteVideoRepository)(nil)
