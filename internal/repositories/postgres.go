package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vitorfontenele/videos-api/internal/db"
	"github.com/vitorfontenele/videos-api/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS videos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    duration DOUBLE PRECISION NOT NULL CHECK (duration > 0),
    uploaded_at TEXT NOT NULL
)`

const uniqueViolation = "23505"

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// EnsureSchema creates the videos table when it does not exist yet.
func (r *PostgresVideoRepository) EnsureSchema(ctx context.Context) error {
	return db.ExecWithRetry(ctx, r.pool, "videos schema", postgresSchema)
}

// FindAll returns every video, or only those whose title contains search when it is not empty.
func (r *PostgresVideoRepository) FindAll(ctx context.Context, search string) ([]models.VideoRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var rows pgx.Rows
	if search == "" {
		rows, err = conn.Query(ctx, `
        SELECT id, title, duration, uploaded_at
        FROM videos
    `)
	} else {
		rows, err = conn.Query(ctx, `
        SELECT id, title, duration, uploaded_at
        FROM videos
        WHERE title LIKE $1 ESCAPE '\'
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

// FindByID fetches a single video by its identifier.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.VideoRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoRecord{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, title, duration, uploaded_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.VideoRecord
	if err := row.Scan(&video.ID, &video.Title, &video.Duration, &video.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoRecord{}, ErrNotFound
		}
		return models.VideoRecord{}, fmt.Errorf("select video by id: %w", err)
	}

	return video, nil
}

// Insert stores a new video row.
func (r *PostgresVideoRepository) Insert(ctx context.Context, video models.VideoRecord) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, title, duration, uploaded_at)
        VALUES ($1, $2, $3, $4)
    `, video.ID, video.Title, video.Duration, video.UploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// UpdateByID overwrites the row identified by id, including its id column.
func (r *PostgresVideoRepository) UpdateByID(ctx context.Context, id string, video models.VideoRecord) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        UPDATE videos
        SET id = $2, title = $3, duration = $4, uploaded_at = $5
        WHERE id = $1
    `, id, video.ID, video.Title, video.Duration, video.UploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update video: %w", err)
	}

	return nil
}

// DeleteByID removes the row identified by id.
func (r *PostgresVideoRepository) DeleteByID(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	return nil
}

// Ping verifies a connection can be acquired and used.
func (r *PostgresVideoRepository) Ping(ctx context.Context) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return conn.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ Store = (*PostgresVideoRepository)(nil)
