package repository

import (
	"context"
	"errors"
	"fmt"

	"citadel/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContentRepository defines storage operations for content entries.
type ContentRepository interface {
	// GetEntriesForUser returns the user's entries newest first, optionally
	// narrowed to one category. An empty category means no filter.
	GetEntriesForUser(ctx context.Context, userID, category string) ([]model.ContentEntry, error)
	GetEntryByID(ctx context.Context, id int64) (*model.ContentEntry, error)
	CreateEntry(ctx context.Context, e *model.ContentEntry) error
	// UpdateEntry updates by primary key without checking ownership.
	UpdateEntry(ctx context.Context, id int64, patch model.ContentEntryPatch) (*model.ContentEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
	CountEntriesByCategory(ctx context.Context, userID string) ([]model.CategoryCount, error)
	ListAllEntries(ctx context.Context) ([]model.ContentEntry, error)
}

type contentRepo struct {
	db DBTX
}

func NewContentRepo(db DBTX) ContentRepository {
	return &contentRepo{db: db}
}

const entryColumns = `id, user_id, title, content, category, tags, image_url, created_at, updated_at`

func scanEntry(row scanner) (*model.ContentEntry, error) {
	var e model.ContentEntry
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Content,
		&e.Category,
		&e.Tags,
		&e.ImageURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]model.ContentEntry, error) {
	defer rows.Close()
	entries := []model.ContentEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *contentRepo) GetEntriesForUser(ctx context.Context, userID, category string) ([]model.ContentEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM content_entries WHERE user_id = $1`
	args := []any{userID}
	if category != "" {
		q += ` AND category = $2`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query content for user %s: %w", userID, err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("read content for user %s: %w", userID, err)
	}
	return entries, nil
}

func (r *contentRepo) GetEntryByID(ctx context.Context, id int64) (*model.ContentEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM content_entries WHERE id = $1`
	e, err := scanEntry(r.db.QueryRow(ctx, q, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("fetch content entry %d: %w", id, err)
	}
	return e, err
}

func (r *contentRepo) CreateEntry(ctx context.Context, e *model.ContentEntry) error {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	q := `
		INSERT INTO content_entries (user_id, title, content, category, tags, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + entryColumns
	created, err := scanEntry(r.db.QueryRow(ctx, q, e.UserID, e.Title, e.Content, e.Category, tags, e.ImageURL))
	if err != nil {
		return fmt.Errorf("insert content entry: %w", err)
	}
	*e = *created
	return nil
}

func (r *contentRepo) UpdateEntry(ctx context.Context, id int64, patch model.ContentEntryPatch) (*model.ContentEntry, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.ClearContent {
		set.add("content", nil)
	} else if patch.Content != nil {
		set.add("content", *patch.Content)
	}
	if patch.Category != nil {
		set.add("category", *patch.Category)
	}
	if patch.Tags != nil {
		set.add("tags", *patch.Tags)
	}
	if patch.ClearImageURL {
		set.add("image_url", nil)
	} else if patch.ImageURL != nil {
		set.add("image_url", *patch.ImageURL)
	}

	assignments, idx := set.build()
	q := fmt.Sprintf(`UPDATE content_entries SET %s WHERE id = $%d RETURNING %s`, assignments, idx, entryColumns)
	e, err := scanEntry(r.db.QueryRow(ctx, q, append(set.args, id)...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("update content entry %d: %w", id, err)
	}
	return e, err
}

func (r *contentRepo) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM content_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content entry %d: %w", id, err)
	}
	return nil
}

func (r *contentRepo) CountEntriesByCategory(ctx context.Context, userID string) ([]model.CategoryCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COUNT(*)
		FROM content_entries
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("count content for user %s: %w", userID, err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *contentRepo) ListAllEntries(ctx context.Context) ([]model.ContentEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM content_entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return entries, nil
}
