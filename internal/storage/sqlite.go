package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/bkmr/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Store using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStorage opens (and creates, if needed) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: pragmas are per connection and access is serial anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migrate to v%d: %w", currentSchemaVersion, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
// Tags are stored in canonical form (",a,b,") so LIKE '%,a,%' matches whole tags only.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY NOT NULL,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT ',,',
			last_update TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

const selectColumns = `SELECT id, url, title, description, tags, last_update FROM bookmarks`

// GetByID loads a single bookmark.
func (s *SQLiteStorage) GetByID(ctx context.Context, id int) (model.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	bm, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bookmark{}, fmt.Errorf("id %d: %w", id, model.ErrNotFound)
	}
	return bm, err
}

// Query returns bookmarks matching text and the pushed down tag clauses, ordered by id.
// Only the tag clauses run in SQL: sqlite's lower() folds ASCII alone, so the
// text terms are matched on the scanned rows.
func (s *SQLiteStorage) Query(ctx context.Context, text string, pushdown *model.TagFilter) ([]model.Bookmark, error) {
	var conds []string
	var args []any

	if pushdown != nil {
		if all := pushdown.EffectiveAll(); all != nil {
			for _, tag := range *all {
				conds = append(conds, `tags LIKE ? ESCAPE '\'`)
				args = append(args, tagPattern(tag))
			}
		}
	}

	query := selectColumns
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := queryTerms(text)
	result := []model.Bookmark{}
	for rows.Next() {
		bm, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		if matchesTerms(bm, terms) {
			result = append(result, bm)
		}
	}
	return result, rows.Err()
}

// Insert stores a new bookmark under the next free id.
func (s *SQLiteStorage) Insert(ctx context.Context, nb model.NewBookmark) (model.Bookmark, error) {
	if err := validateURL(nb.URL); err != nil {
		return model.Bookmark{}, err
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, url, title, description, tags, last_update)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM bookmarks), ?, ?, ?, ?, ?)
	`, nb.URL, nb.Title, nb.Description, nb.Tags.String(), now.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Bookmark{}, fmt.Errorf("%s: %w", nb.URL, model.ErrDuplicate)
		}
		return model.Bookmark{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Bookmark{}, err
	}
	return s.GetByID(ctx, int(id))
}

// Update overwrites a stored bookmark.
func (s *SQLiteStorage) Update(ctx context.Context, bm model.Bookmark) (model.Bookmark, error) {
	if err := validateURL(bm.URL); err != nil {
		return model.Bookmark{}, err
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks SET url = ?, title = ?, description = ?, tags = ?, last_update = ?
		WHERE id = ?
	`, bm.URL, bm.Title, bm.Description, bm.Tags.String(), now.Format(time.RFC3339Nano), bm.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Bookmark{}, fmt.Errorf("%s: %w", bm.URL, model.ErrDuplicate)
		}
		return model.Bookmark{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return model.Bookmark{}, err
	}
	if n == 0 {
		return model.Bookmark{}, fmt.Errorf("id %d: %w", bm.ID, model.ErrNotFound)
	}
	return s.GetByID(ctx, bm.ID)
}

// Delete removes a bookmark and compacts ids by moving the highest id into the gap.
// Uses a transaction so the removal and renumbering happen together.
func (s *SQLiteStorage) Delete(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, model.ErrNotFound)
	}

	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM bookmarks`).Scan(&maxID); err != nil {
		return err
	}
	if maxID.Valid && int(maxID.Int64) > id {
		if _, err := tx.ExecContext(ctx, `UPDATE bookmarks SET id = ? WHERE id = ?`, id, maxID.Int64); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AllTags counts tags over all bookmarks.
func (s *SQLiteStorage) AllTags(ctx context.Context) ([]model.TagCount, error) {
	return s.countTags(ctx, `SELECT tags FROM bookmarks`)
}

// RelatedTags counts tags over bookmarks tagged with tag.
func (s *SQLiteStorage) RelatedTags(ctx context.Context, tag string) ([]model.TagCount, error) {
	want := model.NewTagSet(tag)
	if want.Empty() {
		return []model.TagCount{}, nil
	}
	return s.countTags(ctx, `SELECT tags FROM bookmarks WHERE tags LIKE ? ESCAPE '\'`, tagPattern(want[0]))
}

func (s *SQLiteStorage) countTags(ctx context.Context, query string, args ...any) ([]model.TagCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []model.TagSet
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		sets = append(sets, model.ParseTags(tags))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.CountTags(sets), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (model.Bookmark, error) {
	var bm model.Bookmark
	var tags, lastUpdate string
	if err := row.Scan(&bm.ID, &bm.URL, &bm.Title, &bm.Description, &tags, &lastUpdate); err != nil {
		return model.Bookmark{}, err
	}
	bm.Tags = model.ParseTags(tags)
	parsed, err := time.Parse(time.RFC3339Nano, lastUpdate)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("bookmark %d has invalid last_update %q: %w", bm.ID, lastUpdate, err)
	}
	bm.LastUpdate = parsed
	return bm, nil
}

// tagPattern matches the canonical form of any set containing tag.
func tagPattern(tag string) string {
	return "%" + model.TagDelimiter + escapeLike(tag) + model.TagDelimiter + "%"
}

// escapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
