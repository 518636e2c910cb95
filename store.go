package photoblog

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for posts,
// users, and contact messages.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    google_id TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    picture TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    img_url TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    is_public INTEGER NOT NULL DEFAULT 1,
    author_id TEXT NOT NULL REFERENCES users(id),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);
CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `p.id, p.title, p.content, p.img_url, p.type, p.is_public, p.author_id, p.created_at, p.updated_at, u.name, u.picture`

const postSelect = `SELECT ` + postColumns + ` FROM posts p LEFT JOIN users u ON u.id = p.author_id`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var typ, createdAt, updatedAt string
	var isPublic int
	var authorName, authorPicture sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImgURL, &typ, &isPublic, &p.AuthorID, &createdAt, &updatedAt, &authorName, &authorPicture)
	if err != nil {
		return Post{}, err
	}
	p.Type = NormalizeType(PostType(typ), p.ImgURL)
	p.IsPublic = isPublic == 1
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	if p.AuthorID != "" {
		p.Author = &Author{
			ID:             p.AuthorID,
			Name:           authorName.String,
			ProfilePicture: authorPicture.String,
		}
	}
	return p, nil
}

// ListPublicPosts returns all public posts, newest first.
func (s *Store) ListPublicPosts() ([]Post, error) {
	return s.listPosts(postSelect+` WHERE p.is_public = 1 ORDER BY p.created_at DESC`)
}

// ListPostsByAuthor returns every post by the given author regardless of
// visibility, newest first.
func (s *Store) ListPostsByAuthor(authorID string) ([]Post, error) {
	return s.listPosts(postSelect+` WHERE p.author_id = ? ORDER BY p.created_at DESC`, authorID)
}

func (s *Store) listPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single post by id regardless of visibility.
func (s *Store) GetPost(id string) (Post, error) {
	return scanPost(s.db.QueryRow(postSelect+` WHERE p.id = ?`, id))
}

// CreatePost inserts a new post. The caller assigns the id and timestamps.
func (s *Store) CreatePost(p Post) error {
	isPublic := 0
	if p.IsPublic {
		isPublic = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO posts (id, title, content, img_url, type, is_public, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.ImgURL, string(p.Type), isPublic, p.AuthorID,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	return err
}

// UpdatePost applies partial field updates to a post. Nil pointers leave the
// stored value untouched.
func (s *Store) UpdatePost(id string, title, content, imgURL *string) error {
	set := "updated_at = ?"
	args := []any{formatTime(time.Now().UTC())}
	if title != nil {
		set += ", title = ?"
		args = append(args, *title)
	}
	if content != nil {
		set += ", content = ?"
		args = append(args, *content)
	}
	if imgURL != nil {
		set += ", img_url = ?, type = ?"
		args = append(args, *imgURL, string(NormalizeType("", *imgURL)))
	}
	args = append(args, id)
	res, err := s.db.Exec(`UPDATE posts SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// SetPostVisibility flips the is_public flag on a post.
func (s *Store) SetPostVisibility(id string, isPublic bool) error {
	v := 0
	if isPublic {
		v = 1
	}
	res, err := s.db.Exec(`UPDATE posts SET is_public = ?, updated_at = ? WHERE id = ?`,
		v, formatTime(time.Now().UTC()), id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// UpsertUser inserts a user keyed by Google id, refreshing the profile
// fields on every login. It returns the stored record, preserving the id of
// an existing user.
func (s *Store) UpsertUser(u User) (User, error) {
	_, err := s.db.Exec(`
INSERT INTO users (id, google_id, email, name, picture, created_at) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(google_id) DO UPDATE SET email = excluded.email, name = excluded.name, picture = excluded.picture`,
		u.ID, u.GoogleID, u.Email, u.Name, u.ProfilePicture, formatTime(u.CreatedAt))
	if err != nil {
		return User{}, err
	}
	return s.getUser(`google_id = ?`, u.GoogleID)
}

// GetUser returns a user by id.
func (s *Store) GetUser(id string) (User, error) {
	return s.getUser(`id = ?`, id)
}

func (s *Store) getUser(where string, arg any) (User, error) {
	var u User
	var createdAt string
	err := s.db.QueryRow(`SELECT id, google_id, email, name, picture, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.ProfilePicture, &createdAt)
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// SaveMessage persists a contact form submission.
func (s *Store) SaveMessage(m ContactMessage) error {
	_, err := s.db.Exec(`INSERT INTO messages (name, email, body, created_at) VALUES (?, ?, ?, ?)`,
		m.Name, m.Email, m.Body, formatTime(m.CreatedAt))
	return err
}

// ListMessages returns all contact messages, newest first.
func (s *Store) ListMessages() ([]ContactMessage, error) {
	rows, err := s.db.Query(`SELECT id, name, email, body, created_at FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ContactMessage
	for rows.Next() {
		var m ContactMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
