package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pitchboard/models"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	return r.db.Close()
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarFilename, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, avatar_filename, created_at, updated_at FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail finds a user by email
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, avatar_filename, created_at, updated_at FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// Create inserts a new user
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, avatar_filename, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email,
		user.PasswordHash, user.AvatarFilename, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateEmail(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// Update updates username, email and avatar of an existing user
func (r *SQLiteUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET username = ?, email = ?, avatar_filename = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Email,
		user.AvatarFilename, user.UpdatedAt, user.ID)
	if err != nil {
		if isDuplicateEmail(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateEmail reports whether err is the sqlite UNIQUE violation on
// users.email
func isDuplicateEmail(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

// SQLitePostRepository implements the PostRepository interface for SQLite
type SQLitePostRepository struct {
	db *sql.DB
}

// NewSQLitePostRepository creates a new SQLitePostRepository
func NewSQLitePostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{db: db}
}

// Close closes the database connection
func (r *SQLitePostRepository) Close() error {
	return r.db.Close()
}

// FindByID finds a post by ID
func (r *SQLitePostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT p.id, p.category, p.title, p.content, p.author_id, p.created_at, p.updated_at, u.username
		FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(&post.ID, &post.Category, &post.Title, &post.Content,
		&post.AuthorID, &post.CreatedAt, &post.UpdatedAt, &post.AuthorName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}
	return &post, nil
}

// FindAll returns every post, newest first. The rowid tiebreak keeps posts
// created within the same clock tick in reverse insertion order.
func (r *SQLitePostRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT p.id, p.category, p.title, p.content, p.author_id, p.created_at, p.updated_at, u.username
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(&post.ID, &post.Category, &post.Title, &post.Content,
			&post.AuthorID, &post.CreatedAt, &post.UpdatedAt, &post.AuthorName)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

// Create inserts a new post
func (r *SQLitePostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (id, category, title, content, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Category, post.Title,
		post.Content, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting post: %w", err)
	}
	return nil
}

// Update changes title, category and content of an existing post. Author and
// creation time are never touched.
func (r *SQLitePostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET category = ?, title = ?, content = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, post.Category, post.Title,
		post.Content, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a post permanently
func (r *SQLitePostRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
