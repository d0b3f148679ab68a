package post

import (
	"context"
	"errors"
	"time"

	"pitchboard/db"
	"pitchboard/internal/util"
	"pitchboard/models"
)

// ErrForbidden is returned when a user tries to mutate a post they do not own.
var ErrForbidden = errors.New("not the author of this post")

// PostService owns post CRUD and the ownership rule: only the author may
// update or delete a post.
type PostService struct {
	repo      db.PostRepository
	dbManager *db.DBManager
}

func NewPostService(repo db.PostRepository, dbManager *db.DBManager) *PostService {
	return &PostService{repo: repo, dbManager: dbManager}
}

// Create stores a new post for the given author.
func (s *PostService) Create(ctx context.Context, authorID, title, category, content string) (*models.Post, error) {
	now := time.Now()
	post := &models.Post{
		ID:        db.GenerateID(),
		Category:  category,
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dbManager.CreatePost(s.repo, ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID returns the post or db.ErrNotFound.
func (s *PostService) FindByID(ctx context.Context, id string) (*models.Post, error) {
	return util.RetryOnLockWithResult(func() (*models.Post, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// FindAll returns every post newest-first, the landing page order.
func (s *PostService) FindAll(ctx context.Context) ([]*models.Post, error) {
	return util.RetryOnLockWithResult(func() ([]*models.Post, error) {
		return s.repo.FindAll(ctx)
	})
}

// Update changes title, category and content of the post identified by id,
// on behalf of userID. ID, author and creation time are left untouched.
// Returns db.ErrNotFound for a missing post and ErrForbidden when userID is
// not the author.
func (s *PostService) Update(ctx context.Context, userID, id, title, category, content string) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}

	post.Title = title
	post.Category = category
	post.Content = content
	post.UpdatedAt = time.Now()

	if err := s.dbManager.UpdatePost(s.repo, ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post permanently, under the same ownership rule as
// Update. There is no soft delete.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}

	return s.dbManager.DeletePost(s.repo, ctx, id)
}
