package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pitchboard/db"
	"pitchboard/internal/util"
	"pitchboard/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login, whether the email
// is unknown or the password is wrong. Callers must not be able to tell the
// two cases apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService owns registration, authentication and account updates.
type UserService struct {
	repo      db.UserRepository
	dbManager *db.DBManager
}

func NewUserService(repo db.UserRepository, dbManager *db.DBManager) *UserService {
	return &UserService{repo: repo, dbManager: dbManager}
}

// Register creates an account with a bcrypt-hashed password. The plaintext
// password never leaves this function.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:             db.GenerateID(),
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		AvatarFilename: models.DefaultAvatar,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.dbManager.CreateUser(s.repo, ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies email and password. bcrypt performs the hash
// comparison in constant time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := util.RetryOnLockWithResult(func() (*models.User, error) {
		return s.repo.FindByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID resolves a user id to the account, typically from a session.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return util.RetryOnLockWithResult(func() (*models.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// UpdateAccount changes username, email and optionally the avatar. An empty
// avatarFilename keeps the current one.
func (s *UserService) UpdateAccount(ctx context.Context, id, username, email, avatarFilename string) (*models.User, error) {
	user, err := util.RetryOnLockWithResult(func() (*models.User, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if avatarFilename != "" {
		user.AvatarFilename = avatarFilename
	}
	user.UpdatedAt = time.Now()

	if err := s.dbManager.UpdateUser(s.repo, ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
