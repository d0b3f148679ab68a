package testutils

import (
	"time"

	"pitchboard/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "password123"

func CreateTestUser(username, email string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	now := time.Now()

	return &models.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		AvatarFilename: models.DefaultAvatar,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func CreateTestPost(authorID, title string) *models.Post {
	now := time.Now()

	return &models.Post{
		ID:        uuid.New().String(),
		Category:  "general",
		Title:     title,
		Content:   "Test post content",
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
