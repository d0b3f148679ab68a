package db

import (
	"context"
	"log"

	"pitchboard/internal/util"
	"pitchboard/models"
)

// Operation represents a database operation that needs to be executed
type Operation struct {
	Execute func() error
	Result  chan error
}

// DBManager serializes mutating access to the SQLite database. Reads go to
// the repositories directly; writes are funneled through a single worker so
// concurrent request handlers never contend for the write lock.
type DBManager struct {
	opQueue  chan Operation
	stopping chan struct{}
}

// NewDBManager creates a new database manager
func NewDBManager() *DBManager {
	m := &DBManager{
		opQueue:  make(chan Operation, 100),
		stopping: make(chan struct{}),
	}

	// Start the worker goroutine
	go m.worker()
	log.Println("Database access manager started")

	return m
}

// worker processes operations one at a time
func (m *DBManager) worker() {
	for {
		select {
		case op := <-m.opQueue:
			op.Result <- util.RetryOnLock(op.Execute)
		case <-m.stopping:
			return
		}
	}
}

// ExecuteOperation runs a database operation on the worker and waits for it
func (m *DBManager) ExecuteOperation(execute func() error) error {
	resultChan := make(chan error, 1)
	m.opQueue <- Operation{
		Execute: execute,
		Result:  resultChan,
	}
	return <-resultChan
}

// Stop stops the database manager
func (m *DBManager) Stop() {
	close(m.stopping)
}

// Methods for specific repository operations

// CreateUser serializes access to user creation
func (m *DBManager) CreateUser(repo UserRepository, ctx context.Context, user *models.User) error {
	return m.ExecuteOperation(func() error {
		return repo.Create(ctx, user)
	})
}

// UpdateUser serializes access to account updates
func (m *DBManager) UpdateUser(repo UserRepository, ctx context.Context, user *models.User) error {
	return m.ExecuteOperation(func() error {
		return repo.Update(ctx, user)
	})
}

// CreatePost serializes access to post creation
func (m *DBManager) CreatePost(repo PostRepository, ctx context.Context, post *models.Post) error {
	return m.ExecuteOperation(func() error {
		return repo.Create(ctx, post)
	})
}

// UpdatePost serializes access to post updates
func (m *DBManager) UpdatePost(repo PostRepository, ctx context.Context, post *models.Post) error {
	return m.ExecuteOperation(func() error {
		return repo.Update(ctx, post)
	})
}

// DeletePost serializes access to post deletion
func (m *DBManager) DeletePost(repo PostRepository, ctx context.Context, id string) error {
	return m.ExecuteOperation(func() error {
		return repo.DeleteByID(ctx, id)
	})
}
