// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with all migrations applied.
// The database file lives in the test's temp dir and is removed with it.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "inkwell-test.db")

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// TestStore creates a store over a fresh temporary database.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(TestDB(t))
}

// CreateTestUser inserts a user with defaults suitable for tests.
func CreateTestUser(t *testing.T, st *store.Store, email, username string) model.User {
	t.Helper()

	now := time.Now().UTC()
	user, err := st.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$dGVzdHNhbHQ$dGVzdGhhc2g",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// CreateTestPost inserts a draft post authored by the given user.
func CreateTestPost(t *testing.T, st *store.Store, authorID int64, slug string) model.Post {
	t.Helper()

	now := time.Now().UTC()
	post, err := st.CreatePost(context.Background(), store.CreatePostParams{
		Title:     "Test Post " + slug,
		Slug:      slug,
		Body:      "Test body",
		Status:    model.PostStatusDraft,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

// CreateTestComment inserts a comment, optionally as a reply.
func CreateTestComment(t *testing.T, st *store.Store, postID int64, parentID *int64, content string) model.Comment {
	t.Helper()

	var parent sql.NullInt64
	if parentID != nil {
		parent = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	now := time.Now().UTC()
	comment, err := st.CreateComment(context.Background(), store.CreateCommentParams{
		PostID:     postID,
		ParentID:   parent,
		AuthorName: "Tester",
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	return comment
}
