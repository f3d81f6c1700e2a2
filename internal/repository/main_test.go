package repository

import (
	"testing"

	"kindnest/internal/database"
	"kindnest/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a throwaway in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// setupMockDB backs GORM with sqlmock for driver error-path tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func mustCreateChild(t *testing.T, db *gorm.DB, username string) *models.Child {
	t.Helper()
	child := &models.Child{Username: username, DisplayName: username, Password: "pw"}
	require.NoError(t, db.Create(child).Error)
	return child
}

func mustCreateParent(t *testing.T, db *gorm.DB, username string) *models.Parent {
	t.Helper()
	parent := &models.Parent{Username: username, Email: username + "@example.com", Password: "pw"}
	require.NoError(t, db.Create(parent).Error)
	return parent
}

func mustCreatePost(t *testing.T, db *gorm.DB, childID uint) *models.Post {
	t.Helper()
	post := &models.Post{ChildID: childID, Caption: "caption"}
	require.NoError(t, db.Create(post).Error)
	return post
}
