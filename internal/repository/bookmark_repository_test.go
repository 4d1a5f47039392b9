package repository

import (
	"quizforge_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，收紧连接池避免表消失
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func countBookmarks(t *testing.T, db *gorm.DB, userID, quizID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Bookmark{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&count).Error)
	return count
}

func TestBookmarkAddIsIdempotent(t *testing.T) {
	db := newTestDB(t, &model.Bookmark{})
	repo := NewBookmarkRepository(db)

	require.NoError(t, repo.Add(1, 2))
	require.NoError(t, repo.Add(1, 2))

	assert.Equal(t, int64(1), countBookmarks(t, db, 1, 2))

	bookmarked, err := repo.IsBookmarked(1, 2)
	require.NoError(t, err)
	assert.True(t, bookmarked)
}

func TestBookmarkRemoveAbsentIsNoOp(t *testing.T) {
	db := newTestDB(t, &model.Bookmark{})
	repo := NewBookmarkRepository(db)

	require.NoError(t, repo.Remove(1, 99))

	bookmarked, err := repo.IsBookmarked(1, 99)
	require.NoError(t, err)
	assert.False(t, bookmarked)
}

func TestBookmarkAddRemoveCycle(t *testing.T) {
	db := newTestDB(t, &model.Bookmark{})
	repo := NewBookmarkRepository(db)

	require.NoError(t, repo.Add(7, 3))
	require.NoError(t, repo.Remove(7, 3))
	assert.Equal(t, int64(0), countBookmarks(t, db, 7, 3))

	// 物理删除后可以重新收藏
	require.NoError(t, repo.Add(7, 3))
	assert.Equal(t, int64(1), countBookmarks(t, db, 7, 3))
}

func TestBookmarkQuizIDSet(t *testing.T) {
	db := newTestDB(t, &model.Bookmark{})
	repo := NewBookmarkRepository(db)

	require.NoError(t, repo.Add(1, 10))
	require.NoError(t, repo.Add(1, 20))
	require.NoError(t, repo.Add(2, 30))

	set, err := repo.QuizIDSet(1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{10: true, 20: true}, set)
}
