package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"mini-social/testutils"
	"mini-social/utils"
)

const (
	countPostsByID = `SELECT count\(\*\) FROM "posts" WHERE id = \$1`
	deleteLike     = `DELETE FROM "likes" WHERE user_id = \$1 AND post_id = \$2`
	insertLike     = `INSERT INTO "likes" \("user_id","post_id"\) VALUES \(\$1,\$2\) ON CONFLICT DO NOTHING`
	countLikes     = `SELECT count\(\*\) FROM "likes" WHERE post_id = \$1`
)

// expectToggle registers one toggle round trip. existed tells whether the like row is present.
func expectToggle(mock sqlmock.Sqlmock, userID, postID uint, existed bool, countAfter int) {
	mock.ExpectBegin()
	mock.ExpectQuery(countPostsByID).WithArgs(postID).WillReturnRows(countRows(1))
	if existed {
		mock.ExpectExec(deleteLike).WithArgs(userID, postID).WillReturnResult(sqlmock.NewResult(0, 1))
	} else {
		mock.ExpectExec(deleteLike).WithArgs(userID, postID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(insertLike).WithArgs(userID, postID).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectQuery(countLikes).WithArgs(postID).WillReturnRows(countRows(countAfter))
	mock.ExpectCommit()
}

func TestToggleLike_Add(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectToggle(mock, 2, 10, false, 1)

	status, err := NewContentStore(gormDB).ToggleLike(ctx(), 2, 10)

	assert.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, int64(1), status.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_Remove(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectToggle(mock, 2, 10, true, 0)

	status, err := NewContentStore(gormDB).ToggleLike(ctx(), 2, 10)

	assert.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(0), status.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An even number of toggles restores the original state and count; an odd number leaves
// the post liked with exactly one more like.
func TestToggleLike_Parity(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	const others = 3
	liked := false
	for i := 0; i < 5; i++ {
		countAfter := others
		if !liked {
			countAfter++
		}
		expectToggle(mock, 2, 10, liked, countAfter)
		liked = !liked
	}

	s := NewContentStore(gormDB)
	for i := 1; i <= 5; i++ {
		status, err := s.ToggleLike(ctx(), 2, 10)
		assert.NoError(t, err)
		if i%2 == 1 {
			assert.True(t, status.Liked, "toggle %d", i)
			assert.Equal(t, int64(others+1), status.Count, "toggle %d", i)
		} else {
			assert.False(t, status.Liked, "toggle %d", i)
			assert.Equal(t, int64(others), status.Count, "toggle %d", i)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_PostNotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countPostsByID).WithArgs(99).WillReturnRows(countRows(0))
	mock.ExpectRollback()

	_, err := NewContentStore(gormDB).ToggleLike(ctx(), 2, 99)

	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, "Post not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The insert finds the row a concurrent toggle just added: this toggle undoes it, as if
// the two had run one after the other.
func TestToggleLike_LosingConcurrentInsertUnlikes(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countPostsByID).WithArgs(10).WillReturnRows(countRows(1))
	mock.ExpectExec(deleteLike).WithArgs(2, 10).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertLike).WithArgs(2, 10).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteLike).WithArgs(2, 10).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countLikes).WithArgs(10).WillReturnRows(countRows(0))
	mock.ExpectCommit()

	status, err := NewContentStore(gormDB).ToggleLike(ctx(), 2, 10)

	assert.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, int64(0), status.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_PostDeletedDuringToggle(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countPostsByID).WillReturnRows(countRows(1))
	mock.ExpectExec(deleteLike).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertLike).WillReturnError(&pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "fk_likes_post"})
	mock.ExpectRollback()

	_, err := NewContentStore(gormDB).ToggleLike(ctx(), 2, 10)

	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCountLikes(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(countLikes).WithArgs(12345).WillReturnRows(countRows(0))

	count, err := NewContentStore(gormDB).CountLikes(ctx(), 12345)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
