package store

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"mini-social/testutils"
	"mini-social/utils"
)

const (
	countUsersByEmail    = `SELECT count\(\*\) FROM "users" WHERE email = \$1`
	countUsersByUsername = `SELECT count\(\*\) FROM "users" WHERE username = \$1`
	insertUser           = `INSERT INTO "users" (.+) RETURNING "id"`
	selectUserByEmail    = `SELECT \* FROM "users" WHERE email = \$1 ORDER BY "users"."id" LIMIT (.+)`
)

func TestUserStore_Create_Success(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WithArgs("alice@example.com").WillReturnRows(countRows(0))
	mock.ExpectQuery(countUsersByUsername).WithArgs("alice").WillReturnRows(countRows(0))
	mock.ExpectQuery(insertUser).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user, err := s.Create(ctx(), "alice@example.com", "pw123", strPtr("alice"))

	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", *user.Username)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.True(t, s.VerifyPassword(user, "pw123"))
	assert.False(t, s.VerifyPassword(user, "pw124"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Create_WithoutUsername(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WithArgs("bob@example.com").WillReturnRows(countRows(0))
	mock.ExpectQuery(insertUser).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user, err := s.Create(ctx(), "bob@example.com", "pw123", strPtr(""))

	assert.NoError(t, err)
	assert.Nil(t, user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Create_DuplicateEmail(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WithArgs("alice@example.com").WillReturnRows(countRows(1))
	mock.ExpectRollback()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	_, err := s.Create(ctx(), "alice@example.com", "pw123", nil)

	assert.ErrorIs(t, err, utils.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_Create_DuplicateUsername(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WithArgs("carol@example.com").WillReturnRows(countRows(0))
	mock.ExpectQuery(countUsersByUsername).WithArgs("alice").WillReturnRows(countRows(1))
	mock.ExpectRollback()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	_, err := s.Create(ctx(), "carol@example.com", "pw123", strPtr("alice"))

	assert.ErrorIs(t, err, utils.ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Usernames compare exactly: "alice" is free even when "Alice" exists.
func TestUserStore_Create_UsernameIsCaseSensitive(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WithArgs("alice2@example.com").WillReturnRows(countRows(0))
	mock.ExpectQuery(countUsersByUsername).WithArgs("alice").WillReturnRows(countRows(0))
	mock.ExpectQuery(insertUser).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user, err := s.Create(ctx(), "alice2@example.com", "pw123", strPtr("alice"))

	assert.NoError(t, err)
	assert.Equal(t, "alice", *user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent registration that slips past the pre-check is caught by the unique index.
func TestUserStore_Create_UniqueViolationRace(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{emailIndex, utils.ErrDuplicateEmail},
		{usernameIndex, utils.ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			gormDB, mock, cleanup := testutils.SetupTestDB(t)
			defer cleanup()

			mock.ExpectBegin()
			mock.ExpectQuery(countUsersByEmail).WillReturnRows(countRows(0))
			mock.ExpectQuery(countUsersByUsername).WillReturnRows(countRows(0))
			mock.ExpectQuery(insertUser).WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tt.constraint})
			mock.ExpectRollback()

			s := NewUserStore(gormDB, bcrypt.MinCost)
			_, err := s.Create(ctx(), "dave@example.com", "pw123", strPtr("dave"))

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserStore_Create_DatabaseError(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(countUsersByEmail).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	_, err := s.Create(ctx(), "erin@example.com", "pw123", nil)

	assert.Error(t, err)
	assert.Equal(t, 500, utils.HTTPStatus(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUserStore_Create_RequiresPassword(t *testing.T) {
	s := NewUserStore(nil, bcrypt.MinCost)

	_, err := s.Create(ctx(), "alice@example.com", "", nil)

	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestUserStore_FindByEmail(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(selectUserByEmail).
		WithArgs("alice@example.com", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "alice@example.com", "alice", nil, "hash", time.Now()))

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user, err := s.FindByEmail(ctx(), "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "alice", *user.Username)
	assert.Nil(t, user.ProfilePictureURL)
}

func TestUserStore_FindByEmail_NotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(selectUserByEmail).WillReturnRows(sqlmock.NewRows(userColumns))

	s := NewUserStore(gormDB, bcrypt.MinCost)
	_, err := s.FindByEmail(ctx(), "ghost@example.com")

	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserStore_Authenticate(t *testing.T) {
	hash := hashFor(t, "pw123")

	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		password string
		wantErr  error
	}{
		{
			name:     "correct password",
			rows:     sqlmock.NewRows(userColumns).AddRow(1, "alice@example.com", nil, nil, hash, time.Now()),
			password: "pw123",
		},
		{
			name:     "wrong password",
			rows:     sqlmock.NewRows(userColumns).AddRow(1, "alice@example.com", nil, nil, hash, time.Now()),
			password: "nope",
			wantErr:  utils.ErrUnauthenticated,
		},
		{
			name:     "unknown email",
			rows:     sqlmock.NewRows(userColumns),
			password: "pw123",
			wantErr:  utils.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := testutils.SetupTestDB(t)
			defer cleanup()

			mock.ExpectQuery(selectUserByEmail).WillReturnRows(tt.rows)

			s := NewUserStore(gormDB, bcrypt.MinCost)
			user, err := s.Authenticate(ctx(), "alice@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "alice@example.com", user.Email)
		})
	}
}

func TestUserStore_UpdateProfile(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1 AND id <> \$2`).
		WithArgs("alice2", 1).
		WillReturnRows(countRows(0))
	mock.ExpectExec(`UPDATE "users" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user := testUser(1, "alice@example.com", "alice")
	updated, err := s.UpdateProfile(ctx(), user, strPtr("alice2"), strPtr("/uploads/pfp_1.png"))

	assert.NoError(t, err)
	assert.Equal(t, "alice2", *updated.Username)
	assert.Equal(t, "/uploads/pfp_1.png", *updated.ProfilePictureURL)
	assert.Same(t, user, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_UpdateProfile_DuplicateUsername(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1 AND id <> \$2`).
		WithArgs("bob", 1).
		WillReturnRows(countRows(1))
	mock.ExpectRollback()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user := testUser(1, "alice@example.com", "alice")
	_, err := s.UpdateProfile(ctx(), user, strPtr("bob"), nil)

	assert.ErrorIs(t, err, utils.ErrDuplicateUsername)
	assert.Equal(t, "alice", *user.Username)
}

func TestUserStore_UpdateProfile_SameUsernameIsNoop(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user := testUser(1, "alice@example.com", "alice")
	updated, err := s.UpdateProfile(ctx(), user, strPtr("alice"), nil)

	assert.NoError(t, err)
	assert.Equal(t, "alice", *updated.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_UpdateProfile_PictureOnly(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "profile_picture_url"=\$1 WHERE id = \$2`).
		WithArgs("/uploads/pfp_2.png", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewUserStore(gormDB, bcrypt.MinCost)
	user := testUser(1, "alice@example.com", "")
	updated, err := s.UpdateProfile(ctx(), user, nil, strPtr("/uploads/pfp_2.png"))

	assert.NoError(t, err)
	assert.Nil(t, updated.Username)
	assert.Equal(t, "/uploads/pfp_2.png", *updated.ProfilePictureURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
