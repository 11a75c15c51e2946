package store

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"mini-social/utils"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	emailIndex    = "idx_users_email"
	usernameIndex = "idx_users_username"
)

// translateError turns constraint violations into domain errors. The unique indexes are the
// real guard against concurrent duplicate inserts; anything unrecognized is wrapped with op.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			switch pgErr.ConstraintName {
			case emailIndex:
				return utils.ErrDuplicateEmail
			case usernameIndex:
				return utils.ErrDuplicateUsername
			}
		case foreignKeyViolation:
			if strings.HasSuffix(pgErr.ConstraintName, "_user") {
				return &utils.NotFoundError{Resource: "User"}
			}
			return &utils.NotFoundError{Resource: "Post"}
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	return errors.Wrap(err, op)
}
