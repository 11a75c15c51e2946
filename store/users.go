package store

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mini-social/models"
	"mini-social/utils"
)

// UserStore persists accounts and their password hashes.
type UserStore struct {
	db        *gorm.DB
	cost      int
	dummyHash []byte
}

func NewUserStore(db *gorm.DB, cost int) *UserStore {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so login timing doesn't reveal accounts.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &UserStore{db: db, cost: cost, dummyHash: dummy}
}

// normalizeUsername treats an empty username as absent.
func normalizeUsername(username *string) *string {
	if username == nil || *username == "" {
		return nil
	}
	u := *username
	return &u
}

// Create registers a user. Usernames are compared with exact, case-sensitive equality.
func (s *UserStore) Create(ctx context.Context, email, password string, username *string) (*models.User, error) {
	if email == "" {
		return nil, utils.ValidationFailed("email is required")
	}
	if password == "" {
		return nil, utils.ValidationFailed("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, utils.ValidationFailed("password is too long")
		}
		return nil, errors.Wrap(err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		Username:     normalizeUsername(username),
		PasswordHash: string(hash),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking email")
		}
		if count > 0 {
			return utils.ErrDuplicateEmail
		}

		if user.Username != nil {
			if err := tx.Model(&models.User{}).Where("username = ?", *user.Username).Count(&count).Error; err != nil {
				return errors.Wrap(err, "checking username")
			}
			if count > 0 {
				return utils.ErrDuplicateUsername
			}
		}

		return translateError(tx.Create(user).Error, "creating user")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail returns the user or an error matching utils.ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "User"}
		}
		return nil, errors.Wrap(err, "finding user by email")
	}
	return &user, nil
}

// VerifyPassword compares plaintext against the stored hash in constant time.
func (s *UserStore) VerifyPassword(user *models.User, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong passwords both
// return utils.ErrUnauthenticated.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, utils.ErrUnauthenticated
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, utils.ErrUnauthenticated
	}
	return user, nil
}

// UpdateProfile changes username and/or profile picture and mutates user on success.
// A nil or empty argument leaves the field untouched.
func (s *UserStore) UpdateProfile(ctx context.Context, user *models.User, username, pictureRef *string) (*models.User, error) {
	username = normalizeUsername(username)
	if username != nil && user.Username != nil && *user.Username == *username {
		username = nil
	}
	if pictureRef != nil && *pictureRef == "" {
		pictureRef = nil
	}

	updates := map[string]interface{}{}
	if username != nil {
		updates["username"] = *username
	}
	if pictureRef != nil {
		updates["profile_picture_url"] = *pictureRef
	}
	if len(updates) == 0 {
		return user, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if username != nil {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("username = ? AND id <> ?", *username, user.ID).
				Count(&count).Error; err != nil {
				return errors.Wrap(err, "checking username")
			}
			if count > 0 {
				return utils.ErrDuplicateUsername
			}
		}

		res := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
		if res.Error != nil {
			return translateError(res.Error, "updating profile")
		}
		if res.RowsAffected == 0 {
			return &utils.NotFoundError{Resource: "User"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if username != nil {
		user.Username = username
	}
	if pictureRef != nil {
		ref := *pictureRef
		user.ProfilePictureURL = &ref
	}
	return user, nil
}
