package auth

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"mini-social/middleware"
	"mini-social/models"
	"mini-social/utils"
)

// UserService is the credential store as seen by the auth handlers.
type UserService interface {
	Create(ctx context.Context, email, password string, username *string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, username, pictureRef *string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Handler struct {
	users  UserService
	tokens TokenIssuer
	blobs  utils.BlobStore
}

func New(users UserService, tokens TokenIssuer, blobs utils.BlobStore) *Handler {
	return &Handler{users: users, tokens: tokens, blobs: blobs}
}

// @Summary Register a new user
// @Description Create an account from an email, a password and an optional username
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.UserCreate true "User information"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "error: Email already registered / Username already taken"
// @Failure 422 {object} map[string]string "error: Invalid input"
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var input models.UserCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Invalid input: "+err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), input.Email, input.Password, input.Username)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	utils.LogSuccessWithUser(user.ID, "User registered")
	c.JSON(http.StatusCreated, user)
}

// @Summary User login
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.UserLogin true "Credentials"
// @Success 200 {object} models.Token
// @Failure 401 {object} map[string]string "error: Incorrect email or password"
// @Failure 422 {object} map[string]string "error: Invalid input"
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var input models.UserLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Invalid input: "+err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, utils.ErrUnauthenticated) {
			c.Header("WWW-Authenticate", "Bearer")
			utils.SendError(c, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		utils.SendDomainError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "error: Could not validate credentials"
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendDomainError(c, utils.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update profile
// @Description Change the username and/or upload a profile picture
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string false "New username"
// @Param profile_picture formData file false "Profile picture"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "error: Username already taken"
// @Failure 401 {object} map[string]string "error: Could not validate credentials"
// @Failure 413 {object} map[string]string "error: Request body too large"
// @Failure 422 {object} map[string]string "error: Invalid image"
// @Router /api/auth/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendDomainError(c, utils.ErrUnauthenticated)
		return
	}

	file, err := optionalFile(c, "profile_picture")
	if err != nil {
		utils.SendFormError(c, err)
		return
	}

	var username *string
	if value, exists := c.GetPostForm("username"); exists {
		username = &value
	}

	// The file is written before the row is updated so the row never points at a missing file.
	var pictureRef *string
	if file != nil {
		ref, err := h.blobs.Save(c.Request.Context(), "pfp", file)
		if err != nil {
			utils.SendDomainError(c, err)
			return
		}
		pictureRef = &ref
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user, username, pictureRef)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	utils.LogSuccessWithUser(updated.ID, "Profile updated")
	c.JSON(http.StatusOK, updated)
}

// optionalFile returns nil when the form carries no file under field.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}
