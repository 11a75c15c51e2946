package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendError envoie une réponse d'erreur
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// SendDomainError translates err into its status code. Authentication failures share one
// message so the caller can't tell an unknown account from a bad token. Unexpected errors are
// logged and answered with a generic 500.
func SendDomainError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusUnauthorized:
		c.Header("WWW-Authenticate", "Bearer")
		SendError(c, status, "Could not validate credentials")
	case http.StatusNotFound:
		SendError(c, status, notFoundMessage(err))
	case http.StatusInternalServerError:
		userID, _ := c.Get("user_id")
		LogErrorWithUser(userID, err, "Request failed: "+c.Request.Method+" "+c.FullPath())
		SendError(c, status, "Internal server error")
	default:
		SendError(c, status, err.Error())
	}
}

// SendFormError answers a multipart parsing failure: 413 when the body limit was hit, 422 otherwise.
func SendFormError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		SendError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	SendError(c, http.StatusUnprocessableEntity, "Invalid form data: "+err.Error())
}

func notFoundMessage(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "Not found"
}

// NotFoundError names the missing resource while still matching ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationFailed wraps a binding or input error so it maps to 422.
func ValidationFailed(message string) error {
	return &validationError{message: message}
}

type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func (e *validationError) Unwrap() error {
	return ErrValidation
}
