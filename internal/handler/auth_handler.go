package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/middleware"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
)

// UserRegistrar defines the write-side operation used by AuthHandler.
type UserRegistrar interface {
	Register(cqrs.RegisterUserCommand) (*models.UserView, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(cqrs.LoginCommand) (string, *models.UserView, error)
	GetUser(cqrs.GetUserQuery) (*models.UserView, error)
}

type AuthHandler struct {
	commands UserRegistrar
	queries  AuthQuerier
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  *models.UserView `json:"user"`
}

func NewAuthHandler(commands UserRegistrar, queries AuthQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, queries: queries}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.Register(cqrs.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Email already in use")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, user, err := h.queries.Login(cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid credentials")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// Me returns the public view of the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.queries.GetUser(cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}
