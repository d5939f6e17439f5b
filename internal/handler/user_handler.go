package handler

import (
	"net/http"
	"strconv"

	"grimoire/backend/internal/auth"
	"grimoire/backend/internal/service"
	"grimoire/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes registration, login/logout and profile management.
type UserHandler struct {
	Accounts  *service.AccountService
	Denylist  *auth.Denylist
	JWTSecret string
}

func NewUserHandler(accounts *service.AccountService, denylist *auth.Denylist, jwtSecret string) *UserHandler {
	return &UserHandler{Accounts: accounts, Denylist: denylist, JWTSecret: jwtSecret}
}

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the structure for a username change.
type UpdateProfileInput struct {
	Username string `json:"username" binding:"required" example:"newname"`
}

// UpdatePasswordInput defines the structure for a password change.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse defines the structure for a user's public profile.
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"testuser"`
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new user account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Validation failure or username taken"
// @Failure      500  {object}  ErrorResponse
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if _, err := h.Accounts.Register(c.Request.Context(), input.Username, input.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
}

// Login godoc
// @Summary      Log in a user
// @Description  Authenticates a user and returns a signed token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "...", "userId": 1}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.Accounts.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := jwt.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID, "message": "Logged in successfully!"})
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented token until its natural expiry.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	tokenString := auth.ExtractToken(c)

	_, expiresAt, err := jwt.ParseToken(tokenString, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token"})
		return
	}

	if h.Denylist != nil {
		if err := h.Denylist.Revoke(c.Request.Context(), tokenString, expiresAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log out"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
}

// endregion

// region --- Profile Handlers ---

// GetUser godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a user. Never includes password material.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.Accounts.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{ID: user.ID, Username: user.Username})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Changes the authenticated user's username.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        input body      UpdateProfileInput true  "New profile info"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse "Username taken"
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireSelf(c, userID) {
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.Accounts.UpdateUsername(c.Request.Context(), userID, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    UserResponse{ID: user.ID, Username: user.Username},
	})
}

// UpdatePassword godoc
// @Summary      Change password
// @Description  Verifies the current password and replaces it.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "User ID"
// @Param        input body      UpdatePasswordInput true  "Password change"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse "Current password is incorrect"
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id}/password [put]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireSelf(c, userID) {
		return
	}

	var input UpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.Accounts.UpdatePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// DeleteAccount godoc
// @Summary      Delete account
// @Description  Deletes the account and cascades: the user's list entries and ratings are removed and affected games' average ratings recomputed.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !requireSelf(c, userID) {
		return
	}

	if err := h.Accounts.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// endregion

// region --- Helpers ---

// pathID parses a numeric path parameter, answering 400 itself on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// requireSelf rejects requests that target another user's resources.
func requireSelf(c *gin.Context, targetUserID uint) bool {
	if auth.UserID(c) != targetUserID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only manage your own account"})
		return false
	}
	return true
}

// endregion
