package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
	"github.com/oksasatya/docvault-api/pkg/helpers"
	"github.com/oksasatya/docvault-api/pkg/response"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.SessionCookies
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewSessionCookies(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Mobile     string `json:"mobile" binding:"required"`
	IsAdmin    bool   `json:"isAdmin"`
	ProfilePic string `json:"profilePic"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type setAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         any    `json:"user"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Mobile:     req.Mobile,
		IsAdmin:    req.IsAdmin,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		fail(c, h.Logger, err, "Error registering user")
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err, "Invalid email or password")
		return
	}
	h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, loginResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken, User: u},
		"Login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Refresh accepts the refresh_token cookie or a refreshToken body field.
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(helpers.RefreshCookie)
	if refresh == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		refresh = req.RefreshToken
	}
	if refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "Missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err, "Invalid refresh token")
		return
	}
	h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, loginResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken},
		"Token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserID))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.Logger, err, "Error fetching user")
		return
	}
	response.Success(c, http.StatusOK, u, "Profile", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "Error fetching users")
		return
	}
	response.Success(c, http.StatusOK, users, "Users", map[string]any{"count": len(users)})
}

func (h *UserHandler) SetAdmin(c *gin.Context) {
	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.SetAdmin(c.Request.Context(), c.Param("id"), *req.IsAdmin)
	if err != nil {
		fail(c, h.Logger, err, "Error updating user role")
		return
	}
	response.Success(c, http.StatusOK, u, "User role updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err, "Error deleting user")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User deleted successfully", nil)
}
