package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vernopromo/internal/logger"
	"vernopromo/internal/models"
	"vernopromo/internal/services"
	"vernopromo/internal/utils"
)

type AuthHandler struct {
	members    services.MemberService
	auth       services.AuthService
	refreshTTL time.Duration
}

func NewAuthHandler(members services.MemberService, auth services.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{members: members, auth: auth, refreshTTL: refreshTTL}
}

// issueTokens — access JWT + opaque refresh (хранится в БД), access
// дублируется в cookie.
func (h *AuthHandler) issueTokens(c *gin.Context, memberID int) (gin.H, error) {
	accessToken, expiresIn, err := h.auth.NewAccessToken(memberID)
	if err != nil {
		return nil, err
	}

	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, err
	}
	if err := h.members.UpdateRefresh(memberID, rt, time.Now().Add(h.refreshTTL)); err != nil {
		return nil, err
	}

	c.SetCookie("access_token", accessToken, expiresIn, "/", "", false, true)

	return gin.H{
		"access_token":  accessToken,
		"token_type":    "bearer",
		"expires_in":    expiresIn,
		"refresh_token": rt,
	}, nil
}

// @Summary      Вход по телефону и паролю
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Телефон и пароль"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.members.Login(req.Phone, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m == nil {
		logger.Log.Infof("[auth][login] rejected phone=%s", req.Phone)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.issueTokens(c, m.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Log.Infof("[auth][login] success member_id=%d", m.ID)
	c.JSON(http.StatusOK, resp)
}

// @Summary      Ротация refresh-токена
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        refresh  body      models.RefreshRequest  true  "Refresh-токен"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Router       /api/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m, err := h.members.GetByRefreshToken(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m == nil || m.RefreshToken == nil || m.RefreshExpiresAt == nil || m.RefreshRevoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(*m.RefreshExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rotated, err := h.members.RotateRefresh(req.RefreshToken, newRT, time.Now().Add(h.refreshTTL))
	if err != nil || rotated == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	accessToken, expiresIn, err := h.auth.NewAccessToken(rotated.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.SetCookie("access_token", accessToken, expiresIn, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": newRT,
	})
}

// GET /api/me — текущий участник.
func (h *AuthHandler) Me(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	m, err := h.members.GetByID(memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, m)
}
