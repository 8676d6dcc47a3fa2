package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"todoweb/internal/services"
)

const userIDCtxKey = "user_id"

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// HandleAuthMiddleware resolves the access-token cookie into a user id
// and puts it on the request context. An expired access token is
// refreshed in place; anything else sends the browser to the login
// page.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, err := c.Cookie(accessTokenCookie)
	if err != nil {
		redirectToLogin(c)
		return
	}

	var sessionID string
	claims, err := h.auth.ParseJWTToken(accessToken)
	switch {
	case err == nil:
		sessionID = claims.Subject
	case errors.Is(err, jwt.ErrTokenExpired):
		result, ok := h.refreshSession(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		sessionID = result.SessionID
	default:
		h.logger.Warn().
			Err(err).
			Msg("failed to parse access token")
		redirectToLogin(c)
		return
	}

	session, err := h.auth.SessionByID(c, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			redirectToLogin(c)
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	browserFingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if browserFingerprint != session.Fingerprint {
		h.logger.Warn().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		redirectToLogin(c)
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Next()
}

// refreshSession rotates the refresh-token cookie and reissues the
// access token, mid-request.
func (h *handlerImpl) refreshSession(c *gin.Context) (*services.LoginResult, bool) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		return nil, false
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		return nil, false
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to refresh session")
		return nil, false
	}

	setSessionCookies(c, result)
	return result, true
}

func mustUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(userIDCtxKey)
	if !exists {
		redirectToLogin(c)
		return "", false
	}
	userID, _ := userIDValue.(string)
	return userID, true
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func setSessionCookies(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	setAuthCookie(c, accessTokenCookie, result.AccessToken, result.AccessTokenExpiresAt.Sub(now))
	setAuthCookie(c, refreshTokenCookie, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now))
}

func clearSessionCookies(c *gin.Context) {
	setAuthCookie(c, accessTokenCookie, "", -time.Second)
	setAuthCookie(c, refreshTokenCookie, "", -time.Second)
}

func setAuthCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(name, value, int(maxAge.Seconds()),
		"/", "", false, true)
}
