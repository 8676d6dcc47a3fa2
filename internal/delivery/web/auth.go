package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoweb/internal/services"
)

type credentialsForm struct {
	Email    string `form:"email" binding:"required,email,max=255"`
	Password string `form:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var form credentialsForm
	err := c.ShouldBind(&form)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind login form")
		c.HTML(http.StatusUnprocessableEntity, "login.html", gin.H{
			"Email": form.Email,
			"Error": "enter a valid email and a password of at least 6 characters",
		})
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       form.Email,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"Email": form.Email,
				"Error": "invalid email or password",
			})
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to login")
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return
	}

	setSessionCookies(c, result)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlerImpl) HandleRegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var form credentialsForm
	err := c.ShouldBind(&form)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind register form")
		c.HTML(http.StatusUnprocessableEntity, "register.html", gin.H{
			"Email": form.Email,
			"Error": "enter a valid email and a password of at least 6 characters",
		})
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	result, err := h.auth.Register(c, services.LoginParams{
		Email:       form.Email,
		Password:    form.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			c.HTML(http.StatusConflict, "register.html", gin.H{
				"Email": form.Email,
				"Error": "an account with this email already exists",
			})
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to register")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	setSessionCookies(c, result)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	err := h.auth.Logout(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	clearSessionCookies(c)
	redirectToLogin(c)
}
