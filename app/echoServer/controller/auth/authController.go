package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	jwtutil "booklending/util/jwt"
)

const (
	CookieName = "token"
	tokenTTL   = 10 // hours
)

type Controller struct {
	Secret string
	Secure bool // Secure+SameSite=None cookies for cross-site frontends
	V      *validator.Validate
	Log    *slog.Logger
}

type TokenReq struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /jwt
func (h *Controller) Token(c echo.Context) error {
	var req TokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email is required"})
	}

	token, err := jwtutil.Issue(h.Secret, req.Email, tokenTTL)
	if err != nil {
		h.Log.Error("token issue error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	c.SetCookie(h.cookie(token, tokenTTL*time.Hour))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// POST /logout
func (h *Controller) Logout(c echo.Context) error {
	cookie := h.cookie("", -time.Hour)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *Controller) cookie(value string, ttl time.Duration) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.Secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: sameSite,
	}
}
