package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docclock-api/internal/auth"
	"docclock-api/internal/model"
	"docclock-api/internal/service"
)

type registerRequest struct {
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type authResponse struct {
	User        model.PublicUser `json:"user"`
	AccessToken string           `json:"access_token"`
}

func (h *Handler) RegisterUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(strings.TrimSpace(req.FullName)) < 3 {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name must be at least 3 characters")
	}
	if !validEmail(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < 6 || len(req.Password) > 128 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be 6-128 characters")
	}
	if !req.Role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be patient or provider")
	}

	u, err := h.svc.Register(c.Request().Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	tok, err := auth.MakeToken(u.ID, u.Email, string(u.Role), h.secret, h.tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, authResponse{User: u.Public(), AccessToken: tok})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !validEmail(req.Email) || len(req.Password) < 6 || !req.Role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and role are required")
	}

	u, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		// one opaque message regardless of which check failed
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := auth.MakeToken(u.ID, u.Email, string(u.Role), h.secret, h.tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, authResponse{User: u.Public(), AccessToken: tok})
}

func (h *Handler) ListUsers(c echo.Context) error {
	role := model.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role value")
	}

	users, err := h.svc.ListUsers(c.Request().Context(), role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]model.PublicUser, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}
	return c.JSON(http.StatusOK, out)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
