package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"docclock-api/internal/middleware"
	"docclock-api/internal/service"
)

type Handler struct {
	svc      *service.Service
	secret   string
	tokenTTL time.Duration
}

func New(svc *service.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, secret: secret, tokenTTL: tokenTTL}
}

// Register wires every route. Auth endpoints sit behind the rate limiter,
// the rest of the API behind bearer-token auth.
func (h *Handler) Register(e *echo.Echo, rl *middleware.RateLimiter) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	authGroup := e.Group("/api/auth", middleware.RateLimit(rl))
	authGroup.POST("/register", h.RegisterUser)
	authGroup.POST("/login", h.Login)

	api := e.Group("/api", middleware.Auth(h.secret))
	api.GET("/users", h.ListUsers)
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PATCH("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.GET("/summary", h.Summary)
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to DocClock API"})
}

func (h *Handler) Health(c echo.Context) error {
	users, appts, err := h.svc.Counts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":              "healthy",
		"users_cached":        users,
		"appointments_cached": appts,
	})
}

func (h *Handler) Summary(c echo.Context) error {
	sum, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, sum)
}
