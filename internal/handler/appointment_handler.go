package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"docclock-api/internal/model"
	"docclock-api/internal/service"
	"docclock-api/internal/store"
)

func (h *Handler) CreateAppointment(c echo.Context) error {
	var draft model.Appointment
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateDraft(&draft); err != nil {
		return err
	}

	created, err := h.svc.CreateAppointment(c.Request().Context(), &draft)
	if err != nil {
		var linkErr *service.LinkError
		if errors.As(err, &linkErr) {
			return echo.NewHTTPError(http.StatusBadRequest, linkErr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, created)
}

func validateDraft(a *model.Appointment) error {
	if strings.TrimSpace(a.PatientName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_name is required")
	}
	if strings.TrimSpace(a.ProviderName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider_name is required")
	}
	if a.AppointmentTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment_time is required")
	}
	if l := len(strings.TrimSpace(a.Reason)); l < 3 || l > 180 {
		return echo.NewHTTPError(http.StatusBadRequest, "reason must be 3-180 characters")
	}
	if strings.TrimSpace(a.Location) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location is required")
	}
	if strings.TrimSpace(a.Channel) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "channel is required")
	}
	if a.Status != "" && !a.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status value")
	}
	if a.RiskLevel != "" && !a.RiskLevel.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid risk_level value")
	}
	return nil
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var patch model.AppointmentPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status value")
	}
	if patch.RiskLevel != nil && !patch.RiskLevel.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid risk_level value")
	}
	if patch.Reason != nil {
		if l := len(strings.TrimSpace(*patch.Reason)); l < 3 || l > 180 {
			return echo.NewHTTPError(http.StatusBadRequest, "reason must be 3-180 characters")
		}
	}

	updated, err := h.svc.UpdateAppointment(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		var linkErr *service.LinkError
		switch {
		case errors.As(err, &linkErr):
			return echo.NewHTTPError(http.StatusBadRequest, linkErr.Error())
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.svc.DeleteAppointment(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	f := store.Filter{
		Status:     model.Status(c.QueryParam("status")),
		Risk:       model.RiskLevel(c.QueryParam("risk")),
		PatientID:  c.QueryParam("patient_id"),
		ProviderID: c.QueryParam("provider_id"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status value")
	}
	if f.Risk != "" && !f.Risk.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid risk value")
	}

	appts, err := h.svc.ListAppointments(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	return c.JSON(http.StatusOK, appts)
}
