package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/errors"
	"eventhub/internal/service"
)

// RegistrationHandler handles event registration endpoints.
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// RegistrationResponse represents a committed registration.
type RegistrationResponse struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationListResponse represents an event's registrations with the
// committed count.
type RegistrationListResponse struct {
	EventID       uint                   `json:"event_id"`
	Count         int                    `json:"count"`
	Registrations []RegistrationResponse `json:"registrations"`
}

// Register godoc
// @Summary Register the authenticated user for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} RegistrationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/register [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	// The registering user always comes from the verified token, never from
	// the request body.
	registration, err := h.registrationService.Register(c.Request().Context(), eventID, ident.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, RegistrationResponse{
		ID:        registration.ID,
		EventID:   registration.EventID,
		UserID:    registration.UserID,
		Username:  ident.Username,
		CreatedAt: registration.CreatedAt,
	})
}

// ListRegistrations godoc
// @Summary List an event's registrations in creation order
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} RegistrationListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/registrations [get]
func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	registrations, err := h.registrationService.ListRegistrations(c.Request().Context(), eventID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	responses := make([]RegistrationResponse, 0, len(registrations))
	for _, reg := range registrations {
		responses = append(responses, RegistrationResponse{
			ID:        reg.ID,
			EventID:   reg.EventID,
			UserID:    reg.UserID,
			Username:  reg.User.Username,
			CreatedAt: reg.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, RegistrationListResponse{
		EventID:       eventID,
		Count:         len(responses),
		Registrations: responses,
	})
}
