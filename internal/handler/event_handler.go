package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"eventhub/internal/errors"
	"eventhub/internal/model"
	"eventhub/internal/service"
)

// EventHandler handles event catalog endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents an event creation request.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	MaxCapacity int       `json:"max_capacity" validate:"required,gt=0"`
	EventType   string    `json:"event_type" validate:"required,oneof=on-site virtual"`
}

// EventResponse represents an event annotated with its owner's username.
type EventResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Image         string    `json:"image"`
	MaxCapacity   int       `json:"max_capacity"`
	EventType     string    `json:"event_type"`
	OwnerID       uint      `json:"owner_id"`
	OwnerUsername string    `json:"owner_username,omitempty"`
}

// CreateEvent godoc
// @Summary Publish a new event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.CreateEvent(
		c.Request().Context(),
		ident.UserID,
		req.Title,
		req.Description,
		req.Date,
		req.MaxCapacity,
		model.EventType(req.EventType),
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, toEventResponse(event, ident.Username))
}

// ListEvents godoc
// @Summary List all events in creation order
// @Tags events
// @Produce json
// @Success 200 {array} EventResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i], events[i].Owner.Username))
	}

	return c.JSON(http.StatusOK, responses)
}

// GetEvent godoc
// @Summary Get a single event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := eventIDParam(c)
	if err != nil {
		return err
	}

	event, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, toEventResponse(event, ""))
}

func toEventResponse(event *model.Event, ownerUsername string) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Date:          event.Date,
		Image:         event.Image,
		MaxCapacity:   event.MaxCapacity,
		EventType:     string(event.EventType),
		OwnerID:       event.OwnerID,
		OwnerUsername: ownerUsername,
	}
}

// eventIDParam parses the :id path parameter.
func eventIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid event id",
			Code:  "INVALID_EVENT_ID",
		})
	}
	return uint(id), nil
}
