package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// EventHandler handles the donation event endpoints.
type EventHandler struct {
	eventService services.EventServicer
	staffService services.StaffServicer
	auditService services.AuditServicer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(
	eventService services.EventServicer,
	staffService services.StaffServicer,
	auditService services.AuditServicer,
) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		staffService: staffService,
		auditService: auditService,
	}
}

// CreateEventRequest represents a new donation event.
type CreateEventRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=150"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"max=8"`
	EndTime   string `json:"end_time" binding:"max=8"`
	Location  string `json:"location" binding:"required,max=255"`
	Expected  *int   `json:"expected" binding:"omitempty,gte=0"`
	Notes     string `json:"notes" binding:"max=500"`
}

// UpdateEventRequest represents an event patch.
type UpdateEventRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=150"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time" binding:"omitempty,max=8"`
	EndTime   *string `json:"end_time" binding:"omitempty,max=8"`
	Location  *string `json:"location" binding:"omitempty,max=255"`
	Expected  *int    `json:"expected" binding:"omitempty,gte=0"`
	Notes     *string `json:"notes" binding:"omitempty,max=500"`
}

// Create schedules a new event
// @Summary     Create event
// @Description Schedules a donation event, snapshotting the creator's identity
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEventRequest true "Event details"
// @Success     201 {object} models.Event "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
		return
	}

	staff, err := h.staffService.GetByID(staffID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.Create(services.CreateEventInput{
		Title:         req.Title,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Expected:      req.Expected,
		Notes:         req.Notes,
		CreatedByType: models.UserTypeStaff,
		CreatedByID:   staffID,
		CreatedByName: staff.FullName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("events", event.ID, models.AuditActionInsert, models.UserTypeStaff, staffID,
		map[string]interface{}{"title": event.Title, "date": req.Date})

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// Get returns one event with its roster
// @Summary     Get event
// @Description One event with its participant roster
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} models.Event "Event"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetByID(eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Update patches an event
// @Summary     Update event
// @Description Updates a scheduled event's details
// @Tags        events
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Param       request body UpdateEventRequest true "Fields to update"
// @Success     200 {object} models.Event "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     409 {object} ErrorResponse "Event already completed"
// @Router      /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.EventPatch{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Expected:  req.Expected,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD"))
			return
		}
		patch.Date = &date
	}

	event, err := h.eventService.Update(eventID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("events", eventID, models.AuditActionUpdate, models.UserTypeStaff, staffID, nil)

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Complete closes an event
// @Summary     Complete event
// @Description Marks an event completed; completing twice is rejected
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} models.Event "Completed event"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     409 {object} ErrorResponse "Event already completed"
// @Router      /events/{id}/complete [put]
func (h *EventHandler) Complete(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.MarkCompleted(eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("events", eventID, models.AuditActionUpdate, models.UserTypeStaff, staffID,
		map[string]interface{}{"status": models.EventStatusCompleted})

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Delete removes an event and its roster
// @Summary     Delete event
// @Description Removes an event, cascading its participant rows
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} map[string]string "Event deleted"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.Delete(eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(event.Participants) > 0 {
		h.auditService.Log("event_participants", eventID, models.AuditActionDelete,
			models.UserTypeStaff, staffID,
			map[string]interface{}{"removed": len(event.Participants)})
	}
	h.auditService.Log("events", eventID, models.AuditActionDelete, models.UserTypeStaff, staffID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// Join adds the authenticated donor to an event
// @Summary     Join event
// @Description Registers the donor on the event roster; joining twice is a no-op
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} models.Event "Event with roster"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Failure     409 {object} ErrorResponse "Event already completed"
// @Router      /events/{id}/join [post]
func (h *EventHandler) Join(c *gin.Context) {
	donorID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.Join(eventID, donorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("event_participants", eventID, models.AuditActionInsert,
		models.UserTypeDonor, donorID, nil)

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Leave removes the authenticated donor from an event
// @Summary     Leave event
// @Description Removes the donor's registration from the event roster
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Event ID"
// @Success     200 {object} map[string]string "Registration removed"
// @Failure     404 {object} ErrorResponse "No registration found"
// @Router      /events/{id}/leave [delete]
func (h *EventHandler) Leave(c *gin.Context) {
	donorID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.Leave(eventID, donorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("event_participants", eventID, models.AuditActionDelete,
		models.UserTypeDonor, donorID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Left event"})
}

// ListUpcoming returns upcoming events
// @Summary     List upcoming events
// @Description Events from yesterday onward with rosters, soonest first
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Event "Events"
// @Router      /events [get]
func (h *EventHandler) ListUpcoming(c *gin.Context) {
	events, err := h.eventService.ListUpcoming()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ListAll returns every event
// @Summary     List all events
// @Description Every event with its roster, soonest first
// @Tags        events
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Event "Events"
// @Router      /events/all [get]
func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.eventService.ListAll()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
