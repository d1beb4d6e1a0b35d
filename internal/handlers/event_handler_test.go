package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"lifelink/internal/models"
	"lifelink/internal/services"
)

// recordingAuditService captures audit calls so tests can assert on them.
type recordingAuditService struct {
	entries []recordedAudit
}

type recordedAudit struct {
	table   string
	id      uint
	action  string
	changes map[string]interface{}
}

func (a *recordingAuditService) Log(table string, recordID uint, action string, _ models.UserType, _ uint, changes map[string]interface{}) {
	a.entries = append(a.entries, recordedAudit{table: table, id: recordID, action: action, changes: changes})
}

func (a *recordingAuditService) List(_ int) ([]models.AuditLog, error) {
	return []models.AuditLog{}, nil
}

var _ services.AuditServicer = (*recordingAuditService)(nil)

func setupEventRouter(h *EventHandler) *gin.Engine {
	r := gin.New()
	grp := r.Group("/events", injectSubject(3, models.UserTypeStaff))
	grp.DELETE("/:id", h.Delete)
	return r
}

func TestEventHandler_Delete(t *testing.T) {
	t.Run("audits removed participants alongside the event", func(t *testing.T) {
		eventSvc := &mockEventService{
			deleteFn: func(id uint) (*models.Event, error) {
				return &models.Event{
					Base: models.Base{ID: id},
					Participants: []models.EventParticipant{
						{EventID: id, DonorID: 1},
						{EventID: id, DonorID: 2},
					},
				}, nil
			},
		}
		audit := &recordingAuditService{}
		h := NewEventHandler(eventSvc, &mockStaffService{}, audit)
		r := setupEventRouter(h)

		rec := doRequest(r, http.MethodDelete, "/events/5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var participantEntry, eventEntry *recordedAudit
		for i := range audit.entries {
			switch audit.entries[i].table {
			case "event_participants":
				participantEntry = &audit.entries[i]
			case "events":
				eventEntry = &audit.entries[i]
			}
		}
		if eventEntry == nil || eventEntry.action != models.AuditActionDelete {
			t.Fatal("expected a delete audit entry for the event")
		}
		if participantEntry == nil {
			t.Fatal("expected a delete audit entry for the removed participants")
		}
		if participantEntry.changes["removed"] != 2 {
			t.Errorf("expected 2 removed participants recorded, got %v", participantEntry.changes["removed"])
		}
	})

	t.Run("empty roster writes no participant entry", func(t *testing.T) {
		audit := &recordingAuditService{}
		h := NewEventHandler(&mockEventService{}, &mockStaffService{}, audit)
		r := setupEventRouter(h)

		rec := doRequest(r, http.MethodDelete, "/events/5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		for _, e := range audit.entries {
			if e.table == "event_participants" {
				t.Error("no participant audit entry expected for an empty roster")
			}
		}
	})
}
