package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

type mockRequestService struct {
	createFn          func(hospitalID uint, bloodType string, volumeML int, urgency models.Urgency, requiredBy time.Time, notes string) (*models.BloodRequest, error)
	getByIDFn         func(id uint) (*models.BloodRequest, error)
	listAllFn         func() ([]models.BloodRequest, error)
	listForHospitalFn func(hospitalID uint) ([]models.BloodRequest, error)
	cancelFn          func(requestID, callerHospitalID uint) (*models.BloodRequest, error)
	fulfillFn         func(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error)
	rejectFn          func(requestID uint, reason string) (*models.BloodRequest, error)
}

func (m *mockRequestService) Create(hospitalID uint, bloodType string, volumeML int, urgency models.Urgency, requiredBy time.Time, notes string) (*models.BloodRequest, error) {
	if m.createFn != nil {
		return m.createFn(hospitalID, bloodType, volumeML, urgency, requiredBy, notes)
	}
	return &models.BloodRequest{}, nil
}

func (m *mockRequestService) GetByID(id uint) (*models.BloodRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.BloodRequest{Base: models.Base{ID: id}}, nil
}

func (m *mockRequestService) ListAll() ([]models.BloodRequest, error) {
	if m.listAllFn != nil {
		return m.listAllFn()
	}
	return []models.BloodRequest{}, nil
}

func (m *mockRequestService) ListForHospital(hospitalID uint) ([]models.BloodRequest, error) {
	if m.listForHospitalFn != nil {
		return m.listForHospitalFn(hospitalID)
	}
	return []models.BloodRequest{}, nil
}

func (m *mockRequestService) Cancel(requestID, callerHospitalID uint) (*models.BloodRequest, error) {
	if m.cancelFn != nil {
		return m.cancelFn(requestID, callerHospitalID)
	}
	return &models.BloodRequest{Base: models.Base{ID: requestID}}, nil
}

func (m *mockRequestService) Fulfill(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error) {
	if m.fulfillFn != nil {
		return m.fulfillFn(requestID, unitIDs, volumeML, notes)
	}
	return &models.BloodRequest{Base: models.Base{ID: requestID}}, nil
}

func (m *mockRequestService) Reject(requestID uint, reason string) (*models.BloodRequest, error) {
	if m.rejectFn != nil {
		return m.rejectFn(requestID, reason)
	}
	return &models.BloodRequest{Base: models.Base{ID: requestID}}, nil
}

var _ services.RequestServicer = (*mockRequestService)(nil)

func setupRequestRouter(handler *RequestHandler) *gin.Engine {
	r := gin.New()
	staff := r.Group("/staff", injectSubject(1, models.UserTypeStaff))
	staff.GET("/requests", handler.List)
	staff.GET("/requests/:id", handler.Get)
	staff.PUT("/requests/:id/fulfill", handler.Fulfill)
	staff.PUT("/requests/:id/reject", handler.Reject)
	return r
}

func TestRequestHandler_Fulfill(t *testing.T) {
	t.Run("fulfills with unit ids", func(t *testing.T) {
		var gotUnitIDs []uint
		svc := &mockRequestService{
			fulfillFn: func(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error) {
				gotUnitIDs = unitIDs
				return &models.BloodRequest{
					Base:   models.Base{ID: requestID},
					Status: models.RequestStatusFulfilled,
				}, nil
			},
		}
		handler := NewRequestHandler(svc, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodPut, "/staff/requests/3/fulfill", `{"unit_ids":[10,11]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotUnitIDs) != 2 || gotUnitIDs[0] != 10 || gotUnitIDs[1] != 11 {
			t.Errorf("expected unit IDs [10 11] to reach the service, got %v", gotUnitIDs)
		}
	})

	t.Run("passes through not-pending conflict", func(t *testing.T) {
		svc := &mockRequestService{
			fulfillFn: func(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error) {
				return nil, apperrors.ErrRequestNotPending
			},
		}
		handler := NewRequestHandler(svc, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodPut, "/staff/requests/3/fulfill", `{"unit_ids":[10]}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_REQUEST_STATE")
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		handler := NewRequestHandler(&mockRequestService{}, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodPut, "/staff/requests/abc/fulfill", `{"unit_ids":[10]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRequestHandler_Reject(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		handler := NewRequestHandler(&mockRequestService{}, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodPut, "/staff/requests/3/reject", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("records the reason", func(t *testing.T) {
		var gotReason string
		svc := &mockRequestService{
			rejectFn: func(requestID uint, reason string) (*models.BloodRequest, error) {
				gotReason = reason
				return &models.BloodRequest{
					Base:   models.Base{ID: requestID},
					Status: models.RequestStatusCancelled,
				}, nil
			},
		}
		handler := NewRequestHandler(svc, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodPut, "/staff/requests/3/reject", `{"reason":"insufficient stock"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotReason != "insufficient stock" {
			t.Errorf("expected reason to reach the service, got %q", gotReason)
		}
	})
}

func TestRequestHandler_Get(t *testing.T) {
	t.Run("passes through not found", func(t *testing.T) {
		svc := &mockRequestService{
			getByIDFn: func(id uint) (*models.BloodRequest, error) {
				return nil, apperrors.ErrRequestNotFound
			},
		}
		handler := NewRequestHandler(svc, &mockAuditService{})
		r := setupRequestRouter(handler)

		rec := doRequest(r, http.MethodGet, "/staff/requests/99", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REQUEST_NOT_FOUND")
	})
}
