package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/middleware"
	"lifelink/internal/models"
	"lifelink/internal/pagination"
	"lifelink/internal/services"
	"lifelink/internal/validator"
)

// --- mock donor service ---

type mockDonorService struct {
	registerFn          func(in services.DonorRegistration) (*models.Donor, error)
	authenticateFn      func(email, password string) (*models.Donor, error)
	getByIDFn           func(id uint) (*models.Donor, error)
	updateFn            func(id uint, patch services.DonorPatch) (*models.Donor, error)
	searchByBloodTypeFn func(bloodType string, limit int) ([]models.Donor, error)
	eligibilityFn       func(id uint, asOf time.Time) (*services.DonorEligibility, error)
	rewardsFn           func(id uint, asOf time.Time) (*services.DonorRewards, error)
	notificationsFn     func(id uint, asOf time.Time) ([]services.DonorNotification, error)
}

func (m *mockDonorService) Register(in services.DonorRegistration) (*models.Donor, error) {
	if m.registerFn != nil {
		return m.registerFn(in)
	}
	return &models.Donor{}, nil
}

func (m *mockDonorService) Authenticate(email, password string) (*models.Donor, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.Donor{}, nil
}

func (m *mockDonorService) GetByID(id uint) (*models.Donor, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.Donor{Base: models.Base{ID: id}}, nil
}

func (m *mockDonorService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Donor], error) {
	resp := pagination.NewPageResponse([]models.Donor{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockDonorService) SearchByBloodType(bloodType string, limit int) ([]models.Donor, error) {
	if m.searchByBloodTypeFn != nil {
		return m.searchByBloodTypeFn(bloodType, limit)
	}
	return []models.Donor{}, nil
}

func (m *mockDonorService) Update(id uint, patch services.DonorPatch) (*models.Donor, error) {
	if m.updateFn != nil {
		return m.updateFn(id, patch)
	}
	return &models.Donor{Base: models.Base{ID: id}}, nil
}

func (m *mockDonorService) Deactivate(id uint) error { return nil }

func (m *mockDonorService) Eligibility(id uint, asOf time.Time) (*services.DonorEligibility, error) {
	if m.eligibilityFn != nil {
		return m.eligibilityFn(id, asOf)
	}
	return &services.DonorEligibility{IsEligible: true}, nil
}

func (m *mockDonorService) Rewards(id uint, asOf time.Time) (*services.DonorRewards, error) {
	if m.rewardsFn != nil {
		return m.rewardsFn(id, asOf)
	}
	return &services.DonorRewards{}, nil
}

func (m *mockDonorService) Notifications(id uint, asOf time.Time) ([]services.DonorNotification, error) {
	if m.notificationsFn != nil {
		return m.notificationsFn(id, asOf)
	}
	return []services.DonorNotification{}, nil
}

var _ services.DonorServicer = (*mockDonorService)(nil)

// --- mock hospital service ---

type mockHospitalService struct {
	registerFn     func(in services.HospitalRegistration) (*models.Hospital, error)
	authenticateFn func(email, password string) (*models.Hospital, error)
}

func (m *mockHospitalService) Register(in services.HospitalRegistration) (*models.Hospital, error) {
	if m.registerFn != nil {
		return m.registerFn(in)
	}
	return &models.Hospital{}, nil
}

func (m *mockHospitalService) Authenticate(email, password string) (*models.Hospital, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.Hospital{}, nil
}

func (m *mockHospitalService) GetByID(id uint) (*models.Hospital, error) {
	return &models.Hospital{Base: models.Base{ID: id}}, nil
}

func (m *mockHospitalService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Hospital], error) {
	resp := pagination.NewPageResponse([]models.Hospital{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockHospitalService) Update(id uint, patch services.HospitalPatch) (*models.Hospital, error) {
	return &models.Hospital{Base: models.Base{ID: id}}, nil
}

var _ services.HospitalServicer = (*mockHospitalService)(nil)

// --- mock staff service ---

type mockStaffService struct {
	registerFn     func(in services.StaffRegistration) (*models.Staff, error)
	authenticateFn func(email, password string) (*models.Staff, error)
}

func (m *mockStaffService) Register(in services.StaffRegistration) (*models.Staff, error) {
	if m.registerFn != nil {
		return m.registerFn(in)
	}
	return &models.Staff{}, nil
}

func (m *mockStaffService) Authenticate(email, password string) (*models.Staff, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.Staff{}, nil
}

func (m *mockStaffService) GetByID(id uint) (*models.Staff, error) {
	return &models.Staff{Base: models.Base{ID: id}}, nil
}

func (m *mockStaffService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Staff], error) {
	resp := pagination.NewPageResponse([]models.Staff{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockStaffService) Update(id uint, patch services.StaffPatch) (*models.Staff, error) {
	return &models.Staff{Base: models.Base{ID: id}}, nil
}

func (m *mockStaffService) ChangePassword(id uint, currentPassword, newPassword string) error {
	return nil
}

func (m *mockStaffService) Stats(id uint) (*services.StaffMemberStats, error) {
	return &services.StaffMemberStats{}, nil
}

var _ services.StaffServicer = (*mockStaffService)(nil)

// --- mock audit service ---

type mockAuditService struct{}

func (m *mockAuditService) Log(_ string, _ uint, _ string, _ models.UserType, _ uint, _ map[string]interface{}) {
}

func (m *mockAuditService) List(_ int) ([]models.AuditLog, error) {
	return []models.AuditLog{}, nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/register/donor", handler.RegisterDonor)
	r.POST("/register/hospital", handler.RegisterHospital)
	r.POST("/register/staff", handler.RegisterStaff)
	r.POST("/login/donor", handler.LoginDonor)
	r.POST("/login/hospital", handler.LoginHospital)
	r.POST("/login/staff", handler.LoginStaff)
	return r
}

func injectSubject(id uint, subjectType models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSubjectID, id)
		c.Set(middleware.ContextSubjectType, subjectType)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_RegisterDonor(t *testing.T) {
	t.Run("returns 201 with token", func(t *testing.T) {
		donorSvc := &mockDonorService{
			registerFn: func(in services.DonorRegistration) (*models.Donor, error) {
				return &models.Donor{
					Base:      models.Base{ID: 7},
					FullName:  in.FullName,
					Email:     in.Email,
					BloodType: in.BloodType,
				}, nil
			},
		}
		handler := NewAuthHandler(donorSvc, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/register/donor", `{
			"full_name": "Jordan Reyes",
			"email": "jordan@example.com",
			"password": "password123",
			"date_of_birth": "1992-06-15",
			"blood_type": "A+"
		}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected a token in the response")
		}
		if result["displayName"] != "Jordan Reyes" {
			t.Errorf("expected displayName Jordan Reyes, got %v", result["displayName"])
		}
	})

	t.Run("rejects bad blood type", func(t *testing.T) {
		handler := NewAuthHandler(&mockDonorService{}, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/register/donor", `{
			"full_name": "Jordan Reyes",
			"email": "jordan@example.com",
			"password": "password123",
			"date_of_birth": "1992-06-15",
			"blood_type": "Q+"
		}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects bad date", func(t *testing.T) {
		handler := NewAuthHandler(&mockDonorService{}, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/register/donor", `{
			"full_name": "Jordan Reyes",
			"email": "jordan@example.com",
			"password": "password123",
			"date_of_birth": "15/06/1992",
			"blood_type": "A+"
		}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_LoginDonor(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		donorSvc := &mockDonorService{
			authenticateFn: func(email, password string) (*models.Donor, error) {
				return &models.Donor{Base: models.Base{ID: 7}, FullName: "Jordan Reyes", Email: email}, nil
			},
		}
		handler := NewAuthHandler(donorSvc, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/login/donor", `{"email":"jordan@example.com","password":"password123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"] != float64(7) {
			t.Errorf("expected id 7, got %v", result["id"])
		}
	})

	t.Run("passes through invalid credentials", func(t *testing.T) {
		donorSvc := &mockDonorService{
			authenticateFn: func(email, password string) (*models.Donor, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(donorSvc, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/login/donor", `{"email":"jordan@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_RegisterStaff(t *testing.T) {
	t.Run("rejects unknown department", func(t *testing.T) {
		handler := NewAuthHandler(&mockDonorService{}, &mockHospitalService{}, &mockStaffService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, http.MethodPost, "/register/staff", `{
			"full_name": "Priya Nair",
			"employee_id": "EMP-1001",
			"email": "priya@bank.example.com",
			"password": "password123",
			"department": "catering"
		}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
