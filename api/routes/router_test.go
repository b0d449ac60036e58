package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/internal/companies"
	"github.com/relayhq/relaypay-backend/internal/employees"
	"github.com/relayhq/relaypay-backend/internal/payroll"
	"github.com/relayhq/relaypay-backend/pkg/config"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/enums"
	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCompanyService struct{}

func (stubCompanyService) Get(_ context.Context, id uuid.UUID) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}

func (stubCompanyService) GetWithEmployees(_ context.Context, id uuid.UUID) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}

func (stubCompanyService) Update(_ context.Context, id uuid.UUID, _ companies.UpdateCompanyInput) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}

type stubEmployeeService struct{}

func (stubEmployeeService) List(_ context.Context, _ uuid.UUID) ([]models.Employee, error) {
	return nil, nil
}

func (stubEmployeeService) Get(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	return &models.Employee{ID: id}, nil
}

func (stubEmployeeService) Create(_ context.Context, _ employees.CreateEmployeeInput) (*models.Employee, error) {
	return &models.Employee{ID: uuid.New()}, nil
}

func (stubEmployeeService) Update(_ context.Context, id uuid.UUID, _ employees.UpdateEmployeeInput) (*models.Employee, error) {
	return &models.Employee{ID: id}, nil
}

func (stubEmployeeService) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (stubEmployeeService) ReplaceAllocations(_ context.Context, id uuid.UUID, _ []employees.AllocationInput) (*models.Employee, error) {
	return &models.Employee{ID: id}, nil
}

type stubPayrollService struct{}

func (stubPayrollService) ExecuteRun(_ context.Context, input payroll.ExecuteRunInput) (*payroll.RunResult, error) {
	return &payroll.RunResult{RunID: uuid.New(), Status: enums.RunStatusComplete, TotalPaid: input.TotalAmount}, nil
}

func (stubPayrollService) ListRuns(_ context.Context, _ uuid.UUID) ([]models.PayrollRun, error) {
	return nil, nil
}

func (stubPayrollService) GetRun(_ context.Context, id uuid.UUID) (*models.PayrollRun, error) {
	return &models.PayrollRun{ID: id}, nil
}

func (stubPayrollService) PayHistory(_ context.Context, _ uuid.UUID) ([]models.PayEvent, error) {
	return nil, nil
}

func (stubPayrollService) Stats(_ context.Context, _ uuid.UUID) (*payroll.Stats, error) {
	return &payroll.Stats{TotalPaidUSDC: decimal.Zero}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		nil, // relay client, token listing not exercised here
		nil, // quote resolver
		stubCompanyService{},
		stubEmployeeService{},
		stubPayrollService{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-RelayPay-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-RelayPay-Env"))
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestChainsRouteServesReferenceData(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) == 0 {
		t.Fatalf("expected chains in response")
	}
}

func TestPayrollRunRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(testConfig())
	payload := []byte(`{"company_id":"` + uuid.NewString() + `","total_amount":"100"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/run", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestPayrollRunsListRoute(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/runs?companyId="+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
