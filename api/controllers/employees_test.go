package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/internal/employees"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/enums"
	pkgerrors "github.com/relayhq/relaypay-backend/pkg/errors"
)

type stubEmployeeService struct {
	list       []models.Employee
	listErr    error
	employee   *models.Employee
	getErr     error
	created    *models.Employee
	createErr  error
	updated    *models.Employee
	updateErr  error
	deleteErr  error
	replaced   *models.Employee
	replaceErr error

	lastAllocations []employees.AllocationInput
}

func (s *stubEmployeeService) List(_ context.Context, _ uuid.UUID) ([]models.Employee, error) {
	return s.list, s.listErr
}

func (s *stubEmployeeService) Get(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
	return s.employee, s.getErr
}

func (s *stubEmployeeService) Create(_ context.Context, _ employees.CreateEmployeeInput) (*models.Employee, error) {
	return s.created, s.createErr
}

func (s *stubEmployeeService) Update(_ context.Context, _ uuid.UUID, _ employees.UpdateEmployeeInput) (*models.Employee, error) {
	return s.updated, s.updateErr
}

func (s *stubEmployeeService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func (s *stubEmployeeService) ReplaceAllocations(_ context.Context, _ uuid.UUID, inputs []employees.AllocationInput) (*models.Employee, error) {
	s.lastAllocations = inputs
	return s.replaced, s.replaceErr
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestEmployeeListSuccess(t *testing.T) {
	companyID := uuid.New()
	svc := &stubEmployeeService{
		list: []models.Employee{
			{ID: uuid.New(), CompanyID: companyID, Name: "Ada", Email: "ada@example.com"},
			{ID: uuid.New(), CompanyID: companyID, Name: "Ben", Email: "ben@example.com"},
		},
	}
	handler := EmployeeList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?companyId="+companyID.String(), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []models.Employee `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 employees got %d", len(envelope.Data))
	}
}

func TestEmployeeListMissingCompanyID(t *testing.T) {
	handler := EmployeeList(&stubEmployeeService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestEmployeeCreateSuccess(t *testing.T) {
	companyID := uuid.New()
	created := &models.Employee{ID: uuid.New(), CompanyID: companyID, Name: "Ada", Email: "ada@example.com"}
	handler := EmployeeCreate(&stubEmployeeService{created: created}, nil)

	payload := []byte(`{"company_id":"` + companyID.String() + `","name":"Ada","email":"ada@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		Data models.Employee `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Email != "ada@example.com" {
		t.Fatalf("unexpected email %s", envelope.Data.Email)
	}
}

func TestEmployeeCreateInvalidEmail(t *testing.T) {
	handler := EmployeeCreate(&stubEmployeeService{}, nil)

	payload := []byte(`{"company_id":"` + uuid.NewString() + `","name":"Ada","email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestEmployeeDeleteNotFound(t *testing.T) {
	svc := &stubEmployeeService{deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")}
	handler := EmployeeDelete(svc, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/"+id, nil)
	req = withRouteParam(req, "employeeId", id)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestEmployeeAllocationsReplaceSuccess(t *testing.T) {
	employeeID := uuid.New()
	replaced := &models.Employee{
		ID: employeeID,
		Allocations: []models.TokenAllocation{
			{EmployeeID: employeeID, TokenSymbol: "ETH", ChainID: 1, Percentage: decimal.RequireFromString("60")},
			{EmployeeID: employeeID, TokenSymbol: "USDC", ChainID: 8453, Percentage: decimal.RequireFromString("40")},
		},
	}
	svc := &stubEmployeeService{replaced: replaced}
	handler := EmployeeAllocationsReplace(svc, nil)

	payload := []byte(`{"allocations":[
		{"token_symbol":"ETH","chain_id":1,"percentage":"60"},
		{"token_symbol":"USDC","chain_id":8453,"percentage":"40"}
	]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/employees/"+employeeID.String()+"/allocations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "employeeId", employeeID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.lastAllocations) != 2 {
		t.Fatalf("expected 2 allocation inputs got %d", len(svc.lastAllocations))
	}
	if svc.lastAllocations[0].TokenSymbol != "ETH" {
		t.Fatalf("unexpected first allocation %+v", svc.lastAllocations[0])
	}
}

func TestEmployeeAllocationsReplaceMissingBody(t *testing.T) {
	handler := EmployeeAllocationsReplace(&stubEmployeeService{}, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/employees/"+id+"/allocations", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "employeeId", id)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestEmployeeAllocationsReplaceInvalidSum(t *testing.T) {
	svc := &stubEmployeeService{replaceErr: pkgerrors.New(pkgerrors.CodeValidation, "allocations must sum to 100%")}
	handler := EmployeeAllocationsReplace(svc, nil)

	id := uuid.NewString()
	payload := []byte(`{"allocations":[{"token_symbol":"ETH","chain_id":1,"percentage":"50"}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/employees/"+id+"/allocations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "employeeId", id)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestEmployeePayHistorySuccess(t *testing.T) {
	employeeID := uuid.New()
	svc := &stubPayrollService{
		events: []models.PayEvent{
			{ID: uuid.New(), EmployeeID: employeeID, Status: enums.PayEventStatusComplete},
		},
	}
	handler := EmployeePayHistory(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+employeeID.String()+"/pay-events", nil)
	req = withRouteParam(req, "employeeId", employeeID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []models.PayEvent `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 event got %d", len(envelope.Data))
	}
}
