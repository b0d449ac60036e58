package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/api/responses"
	"github.com/relayhq/relaypay-backend/api/validators"
	"github.com/relayhq/relaypay-backend/internal/payroll"
	pkgerrors "github.com/relayhq/relaypay-backend/pkg/errors"
	"github.com/relayhq/relaypay-backend/pkg/logger"
)

type payrollRunRequest struct {
	CompanyID   uuid.UUID         `json:"company_id" validate:"required"`
	TotalAmount decimal.Decimal   `json:"total_amount" validate:"required"`
	Currency    string            `json:"currency,omitempty"`
	Amounts     map[string]string `json:"amounts,omitempty"`
}

func (req payrollRunRequest) toInput() (payroll.ExecuteRunInput, error) {
	input := payroll.ExecuteRunInput{
		CompanyID:   req.CompanyID,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	}
	if len(req.Amounts) == 0 {
		return input, nil
	}

	input.Amounts = make(map[uuid.UUID]decimal.Decimal, len(req.Amounts))
	for rawID, rawAmount := range req.Amounts {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return payroll.ExecuteRunInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid employee id in amounts").
				WithDetails(map[string]any{"employee_id": rawID})
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return payroll.ExecuteRunInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount").
				WithDetails(map[string]any{"employee_id": rawID, "amount": rawAmount})
		}
		input.Amounts[id] = amount
	}
	return input, nil
}

// PayrollRun executes one payroll run and returns the rollup with per-leg
// outcomes. Leg failures never fail the request; they show up in the legs.
func PayrollRun(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		var payload payrollRunRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ExecuteRun(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// PayrollRunList returns a company's runs, most recent first.
func PayrollRunList(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		companyID, err := validators.RequireQueryUUID(r, "companyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		runs, err := svc.ListRuns(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, runs)
	}
}

// PayrollRunGet returns one run with its pay events in creation order.
func PayrollRunGet(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		id, err := parseIDParam(r, "runId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		run, err := svc.GetRun(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, run)
	}
}

// PayrollStats aggregates completed payout volume and fee averages.
func PayrollStats(svc payroll.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payroll service unavailable"))
			return
		}

		companyID, err := validators.RequireQueryUUID(r, "companyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
