package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relayhq/relaypay-backend/api/controllers"
	"github.com/relayhq/relaypay-backend/api/middleware"
	"github.com/relayhq/relaypay-backend/internal/companies"
	"github.com/relayhq/relaypay-backend/internal/employees"
	"github.com/relayhq/relaypay-backend/internal/payroll"
	"github.com/relayhq/relaypay-backend/pkg/config"
	"github.com/relayhq/relaypay-backend/pkg/db"
	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/redis"
	"github.com/relayhq/relaypay-backend/pkg/relay"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	relayClient *relay.Client,
	quoteResolver *payroll.QuoteResolver,
	companyService companies.Service,
	employeeService employees.Service,
	payrollService payroll.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/companies", func(r chi.Router) {
			r.Get("/{companyId}", controllers.CompanyProfile(companyService, logg))
			r.Patch("/{companyId}", controllers.CompanyUpdate(companyService, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.EmployeeList(employeeService, logg))
			r.Post("/", controllers.EmployeeCreate(employeeService, logg))
			r.Get("/{employeeId}", controllers.EmployeeGet(employeeService, logg))
			r.Patch("/{employeeId}", controllers.EmployeeUpdate(employeeService, logg))
			r.Delete("/{employeeId}", controllers.EmployeeDelete(employeeService, logg))
			r.Put("/{employeeId}/allocations", controllers.EmployeeAllocationsReplace(employeeService, logg))
			r.Get("/{employeeId}/pay-events", controllers.EmployeePayHistory(payrollService, logg))
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", controllers.PayrollRun(payrollService, logg))
			r.Get("/runs", controllers.PayrollRunList(payrollService, logg))
			r.Get("/runs/{runId}", controllers.PayrollRunGet(payrollService, logg))
			r.Get("/stats", controllers.PayrollStats(payrollService, logg))
		})

		r.Post("/quotes", controllers.QuoteEstimate(quoteResolver, logg))
		r.Get("/tokens", controllers.TokenList(relayClient, logg))
		r.Get("/chains", controllers.ChainList())
	})

	return r
}
