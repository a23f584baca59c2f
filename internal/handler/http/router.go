package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	env string,
	ledgerHandler LedgerHandler,
	masterHandler MasterHandler,
	payrollHandler PayrollHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", ledgerHandler.CreateLoan)
			r.Get("/", ledgerHandler.ListLoans)
			r.Get("/{id}", ledgerHandler.GetLoan)
			r.Put("/{id}", ledgerHandler.UpdateLoan)
			r.Delete("/{id}", ledgerHandler.DeleteLoan)
		})

		r.Route("/challans", func(r chi.Router) {
			r.Post("/", ledgerHandler.CreateChallan)
			r.Get("/", ledgerHandler.ListChallans)
			r.Get("/{id}", ledgerHandler.GetChallan)
			r.Put("/{id}", ledgerHandler.UpdateChallan)
			r.Delete("/{id}", ledgerHandler.DeleteChallan)
		})

		r.Get("/ledger/{employeeCode}", ledgerHandler.GetEmployeeLedger)

		r.Get("/events", eventsHandler.Stream)

		r.Route("/designations", func(r chi.Router) {
			r.Post("/", masterHandler.CreateDesignation)
			r.Get("/", masterHandler.ListDesignations)
			r.Get("/{id}", masterHandler.GetDesignation)
			r.Put("/{id}", masterHandler.UpdateDesignation)
			r.Delete("/{id}", masterHandler.DeleteDesignation)
		})

		r.Route("/payroll-sections", func(r chi.Router) {
			r.Post("/", masterHandler.CreateSection)
			r.Get("/", masterHandler.ListSections)
			r.Get("/{id}", masterHandler.GetSection)
			r.Put("/{id}", masterHandler.UpdateSection)
			r.Delete("/{id}", masterHandler.DeleteSection)
		})

		r.Route("/branches", func(r chi.Router) {
			r.Post("/", masterHandler.CreateBranch)
			r.Get("/", masterHandler.ListBranches)
			r.Get("/{id}", masterHandler.GetBranch)
			r.Put("/{id}", masterHandler.UpdateBranch)
			r.Delete("/{id}", masterHandler.DeleteBranch)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", payrollHandler.GetMonthView)
			r.Post("/run", payrollHandler.RunPayroll)
			r.Post("/recalculate", payrollHandler.Recalculate)
			r.Post("/post", payrollHandler.Post)
			r.Post("/{id}/repost", payrollHandler.Repost)
		})
	})

	return r
}
