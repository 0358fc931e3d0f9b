package main

import (
	"net/http"

	"domisafe/internal/handlers"
	"domisafe/internal/models"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	publicMiddleware := standardMiddleware.Append(app.rateLimit)
	workerAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleWorker))

	mux := pat.New()

	mux.Get("/healthz", standardMiddleware.ThenFunc(handlers.Healthz))

	// Discovery; fixed paths before :id
	mux.Get("/employees/search", publicMiddleware.ThenFunc(app.workerHandler.SearchWorkers))
	mux.Get("/employees/near-me", publicMiddleware.ThenFunc(app.workerHandler.NearMe))
	mux.Get("/employees/:id", publicMiddleware.ThenFunc(app.workerHandler.GetWorkerByID))
	mux.Get("/employees", publicMiddleware.ThenFunc(app.workerHandler.ListWorkers))

	// Worker availability
	mux.Put("/employees/:id/availability", workerAuthMiddleware.ThenFunc(app.workerHandler.UpdateAvailability))

	return mux
}
