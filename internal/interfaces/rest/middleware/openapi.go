package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// RequestValidator rejects requests that do not match the OpenAPI document.
// Paths the document does not describe pass through untouched.
func RequestValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				rest.WriteError(w, application.NewValidationError(err), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
