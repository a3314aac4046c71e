package api

import (
	"log"
	"net/http"

	_ "github.com/securefold/server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rs/cors"
	"github.com/securefold/server/internal/api/handlers"
	"github.com/securefold/server/internal/api/middleware"
	"github.com/securefold/server/internal/config"
)

func SetupRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mux.HandleFunc("GET /api/v1/{$}", h.Root)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("POST /api/v1/users", h.CreateUser)
	mux.HandleFunc("POST /api/v1/users/verify-pin", h.VerifyPin)
	mux.HandleFunc("GET /api/v1/users/by-email/{email}", h.GetUserByEmail)
	mux.HandleFunc("GET /api/v1/users/{id}", h.GetUser)
	mux.HandleFunc("PUT /api/v1/users/{id}/pin", h.UpdatePin)

	mux.HandleFunc("POST /api/v1/documents", h.CreateDocument)
	mux.HandleFunc("GET /api/v1/documents/{user_id}", h.ListDocuments)
	mux.HandleFunc("GET /api/v1/documents/{user_id}/{doc_type}", h.ListDocumentsByType)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", h.DeleteDocument)
	mux.HandleFunc("PUT /api/v1/documents/{id}", h.UpdateDocument)

	mux.HandleFunc("POST /api/v1/access-log", h.LogAccess)
	mux.HandleFunc("GET /api/v1/access-log/{user_id}", h.ListAccess)
	mux.HandleFunc("GET /api/v1/access-log/{user_id}/export", h.ExportAccess)

	mux.HandleFunc("POST /api/v1/failed-attempt", h.LogFailedAttempt)
	mux.HandleFunc("POST /api/v1/failed-attempt/alert", h.SendFailedAlert)
	mux.HandleFunc("GET /api/v1/failed-attempts/{user_id}", h.ListFailedAttempts)

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
