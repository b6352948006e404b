package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/otharalodge/inquiry-relay/internal/api/handler"
	apimw "github.com/otharalodge/inquiry-relay/internal/api/middleware"
	"github.com/otharalodge/inquiry-relay/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	svc *service.InquiryService,
	reg prometheus.Gatherer,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)             // recover panics, return 500
	r.Use(chimw.RealIP)                // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(64 << 10)) // inquiry forms are small
	r.Use(apimw.CorrelationID)         // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Correlation-ID", "X-Idempotency-Key"},
		ExposedHeaders: []string{"X-Correlation-ID", "X-Idempotent-Replay"},
		MaxAge:         300,
	}))

	// --- handler instances ---
	ih := handler.NewInquiryHandler(svc, logger)
	rh := handler.NewRoomsHandler(svc)
	hh := handler.NewHealthHandler(svc)

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rooms", rh.List)
		r.Post("/inquiries/booking", ih.Booking)
		r.Post("/inquiries/contact", ih.Contact)
	})

	return r
}
