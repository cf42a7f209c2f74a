package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civitas/aquacast/internal/forecast"
	"github.com/civitas/aquacast/internal/metrics"
	"github.com/civitas/aquacast/internal/weather"
)

const serviceName = "Water Demand Forecast API"

// Server holds everything a request needs: the weather client, the predictor
// built from the startup-loaded artifacts, and the service's civil timezone.
// Nothing here is mutated after construction, so concurrent requests share it
// freely.
type Server struct {
	weather     *weather.Client
	predictor   *forecast.Predictor
	loc         *time.Location
	port        string
	frontendURL string
	now         func() time.Time
}

func NewServer(wc *weather.Client, predictor *forecast.Predictor, loc *time.Location, port, frontendURL string) *Server {
	return &Server{
		weather:     wc,
		predictor:   predictor,
		loc:         loc,
		port:        port,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontendURL},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: s.frontendURL != "*",
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/forecast", s.handleForecast)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":       "online",
		"service":      serviceName,
		"model_loaded": s.predictor.ModelLoaded(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":         "healthy",
		"model_loaded":   s.predictor.ModelLoaded(),
		"timestamp":      s.now().In(s.loc).Format(time.RFC3339),
		"features_count": s.predictor.FeatureCount(),
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ForecastRequestDuration)
	defer timer.ObserveDuration()

	now := s.now().In(s.loc)
	today := civilDate(now)

	// One outbound call, bounded by the client timeout; never fails.
	days := s.weather.TenDay(r.Context(), today)
	days = weather.FromToday(days, today)

	result := s.predictor.Predict(days)

	writeJSON(w, Assemble(days, result, today, now, s.predictor.ModelLoaded()))
}

// civilDate truncates a local time to its calendar date, keeping the zone so
// comparisons against provider dates stay in civil time.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}
