package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/liamcoop/churn/classifier"
	"github.com/liamcoop/churn/customer"
	"github.com/liamcoop/churn/inference"
	"github.com/liamcoop/churn/internal/config"
	"github.com/liamcoop/churn/internal/i18n"
	"github.com/liamcoop/churn/internal/logger"
)

type Server struct {
	cfg     config.Config
	adapter *inference.Adapter
	model   classifier.Info
	limiter *rate.Limiter
	router  *chi.Mux
}

// NewServer loads the model artifact and builds the server around it. No
// route exists until the model has loaded.
func NewServer(cfg config.Config) (*Server, error) {
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	return newServerWithClassifier(cfg, model)
}

func newServerWithClassifier(cfg config.Config, model classifier.Classifier) (*Server, error) {
	adapter, err := inference.NewAdapter(model)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		adapter: adapter,
		model:   classifier.Info{Name: "unknown"},
		limiter: newLimiter(cfg.PredictRateLimit),
	}
	if d, ok := model.(classifier.Describer); ok {
		s.model = d.Describe()
	}

	s.setupRoutes()
	return s, nil
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(math.Ceil(perSecond))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Screen
	r.Get("/", s.handleIndex)
	r.With(s.rateLimitPage).Post("/predict", s.handlePredictForm)

	// API
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/fields", s.handleFields)
		r.With(s.rateLimit).Post("/predict", s.handlePredict)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// rateLimit refuses API predictions over the configured rate with a JSON 429
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "too many predictions, slow down", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitPage is rateLimit for the screen: the user keeps the entered
// values and sees the refusal on the page itself
func (s *Server) rateLimitPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}

		tag := i18n.Match(requestLanguage(r))
		rec := customer.DefaultRecord()
		if err := r.ParseForm(); err == nil {
			if collected, err := customer.Collect(r.PostForm); err == nil {
				rec = collected
			}
		}
		page := s.newPage(tag, rec)
		page.Error = i18n.Printer(tag).Sprintf("Too many predictions, please wait a moment and retry")
		s.renderPage(w, http.StatusTooManyRequests, page)
	})
}

func requestLanguage(r *http.Request) (tag string, accept string) {
	return r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")
}

// handleIndex renders the form and the review table for the submitted
// (or default) values
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tag := i18n.Match(requestLanguage(r))

	rec, err := customer.Collect(r.URL.Query())
	if err != nil {
		page := s.newPage(tag, customer.DefaultRecord())
		page.Error = i18n.Printer(tag).Sprintf("Invalid input: %s", err.Error())
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	s.renderPage(w, http.StatusOK, s.newPage(tag, rec))
}

// handlePredictForm runs the prediction for the submitted form and renders
// the verdict under the review table
func (s *Server) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	tag := i18n.Match(requestLanguage(r))
	p := i18n.Printer(tag)

	if err := r.ParseForm(); err != nil {
		page := s.newPage(tag, customer.DefaultRecord())
		page.Error = p.Sprintf("Invalid input: %s", err.Error())
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	rec, err := customer.Collect(r.PostForm)
	if err != nil {
		page := s.newPage(tag, customer.DefaultRecord())
		page.Error = p.Sprintf("Invalid input: %s", err.Error())
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	page := s.newPage(tag, rec)
	res, err := s.adapter.Predict(r.Context(), rec)
	if err != nil {
		logger.Error("prediction failed", "error", err, "requestId", middleware.GetReqID(r.Context()))
		page.Error = p.Sprintf("Prediction failed, please retry")
		s.renderPage(w, http.StatusInternalServerError, page)
		return
	}
	logger.CountPrediction()

	page.setResult(tag, res)
	s.renderPage(w, http.StatusOK, page)
}

// handlePredict is the JSON form of the predict action
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var rec customer.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		var verr *customer.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "invalid customer record",
				Fields: verr.Fields,
			})
			logger.CountHTTPStatus(http.StatusUnprocessableEntity)
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := s.adapter.Predict(r.Context(), rec)
	if err != nil {
		logger.Error("prediction failed", "error", err, "requestId", middleware.GetReqID(r.Context()))
		respondError(w, http.StatusInternalServerError, "prediction failed", err)
		return
	}
	logger.CountPrediction()

	tag := i18n.Match(requestLanguage(r))
	verdict := i18n.Printer(tag).Sprintf(res.Verdict)
	respondJSON(w, http.StatusOK, newPredictResponse(res, s.model.Name, verdict))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	counts := logger.Stats()
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Model:       s.model,
		Predictions: counts.Predictions,
		Errors:      counts.Errors,
		Warnings:    counts.Warnings,
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	p := i18n.Printer(i18n.Match(requestLanguage(r)))

	fields := customer.Fields()
	out := FieldsResponse{Fields: make([]FieldResponse, 0, len(fields))}
	for _, f := range fields {
		out.Fields = append(out.Fields, newFieldResponse(f, p.Sprintf(f.Label)))
	}
	respondJSON(w, http.StatusOK, out)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	logger.CountHTTPStatus(status)
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	server, err := NewServer(cfg)
	if err != nil {
		if errors.Is(err, classifier.ErrModelNotFound) {
			wd, _ := os.Getwd()
			fmt.Fprintf(os.Stderr, "Model file not found! Make sure %q is in the same folder the server runs from (%s).\n", cfg.ModelPath, wd)
			logger.Fatal("model artifact not found", "path", cfg.ModelPath, "error", err)
		}
		logger.Fatal("failed to load model", "path", cfg.ModelPath, "error", err)
	}
	logger.Info("model loaded",
		"name", server.model.Name,
		"digest", server.model.Digest,
		"probability", server.model.Probability,
		"terms", server.model.Terms,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
	}

	logger.Info("server stopped")
}
