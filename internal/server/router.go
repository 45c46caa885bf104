package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/quotes/auth"
	"github.com/diewo77/quotes/httpx"
	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/handlers"
	"github.com/diewo77/quotes/internal/services"
	pdfgen "github.com/diewo77/quotes/pdf"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	DB     *gorm.DB
	Render config.Render
	Themes config.ThemeSet
	Images pdfgen.ImageLoader
	// Messenger may be nil; sending then answers 503.
	Messenger handlers.Messenger
	// Gate guards confirm and send; nil leaves them open.
	Gate   *auth.Gate
	Logger *log.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Gate == nil {
		d.Gate = auth.NewGate("")
	}
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Quote endpoints
	qh := handlers.NewQuoteHandler(services.NewQuoteService(d.DB), d.Render, d.Themes)
	qh.Images = d.Images
	qh.Messenger = d.Messenger
	qh.Logger = d.Logger
	mux.HandleFunc("GET /quotes/{id}/pdf", qh.PDF)
	mux.Handle("POST /quotes/{id}/confirm", auth.Require(http.HandlerFunc(qh.Confirm)))
	mux.Handle("POST /quotes/{id}/send", auth.Require(http.HandlerFunc(qh.Send)))

	return withRecover(d.Logger, withLogging(d.Logger, d.Gate.Middleware(mux)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func withRecover(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
