package serve

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"clipcast/internal/feature"
	"clipcast/internal/logging"
	"clipcast/internal/model"
	"clipcast/internal/predict"
)

// Server exposes the inference service over HTTP. It is a thin transport: all
// pipeline semantics live in the predict package.
type Server struct {
	svc     *predict.Service
	limiter *rate.Limiter
}

// New builds a server around an inference service with a request rate limit.
func New(svc *predict.Service, rps float64, burst int) *Server {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = int(rps)
	}
	return &Server{svc: svc, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.throttle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/predict", s.handlePredict)
	r.Post("/predict/bulk", s.handlePredictBulk)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	logging.Info("serve_start", map[string]any{"addr": addr})
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type predictRequest struct {
	Text     string  `json:"text"`
	Author   string  `json:"author"`
	Music    string  `json:"music"`
	Duration float64 `json:"duration"`
	Time     string  `json:"time"`
}

type predictResponse struct {
	Popular bool   `json:"popular"`
	Label   string `json:"label"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	clk := feature.ParseClock(req.Time)
	class, err := s.svc.PredictOne(req.Text, req.Author, req.Music, req.Duration, clk)
	if err != nil {
		if errors.Is(err, predict.ErrNotFitted) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Popular: class == 1, Label: model.DisplayLabel(class)})
}

type bulkRequest struct {
	Posts []predictRequest `json:"posts"`
}

type bulkResponseRow struct {
	predictRequest
	Popular bool   `json:"popular"`
	Label   string `json:"label"`
}

func (s *Server) handlePredictBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	posts := make([]model.Post, len(req.Posts))
	for i, in := range req.Posts {
		p := model.Post{Text: in.Text, Author: in.Author, Music: in.Music, Duration: in.Duration}
		if t, ok := feature.ParseTimestamp(in.Time); ok {
			p.CreatedAt = t
			p.TimeValid = true
		}
		posts[i] = p
	}
	preds, err := s.svc.PredictBulk(posts)
	if err != nil {
		if errors.Is(err, predict.ErrNotFitted) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rows := make([]bulkResponseRow, len(preds))
	for i, pr := range preds {
		rows[i] = bulkResponseRow{predictRequest: req.Posts[i], Popular: pr.Popular, Label: pr.Label}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": rows})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
