// Package server 是薄 HTTP 层：路由、参数解析、JSON 编码。
// 推荐与评估的业务结果（包括 sentinel 消息）一律 200 返回，
// 只有目录级失败与坏请求才是错误状态码。
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/engine"
	"github.com/rushteam/mangarec/eval"
)

// Server 组合存储、引擎与评估器。
type Server struct {
	catalog   core.CatalogStore
	ratings   core.RatingStore
	engine    *engine.Engine
	evaluator *eval.Evaluator
	logger    *slog.Logger
}

func New(
	catalog core.CatalogStore,
	ratings core.RatingStore,
	eng *engine.Engine,
	ev *eval.Evaluator,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog:   catalog,
		ratings:   ratings,
		engine:    eng,
		evaluator: ev,
		logger:    logger,
	}
}

// Router 构建路由。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/items", s.handleItems)
	r.Post("/ratings", s.handleSaveRating)
	r.Get("/recommendations/{userID}", s.handleRecommendations)
	r.Get("/accuracy/{userID}", s.handleUserAccuracy)
	r.Get("/accuracy", s.handleOverallAccuracy)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleItems 返回目录快照，附带每个物品的平均评分。
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	items, ratings, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}

	sums := make(map[int64]int, len(items))
	counts := make(map[int64]int, len(items))
	for _, rt := range ratings.Dedup() {
		sums[rt.ItemID] += rt.Score
		counts[rt.ItemID]++
	}

	type itemWithAvg struct {
		core.Item
		AvgRating float64 `json:"avg_rating"`
	}
	out := make([]itemWithAvg, 0, len(items))
	for _, it := range items {
		avg := 0.0
		if counts[it.ID] > 0 {
			avg = float64(sums[it.ID]) / float64(counts[it.ID])
		}
		out = append(out, itemWithAvg{Item: it, AvgRating: avg})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleSaveRating 追加或更新评分（外部协作方的写入口）。
func (s *Server) handleSaveRating(w http.ResponseWriter, r *http.Request) {
	var rating core.Rating
	if err := json.NewDecoder(r.Body).Decode(&rating); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if rating.UserID <= 0 || rating.ItemID <= 0 {
		s.writeError(w, http.StatusBadRequest, "user_id and item_id must be positive")
		return
	}
	if rating.Score < 1 || rating.Score > 5 {
		s.writeError(w, http.StatusBadRequest, "rating must be in 1..5")
		return
	}

	if err := s.ratings.SaveRating(r.Context(), rating); err != nil {
		s.logger.ErrorContext(r.Context(), "save rating failed", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "could not save rating")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.parseUserID(w, r)
	if !ok {
		return
	}

	topN := 0
	if n := r.URL.Query().Get("n"); n != "" {
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		topN = parsed
	}

	items, ratings, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}

	recs, err := s.engine.Recommend(r.Context(), userID, items, ratings, topN)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if recs == nil {
		recs = []core.Recommendation{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"user_id":         userID,
		"recommendations": recs,
	})
}

func (s *Server) handleUserAccuracy(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.parseUserID(w, r)
	if !ok {
		return
	}
	items, ratings, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}

	result, err := s.evaluator.EvaluateUser(r.Context(), userID, items, ratings)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if !result.OK() {
		// 业务结果，不是故障
		s.writeJSON(w, http.StatusOK, map[string]any{
			"user_id": result.UserID,
			"message": result.Message,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOverallAccuracy(w http.ResponseWriter, r *http.Request) {
	items, ratings, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}

	result, err := s.evaluator.EvaluateAll(r.Context(), items, ratings)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if result.Message != "" {
		s.writeJSON(w, http.StatusOK, map[string]string{"message": result.Message})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// loadSnapshot 读取本次请求周期的目录与评分快照。
func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) ([]core.Item, core.Ratings, bool) {
	items, err := s.catalog.LoadItems(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "load items failed", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "could not load catalog")
		return nil, nil, false
	}
	ratings, err := s.ratings.LoadRatings(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "load ratings failed", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "could not load ratings")
		return nil, nil, false
	}
	return items, ratings, true
}

func (s *Server) parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		s.writeError(w, http.StatusBadRequest, "user id must be a positive integer")
		return 0, false
	}
	return userID, true
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsEmptyCatalog(err) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.ErrorContext(r.Context(), "request failed", slog.Any("error", err))
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", slog.Any("error", err))
	}
}

// logRequests 记录每个请求的方法、路径、状态与耗时。
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
