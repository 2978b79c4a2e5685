// Package server は盤面解析と自動プレイ配信を HTTP/WebSocket で提供する
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/minimax2048/internal/domain"
	"github.com/nnaakkaaii/minimax2048/internal/usecase"
)

// Config はサーバーの設定
type Config struct {
	Addr    string
	Game    domain.GameConfig
	Minimax domain.MinimaxConfig
	// DepthLimit はリクエストで指定できる探索深さの上限
	DepthLimit int
	// StreamDelay は配信時の手と手の間隔
	StreamDelay time.Duration
}

// DefaultConfig はデフォルトの設定を返す
func DefaultConfig() Config {
	play := usecase.DefaultAutoPlayConfig()
	return Config{
		Addr:        ":8080",
		Game:        play.Game,
		Minimax:     play.Minimax,
		DepthLimit:  6,
		StreamDelay: 50 * time.Millisecond,
	}
}

// Server は HTTP ハンドラをまとめる
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	newRand  func() domain.Rand
}

// New は Server を生成する
func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		newRand: func() domain.Rand { return frand.New() },
	}
}

// Routes はルーティング済みのハンドラを返す
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/ws/autoplay", s.handleAutoPlay)
	return r
}

// Run は ctx がキャンセルされるまでサーバーを動かす
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Info().Str("addr", s.cfg.Addr).Msg("server-listening")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Err(ctx.Err()).Msg("shutdown-signal-received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server-error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful-shutdown-failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced-close-failed")
		}
	}
	return runErr
}

// requestLogger はリクエストごとに zerolog へ1行出力する
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request-id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http-request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
