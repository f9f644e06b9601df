package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/digestman/internal/metrics"
	"github.com/hitoshi/digestman/internal/middleware"
)

// HealthChecker はヘルスチェックのためのデータベース疎通確認インターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	MetricsRecorder   metrics.HTTPRecorder
	MetricsGatherer   prometheus.Gatherer

	// ドメインサービス
	CategoryService CategoryServiceInterface
	ScheduleService ScheduleServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	categoryHandler := NewCategoryHandler(deps.CategoryService)
	scheduleHandler := NewScheduleHandler(deps.ScheduleService)

	// --- 運用系ルート（レート制限対象外） ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)、書き込み系はWriteを追加
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{userEmail}", categoryHandler.Retrieve)

			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.WriteMiddleware()).Post("/", categoryHandler.Upsert)
			} else {
				r.Post("/", categoryHandler.Upsert)
			}
		})

		r.Route("/api/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Get("/{userEmail}", scheduleHandler.Retrieve)

			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.WriteMiddleware()).Post("/", scheduleHandler.Replace)
			} else {
				r.Post("/", scheduleHandler.Replace)
			}
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				middleware.WriteErrorEnvelope(w, http.StatusServiceUnavailable, "ERR503",
					"データベースに接続できません。")
				return
			}
		}
		writeSuccessResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
