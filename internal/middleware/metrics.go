package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/digestman/internal/metrics"
)

// NewMetricsMiddleware はHTTPステータスコードとレイテンシをメトリクスに記録する
// ミドルウェアを返す。
func NewMetricsMiddleware(recorder metrics.HTTPRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordRequestDuration(time.Since(start))
		})
	}
}
