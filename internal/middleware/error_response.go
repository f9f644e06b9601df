// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope はミドルウェア層から返すエラーレスポンスの統一フォーマット。
// ハンドラー層のエンベロープと同一のワイヤ形式（success/errorCode/data）を持つ。
type errorEnvelope struct {
	Success   bool              `json:"success"`
	ErrorCode string            `json:"errorCode"`
	Data      map[string]string `json:"data"`
}

// WriteErrorEnvelope は統一エンベロープ形式でHTTPエラーレスポンスを書き込む。
func WriteErrorEnvelope(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success:   false,
		ErrorCode: errorCode,
		Data:      map[string]string{"message": message},
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorEnvelope(w, http.StatusInternalServerError, "ERR500",
		"内部エラーが発生しました。しばらく待ってから再度お試しください。")
}
