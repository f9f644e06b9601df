// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/digestman/internal/model"
)

// envelope は全エンドポイント共通のレスポンスラッパー。
// 成功時はsuccess=trueとdataのみ、失敗時はsuccess=falseとerrorCode、
// dataにエラー詳細が入る。
type envelope struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode,omitempty"`
	Data      any    `json:"data"`
}

// writeSuccessResponse は成功レスポンスをエンベロープに包んで書き込む。
func writeSuccessResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{
		Success: true,
		Data:    data,
	})
}

// writeAPIErrorResponse は統一エンベロープ形式でエラーレスポンスを書き込む。
// バリデーションエラーはフィールド単位の詳細を、それ以外はメッセージをdataに載せる。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	var data any
	if len(apiErr.Details) > 0 {
		data = apiErr.Details
	} else {
		data = map[string]string{"message": apiErr.Message}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope{
		Success:   false,
		ErrorCode: apiErr.Code,
		Data:      data,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは詳細をログに記録したうえで、汎用メッセージの500として返す。
// 内部エラーの文字列はクライアントへ出さない。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseListQuery は一覧取得のlimit/offsetクエリパラメータを解釈する。
// 未指定および解釈不能な値は0として返し、丸めはサービス層に委ねる。
func parseListQuery(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
