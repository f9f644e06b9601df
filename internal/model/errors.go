package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// CodeはレスポンスエンベロープのerrorCodeにそのまま載る。
// Detailsはバリデーション失敗時のフィールド単位のエラー詳細を保持する。
type APIError struct {
	Code     string            // エラーコード: ERR400, ERR404, ERR500
	Message  string            // エラーメッセージ
	Category string            // カテゴリ: validation, not_found, system
	Details  map[string]string // フィールド単位のエラー詳細（バリデーション時のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation = "ERR400"
	ErrCodeNotFound   = "ERR404"
	ErrCodeInternal   = "ERR500"
)

// NewValidationError はフィールド単位の詳細を持つバリデーションエラーを生成する。
func NewValidationError(details map[string]string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  "リクエスト内容が不正です。",
		Category: "validation",
		Details:  details,
	}
}

// NewCategoryNotFoundError はカテゴリ設定が1件も存在しないユーザーに対するエラーを生成する。
// 行が存在するが全て非アクティブの場合はこのエラーではなく空リストを返すこと。
func NewCategoryNotFoundError(userEmail string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("カテゴリ設定が見つかりません: %s", userEmail),
		Category: "not_found",
	}
}

// NewScheduleNotFoundError はスケジュールが1件も存在しないユーザーに対するエラーを生成する。
func NewScheduleNotFoundError(userEmail string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("通知スケジュールが見つかりません: %s", userEmail),
		Category: "not_found",
	}
}

// NewInternalError は内部エラーの統一表現を生成する。
// 内部エラーの詳細はログにのみ記録し、クライアントへはこの汎用メッセージだけを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。しばらく待ってから再度お試しください。",
		Category: "system",
	}
}
