package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/badoux/checkmail"
	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/digestman/internal/category"
	"github.com/hitoshi/digestman/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	// Reconcile は希望カテゴリ集合と既存の行の差分を適用し、適用後のアクティブ一覧を返す。
	Reconcile(ctx context.Context, userEmail string, desiredCategoryIDs []int64) ([]*model.CategoryMembership, error)
	// Retrieve は指定ユーザーのアクティブなカテゴリタイトル一覧を返す。
	Retrieve(ctx context.Context, userEmail string) (*category.UserCategories, error)
	// List は全ユーザーの紐付け行をページングして返す。
	List(ctx context.Context, limit, offset int) ([]*model.CategoryMembership, error)
}

// CategoryHandler はカテゴリ設定のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		service: service,
	}
}

// membershipResponse は紐付け情報のAPIレスポンス。
type membershipResponse struct {
	ID          string    `json:"id"`
	UserEmail   string    `json:"userEmail"`
	CategoryID  int64     `json:"categoryId"`
	IsActivated bool      `json:"isActivated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// userCategoriesResponse はユーザーのアクティブカテゴリタイトル一覧のAPIレスポンス。
type userCategoriesResponse struct {
	UserEmail      string   `json:"userEmail"`
	CategoryTitles []string `json:"categoryTitles"`
}

// upsertCategoriesRequest はカテゴリ設定更新リクエストのボディ。
// フィールド単位のバリデーションエラーを返すため、各フィールドは生のまま受ける。
type upsertCategoriesRequest struct {
	UserEmail   json.RawMessage `json:"userEmail"`
	CategoryIDs json.RawMessage `json:"categoryIds"`
}

// List は全ユーザーの紐付け一覧をページングして取得する。
// GET /api/categories?limit=&offset=
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListQuery(r)

	rows, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toMembershipResponses(rows))
}

// Retrieve は指定ユーザーのアクティブなカテゴリタイトル一覧を取得する。
// GET /api/categories/{userEmail}
func (h *CategoryHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	userEmail := chi.URLParam(r, "userEmail")

	result, err := h.service.Retrieve(r.Context(), userEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, userCategoriesResponse{
		UserEmail:      result.UserEmail,
		CategoryTitles: result.CategoryTitles,
	})
}

// Upsert はカテゴリ設定の差分適用を実行する。
// POST /api/categories
func (h *CategoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(map[string]string{
			"body": "正しいJSON形式でリクエストしてください。",
		}))
		return
	}

	details := map[string]string{}
	userEmail := validateUserEmailField(req.UserEmail, details)
	categoryIDs := validateCategoryIDsField(req.CategoryIDs, details)
	if len(details) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	refreshed, err := h.service.Reconcile(r.Context(), userEmail, categoryIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, toMembershipResponses(refreshed))
}

// SetupCategoryRoutes はカテゴリ設定関連のルーティングを設定したchi.Routerを返す。
func SetupCategoryRoutes(service CategoryServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewCategoryHandler(service)

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Upsert)
		r.Get("/{userEmail}", h.Retrieve)
	})

	return r
}

// --- ヘルパー関数 ---

// toMembershipResponses はmodel.CategoryMembershipのスライスをAPIレスポンスに変換する。
// 空の場合でもnilではなく空配列を返す。
func toMembershipResponses(rows []*model.CategoryMembership) []membershipResponse {
	responses := make([]membershipResponse, 0, len(rows))
	for _, m := range rows {
		responses = append(responses, membershipResponse{
			ID:          m.ID,
			UserEmail:   m.UserEmail,
			CategoryID:  m.CategoryID,
			IsActivated: m.IsActivated,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return responses
}

// validateUserEmailField はuserEmailフィールドを検証する。
// 不正な場合はdetailsにフィールド名をキーとしてエラー詳細を追加する。
func validateUserEmailField(raw json.RawMessage, details map[string]string) string {
	if len(raw) == 0 {
		details["userEmail"] = "このフィールドは必須です。"
		return ""
	}

	var userEmail string
	if err := json.Unmarshal(raw, &userEmail); err != nil {
		details["userEmail"] = "文字列で指定してください。"
		return ""
	}

	if err := checkmail.ValidateFormat(userEmail); err != nil {
		details["userEmail"] = "有効なメールアドレスを指定してください。"
		return ""
	}

	return userEmail
}

// validateCategoryIDsField はcategoryIdsフィールドを検証する。
// リスト以外の値や整数以外の要素はバリデーションエラーとする。
func validateCategoryIDsField(raw json.RawMessage, details map[string]string) []int64 {
	if len(raw) == 0 {
		details["categoryIds"] = "このフィールドは必須です。"
		return nil
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		details["categoryIds"] = "整数の配列で指定してください。"
		return nil
	}

	return ids
}
