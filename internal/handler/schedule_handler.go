package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/badoux/checkmail"
	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/digestman/internal/model"
	"github.com/hitoshi/digestman/internal/schedule"
)

// ScheduleServiceInterface はスケジュールハンドラーが必要とするサービスインターフェース。
type ScheduleServiceInterface interface {
	// Replace は指定ユーザーの既存スケジュールを全削除し、提出された曜日列から再作成する。
	Replace(ctx context.Context, userEmail string, days []int) ([]*model.ScheduleEntry, error)
	// Retrieve は指定ユーザーの通知曜日一覧を返す。
	Retrieve(ctx context.Context, userEmail string) (*schedule.UserSchedule, error)
	// List は全ユーザーのスケジュールをページングして返す。
	List(ctx context.Context, limit, offset int) ([]*model.ScheduleEntry, error)
}

// ScheduleHandler は週次通知スケジュールのHTTPハンドラー。
type ScheduleHandler struct {
	service ScheduleServiceInterface
}

// NewScheduleHandler はScheduleHandlerを生成する。
func NewScheduleHandler(service ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
	}
}

// scheduleEntryResponse はスケジュール行のAPIレスポンス。
type scheduleEntryResponse struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail"`
	DayOfWeek int       `json:"dayOfWeek"`
	CreatedAt time.Time `json:"createdAt"`
}

// userScheduleResponse はユーザーの通知曜日一覧のAPIレスポンス。
type userScheduleResponse struct {
	UserEmail string `json:"userEmail"`
	Schedules []int  `json:"schedules"`
}

// replaceScheduleRequest はスケジュール全置換リクエストのボディ。
// フィールド単位のバリデーションエラーを返すため、各フィールドは生のまま受ける。
type replaceScheduleRequest struct {
	UserEmail json.RawMessage `json:"userEmail"`
	Schedules json.RawMessage `json:"schedules"`
}

// List は全ユーザーのスケジュール一覧をページングして取得する。
// GET /api/schedules?limit=&offset=
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListQuery(r)

	entries, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, toScheduleEntryResponses(entries))
}

// Retrieve は指定ユーザーの通知曜日一覧を取得する。
// GET /api/schedules/{userEmail}
func (h *ScheduleHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	userEmail := chi.URLParam(r, "userEmail")
	if err := checkmail.ValidateFormat(userEmail); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(map[string]string{
			"userEmail": "正しいメールアドレス形式で指定してください。",
		}))
		return
	}

	result, err := h.service.Retrieve(r.Context(), userEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, userScheduleResponse{
		UserEmail: result.UserEmail,
		Schedules: result.Days,
	})
}

// Replace はスケジュールの全置換を実行する。
// POST /api/schedules
func (h *ScheduleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req replaceScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(map[string]string{
			"body": "正しいJSON形式でリクエストしてください。",
		}))
		return
	}

	details := map[string]string{}
	userEmail := validateUserEmailField(req.UserEmail, details)
	days := validateSchedulesField(req.Schedules, details)
	if len(details) > 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	entries, err := h.service.Replace(r.Context(), userEmail, days)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, toScheduleEntryResponses(entries))
}

// SetupScheduleRoutes はスケジュール関連のルーティングを設定したchi.Routerを返す。
func SetupScheduleRoutes(service ScheduleServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewScheduleHandler(service)

	r.Route("/api/schedules", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Replace)
		r.Get("/{userEmail}", h.Retrieve)
	})

	return r
}

// --- ヘルパー関数 ---

// toScheduleEntryResponses はmodel.ScheduleEntryのスライスをAPIレスポンスに変換する。
// 空の場合でもnilではなく空配列を返す。
func toScheduleEntryResponses(entries []*model.ScheduleEntry) []scheduleEntryResponse {
	responses := make([]scheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, scheduleEntryResponse{
			ID:        e.ID,
			UserEmail: e.UserEmail,
			DayOfWeek: e.DayOfWeek,
			CreatedAt: e.CreatedAt,
		})
	}
	return responses
}

// validateSchedulesField はschedulesフィールドを検証する。
// リスト以外の値、整数以外の要素、0〜6の範囲外の曜日値はバリデーションエラーとする。
func validateSchedulesField(raw json.RawMessage, details map[string]string) []int {
	if len(raw) == 0 {
		details["schedules"] = "このフィールドは必須です。"
		return nil
	}

	var days []int
	if err := json.Unmarshal(raw, &days); err != nil {
		details["schedules"] = "整数の配列で指定してください。"
		return nil
	}

	for _, day := range days {
		if !model.IsValidDayOfWeek(day) {
			details["schedules"] = fmt.Sprintf("曜日値は%d〜%dの範囲で指定してください。", model.DayOfWeekMin, model.DayOfWeekMax)
			return nil
		}
	}

	return days
}
