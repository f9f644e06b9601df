// Package schedule は週次通知スケジュールの全置換のドメインロジックを提供する。
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/digestman/internal/metrics"
	"github.com/hitoshi/digestman/internal/model"
	"github.com/hitoshi/digestman/internal/repository"
)

// 一覧取得のページングの既定値と上限。
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// UserSchedule はユーザーの通知曜日一覧のドメインオブジェクト。
type UserSchedule struct {
	UserEmail string
	Days      []int
}

// Service は週次通知スケジュールのサービス層。
// カテゴリのような差分適用は行わず、提出された曜日列で既存行を常に全置換する。
type Service struct {
	scheduleRepo     repository.ScheduleRepository
	recorder         metrics.DomainRecorder
	defaultListLimit int
	maxListLimit     int
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnil可（テスト時など、メトリクス収集を省略する場合）。
// defaultListLimit・maxListLimitに0以下を渡した場合はパッケージの既定値を使う。
func NewService(scheduleRepo repository.ScheduleRepository, recorder metrics.DomainRecorder, defaultListLimit, maxListLimit int) *Service {
	if defaultListLimit <= 0 {
		defaultListLimit = DefaultListLimit
	}
	if maxListLimit <= 0 {
		maxListLimit = MaxListLimit
	}
	return &Service{
		scheduleRepo:     scheduleRepo,
		recorder:         recorder,
		defaultListLimit: defaultListLimit,
		maxListLimit:     maxListLimit,
	}
}

// Replace は指定ユーザーの既存スケジュールを全削除し、提出された曜日列から再作成する。
// 入力の重複は除去せず、提出された順でそのまま行になる。
// 行IDは毎回新規に採番されるため、同じ曜日列で2回呼んでも行の同一性は保たれない。
// 削除と挿入は単一トランザクションで実行される。
func (s *Service) Replace(ctx context.Context, userEmail string, days []int) ([]*model.ScheduleEntry, error) {
	now := time.Now()
	entries := make([]*model.ScheduleEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, &model.ScheduleEntry{
			ID:        uuid.NewString(),
			UserEmail: userEmail,
			DayOfWeek: day,
			CreatedAt: now,
		})
	}

	if err := s.scheduleRepo.ReplaceByUserEmail(ctx, userEmail, entries); err != nil {
		return nil, fmt.Errorf("スケジュールの全置換に失敗しました: %w", err)
	}

	slog.Info("schedule replaced",
		slog.String("userEmail", userEmail),
		slog.Any("days", dayNames(days)),
	)

	if s.recorder != nil {
		s.recorder.RecordScheduleReplace(len(entries))
	}

	return entries, nil
}

// Retrieve は指定ユーザーの通知曜日一覧を返す。
// 行が1件も存在しない場合はnot foundエラーを返す。
// スケジュールにソフトデリートは無いため、空は常に「未登録」を意味する。
func (s *Service) Retrieve(ctx context.Context, userEmail string) (*UserSchedule, error) {
	entries, err := s.scheduleRepo.ListByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("スケジュール一覧の取得に失敗しました: %w", err)
	}
	if len(entries) == 0 {
		return nil, model.NewScheduleNotFoundError(userEmail)
	}

	days := make([]int, 0, len(entries))
	for _, e := range entries {
		days = append(days, e.DayOfWeek)
	}

	return &UserSchedule{
		UserEmail: userEmail,
		Days:      days,
	}, nil
}

// List は全ユーザーのスケジュールをページングして返す。
// limitが0以下の場合は既定値、上限超過の場合は上限に丸める。負のoffsetは0に丸める。
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.ScheduleEntry, error) {
	if limit <= 0 {
		limit = s.defaultListLimit
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.scheduleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("スケジュール全件一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// dayNames は曜日値の列をログ用の英語名の列に変換する。
func dayNames(days []int) []string {
	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, model.DayOfWeekName(day))
	}
	return names
}
