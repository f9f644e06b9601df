// Package category はカテゴリ設定の差分適用（リコンサイル）のドメインロジックを提供する。
package category

import (
	"context"
	"fmt"
	"sort"
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

// UserCategories はユーザーのアクティブカテゴリタイトル一覧のドメインオブジェクト。
type UserCategories struct {
	UserEmail      string
	CategoryTitles []string
}

// Service はカテゴリ設定のサービス層。
// 提出された希望カテゴリ集合と永続化済みの行の差分を計算し、最小の書き込みで適用する。
type Service struct {
	memberRepo       repository.MembershipRepository
	recorder         metrics.DomainRecorder
	defaultListLimit int
	maxListLimit     int
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnil可（テスト時など、メトリクス収集を省略する場合）。
// defaultListLimit・maxListLimitに0以下を渡した場合はパッケージの既定値を使う。
func NewService(memberRepo repository.MembershipRepository, recorder metrics.DomainRecorder, defaultListLimit, maxListLimit int) *Service {
	if defaultListLimit <= 0 {
		defaultListLimit = DefaultListLimit
	}
	if maxListLimit <= 0 {
		maxListLimit = MaxListLimit
	}
	return &Service{
		memberRepo:       memberRepo,
		recorder:         recorder,
		defaultListLimit: defaultListLimit,
		maxListLimit:     maxListLimit,
	}
}

// Reconcile は希望カテゴリ集合と既存の行の差分を適用し、適用後のアクティブ紐付け一覧を返す。
//
// 差分の計算規則:
//   - toAdd = desired − existing（existingは非アクティブ含む全行のカテゴリID集合）
//   - toDeactivate = existingのアクティブなID − desired
//
// existingは非アクティブ行も含むため、一度解除したカテゴリを再提出しても
// toAddには入らない。過去の非アクティブ行はフリップも挿入もされず、
// 履歴としてそのまま残る。
// 非アクティブ化と挿入は単一トランザクションで適用される。
func (s *Service) Reconcile(ctx context.Context, userEmail string, desiredCategoryIDs []int64) ([]*model.CategoryMembership, error) {
	rows, err := s.memberRepo.ListByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("既存の紐付けの取得に失敗しました: %w", err)
	}

	desired := make(map[int64]bool, len(desiredCategoryIDs))
	for _, id := range desiredCategoryIDs {
		desired[id] = true
	}

	existing := make(map[int64]bool, len(rows))
	active := make(map[int64]bool, len(rows))
	for _, row := range rows {
		existing[row.CategoryID] = true
		if row.IsActivated {
			active[row.CategoryID] = true
		}
	}

	var toAdd []int64
	for id := range desired {
		if !existing[id] {
			toAdd = append(toAdd, id)
		}
	}

	var toDeactivate []int64
	for id := range active {
		if !desired[id] {
			toDeactivate = append(toDeactivate, id)
		}
	}

	// map走査の順序は不定のためソートして書き込み順を安定させる
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toDeactivate, func(i, j int) bool { return toDeactivate[i] < toDeactivate[j] })

	now := time.Now()
	adds := make([]*model.CategoryMembership, 0, len(toAdd))
	for _, id := range toAdd {
		adds = append(adds, &model.CategoryMembership{
			ID:          uuid.NewString(),
			UserEmail:   userEmail,
			CategoryID:  id,
			IsActivated: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.memberRepo.ApplyDiff(ctx, userEmail, toDeactivate, adds); err != nil {
		return nil, fmt.Errorf("差分の適用に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordReconcile(len(adds), len(toDeactivate))
	}

	refreshed, err := s.memberRepo.ListActiveByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("適用後の紐付けの再取得に失敗しました: %w", err)
	}
	return refreshed, nil
}

// Retrieve は指定ユーザーのアクティブなカテゴリタイトル一覧を返す。
// 行が1件も存在しない（一度も設定されたことがない）場合はnot foundエラーを返す。
// 行は存在するが全て非アクティブの場合は空のタイトル一覧を返す。
// 「未登録」と「現在空」は別の状態として区別する。
func (s *Service) Retrieve(ctx context.Context, userEmail string) (*UserCategories, error) {
	count, err := s.memberRepo.CountByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("紐付け行数の取得に失敗しました: %w", err)
	}
	if count == 0 {
		return nil, model.NewCategoryNotFoundError(userEmail)
	}

	categories, err := s.memberRepo.ActiveCategoriesByUserEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}

	titles := make([]string, 0, len(categories))
	for _, c := range categories {
		titles = append(titles, c.Title)
	}

	return &UserCategories{
		UserEmail:      userEmail,
		CategoryTitles: titles,
	}, nil
}

// List は全ユーザーの紐付け行をページングして返す。
// limitが0以下の場合は既定値、上限超過の場合は上限に丸める。負のoffsetは0に丸める。
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.CategoryMembership, error) {
	limit, offset = s.clampPage(limit, offset)

	rows, err := s.memberRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("紐付け全件一覧の取得に失敗しました: %w", err)
	}
	return rows, nil
}

// clampPage はページングパラメータを有効な範囲に丸める。
func (s *Service) clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.defaultListLimit
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
