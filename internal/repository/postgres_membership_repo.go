package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/digestman/internal/model"
)

// PostgresMembershipRepo はPostgreSQLを使用した紐付けリポジトリ。
type PostgresMembershipRepo struct {
	db *sql.DB
}

// NewPostgresMembershipRepo はPostgresMembershipRepoを生成する。
func NewPostgresMembershipRepo(db *sql.DB) *PostgresMembershipRepo {
	return &PostgresMembershipRepo{db: db}
}

// ListByUserEmail は指定ユーザーの紐付け行を全件返す。
func (r *PostgresMembershipRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.CategoryMembership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, category_id, is_activated, created_at, updated_at
		 FROM user_categories WHERE user_email = $1 ORDER BY created_at ASC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("紐付け一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// ListActiveByUserEmail は指定ユーザーのアクティブな紐付け行のみを返す。
func (r *PostgresMembershipRepo) ListActiveByUserEmail(ctx context.Context, userEmail string) ([]*model.CategoryMembership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, category_id, is_activated, created_at, updated_at
		 FROM user_categories WHERE user_email = $1 AND is_activated = TRUE
		 ORDER BY created_at ASC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("アクティブな紐付け一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// CountByUserEmail は指定ユーザーの紐付け行の総数を返す。
func (r *PostgresMembershipRepo) CountByUserEmail(ctx context.Context, userEmail string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_categories WHERE user_email = $1`,
		userEmail,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("紐付け行数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ActiveCategoriesByUserEmail は指定ユーザーのアクティブなカテゴリのカタログエントリを返す。
func (r *PostgresMembershipRepo) ActiveCategoriesByUserEmail(ctx context.Context, userEmail string) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.title
		 FROM user_categories uc
		 JOIN categories c ON c.id = uc.category_id
		 WHERE uc.user_email = $1 AND uc.is_activated = TRUE
		 ORDER BY uc.created_at ASC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("カテゴリ行の読み取りに失敗しました: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の走査に失敗しました: %w", err)
	}
	return categories, nil
}

// ApplyDiff は差分を単一トランザクションで適用する。
// 非アクティブ化は1回のバルクUPDATE、挿入は行ごとのINSERTで行う。
func (r *PostgresMembershipRepo) ApplyDiff(ctx context.Context, userEmail string, deactivateIDs []int64, adds []*model.CategoryMembership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if len(deactivateIDs) > 0 {
		_, err := tx.ExecContext(ctx,
			`UPDATE user_categories SET is_activated = FALSE, updated_at = NOW()
			 WHERE user_email = $1 AND category_id = ANY($2) AND is_activated = TRUE`,
			userEmail, pq.Array(deactivateIDs),
		)
		if err != nil {
			return fmt.Errorf("紐付けの非アクティブ化に失敗しました: %w", err)
		}
	}

	for _, m := range adds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_categories (id, user_email, category_id, is_activated, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, m.UserEmail, m.CategoryID, m.IsActivated, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("紐付けの作成に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// List は全ユーザーの紐付け行をページングして返す。
func (r *PostgresMembershipRepo) List(ctx context.Context, limit, offset int) ([]*model.CategoryMembership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, category_id, is_activated, created_at, updated_at
		 FROM user_categories ORDER BY created_at ASC, id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("紐付け全件一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// scanMemberships は紐付け行のスキャン処理を共通化する。
func scanMemberships(rows *sql.Rows) ([]*model.CategoryMembership, error) {
	var memberships []*model.CategoryMembership
	for rows.Next() {
		m := &model.CategoryMembership{}
		if err := rows.Scan(&m.ID, &m.UserEmail, &m.CategoryID, &m.IsActivated, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("紐付け行の読み取りに失敗しました: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("紐付け一覧の走査に失敗しました: %w", err)
	}
	return memberships, nil
}

// compile-time interface check
var _ MembershipRepository = (*PostgresMembershipRepo)(nil)
