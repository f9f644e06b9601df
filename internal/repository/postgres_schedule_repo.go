package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/digestman/internal/model"
)

// PostgresScheduleRepo はPostgreSQLを使用したスケジュールリポジトリ。
type PostgresScheduleRepo struct {
	db *sql.DB
}

// NewPostgresScheduleRepo はPostgresScheduleRepoを生成する。
func NewPostgresScheduleRepo(db *sql.DB) *PostgresScheduleRepo {
	return &PostgresScheduleRepo{db: db}
}

// ListByUserEmail は指定ユーザーのスケジュールを作成順で返す。
func (r *PostgresScheduleRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, day_of_week, created_at
		 FROM user_schedules WHERE user_email = $1 ORDER BY created_at ASC, id ASC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("スケジュール一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// ReplaceByUserEmail は指定ユーザーの既存スケジュールを全削除し、entriesを挿入する。
// 削除と挿入は単一トランザクションで実行し、途中で失敗した場合は全体をロールバックする。
func (r *PostgresScheduleRepo) ReplaceByUserEmail(ctx context.Context, userEmail string, entries []*model.ScheduleEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_schedules WHERE user_email = $1`,
		userEmail,
	); err != nil {
		return fmt.Errorf("既存スケジュールの削除に失敗しました: %w", err)
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_schedules (id, user_email, day_of_week, created_at)
			 VALUES ($1, $2, $3, $4)`,
			e.ID, e.UserEmail, e.DayOfWeek, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("スケジュールの作成に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// List は全ユーザーのスケジュールをページングして返す。
func (r *PostgresScheduleRepo) List(ctx context.Context, limit, offset int) ([]*model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, day_of_week, created_at
		 FROM user_schedules ORDER BY created_at ASC, id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("スケジュール全件一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// scanScheduleEntries はスケジュール行のスキャン処理を共通化する。
func scanScheduleEntries(rows *sql.Rows) ([]*model.ScheduleEntry, error) {
	var entries []*model.ScheduleEntry
	for rows.Next() {
		e := &model.ScheduleEntry{}
		if err := rows.Scan(&e.ID, &e.UserEmail, &e.DayOfWeek, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("スケジュール行の読み取りに失敗しました: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スケジュール一覧の走査に失敗しました: %w", err)
	}
	return entries, nil
}

// compile-time interface check
var _ ScheduleRepository = (*PostgresScheduleRepo)(nil)
