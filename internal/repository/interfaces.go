// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/digestman/internal/model"
)

// MembershipRepository はユーザーとカテゴリの紐付けデータの永続化インターフェース。
type MembershipRepository interface {
	// ListByUserEmail は指定ユーザーの紐付け行を全件（アクティブ・非アクティブとも）返す。
	ListByUserEmail(ctx context.Context, userEmail string) ([]*model.CategoryMembership, error)

	// ListActiveByUserEmail は指定ユーザーのアクティブな紐付け行のみを返す。
	ListActiveByUserEmail(ctx context.Context, userEmail string) ([]*model.CategoryMembership, error)

	// CountByUserEmail は指定ユーザーの紐付け行の総数（非アクティブ含む）を返す。
	CountByUserEmail(ctx context.Context, userEmail string) (int, error)

	// ActiveCategoriesByUserEmail は指定ユーザーのアクティブなカテゴリの
	// カタログエントリを登録順で返す。
	ActiveCategoriesByUserEmail(ctx context.Context, userEmail string) ([]*model.Category, error)

	// ApplyDiff は差分を単一トランザクションで適用する。
	// deactivateIDsに含まれるカテゴリのアクティブ行をまとめて非アクティブ化し、
	// addsの新規行を挿入する。どちらかが失敗した場合は全体をロールバックする。
	ApplyDiff(ctx context.Context, userEmail string, deactivateIDs []int64, adds []*model.CategoryMembership) error

	// List は全ユーザーの紐付け行をlimit/offsetでページングして返す。
	List(ctx context.Context, limit, offset int) ([]*model.CategoryMembership, error)
}

// ScheduleRepository は週次通知スケジュールデータの永続化インターフェース。
type ScheduleRepository interface {
	// ListByUserEmail は指定ユーザーのスケジュールを作成順で返す。
	ListByUserEmail(ctx context.Context, userEmail string) ([]*model.ScheduleEntry, error)

	// ReplaceByUserEmail は指定ユーザーの既存スケジュールを全削除し、
	// entriesを挿入する。削除と挿入は単一トランザクションで実行する。
	ReplaceByUserEmail(ctx context.Context, userEmail string, entries []*model.ScheduleEntry) error

	// List は全ユーザーのスケジュールをlimit/offsetでページングして返す。
	List(ctx context.Context, limit, offset int) ([]*model.ScheduleEntry, error)
}
