// Package model はドメインモデルを定義する。
package model

import "time"

// CategoryMembership はユーザーとカテゴリの紐付けを表す。
// 物理削除は行わず、is_activatedフラグによるソフトデリートで履歴を保持する。
// 同一(user_email, category_id)ペアの過去行が複数存在しうるが、
// アクティブな行として意味を持つのは最新の1行のみ。
type CategoryMembership struct {
	ID          string
	UserEmail   string
	CategoryID  int64
	IsActivated bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category は配信カテゴリのカタログエントリを表す。
// カタログはマイグレーションでシードされ、APIからは変更しない。
type Category struct {
	ID    int64
	Title string
}
