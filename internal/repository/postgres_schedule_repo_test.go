package repository

import (
	"testing"

	"github.com/hitoshi/digestman/internal/model"
)

// PostgresScheduleRepoはScheduleRepositoryインターフェースを満たすことを検証
func TestPostgresScheduleRepo_ImplementsInterface(t *testing.T) {
	var _ ScheduleRepository = (*PostgresScheduleRepo)(nil)
}

// NewPostgresScheduleRepoが正しく初期化されることを検証
func TestNewPostgresScheduleRepo_Initializes(t *testing.T) {
	repo := NewPostgresScheduleRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// ScheduleEntryモデルのフィールドが正しく構築されることを検証
func TestPostgresScheduleRepo_EntryModel_Fields(t *testing.T) {
	e := &model.ScheduleEntry{
		ID:        "00000000-0000-0000-0000-000000000001",
		UserEmail: "user@example.com",
		DayOfWeek: 5,
	}

	if e.UserEmail != "user@example.com" {
		t.Errorf("e.UserEmail = %q, want %q", e.UserEmail, "user@example.com")
	}
	if e.DayOfWeek != 5 {
		t.Errorf("e.DayOfWeek = %d, want 5", e.DayOfWeek)
	}
}
