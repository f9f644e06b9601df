package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsValidDayOfWeek(t *testing.T) {
	tests := []struct {
		day  int
		want bool
	}{
		{-1, false},
		{0, true},
		{3, true},
		{6, true},
		{7, false},
	}

	for _, tt := range tests {
		if got := IsValidDayOfWeek(tt.day); got != tt.want {
			t.Errorf("IsValidDayOfWeek(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestDayOfWeekName(t *testing.T) {
	if got := DayOfWeekName(0); got != "sunday" {
		t.Errorf("DayOfWeekName(0) = %q, want %q", got, "sunday")
	}
	if got := DayOfWeekName(6); got != "saturday" {
		t.Errorf("DayOfWeekName(6) = %q, want %q", got, "saturday")
	}
	if got := DayOfWeekName(7); got != "" {
		t.Errorf("DayOfWeekName(7) = %q, want empty", got)
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewInternalError()
	if err.Error() != fmt.Sprintf("[%s] %s", err.Code, err.Message) {
		t.Errorf("Error() = %q, want code and message", err.Error())
	}
}

// TestAPIError_ErrorsAs はラップされたAPIErrorがerrors.Asで取り出せることを検証する。
func TestAPIError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("取得に失敗しました: %w", NewCategoryNotFoundError("user@example.com"))

	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("expected errors.As to unwrap *APIError")
	}
	if apiErr.Code != ErrCodeNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeNotFound)
	}
}

func TestNewValidationError_CarriesDetails(t *testing.T) {
	err := NewValidationError(map[string]string{"userEmail": "このフィールドは必須です。"})

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeValidation)
	}
	if err.Category != "validation" {
		t.Errorf("Category = %q, want %q", err.Category, "validation")
	}
	if err.Details["userEmail"] == "" {
		t.Error("Details should carry the field-level message")
	}
}

func TestNotFoundErrors_IncludeUserEmail(t *testing.T) {
	catErr := NewCategoryNotFoundError("user@example.com")
	schedErr := NewScheduleNotFoundError("user@example.com")

	if catErr.Code != ErrCodeNotFound || schedErr.Code != ErrCodeNotFound {
		t.Errorf("Codes = %q, %q, want both %q", catErr.Code, schedErr.Code, ErrCodeNotFound)
	}
	if !strings.Contains(catErr.Message, "user@example.com") {
		t.Errorf("category message should include user email, got %q", catErr.Message)
	}
	if !strings.Contains(schedErr.Message, "user@example.com") {
		t.Errorf("schedule message should include user email, got %q", schedErr.Message)
	}
}
