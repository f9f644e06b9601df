package model

import "time"

// ScheduleEntry はユーザーの週次通知スケジュールの1エントリを表す。
// スケジュールはソフトデリートせず、更新のたびに全行を削除して再作成する。
type ScheduleEntry struct {
	ID        string
	UserEmail string
	DayOfWeek int
	CreatedAt time.Time
}

// 曜日の値域。0=日曜〜6=土曜。
const (
	DayOfWeekMin = 0
	DayOfWeekMax = 6
)

// dayOfWeekNames は曜日値に対応する英語名。ログおよびデバッグ用。
var dayOfWeekNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// IsValidDayOfWeek は曜日値が0〜6の範囲内かどうかを返す。
func IsValidDayOfWeek(d int) bool {
	return d >= DayOfWeekMin && d <= DayOfWeekMax
}

// DayOfWeekName は曜日値の英語名を返す。範囲外の場合は空文字列を返す。
func DayOfWeekName(d int) string {
	if !IsValidDayOfWeek(d) {
		return ""
	}
	return dayOfWeekNames[d]
}
