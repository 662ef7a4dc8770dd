package utils

import (
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// JalaliDate formats a time as a Jalali date string, e.g. "1404/06/10".
func JalaliDate(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd")
}

// JalaliDateTime formats a time as a Jalali date-time string, e.g. "1404/06/10 14:30".
func JalaliDateTime(t time.Time) string {
	return ptime.New(t).Format("yyyy/MM/dd HH:mm")
}
