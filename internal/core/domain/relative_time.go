package domain

import (
	"fmt"
	"time"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageThai    Language = "th"
)

func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case LanguageEnglish, LanguageThai:
		return l, nil
	}
	return "", ErrInvalidLanguage
}

type relativeLabels struct {
	justNow string
	minutes string
	hours   string
	days    string
	date    string // layout Go
}

var labels = map[Language]relativeLabels{
	LanguageEnglish: {justNow: "just now", minutes: "%dm ago", hours: "%dh ago", days: "%dd ago", date: "1/2/2006"},
	LanguageThai:    {justNow: "เมื่อสักครู่", minutes: "%d นาทีที่แล้ว", hours: "%d ชั่วโมงที่แล้ว", days: "%d วันที่แล้ว", date: "2/1/2006"},
}

// RelativeLabel formate l'écart entre at et now.
// Paliers : <1 min, <60 min, <24 h, <7 j, puis date absolue.
func RelativeLabel(lang Language, at, now time.Time) string {
	l, ok := labels[lang]
	if !ok {
		l = labels[LanguageEnglish]
	}

	diff := now.Sub(at)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return l.justNow
	case mins < 60:
		return fmt.Sprintf(l.minutes, mins)
	case hours < 24:
		return fmt.Sprintf(l.hours, hours)
	case days < 7:
		return fmt.Sprintf(l.days, days)
	}
	return at.Format(l.date)
}
