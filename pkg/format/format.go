// Package format holds the pure display helpers shared by the client:
// phone numbers, file sizes and types, dates and short text.
package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// labels used by FormatDate
const (
	TodayLabel     = "Aujourd'hui"
	YesterdayLabel = "Hier"
)

var (
	frenchPhoneRe = regexp.MustCompile(`^(?:\+33|0)[1-9](?:[0-9]{8})$`)
	linkRe        = regexp.MustCompile(`https?://[^\s]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

var fileSizeUnits = []string{"B", "KB", "MB", "GB"}

// StripSpaces remove every whitespace rune
func StripSpaces(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}

// FormatPhoneNumber group a French number as "+33 6 12 34 56 78".
// Numbers not starting with 33 (after dropping non-digits) are returned as is.
func FormatPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	if !strings.HasPrefix(digits, "33") {
		return phone
	}

	parts := []string{"+" + slice(digits, 0, 2)}
	for _, b := range [][2]int{{2, 3}, {3, 5}, {5, 7}, {7, 9}, {9, 11}} {
		parts = append(parts, slice(digits, b[0], b[1]))
	}
	return strings.Join(parts, " ")
}

// slice s[from:to] clamped to len(s)
func slice(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// IsValidPhoneNumber French mobile/landline, spaces ignored
func IsValidPhoneNumber(phone string) bool {
	return frenchPhoneRe.MatchString(StripSpaces(phone))
}

// FormatFileSize 1536 -> "1.5 KB"
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	const k = 1024.0
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(k, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + fileSizeUnits[i]
}

// FileExtension lower-cased text after the last dot, or the whole name
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	return strings.ToLower(filename[idx+1:])
}

// FormatTime "15:04" in t's location
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDate "Aujourd'hui", "Hier" or dd/mm/yyyy, relative to now
func FormatDate(t, now time.Time) string {
	t = t.In(now.Location())
	if sameDay(t, now) {
		return TodayLabel
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return YesterdayLabel
	}
	return t.Format("02/01/2006")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Truncate cut text to maxLength runes and add "..."
func Truncate(text string, maxLength int) string {
	r := []rune(text)
	if len(r) <= maxLength {
		return text
	}
	return string(r[:maxLength]) + "..."
}

// DetectLinks http(s) URLs in text, in order
func DetectLinks(text string) []string {
	return linkRe.FindAllString(text, -1)
}
