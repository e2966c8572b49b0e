package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"+33612345678":      "+33 6 12 34 56 78",
		"33 6 12 34 56 78":  "+33 6 12 34 56 78",
		"0612345678":        "0612345678",
		"+1 (555) 010-9999": "+1 (555) 010-9999",
		"33612":             "+33 6 12   ",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPhoneNumber(in), in)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	assert.True(t, IsValidPhoneNumber("+33611111111"))
	assert.True(t, IsValidPhoneNumber("06 12 34 56 78"))
	assert.False(t, IsValidPhoneNumber("+33011111111"))
	assert.False(t, IsValidPhoneNumber("12345"))
	assert.False(t, IsValidPhoneNumber(""))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.35 MB", FormatFileSize(2464153))
	assert.Equal(t, "5 GB", FormatFileSize(5<<30))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("Report.Final.PDF"))
	assert.Equal(t, "readme", FileExtension("README"))
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, TodayLabel, FormatDate(now.Add(-2*time.Hour), now))
	assert.Equal(t, YesterdayLabel, FormatDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "01/03/2024", FormatDate(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "09:05", FormatTime(time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)))
}

func TestTruncateAndLinks(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "héll...", Truncate("héllo world", 4))
	assert.Equal(t,
		[]string{"https://a.example/x", "http://b.example"},
		DetectLinks("see https://a.example/x and http://b.example now"))
	assert.Empty(t, DetectLinks("no links"))
	assert.Equal(t, "+33622222222", StripSpaces(" +33 6 22 22 22 22 "))
}
