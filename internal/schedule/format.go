package schedule

import (
	"fmt"
	"strings"
	"time"

	"schedhub/pkg/models"
)

// FormatText renders a merged day schedule into the single-string widget
// format (KWGT-compatible, "\n" separated). Each line is the format
// template with its tokens substituted; cancelled lessons show the
// original lesson and classroom with an ОТМЕНА status, replacements get a
// ЗАМЕНА status. Tokens are replaced in a fixed order so output is
// deterministic.
func FormatText(schedule []models.ResolvedLesson, parityName, format string, today time.Time) string {
	header := fmt.Sprintf("[c=d35400]Неделя: %s[/c] [c=3498db]| %s[/c]\n", parityName, today.Format("02.01"))
	if len(schedule) == 0 {
		return header + "\n🎉 Пар/занятий нет."
	}

	lines := make([]string, 0, len(schedule))
	for _, pair := range schedule {
		tokens := [][2]string{
			{"%NUM%", fmt.Sprintf("%d", pair.PairNum)},
			{"%TEACHER%", orDefault(pair.Teacher, "Н/У")},
			{"%BR%", "\n"},
			{"%LESSON%", orDefault(pair.Lesson, "Не указано")},
			{"%ROOM%", orDefault(pair.Classroom, "Н/У")},
			{"%OLD_ROOM%", orDefault(pair.OldClassroom, "Н/У")},
			{"%STATUS%", ""},
		}

		line := format
		switch {
		case pair.IsCancellation:
			setToken(tokens, "%STATUS%", "ОТМЕНА")
			setToken(tokens, "%LESSON%", orDefault(pair.OldLesson, "???"))
			setToken(tokens, "%ROOM%", orDefault(pair.OldClassroom, "Н/У"))
			line = fmt.Sprintf("[c=e74c3c]🚫 %s[/c]", line)
		case pair.IsReplacement:
			setToken(tokens, "%STATUS%", "ЗАМЕНА")
			line = fmt.Sprintf("[c=f39c12]🔄 %s[/c]", line)
		}

		for _, kv := range tokens {
			line = strings.ReplaceAll(line, kv[0], kv[1])
		}
		line = strings.TrimSpace(strings.ReplaceAll(line, "[]", ""))
		lines = append(lines, line)
	}

	return header + strings.Join(lines, "\n")
}

// ReplaceHeader swaps the first line of a formatted schedule for a
// replacements banner naming the day the overrides apply to.
func ReplaceHeader(text string, date time.Time, weekdayName string) string {
	banner := fmt.Sprintf("[c=e74c3c]ЗАМЕНЫ на %s, %s[/c]", weekdayName, date.Format("02.01"))
	if i := strings.Index(text, "\n"); i >= 0 {
		return banner + text[i:]
	}
	return banner
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func setToken(tokens [][2]string, key, value string) {
	for i := range tokens {
		if tokens[i][0] == key {
			tokens[i][1] = value
			return
		}
	}
}
