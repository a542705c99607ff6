// Package schedule implements the schedule engine: the base weekly
// timetable store, the replacement overlay merge, the memoized day
// schedules, the text formatter and the HTTP handlers on top of them.
package schedule

import (
	"encoding/json"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"schedhub/pkg/models"
)

var teacherParenRe = regexp.MustCompile(`\((.*?)\)`)

// Store is a read-only in-memory snapshot of the recurring weekly
// schedule, keyed entity name -> weekday name -> lesson slots. It is
// loaded once at startup and never mutated afterwards, so concurrent
// reads need no locking.
type Store struct {
	data     map[string]map[string][]models.LessonSlot
	noLesson string
}

// Load reads the schedule JSON at path. A missing or malformed file
// yields an empty store and an error-level log entry; the service keeps
// answering with "no schedule" instead of refusing to start.
func Load(path, noLesson string, log zerolog.Logger) *Store {
	s := &Store{data: map[string]map[string][]models.LessonSlot{}, noLesson: noLesson}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error().Str("path", path).Err(err).Msg("критическая ошибка загрузки расписания")
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = map[string]map[string][]models.LessonSlot{}
		log.Error().Str("path", path).Err(err).Msg("критическая ошибка загрузки расписания")
		return s
	}
	log.Info().Str("path", path).Int("entities", len(s.data)).Msg("расписание загружено")
	return s
}

// NewStore wraps already-built schedule data; used by tests and by
// callers that deserialize elsewhere.
func NewStore(data map[string]map[string][]models.LessonSlot, noLesson string) *Store {
	if data == nil {
		data = map[string]map[string][]models.LessonSlot{}
	}
	return &Store{data: data, noLesson: noLesson}
}

func (s *Store) Has(entity string) bool {
	_, ok := s.data[entity]
	return ok
}

func (s *Store) Len() int { return len(s.data) }

// Entities returns all entity names in sorted order.
func (s *Store) Entities() []string {
	out := make([]string, 0, len(s.data))
	for name := range s.data {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DayLessons resolves the base schedule of one entity for a weekday:
// recurrence-filtered by week parity, the no-lesson sentinel dropped,
// a parenthesised teacher name extracted out of the lesson text, sorted
// by pair number. Every returned lesson starts out as a non-replacement
// with its original lesson/classroom recorded.
func (s *Store) DayLessons(entity, weekday string, numerator bool) []models.ResolvedLesson {
	days, ok := s.data[entity]
	if !ok {
		return nil
	}
	out := make([]models.ResolvedLesson, 0, len(days[weekday]))
	for _, slot := range days[weekday] {
		recur := slot.Type
		if recur == "" {
			recur = models.RecurWeekly
		}
		applies := recur == models.RecurWeekly ||
			(recur == models.RecurEven && numerator) ||
			(recur == models.RecurOdd && !numerator)
		if !applies || slot.Lesson == s.noLesson {
			continue
		}

		lesson, teacher := SplitTeacher(slot.Lesson)
		if teacher == models.UnknownTeacher && slot.Teacher != "" {
			teacher = slot.Teacher
		}
		classroom := slot.Classroom
		if classroom == "" {
			classroom = models.UnknownClassroom
		}

		out = append(out, models.ResolvedLesson{
			PairNum:      slot.PairNum,
			Lesson:       lesson,
			Classroom:    classroom,
			Teacher:      teacher,
			Group:        slot.Group,
			OldLesson:    lesson,
			OldClassroom: classroom,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PairNum < out[j].PairNum })
	return out
}

// SplitTeacher extracts a teacher name from the first parenthesised
// group in a lesson string: "Математика (Иванов И.И.)" becomes
// ("Математика", "Иванов И.И."). Without parentheses the teacher is
// models.UnknownTeacher.
func SplitTeacher(lesson string) (string, string) {
	m := teacherParenRe.FindStringSubmatch(lesson)
	if m == nil {
		return strings.TrimSpace(lesson), models.UnknownTeacher
	}
	teacher := strings.TrimSpace(m[1])
	if teacher == "" {
		teacher = models.UnknownTeacher
	}
	return strings.TrimSpace(strings.ReplaceAll(lesson, m[0], "")), teacher
}
