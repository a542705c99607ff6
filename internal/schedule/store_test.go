package schedule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedhub/pkg/models"
)

const noLesson = "(Нет пары)"

func groupStore(data map[string]map[string][]models.LessonSlot) *Store {
	return NewStore(data, noLesson)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	data := `{
		"ИС-21": {
			"Понедельник": [
				{"pair_num": 1, "lesson": "Математика (Иванов И.И.)", "classroom": "204", "type": "Еженедельно"}
			]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s := Load(path, noLesson, zerolog.Nop())
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("ИС-21"))
	assert.False(t, s.Has("ИС-22"))
}

func TestLoad_MissingFileDegradesToEmpty(t *testing.T) {
	s := Load("does/not/exist.json", noLesson, zerolog.Nop())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.DayLessons("ИС-21", "Понедельник", true))
}

func TestLoad_MalformedFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := Load(path, noLesson, zerolog.Nop())
	assert.Equal(t, 0, s.Len())
}

func TestDayLessons_TeacherExtractedFromParens(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"G1": {"Понедельник": {
			{PairNum: 1, Lesson: "Math (Smith)", Classroom: "101", Type: models.RecurWeekly},
		}},
	})

	got := s.DayLessons("G1", "Понедельник", true)
	require.Len(t, got, 1)
	assert.Equal(t, "Math", got[0].Lesson)
	assert.Equal(t, "Smith", got[0].Teacher)
	assert.Equal(t, "101", got[0].Classroom)
	assert.False(t, got[0].IsReplacement)
	assert.Equal(t, "Math", got[0].OldLesson)
	assert.Equal(t, "101", got[0].OldClassroom)
}

func TestDayLessons_SlotTeacherUsedWithoutParens(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"G1": {"Вторник": {
			{PairNum: 2, Lesson: "Физкультура", Teacher: "Петров П.П."},
			{PairNum: 3, Lesson: "Химия"},
		}},
	})

	got := s.DayLessons("G1", "Вторник", false)
	require.Len(t, got, 2)
	assert.Equal(t, "Петров П.П.", got[0].Teacher)
	assert.Equal(t, models.UnknownTeacher, got[1].Teacher)
}

func TestDayLessons_ParityFilter(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"G1": {"Среда": {
			{PairNum: 1, Lesson: "Всегда", Type: models.RecurWeekly},
			{PairNum: 2, Lesson: "Числитель", Type: models.RecurEven},
			{PairNum: 3, Lesson: "Знаменатель", Type: models.RecurOdd},
			{PairNum: 4, Lesson: "Без типа"},
		}},
	})

	numerator := s.DayLessons("G1", "Среда", true)
	require.Len(t, numerator, 3)
	assert.Equal(t, "Всегда", numerator[0].Lesson)
	assert.Equal(t, "Числитель", numerator[1].Lesson)
	assert.Equal(t, "Без типа", numerator[2].Lesson)

	denominator := s.DayLessons("G1", "Среда", false)
	require.Len(t, denominator, 3)
	assert.Equal(t, "Знаменатель", denominator[1].Lesson)
}

func TestDayLessons_SentinelNeverReturned(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"G1": {"Четверг": {
			{PairNum: 1, Lesson: noLesson},
			{PairNum: 2, Lesson: "История"},
		}},
	})

	for _, parity := range []bool{true, false} {
		got := s.DayLessons("G1", "Четверг", parity)
		require.Len(t, got, 1)
		assert.Equal(t, "История", got[0].Lesson)
	}
}

func TestDayLessons_SortedByPairNum(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"G1": {"Пятница": {
			{PairNum: 4, Lesson: "Четвертая"},
			{PairNum: 1, Lesson: "Первая"},
			{PairNum: 3, Lesson: "Третья"},
		}},
	})

	got := s.DayLessons("G1", "Пятница", true)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{got[0].PairNum, got[1].PairNum, got[2].PairNum})
}

func TestDayLessons_UnknownEntity(t *testing.T) {
	s := groupStore(nil)
	assert.Nil(t, s.DayLessons("нет такой", "Понедельник", true))
}

func TestEntities_Sorted(t *testing.T) {
	s := groupStore(map[string]map[string][]models.LessonSlot{
		"ТМ-20": {}, "ИС-21": {}, "СА-22": {},
	})
	assert.Equal(t, []string{"ИС-21", "СА-22", "ТМ-20"}, s.Entities())
}

func TestSplitTeacher(t *testing.T) {
	lesson, teacher := SplitTeacher("Математика (Иванов И.И.)")
	assert.Equal(t, "Математика", lesson)
	assert.Equal(t, "Иванов И.И.", teacher)

	lesson, teacher = SplitTeacher("Физика")
	assert.Equal(t, "Физика", lesson)
	assert.Equal(t, models.UnknownTeacher, teacher)
}
