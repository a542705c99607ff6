package models

// Recurrence values used in the base schedule JSON. A missing or empty
// type on a slot means Weekly.
const (
	RecurWeekly  = "Еженедельно"
	RecurEven    = "Четная"
	RecurOdd     = "Нечетная"
)

// NoLessonSentinel marks an empty slot in the base schedule; such slots
// never appear in a resolved day schedule.
const NoLessonSentinel = "(Нет пары)"

// Fallback display values for fields the source data leaves blank.
const (
	UnknownTeacher   = "Не указан"
	UnknownClassroom = "Не указана"
)

// EntityKind distinguishes the two kinds of schedule subjects.
type EntityKind string

const (
	KindGroup   EntityKind = "group"
	KindTeacher EntityKind = "teacher"
)

// LessonSlot is one recurring entry of the base weekly schedule as stored
// in the schedule JSON file. Slots are immutable once loaded; merging
// always works on ResolvedLesson copies.
type LessonSlot struct {
	PairNum   int    `json:"pair_num"`            // lesson period, 1-based
	Lesson    string `json:"lesson"`              // may embed "(teacher)"
	Classroom string `json:"classroom,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Type      string `json:"type,omitempty"`  // RecurWeekly / RecurEven / RecurOdd
	Group     string `json:"group,omitempty"` // set in teacher schedules
}

// ResolvedLesson is one entry of an effective day schedule: a LessonSlot
// copy with the replacement overlay applied. OldLesson/OldClassroom keep
// the pre-replacement values so cancellations can still show what was
// originally planned.
type ResolvedLesson struct {
	PairNum        int    `json:"pair_num"`
	Lesson         string `json:"lesson"`
	Classroom      string `json:"classroom"`
	Teacher        string `json:"teacher"`
	Group          string `json:"group,omitempty"`
	IsReplacement  bool   `json:"is_replacement"`
	IsCancellation bool   `json:"is_cancellation"`
	OldLesson      string `json:"old_lesson"`
	OldClassroom   string `json:"old_classroom"`
}
