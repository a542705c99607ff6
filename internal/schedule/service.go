package schedule

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"schedhub/pkg/dateutil"
	"schedhub/pkg/models"
)

// SnapshotProvider yields the current replacement snapshot, refreshing it
// when the cooldown allows. Implemented by replacements.Fetcher.
type SnapshotProvider interface {
	Get(force bool) *models.ReplacementSnapshot
}

// Service ties the base schedule stores, the replacement snapshot and the
// merged-schedule cache together. All methods are safe for concurrent use.
type Service struct {
	groups       *Store
	teachers     *Store
	fetch        SnapshotProvider
	cache        *mergedCache
	cancelMarker string
	log          zerolog.Logger
	now          func() time.Time
}

func NewService(groups, teachers *Store, fetch SnapshotProvider, cancelMarker string, log zerolog.Logger) *Service {
	return &Service{
		groups:       groups,
		teachers:     teachers,
		fetch:        fetch,
		cache:        newMergedCache(),
		cancelMarker: cancelMarker,
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) storeFor(kind models.EntityKind) *Store {
	if kind == models.KindTeacher {
		return s.teachers
	}
	return s.groups
}

// HasEntity reports whether an entity exists in the base schedule.
func (s *Service) HasEntity(kind models.EntityKind, name string) bool {
	return s.storeFor(kind).Has(name)
}

// Groups returns all known group names, sorted.
func (s *Service) Groups() []string { return s.groups.Entities() }

// ParityName returns the display name of the current week's parity.
func (s *Service) ParityName() string {
	return dateutil.ParityName(dateutil.WeekParity(s.now()))
}

// Snapshot exposes the replacement snapshot for freshness queries.
func (s *Service) Snapshot(force bool) *models.ReplacementSnapshot {
	return s.fetch.Get(force)
}

// DaySchedule returns the effective schedule of one entity for a date:
// the recurring base filtered by the current week parity with the
// replacement rows overlaid when the snapshot's announcement date matches
// the target date. Results are memoized per (date, kind, entity,
// snapshot generation), so a fresh snapshot naturally recomputes.
func (s *Service) DaySchedule(date time.Time, entity string, kind models.EntityKind) []models.ResolvedLesson {
	snap := s.fetch.Get(false)
	key := mergedKey(date, kind, entity, snap.Generation)
	if v, ok := s.cache.get(key); ok {
		return v
	}

	base := s.storeFor(kind).DayLessons(entity, dateutil.WeekdayName(date), dateutil.WeekParity(s.now()))
	var rows []models.ReplacementRow
	if snap.Date != nil && dateutil.SameDay(*snap.Date, date) {
		rows = snap.Rows
	}
	merged := applyReplacements(base, rows, entity, kind == models.KindTeacher, s.cancelMarker)
	s.cache.put(key, merged)
	s.log.Debug().
		Str("entity", entity).
		Str("kind", string(kind)).
		Str("date", date.Format("2006-01-02")).
		Int("lessons", len(merged)).
		Int("replacement_rows", len(rows)).
		Msg("день расписания пересчитан")
	return merged
}

// DayView is one rendered day of the HTML schedule page.
type DayView struct {
	Name    string
	Date    time.Time
	Lessons []models.ResolvedLesson
}

// DisplaySchedule builds the HTML page data for a group: the merged
// current week for view "week", or the single relevant day for "today" /
// "tomorrow" (a target landing on Sunday rolls over to next Monday).
// It returns the day views, the page title and a note describing which
// date the replacements were applied to.
func (s *Service) DisplaySchedule(group, view string) ([]DayView, string, string) {
	snap := s.fetch.Get(false)
	today := dateutil.Midnight(s.now())
	monday := today.AddDate(0, 0, -dateutil.WeekdayIndex(today))
	numerator := dateutil.WeekParity(s.now())

	week := make([]DayView, 0, 6)
	for i := 0; i < 6; i++ {
		day := monday.AddDate(0, 0, i)
		base := s.groups.DayLessons(group, dateutil.WeekdayName(day), numerator)
		var rows []models.ReplacementRow
		if snap.Date != nil && dateutil.SameDay(*snap.Date, day) {
			rows = snap.Rows
		}
		week = append(week, DayView{
			Name:    dateutil.WeekdayName(day),
			Date:    day,
			Lessons: applyReplacements(base, rows, group, false, s.cancelMarker),
		})
	}

	appliedTo := "Замены не найдены"
	if snap.Date != nil {
		appliedTo = fmt.Sprintf("Замены применены к %s", snap.Date.Format("02.01"))
	}

	if view == "week" {
		return week, "Расписание на Неделю", appliedTo
	}

	target := today
	label := "Сегодня"
	if view == "tomorrow" {
		target = today.AddDate(0, 0, 1)
		label = "Завтра"
	}
	if dateutil.WeekdayIndex(target) >= 6 {
		target = today.AddDate(0, 0, 7-dateutil.WeekdayIndex(today))
	}
	title := fmt.Sprintf("Расписание на %s, %s", label, target.Format("02.01"))

	// after the Sunday rollover the target is always Monday..Saturday,
	// so a matching day view exists in the built week
	name := dateutil.WeekdayName(target)
	for _, day := range week {
		if day.Name == name {
			return []DayView{day}, title, appliedTo
		}
	}
	return nil, title, appliedTo
}
