package schedule

import (
	"strconv"
	"strings"

	"schedhub/pkg/models"
)

type replacementKey struct {
	group   string
	pairNum string
}

// applyReplacements overlays replacement rows onto a base day schedule
// and returns a fresh slice; neither input is mutated and calling it
// twice with the same inputs yields identical output.
//
// Conflict resolution, kept exactly as the upstream data demands:
//   - the row index is built in iteration order and a later row for the
//     same (group, pair) key overwrites an earlier one;
//   - per base lesson the candidate group tokens (the entity name split
//     on "/" for groups, the slot's own group for teachers) are probed in
//     order and the first hit wins.
//
// A row whose replacement text contains cancelMarker flags the lesson as
// cancelled; the pre-replacement lesson and classroom stay available in
// OldLesson/OldClassroom, which is what gets displayed for cancellations.
func applyReplacements(base []models.ResolvedLesson, rows []models.ReplacementRow, entityName string, isTeacher bool, cancelMarker string) []models.ResolvedLesson {
	merged := make([]models.ResolvedLesson, len(base))
	copy(merged, base)
	if len(rows) == 0 {
		return merged
	}

	index := make(map[replacementKey]models.ReplacementRow, len(rows))
	for _, row := range rows {
		if row.PairNum == "" || row.Group == "" {
			continue
		}
		for _, group := range strings.Split(row.Group, "/") {
			index[replacementKey{strings.TrimSpace(group), row.PairNum}] = row
		}
	}

	for i := range merged {
		pairNum := strconv.Itoa(merged[i].PairNum)
		var candidates []string
		if isTeacher {
			group := merged[i].Group
			if group == "" {
				group = "???"
			}
			candidates = []string{group}
		} else {
			for _, g := range strings.Split(entityName, "/") {
				candidates = append(candidates, strings.TrimSpace(g))
			}
		}

		for _, group := range candidates {
			row, ok := index[replacementKey{group, pairNum}]
			if !ok {
				continue
			}
			lesson, teacher := SplitTeacher(row.ReplacementLesson)
			classroom := row.Classroom
			if classroom == "" {
				classroom = models.UnknownClassroom
			}

			merged[i].Lesson = lesson
			merged[i].Classroom = classroom
			if teacher != models.UnknownTeacher {
				merged[i].Teacher = teacher
			}
			merged[i].IsReplacement = true
			merged[i].IsCancellation = strings.Contains(row.ReplacementLesson, cancelMarker)
			break
		}
	}
	return merged
}
