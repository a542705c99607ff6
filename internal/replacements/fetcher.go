// Package replacements fetches the daily replacement tables from the two
// upstream timetable pages and keeps the latest parsed result in a shared
// snapshot behind a cooldown gate.
package replacements

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"schedhub/pkg/config"
	"schedhub/pkg/dateutil"
	"schedhub/pkg/models"
)

const noDateText = "Дата не указана"

// Fetcher owns the process-wide replacement snapshot. The snapshot is
// published through an atomic pointer, so readers always see a complete
// fetch result; refreshes are serialized by a mutex, so concurrent
// callers never trigger more than one upstream fetch pair per generation.
type Fetcher struct {
	cfg    config.Replacements
	client *http.Client
	log    zerolog.Logger
	now    func() time.Time

	mu   sync.Mutex // serializes refreshes
	snap atomic.Pointer[models.ReplacementSnapshot]
}

func NewFetcher(cfg config.Replacements, log zerolog.Logger) *Fetcher {
	f := &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		log:    log,
		now:    time.Now,
	}
	// Zero FetchedAt keeps the initial snapshot permanently stale, the
	// first Get always refreshes.
	f.snap.Store(&models.ReplacementSnapshot{DateText: noDateText})
	return f
}

// Get returns the current snapshot, refreshing it first when the cooldown
// has elapsed or force is set. A caller that blocks behind an in-flight
// refresh observes its published result instead of issuing another fetch;
// a refresh always runs to completion regardless of the caller's fate.
// Fetch failures surface as snapshot Errors, never as a Go error.
func (f *Fetcher) Get(force bool) *models.ReplacementSnapshot {
	cur := f.snap.Load()
	if !force && f.fresh(cur) {
		return cur
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if latest := f.snap.Load(); latest != cur || (!force && f.fresh(latest)) {
		// somebody refreshed while we waited for the lock
		return latest
	}
	snap := f.refresh()
	f.snap.Store(snap)
	return snap
}

func (f *Fetcher) fresh(s *models.ReplacementSnapshot) bool {
	return f.now().Sub(s.FetchedAt) < f.cfg.Cooldown()
}

// refresh queries both upstream sources in order. One source failing does
// not block the other; a refresh with both sources down still yields a
// valid snapshot with empty rows and populated Errors. The announcement
// date is taken from the first source only.
func (f *Fetcher) refresh() *models.ReplacementSnapshot {
	snap := &models.ReplacementSnapshot{
		DateText:   noDateText,
		FetchedAt:  f.now(),
		Generation: uuid.NewString(),
	}
	f.log.Info().Strs("urls", f.cfg.URLs).Msg("запрос к серверам замен")

	for i, url := range f.cfg.URLs {
		label := fmt.Sprintf("%d-ая смена", i+1)
		page, err := f.fetchSource(url)
		if err != nil {
			snap.Errors = append(snap.Errors, fmt.Sprintf("%s: %v", label, err))
			f.log.Warn().Str("url", url).Err(err).Msg("источник замен недоступен")
			continue
		}
		if i == 0 {
			snap.DateText = page.dateText
			snap.Date = dateutil.ParseAnnouncementDate(page.dateText)
		}
		snap.Rows = append(snap.Rows, page.rows...)
	}

	f.log.Info().
		Int("rows", len(snap.Rows)).
		Int("errors", len(snap.Errors)).
		Str("date", snap.DateText).
		Msg("кэш замен обновлен")
	return snap
}

type sourcePage struct {
	rows     []models.ReplacementRow
	dateText string
}

func (f *Fetcher) fetchSource(url string) (*sourcePage, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &sourcePage{dateText: noDateText}
	marker := strings.ToLower(f.cfg.DateMarker)
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}
		if text := strings.TrimSpace(s.Text()); text != "" && strings.Contains(strings.ToLower(text), marker) {
			page.dateText = text
			return false
		}
		return true
	})

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("таблица замен не найдена")
	}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		// header rows and malformed rows have a different cell count;
		// they are skipped, not reported
		if cells.Length() != f.cfg.TableColumns {
			return
		}
		texts := make([]string, cells.Length())
		cells.Each(func(j int, td *goquery.Selection) { texts[j] = strings.TrimSpace(td.Text()) })
		// column order: sequence number, group, pair, scheduled lesson,
		// replacement lesson, classroom
		page.rows = append(page.rows, models.ReplacementRow{
			Group:             texts[1],
			PairNum:           texts[2],
			ScheduledLesson:   texts[3],
			ReplacementLesson: texts[4],
			Classroom:         texts[5],
		})
	})
	return page, nil
}
