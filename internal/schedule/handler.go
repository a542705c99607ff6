package schedule

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"schedhub/pkg/dateutil"
	"schedhub/pkg/models"
)

// Handler exposes the schedule engine over HTTP: the HTML pages, the JSON
// API and the plain-text widget endpoints.
type Handler struct {
	Svc        *Service
	TextFormat string
	Log        zerolog.Logger

	now func() time.Time
}

func NewHandler(svc *Service, textFormat string, log zerolog.Logger) *Handler {
	return &Handler{Svc: svc, TextFormat: textFormat, Log: log, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/groups")
	})
	r.GET("/health", h.health)
	r.GET("/groups", h.listGroups)
	r.GET("/schedule/*group", h.showSchedule)

	api := r.Group("/api")
	api.GET("/replacements_date", h.replacementsDate)
	api.GET("/schedule_by_date/*group", h.scheduleByDate)
	api.GET("/teacher_schedule_by_date/*teacher", h.teacherScheduleByDate)
	api.GET("/schedule/today_text/*group", h.todayText)
	api.GET("/schedule_for_replacements/*group", h.scheduleForReplacements)
	api.GET("/schedule/replacements_text/*group", h.replacementsText)
}

// entityParam reads a wildcard path parameter. Entity names may contain
// "/" (joint groups) and arrive percent-encoded, so plain :params do not
// work here.
func entityParam(c *gin.Context, name string) string {
	raw := strings.TrimPrefix(c.Param(name), "/")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return strings.TrimSpace(raw)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "groups": len(h.Svc.Groups())})
}

func (h *Handler) listGroups(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	groups := h.Svc.Groups()
	if search != "" {
		needle := strings.ToLower(search)
		filtered := groups[:0:0]
		for _, g := range groups {
			if strings.Contains(strings.ToLower(g), needle) {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}
	c.HTML(http.StatusOK, "group_list.html", gin.H{
		"groups":      groups,
		"search_term": search,
	})
}

func (h *Handler) showSchedule(c *gin.Context) {
	group := entityParam(c, "group")
	if !h.Svc.HasEntity(models.KindGroup, group) {
		c.String(http.StatusNotFound, "Group not found")
		return
	}
	view := c.DefaultQuery("view_type", "today")

	days, title, appliedTo := h.Svc.DisplaySchedule(group, view)
	snap := h.Svc.Snapshot(false)
	c.HTML(http.StatusOK, "schedule_view.html", gin.H{
		"group_name":              group,
		"group_name_encoded":      url.PathEscape(group),
		"days":                    days,
		"view_type":               view,
		"display_title":           title,
		"replacements_applied_to": appliedTo,
		"week_type_display":       h.Svc.ParityName(),
		"cache_time":              snap.FetchedAt.Format("15:04:05"),
	})
}

func (h *Handler) replacementsDate(c *gin.Context) {
	snap := h.Svc.Snapshot(false)
	var date any
	if snap.Date != nil {
		date = snap.Date.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, gin.H{
		"is_available":      snap.Date != nil && len(snap.Rows) > 0,
		"replacements_date": date,
		"date_info_text":    snap.DateText,
		"last_cache_update": snap.FetchedAt.Format("15:04:05"),
		"errors":            snap.Errors,
	})
}

func (h *Handler) scheduleByDate(c *gin.Context) {
	h.entityScheduleByDate(c, entityParam(c, "group"), models.KindGroup)
}

func (h *Handler) teacherScheduleByDate(c *gin.Context) {
	h.entityScheduleByDate(c, entityParam(c, "teacher"), models.KindTeacher)
}

func (h *Handler) entityScheduleByDate(c *gin.Context, entity string, kind models.EntityKind) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'date=YYYY-MM-DD' is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	if !h.Svc.HasEntity(kind, entity) {
		c.JSON(http.StatusNotFound, gin.H{"error": string(kind) + " not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query_" + string(kind): entity,
		"target_date":           date.Format("2006-01-02"),
		"week_type_ru":          h.Svc.ParityName(),
		"schedule":              h.Svc.DaySchedule(date, entity, kind),
	})
}

func (h *Handler) todayText(c *gin.Context) {
	group := entityParam(c, "group")
	if !h.Svc.HasEntity(models.KindGroup, group) {
		c.String(http.StatusNotFound, "Error: Group not found.")
		return
	}
	today := h.now()
	schedule := h.Svc.DaySchedule(dateutil.Midnight(today), group, models.KindGroup)
	c.String(http.StatusOK, "%s", FormatText(schedule, h.Svc.ParityName(), h.TextFormat, today))
}

func (h *Handler) scheduleForReplacements(c *gin.Context) {
	group := entityParam(c, "group")
	if !h.Svc.HasEntity(models.KindGroup, group) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	snap := h.Svc.Snapshot(false)
	if snap.Date == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "replacements date not available yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query_group": group,
		"target_date": snap.Date.Format("2006-01-02"),
		"schedule":    h.Svc.DaySchedule(*snap.Date, group, models.KindGroup),
	})
}

func (h *Handler) replacementsText(c *gin.Context) {
	group := entityParam(c, "group")
	if !h.Svc.HasEntity(models.KindGroup, group) {
		c.String(http.StatusNotFound, "Error: Group not found.")
		return
	}
	snap := h.Svc.Snapshot(false)
	if snap.Date == nil {
		c.String(http.StatusOK, "Info: Replacements date not available yet.")
		return
	}
	schedule := h.Svc.DaySchedule(*snap.Date, group, models.KindGroup)
	text := FormatText(schedule, h.Svc.ParityName(), h.TextFormat, h.now())
	c.String(http.StatusOK, "%s", ReplaceHeader(text, *snap.Date, dateutil.WeekdayName(*snap.Date)))
}
