package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/models"
	"github.com/hireline/timeline/internal/service"
)

// TimelineHandler serves the activity timeline endpoints.
type TimelineHandler struct {
	svc TimelineService
	log *logrus.Logger
}

// NewTimelineHandler creates a TimelineHandler with the given service and logger.
func NewTimelineHandler(svc TimelineService, log *logrus.Logger) *TimelineHandler {
	return &TimelineHandler{svc: svc, log: log}
}

// filterFromQuery reads the filter selectors from the query string.
// Missing selectors take the default view's values.
func filterFromQuery(c *gin.Context) models.FilterState {
	def := models.DefaultFilterState()

	return models.FilterState{
		SearchTerm: c.Query("search"),
		Category:   c.DefaultQuery("category", def.Category),
		Type:       c.DefaultQuery("type", def.Type),
		TimeRange:  models.ParseTimeRange(c.DefaultQuery("time_range", string(def.TimeRange))),
	}
}

// List handles GET /api/v1/timeline.
func (h *TimelineHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	page, err := h.svc.Query(filter, limit, offset)
	if err != nil {
		respondServiceError(c, h.log, "timeline.list", err)

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":     "timeline.list",
		"category":   filter.Category,
		"type":       filter.Type,
		"time_range": filter.TimeRange,
		"count":      len(page.Events),
	}).Debug("timeline query")

	c.JSON(http.StatusOK, page)
}

// Stats handles GET /api/v1/timeline/stats.
func (h *TimelineHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

// refreshResponse is the JSON payload returned by a manual refresh.
type refreshResponse struct {
	Events      int                 `json:"events"`
	Records     int                 `json:"records"`
	Stats       models.DerivedStats `json:"stats"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// Refresh handles POST /api/v1/timeline/refresh.
func (h *TimelineHandler) Refresh(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context(), service.TriggerManual)
	if err != nil {
		respondServiceError(c, h.log, "timeline.refresh", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "timeline.refresh", "events": len(snap.Events)}).Info("audit")

	c.JSON(http.StatusOK, refreshResponse{
		Events:      len(snap.Events),
		Records:     snap.Records,
		Stats:       snap.Stats,
		RefreshedAt: snap.RefreshedAt,
	})
}
