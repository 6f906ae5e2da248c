// Package schedule exposes the planner over a JSON API.
package schedule

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/studyplan/app"
	"github.com/kilianp07/studyplan/core/history"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
	corestore "github.com/kilianp07/studyplan/core/store"
	"github.com/kilianp07/studyplan/core/workload"
	"github.com/kilianp07/studyplan/infra/logger"
	"github.com/kilianp07/studyplan/pkg/export"
)

// Planner is the subset of app.Service the handlers use.
type Planner interface {
	Generate(ctx context.Context, userID string, wl workload.Workload) (*scheduler.Plan, error)
	Week(ctx context.Context, userID string, ref time.Time) (app.WeekView, error)
	MarkStatus(ctx context.Context, userID, sessionID string, status model.SessionStatus) (model.Session, error)
	Reschedule(ctx context.Context, userID, sessionID string) (scheduler.RescheduleResult, error)
	Validate(ctx context.Context, userID string, wl workload.Workload) (scheduler.ValidationReport, error)
	History(ctx context.Context, q history.Query) ([]history.Record, error)
}

type Handler struct {
	planner Planner
	log     logger.Logger
}

func NewHandler(p Planner, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{planner: p, log: log}
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	users := r.Group("/api/users/:user")
	users.POST("/plan", h.HandlePlan)
	users.POST("/validate", h.HandleValidate)
	users.GET("/week", h.HandleWeek)
	users.GET("/history", h.HandleHistory)
	users.PUT("/sessions/:id/status", h.HandleStatus)
	users.POST("/sessions/:id/reschedule", h.HandleReschedule)
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case app.IsInvalidInput(err):
		code = http.StatusBadRequest
	case errors.Is(err, corestore.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, app.ErrAlreadyRescheduled):
		code = http.StatusConflict
	default:
		h.log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(code, errorResponse{Error: err.Error()})
}

func (h *Handler) bindWorkload(c *gin.Context) (workload.Workload, bool) {
	var doc workload.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return workload.Workload{}, false
	}
	wl, err := doc.Workload(time.Now())
	if err != nil {
		h.respondError(c, err)
		return workload.Workload{}, false
	}
	return wl, true
}

// HandlePlan generates and stores the week described by the request body.
func (h *Handler) HandlePlan(c *gin.Context) {
	wl, ok := h.bindWorkload(c)
	if !ok {
		return
	}
	plan, err := h.planner.Generate(c.Request.Context(), c.Param("user"), wl)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleValidate checks the stored week against the request body.
func (h *Handler) HandleValidate(c *gin.Context) {
	wl, ok := h.bindWorkload(c)
	if !ok {
		return
	}
	report, err := h.planner.Validate(c.Request.Context(), c.Param("user"), wl)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleWeek returns the stored week containing ?date= (today when absent).
// ?format=csv returns the sessions as CSV.
func (h *Handler) HandleWeek(c *gin.Context) {
	ref := time.Now()
	if s := c.Query("date"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid date, expected YYYY-MM-DD"})
			return
		}
		ref = d
	}
	view, err := h.planner.Week(c.Request.Context(), c.Param("user"), ref)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		if err := export.WriteCSV(c.Writer, view.Schedule); err != nil {
			h.log.Errorf("write csv: %v", err)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleStatus updates the status of one session.
func (h *Handler) HandleStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	status, err := model.ParseSessionStatus(req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	sess, err := h.planner.MarkStatus(c.Request.Context(), c.Param("user"), c.Param("id"), status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// HandleReschedule redistributes a missed session.
func (h *Handler) HandleReschedule(c *gin.Context) {
	res, err := h.planner.Reschedule(c.Request.Context(), c.Param("user"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleHistory lists recorded events, optionally filtered by ?kind= and
// an RFC3339 ?from= / ?to= range.
func (h *Handler) HandleHistory(c *gin.Context) {
	q := history.Query{UserID: c.Param("user"), Kind: c.Query("kind")}
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &q.Start}, {"to", &q.End}} {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid " + p.name + " time format, expected RFC3339"})
			return
		}
		*p.dst = t
	}
	recs, err := h.planner.History(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	c.JSON(http.StatusOK, recs)
}
