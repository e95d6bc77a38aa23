// Package api exposes runs, complaints and the heat map over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"civic_ingest/internal/mapdata"
	"civic_ingest/internal/model"
	"civic_ingest/internal/neglect"
	"civic_ingest/internal/pipeline"
	"civic_ingest/internal/scheduler"
	"civic_ingest/internal/source"
	"civic_ingest/internal/storage"
)

// Ingestor starts, inspects and cancels ingestion runs.
type Ingestor interface {
	StartFrom(ctx context.Context, src scheduler.PostSource) (int, error)
	Snapshot() scheduler.Snapshot
	Cancel()
}

// Handler holds the HTTP handlers.
type Handler struct {
	runs       Ingestor
	feed       source.Feed
	store      storage.Storage
	detect     pipeline.DetectFunc
	classifier pipeline.Classifier
	log        *slog.Logger
	now        func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(runs Ingestor, feed source.Feed, store storage.Storage,
	detect pipeline.DetectFunc, cls pipeline.Classifier, log *slog.Logger) *Handler {
	return &Handler{
		runs:       runs,
		feed:       feed,
		store:      store,
		detect:     detect,
		classifier: cls,
		log:        log,
		now:        time.Now,
	}
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetRun handles GET /api/run.
func (h *Handler) GetRun(c *gin.Context) {
	snap := h.runs.Snapshot()
	if status := c.Query("status"); status != "" && status != "all" {
		snap.Posts = snap.Filter(model.PostStatus(status))
	}
	c.JSON(http.StatusOK, snap)
}

// StartRun handles POST /api/run.
func (h *Handler) StartRun(c *gin.Context) {
	n, err := h.runs.StartFrom(c.Request.Context(), h.feed)
	switch {
	case errors.Is(err, scheduler.ErrRunning):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, scheduler.ErrNoPosts):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.log.Error("start run", "error", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	snap := h.runs.Snapshot()
	h.log.Info("run requested", "run_id", snap.RunID, "posts", n, "remote", c.ClientIP())
	c.JSON(http.StatusAccepted, StartRunResponse{RunID: snap.RunID, Posts: n})
}

// CancelRun handles DELETE /api/run.
func (h *Handler) CancelRun(c *gin.Context) {
	h.runs.Cancel()
	c.JSON(http.StatusOK, h.runs.Snapshot())
}

// ListComplaints handles GET /api/complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	opts := storage.ListOptions{
		Status:  model.Status(c.Query("status")),
		Urgency: model.Urgency(c.Query("urgency")),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		opts.Limit = n
	}

	records, err := h.store.ListComplaints(c.Request.Context(), opts)
	if err != nil {
		h.log.Error("list complaints", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	now := h.now()
	views := make([]ComplaintView, 0, len(records))
	for _, r := range records {
		views = append(views, ComplaintView{ComplaintRecord: r, Neglected: neglect.IsNeglectedAt(r, now)})
	}
	c.JSON(http.StatusOK, ComplaintsResponse{Complaints: views, Total: len(views)})
}

// GetComplaint handles GET /api/complaints/:code.
func (h *Handler) GetComplaint(c *gin.Context) {
	rec, err := h.store.GetComplaintByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ComplaintView{ComplaintRecord: *rec, Neglected: neglect.IsNeglectedAt(*rec, h.now())})
}

// UpdateStatus handles PATCH /api/complaints/:code.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown status " + string(req.Status)})
		return
	}

	code := c.Param("code")
	if err := h.store.UpdateStatus(c.Request.Context(), code, req.Status); err != nil {
		h.storeError(c, err)
		return
	}
	h.log.Info("complaint status changed", "code", code, "status", req.Status)
	h.GetComplaint(c)
}

// Upvote handles POST /api/complaints/:code/upvote.
func (h *Handler) Upvote(c *gin.Context) {
	code := c.Param("code")
	n, err := h.store.Upvote(c.Request.Context(), code)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, UpvoteResponse{DisplayCode: code, Upvotes: n})
}

// Map handles GET /api/map.
func (h *Handler) Map(c *gin.Context) {
	records, err := h.store.ListComplaints(c.Request.Context(), storage.ListOptions{})
	if err != nil {
		h.log.Error("list complaints", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	filter := model.Urgency(c.Query("urgency"))
	if filter == "all" {
		filter = ""
	}
	points := mapdata.Points(records, filter, h.now())
	if points == nil {
		points = []mapdata.Point{}
	}
	c.JSON(http.StatusOK, MapResponse{Points: points, Summary: mapdata.Summarize(points)})
}

// Classify handles POST /api/classify. Nothing is stored.
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid classify request", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{
		Verdict:        h.detect(req.Text),
		Classification: h.classifier.Classify(req.Text, req.Hint),
	})
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	h.log.Error("complaint store", "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
