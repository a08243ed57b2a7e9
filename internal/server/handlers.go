package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
	"nearby-places/internal/excel"
	"nearby-places/internal/jobs"
	"nearby-places/internal/models"
)

const (
	sessionLatKey = "marker_lat"
	sessionLngKey = "marker_lng"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{Places: h.ranker.Catalog()})
}

func (h *Handler) Nearest(c *gin.Context) {
	var req NearestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	query := models.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	if err := calculator.ValidateCoordinate(query); err != nil {
		badRequest(c, err)
		return
	}

	k := h.ranker.Limit()
	if req.K != nil {
		k = *req.K
	}

	ranked, err := h.ranker.RankN(query, k)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, newRankingResponse(query, ranked))
}

func (h *Handler) Radius(c *gin.Context) {
	var req RadiusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	query := models.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	if err := calculator.ValidateCoordinate(query); err != nil {
		badRequest(c, err)
		return
	}

	radius := h.radiusKm
	if req.Km != nil {
		radius = *req.Km
	}

	ranked, err := h.ranker.WithinRadius(query, radius)
	if err != nil {
		badRequest(c, err)
		return
	}

	res := newRankingResponse(query, ranked)
	c.JSON(http.StatusOK, gin.H{
		"radius_km": radius,
		"query":     res.Query,
		"results":   res.Results,
	})
}

// GetMarker ranks around the marker stored in the caller's session, or
// around the start position if the marker was never moved.
func (h *Handler) GetMarker(c *gin.Context) {
	session := sessions.Default(c)

	query := h.start
	lat, latOK := session.Get(sessionLatKey).(float64)
	lng, lngOK := session.Get(sessionLngKey).(float64)
	if latOK && lngOK {
		query = models.Coordinate{Latitude: lat, Longitude: lng}
	}

	c.JSON(http.StatusOK, newRankingResponse(query, h.ranker.Rank(query)))
}

// PutMarker moves the caller's marker and returns the new ranking.
func (h *Handler) PutMarker(c *gin.Context) {
	var req MarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	query := models.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	if err := calculator.ValidateCoordinate(query); err != nil {
		badRequest(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionLatKey, query.Latitude)
	session.Set(sessionLngKey, query.Longitude)
	if err := session.Save(); err != nil {
		h.internalError(c, "failed to save marker", err)
		return
	}

	c.JSON(http.StatusOK, newRankingResponse(query, h.ranker.Rank(query)))
}

func (h *Handler) StartBatch(c *gin.Context) {
	file, err := c.FormFile("input_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input_file is required"})
		return
	}

	k := h.ranker.Limit()
	if raw := strings.TrimSpace(c.PostForm("k")); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("k: %w", err))
			return
		}
		if k < 0 {
			badRequest(c, calculator.ErrInvalidK)
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input_file must be an .xlsx workbook"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.internalError(c, "failed to prepare upload dir", err)
		return
	}

	inputPath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, inputPath); err != nil {
		h.internalError(c, "failed to store upload", err)
		return
	}

	job := h.jobs.Start(inputPath, h.ranker.Catalog(), k)
	h.log.Info("batch job started", zap.String("job_id", job.ID()), zap.String("file", file.Filename), zap.Int("k", k))

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID(), "status": jobs.StatusRunning})
}

// BatchTemplate serves an empty Queries workbook for batch uploads.
func (h *Handler) BatchTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := excel.WriteTemplate(&buf, jobs.QueriesSheet); err != nil {
		h.internalError(c, "failed to build template", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="queries_template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) JobStatus(c *gin.Context) {
	job := h.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job.Snapshot())
}

func (h *Handler) DownloadResult(c *gin.Context) {
	job := h.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	snap := job.Snapshot()
	if snap.Status != jobs.StatusDone || snap.Result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("job is %s", snap.Status)})
		return
	}

	if _, err := os.Stat(snap.Result.Output); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusGone, gin.H{"error": "result file no longer available"})
			return
		}
		h.internalError(c, "failed to read result", err)
		return
	}

	c.FileAttachment(snap.Result.Output, snap.Result.Filename)
}
