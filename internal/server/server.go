package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
	"nearby-places/internal/jobs"
	"nearby-places/internal/models"
)

const sessionName = "nearby_places"

type Options struct {
	Ranker        *calculator.Ranker
	Jobs          *jobs.Store
	Log           *zap.Logger
	Env           string
	SessionSecret string
	// Start is the marker position for a browser that has not moved it yet.
	Start     models.Coordinate
	RadiusKm  float64
	UploadDir string
}

type Handler struct {
	ranker    *calculator.Ranker
	jobs      *jobs.Store
	log       *zap.Logger
	env       string
	start     models.Coordinate
	radiusKm  float64
	uploadDir string
}

func NewRouter(opts Options) *gin.Engine {
	h := &Handler{
		ranker:    opts.Ranker,
		jobs:      opts.Jobs,
		log:       opts.Log,
		env:       opts.Env,
		start:     opts.Start,
		radiusKm:  opts.RadiusKm,
		uploadDir: opts.UploadDir,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Log))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "env": h.env})
	})
	r.GET("/ws", h.Stream)

	api := r.Group("/api/v1")
	{
		api.GET("/catalog", h.Catalog)
		api.GET("/nearest", h.Nearest)
		api.GET("/radius", h.Radius)
		api.GET("/marker", h.GetMarker)
		api.PUT("/marker", h.PutMarker)
		api.POST("/batch", h.StartBatch)
		api.GET("/batch/template", h.BatchTemplate)
		api.GET("/jobs/:id", h.JobStatus)
		api.GET("/jobs/:id/download", h.DownloadResult)
	}

	return r
}
