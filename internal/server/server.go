// Package server exposes ingestion and chat over HTTP.
package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/ingest"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/parser"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/rag"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/seed"
)

const maxUploadBytes = 10 * 1024 * 1024

type Server struct {
	ingestSvc   *ingest.Service
	answerer    *rag.Answerer
	cfg         config.ServerConfig
	seedSession string
}

func New(ingestSvc *ingest.Service, answerer *rag.Answerer, cfg config.ServerConfig, seedSession string) *Server {
	return &Server{ingestSvc: ingestSvc, answerer: answerer, cfg: cfg, seedSession: seedSession}
}

// Router builds the gin engine with CORS and, when an API key is
// configured, X-API-Key enforcement on everything except /health.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(s.cfg.AllowedOrigins))

	r.GET("/health", s.health)

	api := r.Group("/")
	if s.cfg.APIKey != "" {
		api.Use(apiKeyMiddleware(s.cfg.APIKey))
	}
	api.POST("/ingest", s.ingestFile)
	api.POST("/ingest/text", s.ingestText)
	api.POST("/ingest/sample", s.ingestSample)
	api.POST("/chat", s.chat)
	api.POST("/wipe", s.wipe)
	api.GET("/status/:sessionId", s.status)

	return r
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	log.Info().Str("addr", s.cfg.Addr).Msg("Starting HTTP server")
	return s.Router().Run(s.cfg.Addr)
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-API-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-API-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ingestFile accepts one multipart CV upload.
func (s *Server) ingestFile(c *gin.Context) {
	sessionID := c.PostForm("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	if !parser.Supported(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format: " + filepath.Ext(file.Filename)})
		return
	}

	tmpDir, err := os.MkdirTemp("", "cv-upload-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage upload"})
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage upload"})
		return
	}

	res, err := s.ingestSvc.IngestFile(c.Request.Context(), path, sessionID)
	if err != nil {
		s.renderIngestError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingestResponse(res))
}

type ingestTextRequest struct {
	Text      string `json:"text" binding:"required"`
	Source    string `json:"source"`
	SessionID string `json:"sessionId" binding:"required"`
}

func (s *Server) ingestText(c *gin.Context) {
	var req ingestTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and sessionId are required"})
		return
	}
	if req.Source == "" {
		req.Source = "raw_text_input"
	}

	res, err := s.ingestSvc.IngestText(c.Request.Context(), req.Text, req.Source, req.SessionID)
	if err != nil {
		s.renderIngestError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingestResponse(res))
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

// ingestSample loads the built-in demo candidates, defaulting to the
// configured seed session.
func (s *Server) ingestSample(c *gin.Context) {
	var req sessionRequest
	_ = c.ShouldBindJSON(&req)
	if req.SessionID == "" {
		req.SessionID = s.seedSession
	}

	if err := seed.Samples(c.Request.Context(), s.ingestSvc, req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": req.SessionID, "status": "seeded"})
}

type chatRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and sessionId are required"})
		return
	}

	answer, err := s.answerer.Ask(c.Request.Context(), req.Question, req.SessionID)
	if err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("Chat request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer, "sessionId": req.SessionID})
}

func (s *Server) wipe(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	if err := s.ingestSvc.Wipe(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": req.SessionID, "status": "wiped"})
}

func (s *Server) status(c *gin.Context) {
	sessionID := c.Param("sessionId")
	count, err := s.ingestSvc.Count(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "chunks": count, "empty": count == 0})
}

func (s *Server) renderIngestError(c *gin.Context, err error) {
	if errors.Is(err, ingest.ErrMissingIdentity) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Msg("Ingest request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func ingestResponse(res ingest.Result) gin.H {
	return gin.H{
		"decision": string(res.Decision),
		"chunks":   res.ChunksWritten,
		"email":    res.Email,
	}
}
