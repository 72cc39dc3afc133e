package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/schema"
	"github.com/Alphavirusboy/invoice-qc-service/internal/validator"
)

const (
	defaultSource   = "upload"
	shutdownTimeout = 10 * time.Second
)

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	timeout  time.Duration
	router   *gin.Engine
	pipeline *processor.Pipeline
	engine   *validator.Engine
	logger   logrus.FieldLogger
}

// NewServer creates a new API server around the components of a
func NewServer(a *app.App) *Server {
	cfg := a.Config.Server
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	var logger logrus.FieldLogger = logging.Discard()
	if a.Logger != nil {
		logger = a.Logger
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsAllowAll())
	router.Use(bodyLimit(cfg.MaxBodyBytes))

	s := &Server{
		config:   cfg,
		timeout:  a.Config.Extraction.FileTimeout,
		router:   router,
		pipeline: a.Pipeline,
		engine:   a.Engine,
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/validate-json", s.handleValidateJSON)
		v1.POST("/extract", s.handleExtract)
		v1.POST("/extract-and-validate", s.handleExtractAndValidate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run serves until ctx is canceled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.config.Addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readBody returns the request body or writes a 400 and returns false
func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", Details: err.Error()})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func (s *Server) handleValidateJSON(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	invoices, err := schema.DecodeInvoices(body)
	if err != nil {
		_ = c.Error(err)
		resp := ErrorResponse{Error: "invalid invoice payload", Details: err.Error()}
		var verr *model.ValidationError
		if errors.As(err, &verr) && verr.Cause != nil {
			resp.Details = fmt.Sprintf("%s: %s: %v", verr.Field, verr.Message, verr.Cause)
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusOK, s.engine.Validate(invoices))
}

func (s *Server) handleExtract(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}
	source := c.DefaultQuery("source", defaultSource)

	ctx, cancel := s.withTimeout(c.Request.Context())
	defer cancel()

	result := s.pipeline.Process(ctx, body, source)
	if result.Error != nil {
		_ = c.Error(result.Error)
		status := http.StatusUnprocessableEntity
		if result.Format == processor.FormatUnknown {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{
			Error:    result.Error.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{
		Invoice:  result.Invoice,
		Format:   result.Format.String(),
		Method:   string(result.Method),
		Warnings: result.Warnings,
	})
}

func (s *Server) handleExtractAndValidate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expected multipart form", Details: err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no files uploaded"})
		return
	}

	docs := make([]processor.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to open upload", Details: fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload", Details: fh.Filename})
			return
		}
		docs = append(docs, processor.Document{Name: fh.Filename, Data: data})
	}

	results, err := s.pipeline.ExtractAll(c.Request.Context(), docs)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "extraction interrupted", Details: err.Error()})
		return
	}
	for _, r := range results {
		if r.Error != nil {
			logging.LogError(s.logger, "server", "handleExtractAndValidate", "extract upload", map[string]string{
				"source":     r.Source,
				requestIDKey: requestID(c),
			}, r.Error)
		}
	}

	invoices := processor.Invoices(results)
	c.JSON(http.StatusOK, model.ExtractAndValidateResponse{
		Invoices:   invoices,
		Validation: s.engine.Validate(invoices),
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	resp := InfoResponse{
		MimeType: detectMimeType(body),
		Size:     len(body),
	}

	ctx, cancel := s.withTimeout(c.Request.Context())
	defer cancel()

	text, format, err := s.pipeline.Text(ctx, body, c.DefaultQuery("source", defaultSource))
	resp.Format = format.String()
	if err == nil {
		resp.DocumentType = string(extractor.Classify(text))
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func detectMimeType(data []byte) string {
	switch processor.DetectFormat(data) {
	case processor.FormatPDF:
		return "application/pdf"
	case processor.FormatText:
		return "text/plain"
	case processor.FormatImage:
		return imageMimeType(data)
	default:
		return "application/octet-stream"
	}
}

func imageMimeType(data []byte) string {
	switch {
	case data[0] == 0x89 && data[1] == 0x50:
		return "image/png"
	case data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	default:
		return "image/tiff"
	}
}
