package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"caloriescan/internal/models"
	"caloriescan/internal/service/ai"
)

const (
	photoField = "photo"
	// room for multipart boundaries and part headers on top of the file itself
	multipartSlack = 1 << 20
)

// uploadError messages are returned to the client verbatim.
type uploadError string

func (e uploadError) Error() string { return string(e) }

const (
	errNoFile     uploadError = "No file uploaded"
	errNotImage   uploadError = "Only image files are allowed"
	errFileTooBig uploadError = "File too large"

	msgAnalyzeFailed = "Failed to analyze image"
)

// Handler wires HTTP routes to the analyzer.
type Handler struct {
	analyzer  ai.Analyzer
	log       *zap.Logger
	maxUpload int64
	staticDir string
	now       func() time.Time
}

// NewHandler constructs a Handler instance. maxUpload is the per-file ceiling in bytes.
func NewHandler(analyzer ai.Analyzer, log *zap.Logger, maxUpload int64, staticDir string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		analyzer:  analyzer,
		log:       log,
		maxUpload: maxUpload,
		staticDir: staticDir,
		now:       time.Now,
	}
}

// RegisterRoutes attaches middleware and all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.log), recoverJSON(h.log))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	})

	router.GET("/", h.index)
	router.GET("/health", h.health)
	if h.staticDir != "" {
		if info, err := os.Stat(h.staticDir); err == nil && info.IsDir() {
			router.Static("/static", h.staticDir)
		}
	}

	api := router.Group("/api")
	api.POST("/upload", h.uploadPhoto)
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewHealthStatus(h.now()))
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)

	img, err := h.readPhoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("filename", img.Filename),
		zap.Int64("size", img.Size),
		zap.String("mime_type", img.MimeType),
	}
	if w, ht, ok := imageDimensions(img.Data); ok {
		fields = append(fields, zap.Int("width", w), zap.Int("height", ht))
	}
	h.log.Info("processing image", fields...)

	// a client disconnect does not abort the remote call
	ctx := context.WithoutCancel(c.Request.Context())
	text, err := h.analyzer.Analyze(ctx, img.Data, img.MimeType)
	if err != nil {
		h.log.Error("analyze image", append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   msgAnalyzeFailed,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewAnalysisResult(text, img.Filename, h.now()))
}

// readPhoto extracts and validates the photo field. Any error it returns is a
// client error safe to show to the caller.
func (h *Handler) readPhoto(c *gin.Context) (*models.UploadedImage, error) {
	file, err := c.FormFile(photoField)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, errFileTooBig
		}
		return nil, errNoFile
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, errNotImage
	}
	if file.Size > h.maxUpload {
		return nil, errFileTooBig
	}

	f, err := file.Open()
	if err != nil {
		return nil, errNoFile
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return nil, errNoFile
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errFileTooBig
	}
	if len(data) == 0 {
		return nil, errNoFile
	}

	return &models.UploadedImage{
		Filename: file.Filename,
		MimeType: file.Header.Get("Content-Type"),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
