package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brownie44l1/modelclassify/internal/model"
	"github.com/Brownie44l1/modelclassify/internal/preprocess"
)

// maxUploadSize bounds multipart image uploads.
const maxUploadSize = 10 << 20

type Handler struct {
	modelServer  *model.Server
	preprocessor *preprocess.Preprocessor
	log          *zap.Logger
}

func NewHandler(modelServer *model.Server, preprocessor *preprocess.Preprocessor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		modelServer:  modelServer,
		preprocessor: preprocessor,
		log:          log,
	}
}

// NewRouter wires the prediction endpoints behind permissive CORS.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
	}))

	r.GET("/health", h.Health)
	r.POST("/predict", h.Predict)
	r.POST("/predict/image", h.PredictFromImage)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) Predict(c *gin.Context) {
	var req model.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if expected := h.modelServer.InputSize(); len(req.Image) != expected {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Expected %d values, got %d", expected, len(req.Image)),
		})
		return
	}

	result, err := h.modelServer.Predict(req.Image)
	if err != nil {
		h.log.Error("prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) PredictFromImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided. Use 'image' as the form field name"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	h.log.Info("received file", zap.String("filename", fileHeader.Filename), zap.Int64("size", fileHeader.Size))

	img, err := preprocess.Decode(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format. Supported: JPEG, PNG, GIF, BMP, TIFF, WebP"})
		return
	}

	input := h.preprocessor.FromImage(img)
	result, err := h.modelServer.PredictTensor(input)
	if err != nil {
		h.log.Error("prediction failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrShapeMismatch) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
