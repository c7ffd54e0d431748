package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"

	"safaipak-api-server/internal/models"
	"safaipak-api-server/internal/s3"
	"safaipak-api-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxDocumentSize bounds a single certification upload.
const maxDocumentSize = 10 << 20

// DocumentUploader stores a provider document and returns its public URL.
type DocumentUploader interface {
	UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
}

type ProviderHandler struct {
	Providers *service.ProviderService
	Uploader  DocumentUploader
	Log       *zap.Logger
}

func (h *ProviderHandler) RegisterProvider(c *gin.Context) {
	var req service.ProviderRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Could not register provider")
		return
	}

	provider, err := h.Providers.RegisterProvider(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err, "Could not register provider")
		return
	}
	c.JSON(http.StatusCreated, provider)
}

// boolQuery reads an optional boolean filter. Any present value other than
// "true" means false.
func boolQuery(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v := raw == "true"
	return &v
}

// ListProviders handles GET /api/providers?city&specialization&available&verified.
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	filter := models.ProviderFilter{
		City:           c.Query("city"),
		Specialization: c.Query("specialization"),
		Available:      boolQuery(c, "available"),
		Verified:       boolQuery(c, "verified"),
	}

	providers, err := h.Providers.ListProviders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch providers")
		return
	}
	if providers == nil {
		providers = []models.Provider{}
	}
	c.JSON(http.StatusOK, providers)
}

func (h *ProviderHandler) GetProvider(c *gin.Context) {
	provider, err := h.Providers.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err, "Failed to fetch provider")
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	var patch models.ProviderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err, "Failed to update provider")
		return
	}

	provider, err := h.Providers.UpdateProvider(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.Log, err, "Failed to update provider")
		return
	}
	c.JSON(http.StatusOK, provider)
}

// UploadDocument handles POST /api/providers/:id/documents with a multipart
// "file" field.
func (h *ProviderHandler) UploadDocument(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Message: "Document uploads are not configured",
			Error:   "storage unavailable",
		})
		return
	}

	id := c.Param("id")
	if _, err := h.Providers.GetProvider(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err, "Failed to upload document")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "File is required", Error: err.Error()})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.Log, err, "Failed to upload document")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.Uploader.UploadFile(c.Request.Context(), file, s3.DocumentKey(id, fileHeader.Filename), contentType)
	if err != nil {
		respondError(c, h.Log, err, "Failed to upload document")
		return
	}

	doc := models.MediaPointer{
		ID:       uuid.NewString(),
		URL:      url,
		FileName: filepath.Base(fileHeader.Filename),
		FileType: contentType,
	}
	provider, err := h.Providers.AttachDocument(c.Request.Context(), id, doc)
	if err != nil {
		respondError(c, h.Log, err, "Failed to upload document")
		return
	}
	h.Log.Info("Provider document uploaded", zap.String("providerID", id), zap.String("url", url))
	c.JSON(http.StatusCreated, provider)
}
