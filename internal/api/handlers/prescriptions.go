package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/drive"
	"github.com/Tushar365/orderapp/internal/service"
)

// maxPrescriptionSize caps uploads at 10 MiB.
const maxPrescriptionSize = 10 << 20

// HandleUploadPrescription handles POST /v1/prescriptions: multipart form
// with a `file` and an optional `orderId`. When an order ID is supplied and
// the upload succeeds, the order record is patched with the file URL.
func HandleUploadPrescription(uploader drive.Uploader, svc *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !uploader.Configured() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prescription storage not configured"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
			return
		}
		if fileHeader.Size > maxPrescriptionSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
			return
		}

		orderID := c.PostForm("orderId")

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
			return
		}

		filename := prescriptionFilename(orderID, fileHeader.Filename)
		mimeType := fileHeader.Header.Get("Content-Type")

		result, err := uploader.Upload(c.Request.Context(), filename, mimeType, content)
		if err != nil {
			logger.Error("Prescription upload failed", zap.Error(err), zap.String("filename", filename))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "failed to upload prescription",
			})
			return
		}

		if orderID != "" {
			updated, err := svc.AttachPrescription(c.Request.Context(), orderID, result.FileURL)
			if err != nil {
				logger.Warn("Failed to attach prescription to order", zap.Error(err), zap.String("order_id", orderID))
			} else if !updated {
				logger.Warn("Prescription uploaded for unknown order", zap.String("order_id", orderID))
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"fileUrl":  result.FileURL,
			"fileId":   result.FileID,
			"filename": filename,
		})
	}
}

// prescriptionFilename names the stored file after the order when known,
// falling back to a timestamped name.
func prescriptionFilename(orderID, original string) string {
	ext := strings.TrimPrefix(filepath.Ext(original), ".")
	if ext == "" {
		ext = "pdf"
	}
	if orderID != "" {
		return fmt.Sprintf("%s.%s", orderID, ext)
	}
	safe := strings.ReplaceAll(original, " ", "-")
	return fmt.Sprintf("prescription-%d-%s", time.Now().UnixMilli(), safe)
}
