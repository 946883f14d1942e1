package handlers

import (
	"log"
	"path/filepath"
	"strings"

	"isoko/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// allowedImageExts mirrors the formats the storefront accepts.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadHandler handles product image uploads.
type UploadHandler struct {
	uploader storage.Uploader
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
	}
}

// RegisterRoutes registers the upload route. Only admins upload images.
func (h *UploadHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	router.Post("/upload", authRequired, adminOnly, h.HandleUpload)
}

// HandleUpload stores the multipart "image" field and returns its URL.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An 'image' file field is required",
			"error":   err.Error(),
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported image format; use jpg, jpeg, png or webp",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	url, err := h.uploader.Save(uuid.New().String()+ext, file)
	if err != nil {
		log.Printf("Error storing uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not store uploaded file",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
