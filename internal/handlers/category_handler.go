package handlers

import (
	"log"
	"strings"

	"isoko/internal/models"
	"isoko/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes. Must run before the product
// routes so /products/categories is matched ahead of /products/:id.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	categories := router.Group("/products/categories")
	categories.Get("/", h.HandleListNames)
	categories.Get("/all", authRequired, adminOnly, h.HandleListAll)
	categories.Post("/", authRequired, adminOnly, h.HandleCreate)
	categories.Delete("/:id", authRequired, adminOnly, h.HandleDelete)
}

// HandleListNames returns the public category names.
func (h *CategoryHandler) HandleListNames(c *fiber.Ctx) error {
	names, err := h.service.ListNames()
	if err != nil {
		log.Printf("Error listing category names: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": names})
}

// HandleListAll returns every category record (admin view).
func (h *CategoryHandler) HandleListAll(c *fiber.Ctx) error {
	categories, err := h.service.ListAll()
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": categories})
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing create category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not create category",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create category",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Category created successfully",
		"data":    category,
	})
}

// HandleDelete deletes a category by its ID.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if err := h.service.DeleteCategory(categoryID); err != nil {
		log.Printf("Error deleting category %s: %v", categoryID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Category not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete category",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
