package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"isoko/internal/catalog"
	"isoko/internal/middleware"
	"isoko/internal/models"
	"isoko/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	catalogService *services.CatalogService
	productService *services.ProductService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalogService *services.CatalogService, productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// listing is public but identity-aware (admins see inactive products), so it
// runs behind optional auth; mutations require an admin token.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, optionalAuth, authRequired, adminOnly fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", optionalAuth, h.HandleListProducts)
	products.Get("/slug/:slug", h.HandleGetProductBySlug)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", authRequired, adminOnly, h.HandleCreateProduct)
	products.Put("/:id", authRequired, adminOnly, h.HandleUpdateProduct)
	products.Delete("/:id", authRequired, adminOnly, h.HandleDeleteProduct)
}

// HandleListProducts executes a catalog query from the request's filter,
// sort and pagination parameters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	req, err := catalog.ParseListRequest(c.Queries(), middleware.CallerRole(c))
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid query parameters",
				"error":   verr.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}

	result, err := h.catalogService.List(req)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": catalog.NewProductView(*product)})
}

// HandleGetProductBySlug retrieves a single product by its slug.
func (h *ProductHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.productService.GetProductBySlug(slug)
	if err != nil {
		log.Printf("Error getting product by slug %s: %v", slug, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with slug %s not found", slug),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": catalog.NewProductView(*product)})
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.productService.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not create product",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    catalog.NewProductView(product),
	})
}

// HandleUpdateProduct merges the request body into the stored product, the
// way a partial update is expected to behave: absent fields keep their
// stored values.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}

	if err := c.BodyParser(product); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = productID // The path parameter wins over any body value

	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.productService.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Could not update product",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    catalog.NewProductView(*product),
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.productService.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s not found", productID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// validationMessages flattens validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}
