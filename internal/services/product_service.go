package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"isoko/internal/models"
	"isoko/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher publishes catalog change events. Implemented by the
// RabbitMQ client; nil disables publishing.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil when no
// message broker is configured.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductBySlug retrieves a single product by its unique slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.repo.GetBySlug(slug)
}

// CreateProduct creates a new product, deriving its slug from the name.
// A product whose slug is already taken is rejected.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Slug = models.MakeSlug(product.Name)
	if product.Slug == "" {
		return fmt.Errorf("cannot derive slug from product name %q", product.Name)
	}
	if existing, err := s.repo.GetBySlug(product.Slug); err == nil && existing != nil {
		return fmt.Errorf("product with slug '%s' already exists", product.Slug)
	}

	if err := s.repo.Create(product); err != nil {
		return err
	}

	s.publishEvent("product.created", product)
	return nil
}

// UpdateProduct updates an existing product. The slug follows the name.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	product.Slug = models.MakeSlug(product.Name)
	if existing, err := s.repo.GetBySlug(product.Slug); err == nil && existing != nil && existing.ID != product.ID {
		return fmt.Errorf("product with slug '%s' already exists", product.Slug)
	}

	if err := s.repo.Update(product); err != nil {
		return err
	}

	s.publishEvent("product.updated", product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publishEvent("product.deleted", &models.Product{ID: id})
	return nil
}

// publishEvent emits a catalog change event. Failures are logged, never
// surfaced: the catalog write already succeeded.
func (s *ProductService) publishEvent(eventType string, product *models.Product) {
	if s.events == nil {
		log.Println("Event publisher is not initialized. Skipping catalog event publication.")
		return
	}

	payload := map[string]interface{}{
		"productId": product.ID,
		"slug":      product.Slug,
		"name":      product.Name,
		"at":        time.Now().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal catalog event payload: %v", err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", eventType, product.ID, err)
	}
}
