package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"isoko/internal/catalog"
	"isoko/internal/models"
	"isoko/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Find(filter catalog.Filter, sort catalog.SortKey, skip, limit int) ([]models.Product, error) {
	args := m.Called(filter, sort, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Count(filter catalog.Filter) (int64, error) {
	args := m.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) DistinctCategories() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher records published catalog events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: "1", Name: "Solar Lamp", Price: 12000, Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 not found")).Once()
	product, err = service.GetProductByID("99")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductBySlug(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expected := &models.Product{ID: "1", Name: "Solar Lamp", Slug: "solar-lamp"}

	mockRepo.On("GetBySlug", "solar-lamp").Return(expected, nil).Once()
	product, err := service.GetProductBySlug("solar-lamp")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetBySlug", "missing").Return(nil, fmt.Errorf("product with slug 'missing' not found")).Once()
	product, err = service.GetProductBySlug("missing")
	assert.Error(t, err)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	newProduct := &models.Product{Name: "New Product", Price: 50000, Stock: 20}

	// Successful creation: ID and slug get filled in.
	mockRepo.On("GetBySlug", "new-product").Return(nil, fmt.Errorf("product with slug 'new-product' not found")).Once()
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	assert.NotEmpty(t, newProduct.ID)
	assert.Equal(t, "new-product", newProduct.Slug)
	mockRepo.AssertExpectations(t)

	// Creation failure (e.g., database error)
	other := &models.Product{Name: "Other Product"}
	mockRepo.On("GetBySlug", "other-product").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", other).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(other)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_DuplicateSlugRejected(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	taken := &models.Product{ID: "existing", Name: "Solar Lamp", Slug: "solar-lamp"}
	mockRepo.On("GetBySlug", "solar-lamp").Return(taken, nil).Once()

	err := service.CreateProduct(&models.Product{Name: "Solar Lamp"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_CreateProduct_UnsluggableNameRejected(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	err := service.CreateProduct(&models.Product{Name: "!!!"})
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	updated := &models.Product{ID: "1", Name: "Solar Lamp XL", Price: 15000}

	// Successful update: the slug follows the renamed product. Finding the
	// product itself under the new slug is not a conflict.
	mockRepo.On("GetBySlug", "solar-lamp-xl").Return(updated, nil).Once()
	mockRepo.On("Update", updated).Return(nil).Once()
	err := service.UpdateProduct(updated)
	assert.NoError(t, err)
	assert.Equal(t, "solar-lamp-xl", updated.Slug)
	mockRepo.AssertExpectations(t)

	// Renaming onto another product's slug is rejected.
	conflict := &models.Product{ID: "2", Name: "Solar Lamp XL"}
	mockRepo.On("GetBySlug", "solar-lamp-xl").Return(updated, nil).Once()
	err = service.UpdateProduct(conflict)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Test successful deletion
	mockRepo.On("Delete", "1").Return(nil).Once()
	err := service.DeleteProduct("1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (e.g., product not found)
	mockRepo.On("Delete", "99").Return(fmt.Errorf("product with ID 99 not found for deletion")).Once()
	err = service.DeleteProduct("99")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for deletion")
	mockRepo.AssertExpectations(t)
}

func TestProductService_PublishesCatalogEvents(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	product := &models.Product{Name: "Espresso Maker", Price: 300}
	mockRepo.On("GetBySlug", "espresso-maker").Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", product).Return(nil).Once()
	mockEvents.On("Publish", "product.created", mock.MatchedBy(func(body []byte) bool {
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			return false
		}
		return payload["slug"] == "espresso-maker" && payload["productId"] == product.ID
	})).Return(nil).Once()

	assert.NoError(t, service.CreateProduct(product))
	mockEvents.AssertExpectations(t)
}

func TestProductService_PublishFailureDoesNotSurface(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Delete", "1").Return(nil).Once()
	mockEvents.On("Publish", "product.deleted", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	// The catalog write already succeeded; a broker failure is only logged.
	assert.NoError(t, service.DeleteProduct("1"))
	mockEvents.AssertExpectations(t)
}
