package services

import (
	"fmt"
	"time"

	"isoko/internal/catalog"
	"isoko/internal/models"
	"isoko/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// CatalogService turns a list request into a deterministic, paginated,
// role-aware product listing. It holds no mutable state: each call is a pure
// function of the request and the store snapshot.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// List executes one catalog query: build the predicate and sort order, fetch
// the page and the total count concurrently (both are read-only and commute),
// then attach the derived fields to every returned row.
func (s *CatalogService) List(req catalog.ListRequest) (*catalog.Result, error) {
	if req.Page < 1 {
		req.Page = catalog.DefaultPage
	}
	if req.Limit < 1 {
		req.Limit = catalog.DefaultLimit
	}

	filter := catalog.BuildFilter(req, time.Now())
	sortKey := catalog.ResolveSort(req.Sort)

	var (
		items []models.Product
		total int64
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		items, err = s.repo.Find(filter, sortKey, req.Skip(), req.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	views := make([]catalog.ProductView, len(items))
	for i := range items {
		views[i] = catalog.NewProductView(items[i])
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &catalog.Result{
		Items:       views,
		Count:       len(views),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
	}, nil
}
