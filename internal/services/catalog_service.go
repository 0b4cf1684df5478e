package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"store-service/internal/domain"
	"store-service/internal/repository"

	"github.com/redis/go-redis/v9"
)

const productCacheTTL = time.Minute

// ProductPage is one page of search or category-listing results together
// with the total count of matching active products.
type ProductPage struct {
	Items    []domain.Product `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

type CatalogService struct {
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	redisClient *redis.Client
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// SetRedisClient enables product cache-aside. The service works without it.
func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := fmt.Sprintf("product:%d", id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var p domain.Product
			if json.Unmarshal([]byte(cached), &p) == nil {
				return &p, nil
			}
		}
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return product, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, term string, page, pageSize int) (*ProductPage, error) {
	items, err := s.products.SearchActive(ctx, term, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountActive(ctx, term, nil)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID uint64, page, pageSize int) (*ProductPage, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	items, err := s.products.ListByCategory(ctx, categoryID, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountActive(ctx, "", &categoryID)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *p.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}
	return s.products.Create(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	existing, err := s.products.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	if p.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *p.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}
	}

	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.StockQuantity = p.StockQuantity
	existing.CategoryID = p.CategoryID
	existing.ImageURL = p.ImageURL
	existing.Active = p.Active
	if err := s.products.Save(ctx, existing); err != nil {
		return err
	}
	*p = *existing

	s.InvalidateProduct(ctx, p.ID)
	return nil
}

func (s *CatalogService) DeactivateProduct(ctx context.Context, id uint64) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	product.Active = false
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.checkCategoryParent(ctx, c.ID, c.ParentID); err != nil {
		return err
	}
	return s.categories.Create(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	existing, err := s.categories.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	if err := s.checkCategoryParent(ctx, c.ID, c.ParentID); err != nil {
		return err
	}

	existing.Name = c.Name
	existing.Description = c.Description
	existing.ParentID = c.ParentID
	if err := s.categories.Save(ctx, existing); err != nil {
		return err
	}
	*c = *existing
	return nil
}

// checkCategoryParent walks the parent chain and rejects a parent assignment
// that would make the category a descendant of itself.
func (s *CatalogService) checkCategoryParent(ctx context.Context, id uint64, parentID *uint64) error {
	seen := map[uint64]bool{}
	for parentID != nil {
		if id != 0 && *parentID == id {
			return ErrCategoryCycle
		}
		if seen[*parentID] {
			return ErrCategoryCycle
		}
		seen[*parentID] = true

		parent, err := s.categories.FindByID(ctx, *parentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrCategoryNotFound
		}
		parentID = parent.ParentID
	}
	return nil
}

// InvalidateProduct drops the cached snapshot for a product. Callers use it
// after any write that changes what GetProduct would return, including stock
// decrements made during order placement.
func (s *CatalogService) InvalidateProduct(ctx context.Context, id uint64) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, fmt.Sprintf("product:%d", id))
}
