package mysql

import (
	"context"
	"errors"

	"store-service/internal/domain"
	"store-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) SearchActive(ctx context.Context, term string, page, pageSize int) ([]domain.Product, error) {
	var out []domain.Product
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if term != "" {
		like := "%" + term + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	err := q.Scopes(Paging(page, pageSize)).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *productRepo) CountActive(ctx context.Context, term string, categoryID *uint64) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("active = ?", true)
	if term != "" {
		like := "%" + term + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Count(&total).Error
	return total, err
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID uint64, page, pageSize int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND category_id = ?", true, categoryID).
		Scopes(Paging(page, pageSize)).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DecrementStock is a conditional update so two concurrent placements cannot
// both pass the stock check: the WHERE clause rejects the second one.
func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
