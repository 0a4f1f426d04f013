package marketplace

import (
	"errors"

	"github.com/AlvinAbiero/online-marketplace/models"

	"gorm.io/gorm"
)

type ProductInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,min=2,max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

func (s *Service) CreateProduct(p *Principal, input ProductInput) (*models.Product, error) {
	if err := RequireSeller(p); err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product := models.Product{
		SellerID:    p.UserID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		IsActive:    true,
	}

	if err := s.DB.Create(&product).Error; err != nil {
		return nil, ErrInternal()
	}

	if err := s.DB.Preload("Seller").First(&product, product.ID).Error; err != nil {
		return nil, ErrInternal()
	}

	return &product, nil
}

// ListProducts returns active products, newest first, with optional
// category and free-text filters.
func (s *Service) ListProducts(filter ProductFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := s.DB.Preload("Seller").Where("is_active = ?", true)

	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var products []models.Product
	err := query.Order("created_at desc").
		Limit(limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, ErrInternal()
	}

	return products, nil
}

// GetProduct returns a product by id. Inactive products are hidden from
// everyone except through MyProducts.
func (s *Service) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.DB.Preload("Seller").First(&product, id).Error; err != nil {
		return nil, ErrNotFound("Product")
	}
	if !product.IsActive {
		return nil, ErrNotFound("Product")
	}
	return &product, nil
}

func (s *Service) MyProducts(p *Principal) ([]models.Product, error) {
	if err := RequireSeller(p); err != nil {
		return nil, err
	}

	var products []models.Product
	err := s.DB.Preload("Seller").
		Where("seller_id = ?", p.UserID).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return nil, ErrInternal()
	}

	return products, nil
}

func (s *Service) UpdateProduct(p *Principal, id uint, input ProductInput) (*models.Product, error) {
	var product models.Product
	if err := s.DB.First(&product, id).Error; err != nil {
		return nil, ErrNotFound("Product")
	}

	if err := RequireProductOwner(p, &product); err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	// SellerID is deliberately untouched: ownership is immutable.
	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.Stock = input.Stock

	if err := s.DB.Save(&product).Error; err != nil {
		return nil, ErrInternal()
	}

	if err := s.DB.Preload("Seller").First(&product, product.ID).Error; err != nil {
		return nil, ErrInternal()
	}

	return &product, nil
}

// DeleteProduct is a soft delete: the row must survive because orders
// keep referencing it. The product disappears from every listing.
func (s *Service) DeleteProduct(p *Principal, id uint) (bool, error) {
	var product models.Product
	if err := s.DB.First(&product, id).Error; err != nil {
		return false, ErrNotFound("Product")
	}

	if err := RequireProductOwner(p, &product); err != nil {
		return false, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		var domainErr *Error
		if errors.As(err, &domainErr) {
			return false, domainErr
		}
		return false, ErrInternal()
	}

	return true, nil
}
