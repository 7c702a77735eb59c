package repository

import (
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
)

// ItemRepository 상품 저장소 인터페이스
type ItemRepository interface {
	Create(item *domain.Item) error
	FindByID(id uint64) (*domain.Item, error)
	List(params *ItemListParams) ([]*domain.Item, int64, error)
	ListBySeller(sellerID uint64, page, limit int) ([]*domain.Item, int64, error)
	UpdateStatus(id uint64, status domain.ItemStatus, buyerID *uint64) error
	IncrementViewCount(id uint64) error
	IncrementChatCount(id uint64) error
}

// ItemListParams 상품 목록 조회 파라미터
type ItemListParams struct {
	Status   *domain.ItemStatus
	MinPrice *int64
	MaxPrice *int64
	Location string
	Keyword  string
	Page     int
	Limit    int
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 상품 저장소 생성
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *domain.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepository) FindByID(id uint64) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(params *ItemListParams) ([]*domain.Item, int64, error) {
	query := r.db.Model(&domain.Item{})

	// 필터 적용
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		// 기본적으로 숨김 상품 제외
		query = query.Where("status != ?", domain.ItemStatusHidden)
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}
	if params.Location != "" {
		query = query.Where("location LIKE ?", "%"+params.Location+"%")
	}
	if params.Keyword != "" {
		query = query.Where("(title LIKE ? OR description LIKE ?)",
			"%"+params.Keyword+"%", "%"+params.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	var items []*domain.Item
	if err := query.Order("created_at DESC").Offset(offset).Limit(params.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) ListBySeller(sellerID uint64, page, limit int) ([]*domain.Item, int64, error) {
	var items []*domain.Item
	var total int64

	query := r.db.Model(&domain.Item{}).Where("seller_id = ?", sellerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) UpdateStatus(id uint64, status domain.ItemStatus, buyerID *uint64) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if status == domain.ItemStatusSold && buyerID != nil {
		updates["buyer_id"] = buyerID
		updates["sold_at"] = gorm.Expr("NOW()")
	}
	return r.db.Model(&domain.Item{}).Where("id = ?", id).Updates(updates).Error
}

func (r *itemRepository) IncrementViewCount(id uint64) error {
	return r.db.Model(&domain.Item{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *itemRepository) IncrementChatCount(id uint64) error {
	return r.db.Model(&domain.Item{}).Where("id = ?", id).
		UpdateColumn("chat_count", gorm.Expr("chat_count + 1")).Error
}
