package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/repository"
	pkgcache "github.com/jangteo/jangteo-backend/pkg/cache"
)

// ItemService 상품 서비스 인터페이스.
// Summary/IncrementChatCount는 채팅 플러그인의 ItemCatalog 계약을 구현한다.
type ItemService interface {
	CreateItem(sellerID uint64, req *domain.CreateItemRequest) (*domain.Item, error)
	GetItem(id uint64) (*domain.Item, error)
	ListItems(params *repository.ItemListParams) ([]*domain.Item, *common.Meta, error)
	ListMyItems(sellerID uint64, page, limit int) ([]*domain.Item, *common.Meta, error)
	UpdateStatus(id, sellerID uint64, req *domain.UpdateStatusRequest) error
	Summary(itemID uint64) (*domain.ItemSummary, error)
	IncrementChatCount(itemID uint64) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	cache    pkgcache.Service
}

// NewItemService 상품 서비스 생성 (cache는 nil 허용)
func NewItemService(itemRepo repository.ItemRepository, cache pkgcache.Service) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		cache:    cache,
	}
}

func (s *itemService) CreateItem(sellerID uint64, req *domain.CreateItemRequest) (*domain.Item, error) {
	imagesJSON, _ := json.Marshal(req.Images)

	item := &domain.Item{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Images:      string(imagesJSON),
		Status:      domain.ItemStatusSelling,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *itemService) GetItem(id uint64) (*domain.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}

	// 조회수는 best-effort
	_ = s.itemRepo.IncrementViewCount(id)
	return item, nil
}

func (s *itemService) ListItems(params *repository.ItemListParams) ([]*domain.Item, *common.Meta, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	items, total, err := s.itemRepo.List(params)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(params.Page, params.Limit, total), nil
}

func (s *itemService) ListMyItems(sellerID uint64, page, limit int) ([]*domain.Item, *common.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	items, total, err := s.itemRepo.ListBySeller(sellerID, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, limit, total), nil
}

func (s *itemService) UpdateStatus(id, sellerID uint64, req *domain.UpdateStatusRequest) error {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrItemNotFound
		}
		return err
	}
	if item.SellerID != sellerID {
		return common.ErrForbidden
	}

	if err := s.itemRepo.UpdateStatus(id, req.Status, req.BuyerID); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	s.invalidate(id)
	return nil
}

// Summary 상품 요약 조회 (캐시 우선)
func (s *itemService) Summary(itemID uint64) (*domain.ItemSummary, error) {
	ctx := context.Background()

	if s.cache != nil {
		var cached domain.ItemSummary
		if err := s.cache.GetItem(ctx, itemID, &cached); err == nil {
			return &cached, nil
		}
	}

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrItemNotFound
		}
		return nil, err
	}

	summary := item.ToSummary()
	if s.cache != nil {
		_ = s.cache.SetItem(ctx, itemID, summary)
	}
	return summary, nil
}

// IncrementChatCount 대화 생성시 상품의 채팅 카운트 증가
func (s *itemService) IncrementChatCount(itemID uint64) error {
	if err := s.itemRepo.IncrementChatCount(itemID); err != nil {
		return err
	}
	s.invalidate(itemID)
	return nil
}

func (s *itemService) invalidate(itemID uint64) {
	if s.cache != nil {
		_ = s.cache.InvalidateItem(context.Background(), itemID)
	}
}
