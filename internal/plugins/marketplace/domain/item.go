package domain

import (
	"encoding/json"
	"time"
)

// ItemStatus 상품 상태
type ItemStatus string

const (
	ItemStatusSelling  ItemStatus = "selling"  // 판매중
	ItemStatusReserved ItemStatus = "reserved" // 예약중
	ItemStatusSold     ItemStatus = "sold"     // 판매완료
	ItemStatusHidden   ItemStatus = "hidden"   // 숨김
)

// Item 중고 상품 엔티티. 채팅 대화의 상품 맥락(item_id)이 가리키는 대상.
type Item struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	SellerID    uint64     `gorm:"column:seller_id;not null;index" json:"seller_id"`
	Title       string     `gorm:"column:title;size:200;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Price       int64      `gorm:"column:price;not null" json:"price"`
	Currency    string     `gorm:"column:currency;size:3;default:KRW" json:"currency"`
	Status      ItemStatus `gorm:"column:status;size:20;default:selling;index" json:"status"`
	Location    string     `gorm:"column:location;size:100" json:"location"`
	ViewCount   uint       `gorm:"column:view_count;default:0" json:"view_count"`
	ChatCount   uint       `gorm:"column:chat_count;default:0" json:"chat_count"`
	Images      string     `gorm:"column:images;type:json" json:"-"` // JSON array
	BuyerID     *uint64    `gorm:"column:buyer_id" json:"buyer_id,omitempty"`
	SoldAt      *time.Time `gorm:"column:sold_at" json:"sold_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string {
	return "marketplace_items"
}

// ImageList 직렬화된 images를 슬라이스로 반환
func (i *Item) ImageList() []string {
	var images []string
	if i.Images != "" {
		_ = json.Unmarshal([]byte(i.Images), &images)
	}
	return images
}

// Thumbnail 첫 이미지 (없으면 빈 문자열)
func (i *Item) Thumbnail() string {
	images := i.ImageList()
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// CreateItemRequest 상품 등록 요청
type CreateItemRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required"`
	Price       int64    `json:"price" binding:"gte=0"`
	Location    string   `json:"location" binding:"max=100"`
	Images      []string `json:"images" binding:"max=10"`
}

// UpdateStatusRequest 상태 변경 요청
type UpdateStatusRequest struct {
	Status  ItemStatus `json:"status" binding:"required"`
	BuyerID *uint64    `json:"buyer_id"`
}

// ItemSummary 다른 응답에 포함되는 상품 요약 (대화 목록 등)
type ItemSummary struct {
	ID        uint64     `json:"id"`
	SellerID  uint64     `json:"seller_id"`
	Title     string     `json:"title"`
	Price     int64      `json:"price"`
	Currency  string     `json:"currency"`
	Status    ItemStatus `json:"status"`
	Thumbnail string     `json:"thumbnail,omitempty"`
}

// ToSummary 요약 변환
func (i *Item) ToSummary() *ItemSummary {
	return &ItemSummary{
		ID:        i.ID,
		SellerID:  i.SellerID,
		Title:     i.Title,
		Price:     i.Price,
		Currency:  i.Currency,
		Status:    i.Status,
		Thumbnail: i.Thumbnail(),
	}
}
