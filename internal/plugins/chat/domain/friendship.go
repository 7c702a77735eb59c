package domain

import "time"

// FriendshipStatus 친구(연락처) 상태
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"  // 수락 대기
	FriendshipAccepted FriendshipStatus = "accepted" // 수락됨
	FriendshipBlocked  FriendshipStatus = "blocked"  // 차단됨
)

// Friendship 회원 쌍당 최대 하나의 연락처 레코드.
// 첫 대화 시도에 pending으로 생성되고, 이후 같은 쌍의 다른 상품 대화에서는
// 기존 행을 재사용한다 (pair_key 유니크 + 충돌시 no-op insert).
type Friendship struct {
	ID          uint64           `gorm:"primaryKey" json:"id"`
	RequesterID uint64           `gorm:"column:requester_id;not null;index" json:"requester_id"`
	AddresseeID uint64           `gorm:"column:addressee_id;not null;index" json:"addressee_id"`
	PairKey     string           `gorm:"column:pair_key;size:50;not null;uniqueIndex" json:"-"`
	Status      FriendshipStatus `gorm:"column:status;size:20;default:pending" json:"status"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// UpdateFriendshipRequest 친구 상태 변경 요청
type UpdateFriendshipRequest struct {
	OtherID uint64           `json:"other_id" binding:"required"`
	Status  FriendshipStatus `json:"status" binding:"required"`
}
