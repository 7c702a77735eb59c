package domain

import (
	"fmt"
	"time"

	coredomain "github.com/jangteo/jangteo-backend/internal/domain"
	mkdomain "github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
)

// ConversationType 대화 유형
type ConversationType string

const (
	// ConversationPrivate 1:1 대화 (참여자 정확히 2명)
	ConversationPrivate ConversationType = "private"
)

// Conversation 두 회원 간의 대화 엔티티.
// (참여자 쌍, 상품) 조합당 정확히 하나만 존재한다 — pair_key + item_id
// 유니크 인덱스가 동시 생성 경쟁을 DB 제약으로 막는다.
// ItemID 0은 상품 맥락 없는 대화.
type Conversation struct {
	ID        uint64           `gorm:"primaryKey" json:"id"`
	Type      ConversationType `gorm:"column:type;size:20;default:private" json:"type"`
	ItemID    uint64           `gorm:"column:item_id;not null;default:0;uniqueIndex:idx_conversations_pair_item,priority:2" json:"item_id,omitempty"`
	PairKey   string           `gorm:"column:pair_key;size:50;not null;uniqueIndex:idx_conversations_pair_item,priority:1" json:"-"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationParticipant 대화 참여자 링크. private 대화는 정확히 2행.
type ConversationParticipant struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;not null;uniqueIndex:idx_participants_conv_member,priority:1" json:"conversation_id"`
	MemberID       uint64    `gorm:"column:member_id;not null;uniqueIndex:idx_participants_conv_member,priority:2;index" json:"member_id"`
	JoinedAt       time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// PairKey 회원 쌍의 순서 무관 키 ("작은ID:큰ID")
func PairKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// InitiateConversationRequest 대화 시작 요청
type InitiateConversationRequest struct {
	RecipientID    uint64                 `json:"recipient_id" binding:"required"`
	Content        string                 `json:"content"`
	Type           MessageType            `json:"type"`
	ItemID         uint64                 `json:"item_id"`
	Metadata       map[string]interface{} `json:"metadata"`
	ConversationID uint64                 `json:"conversation_id"`
}

// InitiateConversationResponse 대화 시작 응답
type InitiateConversationResponse struct {
	ConversationID   uint64           `json:"conversation_id"`
	FriendshipStatus FriendshipStatus `json:"friendship_status"`
	RequesterID      uint64           `json:"requester_id"`
	Message          *MessageResponse `json:"message"`
}

// ConversationListEntry 대화 목록 항목 (최근 메시지순)
type ConversationListEntry struct {
	ConversationID uint64                    `json:"conversation_id"`
	Other          *coredomain.MemberSummary `json:"other"`
	LastMessage    *MessageResponse          `json:"last_message,omitempty"`
	UnreadCount    int64                     `json:"unread_count"`
	Item           *mkdomain.ItemSummary     `json:"item,omitempty"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}
