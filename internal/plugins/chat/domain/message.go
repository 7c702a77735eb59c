package domain

import (
	"encoding/json"
	"time"
)

// MessageType 메시지 유형
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageMedia    MessageType = "media"
	MessageLocation MessageType = "location"
	MessageOffer    MessageType = "offer" // 가격 제안 (amount 필드 사용)
)

// Message 대화 메시지 엔티티. 생성 후 is_read와 reactions만 변한다.
// metadata/reactions는 JSON 컬럼에 직렬화된 문자열로 보관한다.
//
// reactions는 이모지→카운트 맵이다. 누가 반응했는지는 기록하지 않으므로
// 같은 회원이 반복 토글로 카운트를 조작할 수 있다 (알려진 제약).
type Message struct {
	ID             uint64      `gorm:"primaryKey" json:"id"`
	ConversationID uint64      `gorm:"column:conversation_id;not null;index" json:"conversation_id"`
	SenderID       uint64      `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Content        *string     `gorm:"column:content;type:text" json:"content"`
	Type           MessageType `gorm:"column:type;size:20;default:text" json:"type"`
	Amount         *int64      `gorm:"column:amount" json:"amount,omitempty"`
	ReplyToID      *uint64     `gorm:"column:reply_to_id" json:"reply_to_id,omitempty"`
	Metadata       string      `gorm:"column:metadata;type:json" json:"-"`
	Reactions      string      `gorm:"column:reactions;type:json" json:"-"`
	IsRead         bool        `gorm:"column:is_read;default:false;index" json:"is_read"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MetadataMap 직렬화된 metadata를 맵으로 반환 (빈/깨진 JSON은 빈 맵)
func (m *Message) MetadataMap() map[string]interface{} {
	out := map[string]interface{}{}
	if m.Metadata != "" {
		_ = json.Unmarshal([]byte(m.Metadata), &out)
	}
	return out
}

// ReactionsMap 직렬화된 reactions를 맵으로 반환 (빈/깨진 JSON은 빈 맵)
func (m *Message) ReactionsMap() map[string]int {
	out := map[string]int{}
	if m.Reactions != "" {
		_ = json.Unmarshal([]byte(m.Reactions), &out)
	}
	return out
}

// EncodeMetadata metadata 맵을 JSON 컬럼 문자열로 직렬화
func EncodeMetadata(m map[string]interface{}) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// EncodeReactions reactions 맵을 JSON 컬럼 문자열로 직렬화
func EncodeReactions(m map[string]int) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// SendMessageRequest 메시지 전송 요청
type SendMessageRequest struct {
	ConversationID uint64                 `json:"conversation_id" binding:"required"`
	Content        string                 `json:"content"`
	RecipientID    uint64                 `json:"recipient_id"`
	Type           MessageType            `json:"type"`
	Amount         *int64                 `json:"amount"`
	ReplyToID      *uint64                `json:"reply_to_id"`
	MediaURL       string                 `json:"media_url"`
	MediaType      string                 `json:"media_type"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// ToggleReactionRequest 리액션 토글 요청
type ToggleReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// MessageResponse 메시지 응답.
// 브로드캐스트 페이로드로도 그대로 사용한다 — conversation_id와 sender_id를
// 항상 포함해 수신 클라이언트가 대화를 식별할 수 있게 한다.
type MessageResponse struct {
	ID             uint64                 `json:"id"`
	ConversationID uint64                 `json:"conversation_id"`
	SenderID       uint64                 `json:"sender_id"`
	Content        *string                `json:"content"`
	Type           MessageType            `json:"type"`
	Amount         *int64                 `json:"amount,omitempty"`
	ReplyToID      *uint64                `json:"reply_to_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Reactions      map[string]int         `json:"reactions"`
	IsRead         bool                   `json:"is_read"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ToResponse 응답 변환
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Type:           m.Type,
		Amount:         m.Amount,
		ReplyToID:      m.ReplyToID,
		Metadata:       m.MetadataMap(),
		Reactions:      m.ReactionsMap(),
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

// FetchMessagesResponse 메시지 히스토리 페이지 응답
type FetchMessagesResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	NextCursor *uint64            `json:"next_cursor"`
	HasMore    bool               `json:"has_more"`
}
