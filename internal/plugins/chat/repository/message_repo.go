package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
)

// MessageRepository 메시지 저장소 인터페이스
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByID(id uint64) (*domain.Message, error)
	ListPage(conversationIDs []uint64, cursor *uint64, limit int) ([]*domain.Message, error)
	MarkRead(conversationID, senderID uint64) (int64, error)
	CompareAndSwapReactions(id uint64, oldRaw, newRaw string) (bool, error)
	LastMessage(conversationID uint64) (*domain.Message, error)
	CountUnread(conversationID, senderID uint64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 메시지 저장소 생성
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

func (r *messageRepository) FindByID(id uint64) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListPage id 내림차순 페이지 조회. cursor는 클라이언트가 이미 본 가장 작은
// 메시지 id — 그보다 작은 id만 선택한다. 타임스탬프는 유일하지 않으므로
// 삽입 순서 프록시인 id로만 정렬한다.
func (r *messageRepository) ListPage(conversationIDs []uint64, cursor *uint64, limit int) ([]*domain.Message, error) {
	if len(conversationIDs) == 0 {
		return []*domain.Message{}, nil
	}

	query := r.db.Where("conversation_id IN ?", conversationIDs)
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}

	var msgs []*domain.Message
	if err := query.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead 대화에서 senderID가 보낸 미확인 메시지를 일괄 읽음 처리.
// false→true 단방향 전이이며 변경된 행 수를 반환한다 — 0이면 호출측은
// 알림을 생략한다 (멱등성).
func (r *messageRepository) MarkRead(conversationID, senderID uint64) (int64, error) {
	res := r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND is_read = ?", conversationID, senderID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CompareAndSwapReactions reactions 컬럼의 낙관적 교체.
// 읽어온 직렬화 값이 그대로일 때만 갱신해 서로 다른 이모지에 대한
// 동시 토글이 서로의 갱신을 덮어쓰지 못하게 한다.
// MySQL JSON 비교는 키 순서 무관이므로 직렬화 순서 차이는 문제되지 않는다.
func (r *messageRepository) CompareAndSwapReactions(id uint64, oldRaw, newRaw string) (bool, error) {
	query := r.db.Model(&domain.Message{}).Where("id = ?", id)
	if oldRaw == "" {
		query = query.Where("reactions IS NULL OR reactions = CAST('{}' AS JSON)")
	} else {
		query = query.Where("reactions = CAST(? AS JSON)", oldRaw)
	}

	res := query.Update("reactions", newRaw)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LastMessage 대화의 마지막 메시지 (없으면 nil)
func (r *messageRepository) LastMessage(conversationID uint64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("id DESC").First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CountUnread senderID가 보낸 미확인 메시지 수
func (r *messageRepository) CountUnread(conversationID, senderID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND is_read = ?", conversationID, senderID, false).
		Count(&count).Error
	return count, err
}
