package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
)

// ConversationRepository 대화 저장소 인터페이스
type ConversationRepository interface {
	CreateWithParticipants(conv *domain.Conversation, memberIDs []uint64) error
	FindByID(id uint64) (*domain.Conversation, error)
	FindByPairAndItem(pairKey string, itemID uint64) (*domain.Conversation, error)
	FindIDsBetween(a, b uint64, itemID *uint64) ([]uint64, error)
	ParticipantIDs(conversationID uint64) ([]uint64, error)
	IsParticipant(conversationID, memberID uint64) (bool, error)
	ListByMember(memberID uint64) ([]*domain.Conversation, error)
	Touch(conversationID uint64) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 대화 저장소 생성
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// CreateWithParticipants 대화와 참여자 행을 한 트랜잭션으로 생성.
// pair_key+item_id 유니크 제약 충돌은 gorm.ErrDuplicatedKey로 전파되어
// 호출측이 "이미 존재 → 재조회"로 처리한다.
func (r *conversationRepository) CreateWithParticipants(conv *domain.Conversation, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, mid := range memberIDs {
			p := &domain.ConversationParticipant{
				ConversationID: conv.ID,
				MemberID:       mid,
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *conversationRepository) FindByID(id uint64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByPairAndItem(pairKey string, itemID uint64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("pair_key = ? AND item_id = ? AND type = ?",
		pairKey, itemID, domain.ConversationPrivate).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// FindIDsBetween 두 회원 사이의 대화 ID 목록 (itemID 지정시 해당 상품으로 한정)
func (r *conversationRepository) FindIDsBetween(a, b uint64, itemID *uint64) ([]uint64, error) {
	query := r.db.Model(&domain.Conversation{}).
		Select("conversations.id").
		Where("conversations.pair_key = ?", domain.PairKey(a, b))
	if itemID != nil {
		query = query.Where("conversations.item_id = ?", *itemID)
	}

	var ids []uint64
	if err := query.Order("conversations.id ASC").Find(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *conversationRepository) ParticipantIDs(conversationID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.ConversationParticipant{}).
		Select("member_id").
		Where("conversation_id = ?", conversationID).
		Order("member_id ASC").
		Find(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *conversationRepository) IsParticipant(conversationID, memberID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ? AND member_id = ?", conversationID, memberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByMember 회원이 참여한 대화 목록 (최근 활동순)
func (r *conversationRepository) ListByMember(memberID uint64) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	err := r.db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.member_id = ?", memberID).
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// Touch 새 메시지 도착시 대화의 updated_at 갱신
func (r *conversationRepository) Touch(conversationID uint64) error {
	return r.db.Model(&domain.Conversation{}).Where("id = ?", conversationID).
		UpdateColumn("updated_at", gorm.Expr("NOW()")).Error
}
