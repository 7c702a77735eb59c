package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
)

// FriendshipRepository 친구(연락처) 저장소 인터페이스
type FriendshipRepository interface {
	CreatePending(requesterID, addresseeID uint64) error
	FindByPair(a, b uint64) (*domain.Friendship, error)
	UpdateStatus(a, b uint64, status domain.FriendshipStatus) (int64, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository 친구 저장소 생성
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// CreatePending pending 상태 친구 행을 생성.
// pair_key 유니크 제약 충돌시 no-op — 같은 쌍이 다른 상품으로
// 이미 대화한 적이 있으면 기존 행을 유지한다.
func (r *friendshipRepository) CreatePending(requesterID, addresseeID uint64) error {
	f := &domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairKey:     domain.PairKey(requesterID, addresseeID),
		Status:      domain.FriendshipPending,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *friendshipRepository) FindByPair(a, b uint64) (*domain.Friendship, error) {
	var f domain.Friendship
	err := r.db.Where("pair_key = ?", domain.PairKey(a, b)).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// UpdateStatus 친구 상태 변경, 변경된 행 수 반환
func (r *friendshipRepository) UpdateStatus(a, b uint64, status domain.FriendshipStatus) (int64, error) {
	res := r.db.Model(&domain.Friendship{}).
		Where("pair_key = ?", domain.PairKey(a, b)).
		Update("status", status)
	return res.RowsAffected, res.Error
}
