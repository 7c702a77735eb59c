package repository

import (
	"github.com/jangteo/jangteo-backend/internal/domain"
	"gorm.io/gorm"
)

// MemberRepository 회원 저장소 인터페이스
type MemberRepository interface {
	FindByID(id uint64) (*domain.Member, error)
	FindByPublicID(publicID string) (*domain.Member, error)
	Create(member *domain.Member) error
	Search(query string, excludeID uint64, limit int) ([]*domain.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 회원 저장소 생성
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByID(id uint64) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByPublicID(publicID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.Where("public_id = ?", publicID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Create(member *domain.Member) error {
	return r.db.Create(member).Error
}

// Search 닉네임/전화번호/공개ID로 회원 검색 (본인 제외)
func (r *memberRepository) Search(query string, excludeID uint64, limit int) ([]*domain.Member, error) {
	pattern := "%" + query + "%"
	var members []*domain.Member
	err := r.db.
		Where("id != ?", excludeID).
		Where("(nickname LIKE ? OR phone LIKE ? OR public_id LIKE ?)", pattern, pattern, pattern).
		Order("nickname ASC").
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
