package domain

import "time"

// Member 회원 엔티티
type Member struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	PublicID     string     `gorm:"column:public_id;size:36;uniqueIndex" json:"public_id"`
	Nickname     string     `gorm:"column:nickname;size:50;not null;index" json:"nickname"`
	Phone        string     `gorm:"column:phone;size:20;index" json:"phone,omitempty"`
	ProfileImage string     `gorm:"column:profile_image;size:500" json:"profile_image,omitempty"`
	Level        int        `gorm:"column:level;default:1" json:"level"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// RegisterMemberRequest 회원 등록 요청 (레거시 계정 연동/신규 가입)
type RegisterMemberRequest struct {
	Nickname     string `json:"nickname" binding:"required,max=50"`
	Phone        string `json:"phone" binding:"max=20"`
	ProfileImage string `json:"profile_image" binding:"max=500"`
}

// MemberSummary 다른 응답에 포함되는 회원 요약 (대화 목록, 검색 결과)
type MemberSummary struct {
	ID           uint64 `json:"id"`
	PublicID     string `json:"public_id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// ToSummary 요약 변환
func (m *Member) ToSummary() *MemberSummary {
	return &MemberSummary{
		ID:           m.ID,
		PublicID:     m.PublicID,
		Nickname:     m.Nickname,
		ProfileImage: m.ProfileImage,
	}
}
