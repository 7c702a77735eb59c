package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/domain"
)

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) FindByID(id uint64) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByPublicID(publicID string) (*domain.Member, error) {
	args := m.Called(publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) Create(member *domain.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockMemberRepo) Search(query string, excludeID uint64, limit int) ([]*domain.Member, error) {
	args := m.Called(query, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func TestRegister_CreatesMemberWithPublicID(t *testing.T) {
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	var saved *domain.Member
	repo.On("Create", mock.AnythingOfType("*domain.Member")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*domain.Member)
			saved.ID = 7
		}).Return(nil)

	member, err := svc.Register(&domain.RegisterMemberRequest{
		Nickname: "  장터왕  ",
		Phone:    "010-1234-5678",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(7), member.ID)
	assert.Equal(t, "장터왕", member.Nickname)
	assert.Equal(t, 1, member.Level)
	// 외부 노출용 uuid
	assert.Len(t, member.PublicID, 36)
}

func TestRegister_RequiresNickname(t *testing.T) {
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	_, err := svc.Register(&domain.RegisterMemberRequest{Nickname: "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSearchMembers_ShortQueryIsNoop(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"빈 검색어", ""},
		{"한 글자", "김"},
		{"공백만", "   "},
		{"공백 제거 후 한 글자", " a "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMemberRepo)
			svc := NewMemberService(repo, nil, nil)

			results, err := svc.SearchMembers(tt.query, 1)

			assert.NoError(t, err)
			assert.Empty(t, results)
			repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSearchMembers_SQLPath(t *testing.T) {
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	repo.On("Search", "당근", uint64(1), SearchMaxResults).Return([]*domain.Member{
		{ID: 2, PublicID: "u-2", Nickname: "당근장수"},
		{ID: 3, PublicID: "u-3", Nickname: "당근마니아"},
	}, nil)

	results, err := svc.SearchMembers("당근", 1)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "당근장수", results[0].Nickname)
	assert.Equal(t, uint64(3), results[1].ID)
}

func TestSearchMembers_TwoRuneKoreanQueryPasses(t *testing.T) {
	// 바이트가 아닌 룬 기준 길이 검사
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	repo.On("Search", "김치", uint64(5), SearchMaxResults).Return([]*domain.Member{}, nil)

	results, err := svc.SearchMembers("김치", 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
	repo.AssertCalled(t, "Search", "김치", uint64(5), SearchMaxResults)
}

func TestSummary_FallsThroughToRepo(t *testing.T) {
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	repo.On("FindByID", uint64(2)).Return(&domain.Member{
		ID: 2, PublicID: "u-2", Nickname: "판매자",
	}, nil)

	summary, err := svc.Summary(2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), summary.ID)
	assert.Equal(t, "판매자", summary.Nickname)
}

func TestSummary_NotFound(t *testing.T) {
	repo := new(mockMemberRepo)
	svc := NewMemberService(repo, nil, nil)

	repo.On("FindByID", uint64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Summary(99)
	assert.ErrorIs(t, err, common.ErrMemberNotFound)
}
