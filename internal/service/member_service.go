package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/domain"
	"github.com/jangteo/jangteo-backend/internal/repository"
	pkgcache "github.com/jangteo/jangteo-backend/pkg/cache"
	pkges "github.com/jangteo/jangteo-backend/pkg/elasticsearch"
	pkglogger "github.com/jangteo/jangteo-backend/pkg/logger"
)

const (
	// SearchMinQueryLen 검색어 최소 길이 — 미만이면 빈 결과
	SearchMinQueryLen = 2
	// SearchMaxResults 검색 결과 상한
	SearchMaxResults = 20

	memberIndex = "members"
)

// MemberService 회원 서비스 인터페이스.
// Summary는 채팅 플러그인의 MemberDirectory 계약을 구현한다.
type MemberService interface {
	Register(req *domain.RegisterMemberRequest) (*domain.Member, error)
	SearchMembers(query string, myID uint64) ([]*domain.MemberSummary, error)
	Summary(memberID uint64) (*domain.MemberSummary, error)
}

type memberService struct {
	memberRepo repository.MemberRepository
	cache      pkgcache.Service
	es         *pkges.Client
}

// NewMemberService 회원 서비스 생성 (cache/es는 nil 허용)
func NewMemberService(memberRepo repository.MemberRepository, cache pkgcache.Service, es *pkges.Client) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		cache:      cache,
		es:         es,
	}
}

// Register 회원을 생성하고 검색 인덱스에 반영한다.
// public_id는 외부 노출용 uuid — 숫자 PK를 밖으로 내지 않는다.
func (s *memberService) Register(req *domain.RegisterMemberRequest) (*domain.Member, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", common.ErrInvalidInput)
	}

	member := &domain.Member{
		PublicID:     uuid.NewString(),
		Nickname:     nickname,
		Phone:        strings.TrimSpace(req.Phone),
		ProfileImage: req.ProfileImage,
		Level:        1,
	}
	if err := s.memberRepo.Create(member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.indexMember(member)
	return member, nil
}

// SearchMembers 닉네임/전화번호/공개ID로 최대 20명 검색.
// 2글자 미만 검색어는 no-op(빈 목록). ES가 구성되어 있으면 ES로,
// 아니면(또는 ES 실패시) LIKE 질의로 폴백한다.
func (s *memberService) SearchMembers(query string, myID uint64) ([]*domain.MemberSummary, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < SearchMinQueryLen {
		return []*domain.MemberSummary{}, nil
	}

	if s.es != nil {
		if results, err := s.searchES(query, myID); err == nil {
			return results, nil
		} else {
			pkglogger.GetLogger().Warn().Err(err).
				Str("query", query).
				Msg("elasticsearch member search failed, falling back to SQL")
		}
	}

	members, err := s.memberRepo.Search(query, myID, SearchMaxResults)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.MemberSummary, 0, len(members))
	for _, m := range members {
		results = append(results, m.ToSummary())
	}
	return results, nil
}

func (s *memberService) searchES(query string, myID uint64) ([]*domain.MemberSummary, error) {
	res, err := s.es.Search(context.Background(), memberIndex, map[string]interface{}{
		"size": SearchMaxResults,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"nickname^2", "phone", "public_id"},
						"type":   "bool_prefix",
					},
				},
				"must_not": map[string]interface{}{
					"term": map[string]interface{}{"id": myID},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	results := make([]*domain.MemberSummary, 0, len(res.Hits))
	for _, hit := range res.Hits {
		var summary domain.MemberSummary
		if err := json.Unmarshal(hit, &summary); err != nil {
			continue
		}
		results = append(results, &summary)
	}
	return results, nil
}

// Summary 회원 프로필 요약 조회 (캐시 우선)
func (s *memberService) Summary(memberID uint64) (*domain.MemberSummary, error) {
	ctx := context.Background()

	if s.cache != nil {
		var cached domain.MemberSummary
		if err := s.cache.GetMember(ctx, memberID, &cached); err == nil {
			return &cached, nil
		}
	}

	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMemberNotFound
		}
		return nil, err
	}

	summary := member.ToSummary()
	if s.cache != nil {
		_ = s.cache.SetMember(ctx, memberID, summary)
	}
	return summary, nil
}

// indexMember 검색 인덱스에 회원 문서 반영 (best-effort)
func (s *memberService) indexMember(member *domain.Member) {
	if s.es == nil {
		return
	}
	doc := map[string]interface{}{
		"id":        member.ID,
		"public_id": member.PublicID,
		"nickname":  member.Nickname,
		"phone":     member.Phone,
	}
	if err := s.es.IndexDocument(context.Background(), memberIndex, strconv.FormatUint(member.ID, 10), doc); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Uint64("member_id", member.ID).
			Msg("index member failed")
	}
}
