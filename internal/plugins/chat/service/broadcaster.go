package service

import (
	coredomain "github.com/jangteo/jangteo-backend/internal/domain"
	mkdomain "github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
)

// Broadcaster 회원별 룸으로의 실시간 이벤트 발행.
// 전달 보장은 "현재 접속 중이면 수신"뿐이다 — 발행 실패는 호출측에
// 전파되지 않으며, 저장 성공이 전달 실패로 롤백되는 일은 없다.
// 생성자 주입으로 전달되고 ws.Hub가 구현한다.
type Broadcaster interface {
	Publish(memberID uint64, event string, payload interface{})
}

// MemberDirectory 대화 상대 프로필 요약 조회
type MemberDirectory interface {
	Summary(memberID uint64) (*coredomain.MemberSummary, error)
}

// ItemCatalog 대화에 연결된 상품 요약 조회
type ItemCatalog interface {
	Summary(itemID uint64) (*mkdomain.ItemSummary, error)
	IncrementChatCount(itemID uint64) error
}
