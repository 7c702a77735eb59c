package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/repository"
	"github.com/jangteo/jangteo-backend/internal/ws"
)

// 동시 토글 경합시 낙관적 재시도 횟수
const reactionMaxRetries = 5

// ReactionService 리액션 토글 서비스 인터페이스
type ReactionService interface {
	Toggle(callerID, messageID uint64, emoji string) (map[string]int, error)
}

type reactionService struct {
	msgRepo     repository.MessageRepository
	convRepo    repository.ConversationRepository
	broadcaster Broadcaster
}

// NewReactionService 리액션 서비스 생성
func NewReactionService(
	msgRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	broadcaster Broadcaster,
) ReactionService {
	return &reactionService{
		msgRepo:     msgRepo,
		convRepo:    convRepo,
		broadcaster: broadcaster,
	}
}

// Toggle 메시지의 이모지 카운트 토글: 0이면 1로, 0보다 크면 1 감소
// (0이 되면 키 삭제). 카운트 토글이지 회원별 토글이 아니다 — 누가
// 반응했는지는 저장하지 않는다.
//
// reactions 컬럼 전체의 read-modify-write이므로 낙관적 CAS로 갱신하고
// 경합시 재읽기 후 재시도한다. 갱신 결과는 대화의 모든 참여자 룸으로
// 브로드캐스트된다 (호출자 본인의 다른 세션 포함).
func (s *reactionService) Toggle(callerID, messageID uint64, emoji string) (map[string]int, error) {
	if emoji == "" {
		return nil, fmt.Errorf("%w: emoji is required", common.ErrInvalidInput)
	}

	var (
		reactions      map[string]int
		conversationID uint64
	)

	for attempt := 0; ; attempt++ {
		msg, err := s.msgRepo.FindByID(messageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrMessageNotFound
			}
			return nil, fmt.Errorf("find message: %w", err)
		}
		conversationID = msg.ConversationID

		if attempt == 0 {
			ok, err := s.convRepo.IsParticipant(conversationID, callerID)
			if err != nil {
				return nil, fmt.Errorf("check participant: %w", err)
			}
			if !ok {
				return nil, common.ErrNotParticipant
			}
		}

		reactions = msg.ReactionsMap()
		if count := reactions[emoji]; count > 0 {
			if count == 1 {
				delete(reactions, emoji)
			} else {
				reactions[emoji] = count - 1
			}
		} else {
			reactions[emoji] = 1
		}

		swapped, err := s.msgRepo.CompareAndSwapReactions(messageID, msg.Reactions, domain.EncodeReactions(reactions))
		if err != nil {
			return nil, fmt.Errorf("update reactions: %w", err)
		}
		if swapped {
			break
		}
		if attempt+1 >= reactionMaxRetries {
			return nil, fmt.Errorf("toggle reaction: contention on message %d", messageID)
		}
	}

	participants, err := s.convRepo.ParticipantIDs(conversationID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	payload := map[string]interface{}{
		"message_id":      messageID,
		"conversation_id": conversationID,
		"reactions":       reactions,
	}
	for _, pid := range participants {
		s.broadcaster.Publish(pid, ws.EventReactionUpdated, payload)
	}

	return reactions, nil
}
