package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/repository"
	"github.com/jangteo/jangteo-backend/internal/ws"
	pkglogger "github.com/jangteo/jangteo-backend/pkg/logger"
)

// ConversationService 대화 서비스 인터페이스
type ConversationService interface {
	InitiateOrContinue(senderID uint64, req *domain.InitiateConversationRequest) (*domain.InitiateConversationResponse, error)
	ListConversations(memberID uint64) ([]*domain.ConversationListEntry, error)
	UpdateFriendship(actorID uint64, req *domain.UpdateFriendshipRequest) (*domain.Friendship, error)
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	friendRepo  repository.FriendshipRepository
	msgRepo     repository.MessageRepository
	msgService  MessageService
	broadcaster Broadcaster
	members     MemberDirectory
	items       ItemCatalog
}

// NewConversationService 대화 서비스 생성
func NewConversationService(
	convRepo repository.ConversationRepository,
	friendRepo repository.FriendshipRepository,
	msgRepo repository.MessageRepository,
	msgService MessageService,
	broadcaster Broadcaster,
	members MemberDirectory,
	items ItemCatalog,
) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		friendRepo:  friendRepo,
		msgRepo:     msgRepo,
		msgService:  msgService,
		broadcaster: broadcaster,
		members:     members,
		items:       items,
	}
}

// InitiateOrContinue (발신자, 수신자, 상품) 조합의 대화를 찾거나 생성하고
// 첫 메시지를 전송한다. 상품 id는 식별 키의 일부다 — 같은 두 회원이
// 다른 상품으로 연락하면 별개의 대화가 만들어진다.
func (s *conversationService) InitiateOrContinue(senderID uint64, req *domain.InitiateConversationRequest) (*domain.InitiateConversationResponse, error) {
	if req.RecipientID == 0 || req.RecipientID == senderID {
		return nil, fmt.Errorf("%w: invalid recipient", common.ErrInvalidInput)
	}

	var conv *domain.Conversation
	created := false

	if req.ConversationID != 0 {
		// 대화 id가 지정되면 탐색/생성을 건너뛴다
		found, err := s.convRepo.FindByID(req.ConversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrConversationNotFound
			}
			return nil, fmt.Errorf("find conversation: %w", err)
		}
		ok, err := s.convRepo.IsParticipant(found.ID, senderID)
		if err != nil {
			return nil, fmt.Errorf("check participant: %w", err)
		}
		if !ok {
			return nil, common.ErrNotParticipant
		}
		conv = found
	} else {
		var err error
		conv, created, err = s.findOrCreate(senderID, req.RecipientID, req.ItemID)
		if err != nil {
			return nil, err
		}
	}

	status := domain.FriendshipPending
	requesterID := senderID
	if created {
		if err := s.friendRepo.CreatePending(senderID, req.RecipientID); err != nil {
			return nil, fmt.Errorf("create friendship: %w", err)
		}
		if req.ItemID != 0 {
			if err := s.items.IncrementChatCount(req.ItemID); err != nil {
				pkglogger.GetLogger().Warn().Err(err).
					Uint64("item_id", req.ItemID).
					Msg("increment chat count failed")
			}
		}
	} else {
		// 기존 대화: 현재 친구 상태를 조회해 표면화한다.
		// 행이 없으면 pending/발신자로 기본 처리 (방어적 기본값)
		f, err := s.friendRepo.FindByPair(senderID, req.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("find friendship: %w", err)
		}
		if f != nil {
			status = f.Status
			requesterID = f.RequesterID
		}
	}

	msg, err := s.msgService.Send(senderID, &domain.SendMessageRequest{
		ConversationID: conv.ID,
		Content:        req.Content,
		RecipientID:    req.RecipientID,
		Type:           req.Type,
		Metadata:       req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	// 수신자에게만 연락 요청 알림 (new_message는 Send가 발행)
	s.broadcaster.Publish(req.RecipientID, ws.EventNewRequest, map[string]interface{}{
		"conversation_id":   conv.ID,
		"requester_id":      requesterID,
		"friendship_status": status,
		"message":           msg,
	})

	return &domain.InitiateConversationResponse{
		ConversationID:   conv.ID,
		FriendshipStatus: status,
		RequesterID:      requesterID,
		Message:          msg,
	}, nil
}

// findOrCreate pair_key+item_id 유니크 제약을 동시성 방벽으로 사용한다.
// 경쟁 호출이 먼저 생성했으면 중복 키 에러를 "이미 존재 → 재조회"로 처리.
func (s *conversationService) findOrCreate(senderID, recipientID, itemID uint64) (*domain.Conversation, bool, error) {
	pairKey := domain.PairKey(senderID, recipientID)

	conv, err := s.convRepo.FindByPairAndItem(pairKey, itemID)
	if err != nil {
		return nil, false, fmt.Errorf("find conversation: %w", err)
	}
	if conv != nil {
		return conv, false, nil
	}

	conv = &domain.Conversation{
		Type:    domain.ConversationPrivate,
		ItemID:  itemID,
		PairKey: pairKey,
	}
	err = s.convRepo.CreateWithParticipants(conv, []uint64{senderID, recipientID})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.convRepo.FindByPairAndItem(pairKey, itemID)
			if ferr != nil {
				return nil, false, fmt.Errorf("refetch conversation: %w", ferr)
			}
			if existing == nil {
				return nil, false, fmt.Errorf("conversation vanished after conflict: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}
	return conv, true, nil
}

// ListConversations 회원의 대화 목록 (최근 메시지순), 상대 프로필과
// 마지막 메시지, 안 읽은 수, 상품 요약으로 보강
func (s *conversationService) ListConversations(memberID uint64) ([]*domain.ConversationListEntry, error) {
	convs, err := s.convRepo.ListByMember(memberID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	entries := make([]*domain.ConversationListEntry, 0, len(convs))
	for _, conv := range convs {
		pids, err := s.convRepo.ParticipantIDs(conv.ID)
		if err != nil {
			return nil, fmt.Errorf("load participants: %w", err)
		}
		otherID := uint64(0)
		for _, id := range pids {
			if id != memberID {
				otherID = id
				break
			}
		}
		if otherID == 0 {
			pkglogger.GetLogger().Warn().
				Uint64("conversation_id", conv.ID).
				Msg("conversation without counterpart, skipping")
			continue
		}

		entry := &domain.ConversationListEntry{
			ConversationID: conv.ID,
			UpdatedAt:      conv.UpdatedAt,
		}

		if other, err := s.members.Summary(otherID); err == nil {
			entry.Other = other
		} else {
			pkglogger.GetLogger().Warn().Err(err).
				Uint64("member_id", otherID).
				Msg("load member summary failed")
		}

		last, err := s.msgRepo.LastMessage(conv.ID)
		if err != nil {
			return nil, fmt.Errorf("load last message: %w", err)
		}
		if last != nil {
			entry.LastMessage = last.ToResponse()
		}

		unread, err := s.msgRepo.CountUnread(conv.ID, otherID)
		if err != nil {
			return nil, fmt.Errorf("count unread: %w", err)
		}
		entry.UnreadCount = unread

		if conv.ItemID != 0 {
			if item, err := s.items.Summary(conv.ItemID); err == nil {
				entry.Item = item
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// UpdateFriendship 친구 상태 변경. 수락은 수신자만, 차단은 양쪽 모두 가능.
func (s *conversationService) UpdateFriendship(actorID uint64, req *domain.UpdateFriendshipRequest) (*domain.Friendship, error) {
	if req.OtherID == 0 || req.OtherID == actorID {
		return nil, fmt.Errorf("%w: invalid member", common.ErrInvalidInput)
	}
	if req.Status != domain.FriendshipAccepted && req.Status != domain.FriendshipBlocked {
		return nil, fmt.Errorf("%w: status must be accepted or blocked", common.ErrInvalidInput)
	}

	f, err := s.friendRepo.FindByPair(actorID, req.OtherID)
	if err != nil {
		return nil, fmt.Errorf("find friendship: %w", err)
	}
	if f == nil {
		return nil, common.ErrNotFound
	}
	if req.Status == domain.FriendshipAccepted && actorID != f.AddresseeID {
		return nil, common.ErrForbidden
	}

	if _, err := s.friendRepo.UpdateStatus(actorID, req.OtherID, req.Status); err != nil {
		return nil, fmt.Errorf("update friendship: %w", err)
	}
	f.Status = req.Status
	return f, nil
}
