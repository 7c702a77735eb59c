package service

import (
	"fmt"
	"strings"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/repository"
	"github.com/jangteo/jangteo-backend/internal/ws"
	pkglogger "github.com/jangteo/jangteo-backend/pkg/logger"
)

const (
	// DefaultPageLimit 메시지 히스토리 기본 페이지 크기
	DefaultPageLimit = 50
	// MaxPageLimit 페이지 크기 상한
	MaxPageLimit = 100
)

// MessageService 메시지 서비스 인터페이스
type MessageService interface {
	Send(senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	FetchAndAcknowledge(me, otherID uint64, itemID, cursor *uint64, limit int) (*domain.FetchMessagesResponse, error)
}

type messageService struct {
	msgRepo     repository.MessageRepository
	convRepo    repository.ConversationRepository
	broadcaster Broadcaster
}

// NewMessageService 메시지 서비스 생성
func NewMessageService(
	msgRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	broadcaster Broadcaster,
) MessageService {
	return &messageService{
		msgRepo:     msgRepo,
		convRepo:    convRepo,
		broadcaster: broadcaster,
	}
}

// Send 메시지를 저장하고 양쪽 회원 룸으로 브로드캐스트한다.
// 저장이 내구성 경계다: 브로드캐스트는 best-effort이며 실패해도
// 재시도하지 않는다 — 오프라인 클라이언트는 히스토리 조회로 따라잡는다.
func (s *messageService) Send(senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	if err := validateSend(req); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	msgType := req.Type
	if msgType == "" {
		msgType = domain.MessageText
	}

	// 미디어만 있는 메시지는 미디어 유형 기반 캡션을 합성한다
	if content == "" && req.MediaURL != "" {
		content = mediaCaption(req.MediaType)
		if msgType == domain.MessageText {
			msgType = domain.MessageMedia
		}
	}

	// 미디어 필드를 metadata 맵으로 합쳐 페이로드 변형을 한 컬럼에 담는다
	metadata := make(map[string]interface{}, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.MediaURL != "" {
		metadata["media_url"] = req.MediaURL
		if req.MediaType != "" {
			metadata["media_type"] = req.MediaType
		}
	}

	recipientID, err := s.resolveRecipient(req.ConversationID, senderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: req.ConversationID,
		SenderID:       senderID,
		Type:           msgType,
		Amount:         req.Amount,
		ReplyToID:      req.ReplyToID,
		Metadata:       domain.EncodeMetadata(metadata),
		Reactions:      "{}",
	}
	if content != "" {
		msg.Content = &content
	}

	if err := s.msgRepo.Create(msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if err := s.convRepo.Touch(req.ConversationID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Uint64("conversation_id", req.ConversationID).
			Msg("touch conversation failed")
	}

	// 수신자 룸과 발신자 룸 모두에 발행 — 발신자의 다른 세션도 에코를 받는다
	resp := msg.ToResponse()
	s.broadcaster.Publish(recipientID, ws.EventNewMessage, resp)
	s.broadcaster.Publish(senderID, ws.EventNewMessage, resp)

	return resp, nil
}

// FetchAndAcknowledge 메시지 히스토리 한 페이지를 반환하면서 상대가 보낸
// 미확인 메시지를 읽음 처리한다. 조회와 읽음 확인을 하나의 연산으로
// 묶어 호출측 계약을 명시적으로 만든다.
func (s *messageService) FetchAndAcknowledge(me, otherID uint64, itemID, cursor *uint64, limit int) (*domain.FetchMessagesResponse, error) {
	if me == 0 || otherID == 0 || me == otherID {
		return nil, fmt.Errorf("%w: invalid member pair", common.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	convIDs, err := s.convRepo.FindIDsBetween(me, otherID, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolve conversations: %w", err)
	}

	page, err := s.msgRepo.ListPage(convIDs, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// 페이지는 id 내림차순으로 조회되므로 표시용 시간순으로 뒤집는다
	messages := make([]*domain.MessageResponse, len(page))
	for i, m := range page {
		messages[len(page)-1-i] = m.ToResponse()
	}

	resp := &domain.FetchMessagesResponse{Messages: messages}
	if len(page) == limit && limit > 0 {
		smallest := page[len(page)-1].ID
		resp.NextCursor = &smallest
		resp.HasMore = true
	}

	// 읽음 처리: 상대가 보낸 미확인 메시지를 일괄 전이하고,
	// 실제 변경이 있었던 대화만 원발신자에게 통지한다 (멱등)
	for _, convID := range convIDs {
		count, err := s.msgRepo.MarkRead(convID, otherID)
		if err != nil {
			return nil, fmt.Errorf("mark read: %w", err)
		}
		if count > 0 {
			s.broadcaster.Publish(otherID, ws.EventMessagesRead, map[string]interface{}{
				"conversation_id": convID,
				"reader_id":       me,
				"read_count":      count,
			})
		}
	}

	return resp, nil
}

// resolveRecipient 참여자 행 기준으로 수신자를 확정한다. 요청의
// recipient_id는 클라이언트 입력이므로 신뢰하지 않는다 — 항상 참여자
// 목록을 읽어 발신자 소속을 단언하고, 수신자는 나머지 참여자로만
// 결정한다 (지정된 값이 있으면 일치 검증). private 대화는 참여자가
// 정확히 2명이라는 불변식도 여기서 단언한다.
func (s *messageService) resolveRecipient(conversationID, senderID, requestedID uint64) (uint64, error) {
	ids, err := s.convRepo.ParticipantIDs(conversationID)
	if err != nil {
		return 0, fmt.Errorf("load participants: %w", err)
	}
	if len(ids) == 0 {
		return 0, common.ErrConversationNotFound
	}

	var others []uint64
	sender := false
	for _, id := range ids {
		if id == senderID {
			sender = true
			continue
		}
		others = append(others, id)
	}
	if !sender {
		return 0, common.ErrNotParticipant
	}
	if len(others) != 1 {
		return 0, fmt.Errorf("conversation %d has %d participants, want 2", conversationID, len(ids))
	}
	if requestedID != 0 && requestedID != others[0] {
		return 0, fmt.Errorf("%w: recipient is not a participant of the conversation", common.ErrInvalidInput)
	}
	return others[0], nil
}

// validateSend 전송 요청 검증: 대화 id와 content/미디어/위치/metadata 중
// 하나 이상이 있어야 한다.
func validateSend(req *domain.SendMessageRequest) error {
	if req.ConversationID == 0 {
		return fmt.Errorf("%w: conversation_id is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" &&
		req.MediaURL == "" &&
		req.Type != domain.MessageLocation &&
		len(req.Metadata) == 0 {
		return fmt.Errorf("%w: message needs content, media, location or metadata", common.ErrInvalidInput)
	}
	return nil
}

// mediaCaption 미디어 유형별 자리표시 캡션
func mediaCaption(mediaType string) string {
	if strings.HasPrefix(mediaType, "image") {
		return "사진을 보냈습니다"
	}
	return "파일을 보냈습니다"
}
