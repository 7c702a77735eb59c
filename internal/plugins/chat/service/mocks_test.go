package service

import (
	"github.com/stretchr/testify/mock"

	coredomain "github.com/jangteo/jangteo-backend/internal/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	mkdomain "github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
)

// --- Mock ConversationRepository ---

type mockConvRepo struct {
	mock.Mock
}

func (m *mockConvRepo) CreateWithParticipants(conv *domain.Conversation, memberIDs []uint64) error {
	args := m.Called(conv, memberIDs)
	return args.Error(0)
}

func (m *mockConvRepo) FindByID(id uint64) (*domain.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindByPairAndItem(pairKey string, itemID uint64) (*domain.Conversation, error) {
	args := m.Called(pairKey, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindIDsBetween(a, b uint64, itemID *uint64) ([]uint64, error) {
	args := m.Called(a, b, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *mockConvRepo) ParticipantIDs(conversationID uint64) ([]uint64, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *mockConvRepo) IsParticipant(conversationID, memberID uint64) (bool, error) {
	args := m.Called(conversationID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConvRepo) ListByMember(memberID uint64) ([]*domain.Conversation, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) Touch(conversationID uint64) error {
	return m.Called(conversationID).Error(0)
}

// --- Mock FriendshipRepository ---

type mockFriendRepo struct {
	mock.Mock
}

func (m *mockFriendRepo) CreatePending(requesterID, addresseeID uint64) error {
	return m.Called(requesterID, addresseeID).Error(0)
}

func (m *mockFriendRepo) FindByPair(a, b uint64) (*domain.Friendship, error) {
	args := m.Called(a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *mockFriendRepo) UpdateStatus(a, b uint64, status domain.FriendshipStatus) (int64, error) {
	args := m.Called(a, b, status)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock MessageRepository ---

type mockMsgRepo struct {
	mock.Mock
}

func (m *mockMsgRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMsgRepo) FindByID(id uint64) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMsgRepo) ListPage(conversationIDs []uint64, cursor *uint64, limit int) ([]*domain.Message, error) {
	args := m.Called(conversationIDs, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMsgRepo) MarkRead(conversationID, senderID uint64) (int64, error) {
	args := m.Called(conversationID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMsgRepo) CompareAndSwapReactions(id uint64, oldRaw, newRaw string) (bool, error) {
	args := m.Called(id, oldRaw, newRaw)
	return args.Bool(0), args.Error(1)
}

func (m *mockMsgRepo) LastMessage(conversationID uint64) (*domain.Message, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMsgRepo) CountUnread(conversationID, senderID uint64) (int64, error) {
	args := m.Called(conversationID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Broadcaster ---

type publishedEvent struct {
	MemberID uint64
	Event    string
	Payload  interface{}
}

// mockBroadcaster 발행 이벤트를 순서대로 기록
type mockBroadcaster struct {
	events []publishedEvent
}

func (b *mockBroadcaster) Publish(memberID uint64, event string, payload interface{}) {
	b.events = append(b.events, publishedEvent{MemberID: memberID, Event: event, Payload: payload})
}

func (b *mockBroadcaster) eventsFor(memberID uint64, event string) []publishedEvent {
	var out []publishedEvent
	for _, e := range b.events {
		if e.MemberID == memberID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// --- Mock MemberDirectory ---

type mockMembers struct {
	mock.Mock
}

func (m *mockMembers) Summary(memberID uint64) (*coredomain.MemberSummary, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coredomain.MemberSummary), args.Error(1)
}

// --- Mock ItemCatalog ---

type mockItems struct {
	mock.Mock
}

func (m *mockItems) Summary(itemID uint64) (*mkdomain.ItemSummary, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mkdomain.ItemSummary), args.Error(1)
}

func (m *mockItems) IncrementChatCount(itemID uint64) error {
	return m.Called(itemID).Error(0)
}

// --- Mock MessageService ---

type mockMsgService struct {
	mock.Mock
}

func (m *mockMsgService) Send(senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	args := m.Called(senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageResponse), args.Error(1)
}

func (m *mockMsgService) FetchAndAcknowledge(me, otherID uint64, itemID, cursor *uint64, limit int) (*domain.FetchMessagesResponse, error) {
	args := m.Called(me, otherID, itemID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FetchMessagesResponse), args.Error(1)
}
