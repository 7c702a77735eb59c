package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/ws"
)

func newReactionServiceForTest() (*mockMsgRepo, *mockConvRepo, *mockBroadcaster, ReactionService) {
	msgRepo := new(mockMsgRepo)
	convRepo := new(mockConvRepo)
	broadcaster := &mockBroadcaster{}
	svc := NewReactionService(msgRepo, convRepo, broadcaster)
	return msgRepo, convRepo, broadcaster, svc
}

func TestToggle_AddAndRemoveRoundTrip(t *testing.T) {
	msgRepo, convRepo, _, svc := newReactionServiceForTest()

	msg := &domain.Message{ID: 10, ConversationID: 50, Reactions: "{}"}
	msgRepo.On("FindByID", uint64(10)).Return(msg, nil).Once()
	convRepo.On("IsParticipant", uint64(50), uint64(1)).Return(true, nil)
	msgRepo.On("CompareAndSwapReactions", uint64(10), "{}", domain.EncodeReactions(map[string]int{"👍": 1})).
		Return(true, nil).Once()
	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)

	got, err := svc.Toggle(1, 10, "👍")
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"👍": 1}, got)

	// 같은 이모지를 다시 토글하면 키가 사라진다
	withReaction := &domain.Message{ID: 10, ConversationID: 50, Reactions: domain.EncodeReactions(map[string]int{"👍": 1})}
	msgRepo.On("FindByID", uint64(10)).Return(withReaction, nil).Once()
	msgRepo.On("CompareAndSwapReactions", uint64(10), withReaction.Reactions, "{}").
		Return(true, nil).Once()

	got, err = svc.Toggle(1, 10, "👍")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestToggle_DecrementsAboveOne(t *testing.T) {
	msgRepo, convRepo, _, svc := newReactionServiceForTest()

	raw := domain.EncodeReactions(map[string]int{"❤️": 3})
	msg := &domain.Message{ID: 10, ConversationID: 50, Reactions: raw}
	msgRepo.On("FindByID", uint64(10)).Return(msg, nil)
	convRepo.On("IsParticipant", uint64(50), uint64(1)).Return(true, nil)
	msgRepo.On("CompareAndSwapReactions", uint64(10), raw, domain.EncodeReactions(map[string]int{"❤️": 2})).
		Return(true, nil)
	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)

	got, err := svc.Toggle(1, 10, "❤️")
	assert.NoError(t, err)
	assert.Equal(t, 2, got["❤️"])
}

func TestToggle_RetriesOnContention(t *testing.T) {
	msgRepo, convRepo, broadcaster, svc := newReactionServiceForTest()

	first := &domain.Message{ID: 10, ConversationID: 50, Reactions: "{}"}
	msgRepo.On("FindByID", uint64(10)).Return(first, nil).Once()
	convRepo.On("IsParticipant", uint64(50), uint64(1)).Return(true, nil).Once()
	// 경쟁 갱신이 먼저 반영되어 첫 CAS 실패
	msgRepo.On("CompareAndSwapReactions", uint64(10), "{}", domain.EncodeReactions(map[string]int{"👍": 1})).
		Return(false, nil).Once()

	// 재읽기: 경쟁자가 이미 👍 1을 넣어둔 상태 → 이번 토글은 제거
	refreshed := &domain.Message{ID: 10, ConversationID: 50, Reactions: domain.EncodeReactions(map[string]int{"👍": 1})}
	msgRepo.On("FindByID", uint64(10)).Return(refreshed, nil).Once()
	msgRepo.On("CompareAndSwapReactions", uint64(10), refreshed.Reactions, "{}").
		Return(true, nil).Once()
	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)

	got, err := svc.Toggle(1, 10, "👍")
	assert.NoError(t, err)
	assert.Empty(t, got)

	// 참여자 검사는 첫 시도에만 수행
	convRepo.AssertNumberOfCalls(t, "IsParticipant", 1)

	// 최종 상태는 모든 참여자에게 브로드캐스트
	assert.Len(t, broadcaster.eventsFor(1, ws.EventReactionUpdated), 1)
	assert.Len(t, broadcaster.eventsFor(2, ws.EventReactionUpdated), 1)
}

func TestToggle_GivesUpAfterMaxRetries(t *testing.T) {
	msgRepo, convRepo, _, svc := newReactionServiceForTest()

	msg := &domain.Message{ID: 10, ConversationID: 50, Reactions: "{}"}
	msgRepo.On("FindByID", uint64(10)).Return(msg, nil)
	convRepo.On("IsParticipant", uint64(50), uint64(1)).Return(true, nil)
	msgRepo.On("CompareAndSwapReactions", uint64(10), "{}", domain.EncodeReactions(map[string]int{"👍": 1})).
		Return(false, nil)

	_, err := svc.Toggle(1, 10, "👍")
	assert.Error(t, err)
	msgRepo.AssertNumberOfCalls(t, "CompareAndSwapReactions", reactionMaxRetries)
}

func TestToggle_MessageNotFound(t *testing.T) {
	msgRepo, _, _, svc := newReactionServiceForTest()

	msgRepo.On("FindByID", uint64(999)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Toggle(1, 999, "👍")
	assert.ErrorIs(t, err, common.ErrMessageNotFound)
}

func TestToggle_NonParticipantRejected(t *testing.T) {
	msgRepo, convRepo, broadcaster, svc := newReactionServiceForTest()

	msg := &domain.Message{ID: 10, ConversationID: 50, Reactions: "{}"}
	msgRepo.On("FindByID", uint64(10)).Return(msg, nil)
	convRepo.On("IsParticipant", uint64(50), uint64(9)).Return(false, nil)

	_, err := svc.Toggle(9, 10, "👍")
	assert.ErrorIs(t, err, common.ErrNotParticipant)
	assert.Empty(t, broadcaster.events)
}

func TestToggle_EmptyEmoji(t *testing.T) {
	_, _, _, svc := newReactionServiceForTest()

	_, err := svc.Toggle(1, 10, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
