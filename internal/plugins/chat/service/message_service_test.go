package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/ws"
)

func newMessageServiceForTest() (*mockMsgRepo, *mockConvRepo, *mockBroadcaster, MessageService) {
	msgRepo := new(mockMsgRepo)
	convRepo := new(mockConvRepo)
	broadcaster := &mockBroadcaster{}
	svc := NewMessageService(msgRepo, convRepo, broadcaster)
	return msgRepo, convRepo, broadcaster, svc
}

func TestSend_PersistsAndBroadcastsToBothRooms(t *testing.T) {
	msgRepo, convRepo, broadcaster, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)
	msgRepo.On("Create", mock.AnythingOfType("*domain.Message")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Message).ID = 1001
		}).Return(nil)
	convRepo.On("Touch", uint64(50)).Return(nil)

	resp, err := svc.Send(1, &domain.SendMessageRequest{
		ConversationID: 50,
		RecipientID:    2,
		Content:        "택배 거래도 되나요?",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(1001), resp.ID)
	assert.Equal(t, uint64(50), resp.ConversationID)
	assert.Equal(t, uint64(1), resp.SenderID)
	assert.Equal(t, domain.MessageText, resp.Type)

	// 수신자 룸과 발신자 룸 양쪽에 new_message
	assert.Len(t, broadcaster.eventsFor(2, ws.EventNewMessage), 1)
	assert.Len(t, broadcaster.eventsFor(1, ws.EventNewMessage), 1)
}

func TestSend_Validation(t *testing.T) {
	_, _, _, svc := newMessageServiceForTest()

	_, err := svc.Send(1, &domain.SendMessageRequest{Content: "x"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Send(1, &domain.SendMessageRequest{ConversationID: 50, Content: "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSend_MediaCaptionSynthesis(t *testing.T) {
	tests := []struct {
		name        string
		mediaType   string
		wantContent string
	}{
		{"이미지", "image/jpeg", "사진을 보냈습니다"},
		{"일반 파일", "application/pdf", "파일을 보냈습니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgRepo, convRepo, _, svc := newMessageServiceForTest()

			convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)
			var saved *domain.Message
			msgRepo.On("Create", mock.AnythingOfType("*domain.Message")).
				Run(func(args mock.Arguments) {
					saved = args.Get(0).(*domain.Message)
					saved.ID = 1
				}).Return(nil)
			convRepo.On("Touch", uint64(50)).Return(nil)

			resp, err := svc.Send(1, &domain.SendMessageRequest{
				ConversationID: 50,
				RecipientID:    2,
				MediaURL:       "https://cdn.jangteo.kr/a.bin",
				MediaType:      tt.mediaType,
			})

			assert.NoError(t, err)
			assert.Equal(t, domain.MessageMedia, resp.Type)
			assert.NotNil(t, saved.Content)
			assert.Equal(t, tt.wantContent, *saved.Content)

			// 미디어 필드는 metadata 컬럼으로 접힌다
			meta := saved.MetadataMap()
			assert.Equal(t, "https://cdn.jangteo.kr/a.bin", meta["media_url"])
			assert.Equal(t, tt.mediaType, meta["media_type"])
		})
	}
}

func TestSend_DerivesRecipientFromParticipants(t *testing.T) {
	msgRepo, convRepo, broadcaster, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)
	msgRepo.On("Create", mock.Anything).Return(nil)
	convRepo.On("Touch", uint64(50)).Return(nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{
		ConversationID: 50,
		Content:        "수신자 없이 보내기",
	})

	assert.NoError(t, err)
	assert.Len(t, broadcaster.eventsFor(2, ws.EventNewMessage), 1)
}

func TestSend_SenderMustBeParticipant(t *testing.T) {
	_, convRepo, _, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{2, 3}, nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{ConversationID: 50, Content: "x"})
	assert.ErrorIs(t, err, common.ErrNotParticipant)
}

func TestSend_SuppliedRecipientDoesNotBypassParticipation(t *testing.T) {
	// recipient_id를 지정해도 참여자 검증을 건너뛸 수 없다:
	// 발신자가 참여자가 아니면 저장도 브로드캐스트도 일어나지 않는다
	msgRepo, convRepo, broadcaster, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{2, 3}, nil)

	_, err := svc.Send(9, &domain.SendMessageRequest{
		ConversationID: 50,
		RecipientID:    2,
		Content:        "끼어들기",
	})

	assert.ErrorIs(t, err, common.ErrNotParticipant)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything)
	assert.Empty(t, broadcaster.events)
}

func TestSend_SuppliedRecipientMustMatchParticipants(t *testing.T) {
	// 참여자인 발신자라도 제3자를 수신자로 지정할 수는 없다
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{
		ConversationID: 50,
		RecipientID:    7,
		Content:        "x",
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSend_NonexistentConversation(t *testing.T) {
	// FK 제약이 없으므로 참여자 행 부재가 대화 부재의 근거다
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(404)).Return([]uint64{}, nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{
		ConversationID: 404,
		RecipientID:    2,
		Content:        "x",
	})

	assert.ErrorIs(t, err, common.ErrConversationNotFound)
	msgRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSend_EmptyConversation(t *testing.T) {
	_, convRepo, _, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{}, nil)

	_, err := svc.Send(1, &domain.SendMessageRequest{ConversationID: 50, Content: "x"})
	assert.ErrorIs(t, err, common.ErrConversationNotFound)
}

func TestSend_TouchFailureIsNonFatal(t *testing.T) {
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	convRepo.On("ParticipantIDs", uint64(50)).Return([]uint64{1, 2}, nil)
	msgRepo.On("Create", mock.Anything).Return(nil)
	convRepo.On("Touch", uint64(50)).Return(errors.New("db busy"))

	_, err := svc.Send(1, &domain.SendMessageRequest{
		ConversationID: 50, RecipientID: 2, Content: "x",
	})
	assert.NoError(t, err)
}

func TestFetchAndAcknowledge_ReversesPageAndSetsCursor(t *testing.T) {
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	var itemID *uint64
	convRepo.On("FindIDsBetween", uint64(1), uint64(2), itemID).Return([]uint64{50}, nil)

	// 저장소는 id 내림차순으로 반환
	c1, c2 := "둘째", "첫째"
	page := []*domain.Message{
		{ID: 20, ConversationID: 50, SenderID: 2, Content: &c1, Reactions: "{}"},
		{ID: 10, ConversationID: 50, SenderID: 2, Content: &c2, Reactions: "{}"},
	}
	var cursor *uint64
	msgRepo.On("ListPage", []uint64{50}, cursor, 2).Return(page, nil)
	msgRepo.On("MarkRead", uint64(50), uint64(2)).Return(int64(2), nil)

	resp, err := svc.FetchAndAcknowledge(1, 2, nil, nil, 2)

	assert.NoError(t, err)
	assert.Len(t, resp.Messages, 2)
	// 표시용 시간순: 작은 id 먼저
	assert.Equal(t, uint64(10), resp.Messages[0].ID)
	assert.Equal(t, uint64(20), resp.Messages[1].ID)

	// 가득 찬 페이지 → 다음 커서는 가장 작은 id
	assert.True(t, resp.HasMore)
	assert.NotNil(t, resp.NextCursor)
	assert.Equal(t, uint64(10), *resp.NextCursor)
}

func TestFetchAndAcknowledge_ShortPageHasNoCursor(t *testing.T) {
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	var itemID *uint64
	convRepo.On("FindIDsBetween", uint64(1), uint64(2), itemID).Return([]uint64{50}, nil)

	c := "하나뿐"
	var cursor *uint64
	msgRepo.On("ListPage", []uint64{50}, cursor, 50).
		Return([]*domain.Message{{ID: 5, ConversationID: 50, SenderID: 2, Content: &c, Reactions: "{}"}}, nil)
	msgRepo.On("MarkRead", uint64(50), uint64(2)).Return(int64(0), nil)

	resp, err := svc.FetchAndAcknowledge(1, 2, nil, nil, 0)

	assert.NoError(t, err)
	assert.False(t, resp.HasMore)
	assert.Nil(t, resp.NextCursor)
}

func TestFetchAndAcknowledge_NotifiesReadOnlyWhenRowsChanged(t *testing.T) {
	msgRepo, convRepo, broadcaster, svc := newMessageServiceForTest()

	var itemID *uint64
	convRepo.On("FindIDsBetween", uint64(1), uint64(2), itemID).Return([]uint64{50}, nil)
	var cursor *uint64
	msgRepo.On("ListPage", []uint64{50}, cursor, 50).Return([]*domain.Message{}, nil)

	// 첫 조회에서 3건 읽음 처리
	msgRepo.On("MarkRead", uint64(50), uint64(2)).Return(int64(3), nil).Once()
	_, err := svc.FetchAndAcknowledge(1, 2, nil, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, broadcaster.eventsFor(2, ws.EventMessagesRead), 1)

	// 재조회는 0건 — 통지도 없어야 한다 (멱등)
	msgRepo.On("MarkRead", uint64(50), uint64(2)).Return(int64(0), nil).Once()
	_, err = svc.FetchAndAcknowledge(1, 2, nil, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, broadcaster.eventsFor(2, ws.EventMessagesRead), 1)
}

func TestFetchAndAcknowledge_LimitClamping(t *testing.T) {
	msgRepo, convRepo, _, svc := newMessageServiceForTest()

	var itemID *uint64
	convRepo.On("FindIDsBetween", uint64(1), uint64(2), itemID).Return([]uint64{50}, nil)
	var cursor *uint64
	msgRepo.On("ListPage", []uint64{50}, cursor, MaxPageLimit).Return([]*domain.Message{}, nil)
	msgRepo.On("MarkRead", uint64(50), uint64(2)).Return(int64(0), nil)

	_, err := svc.FetchAndAcknowledge(1, 2, nil, nil, 5000)
	assert.NoError(t, err)
	msgRepo.AssertCalled(t, "ListPage", []uint64{50}, cursor, MaxPageLimit)
}

func TestFetchAndAcknowledge_InvalidPair(t *testing.T) {
	_, _, _, svc := newMessageServiceForTest()

	_, err := svc.FetchAndAcknowledge(1, 1, nil, nil, 10)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.FetchAndAcknowledge(0, 2, nil, nil, 10)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
