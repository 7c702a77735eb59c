package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/service"
)

// ChatHandler 채팅 핸들러
type ChatHandler struct {
	convService     service.ConversationService
	msgService      service.MessageService
	reactionService service.ReactionService
}

// NewChatHandler 채팅 핸들러 생성
func NewChatHandler(
	convService service.ConversationService,
	msgService service.MessageService,
	reactionService service.ReactionService,
) *ChatHandler {
	return &ChatHandler{
		convService:     convService,
		msgService:      msgService,
		reactionService: reactionService,
	}
}

// InitiateConversation 대화 시작 (찾거나 생성 후 첫 메시지 전송)
// @Summary 대화 시작
// @Tags chat
// @Security BearerAuth
// @Router /conversations [post]
func (h *ChatHandler) InitiateConversation(c *gin.Context) {
	var req domain.InitiateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	senderID := middleware.GetMemberID(c)
	resp, err := h.convService.InitiateOrContinue(senderID, &req)
	if err != nil {
		common.FailResponse(c, err, "Failed to initiate conversation")
		return
	}

	common.CreatedResponse(c, resp)
}

// ListConversations 대화 목록 조회
// @Summary 대화 목록
// @Tags chat
// @Security BearerAuth
// @Router /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	memberID := middleware.GetMemberID(c)
	entries, err := h.convService.ListConversations(memberID)
	if err != nil {
		common.FailResponse(c, err, "Failed to list conversations")
		return
	}

	common.SuccessResponse(c, entries)
}

// SendMessage 메시지 전송
// @Summary 메시지 전송
// @Tags chat
// @Security BearerAuth
// @Router /messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	senderID := middleware.GetMemberID(c)
	msg, err := h.msgService.Send(senderID, &req)
	if err != nil {
		common.FailResponse(c, err, "Failed to send message")
		return
	}

	common.CreatedResponse(c, msg)
}

// FetchMessages 메시지 히스토리 조회 (읽음 처리 부수효과 포함)
// @Summary 메시지 히스토리
// @Tags chat
// @Security BearerAuth
// @Param other_id query int true "상대 회원 ID"
// @Param item_id query int false "상품 ID로 한정"
// @Param cursor query int false "이미 본 가장 작은 메시지 ID"
// @Param limit query int false "페이지 크기 (기본 50)"
// @Router /messages [get]
func (h *ChatHandler) FetchMessages(c *gin.Context) {
	me := middleware.GetMemberID(c)

	otherID, err := strconv.ParseUint(c.Query("other_id"), 10, 64)
	if err != nil || otherID == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "other_id is required", err)
		return
	}

	var itemID *uint64
	if v, err := strconv.ParseUint(c.Query("item_id"), 10, 64); err == nil {
		itemID = &v
	}
	var cursor *uint64
	if v, err := strconv.ParseUint(c.Query("cursor"), 10, 64); err == nil {
		cursor = &v
	}
	limit := service.DefaultPageLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	resp, err := h.msgService.FetchAndAcknowledge(me, otherID, itemID, cursor, limit)
	if err != nil {
		common.FailResponse(c, err, "Failed to fetch messages")
		return
	}

	common.SuccessResponse(c, resp)
}

// ToggleReaction 메시지 리액션 토글
// @Summary 리액션 토글
// @Tags chat
// @Security BearerAuth
// @Router /messages/{id}/reactions [post]
func (h *ChatHandler) ToggleReaction(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message id", err)
		return
	}

	var req domain.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	callerID := middleware.GetMemberID(c)
	reactions, err := h.reactionService.Toggle(callerID, messageID, req.Emoji)
	if err != nil {
		common.FailResponse(c, err, "Failed to toggle reaction")
		return
	}

	common.SuccessResponse(c, gin.H{"reactions": reactions})
}

// UpdateFriendship 친구 상태 변경 (수락/차단)
// @Summary 친구 상태 변경
// @Tags chat
// @Security BearerAuth
// @Router /friendships [patch]
func (h *ChatHandler) UpdateFriendship(c *gin.Context) {
	var req domain.UpdateFriendshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actorID := middleware.GetMemberID(c)
	f, err := h.convService.UpdateFriendship(actorID, &req)
	if err != nil {
		common.FailResponse(c, err, "Failed to update friendship")
		return
	}

	common.SuccessResponse(c, f)
}
