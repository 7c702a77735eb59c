package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jangteo/jangteo-backend/internal/common"
	"github.com/jangteo/jangteo-backend/internal/domain"
	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/service"
	"github.com/jangteo/jangteo-backend/pkg/jwt"
)

// MemberHandler 회원 핸들러
type MemberHandler struct {
	memberService service.MemberService
	jwtManager    *jwt.Manager
}

// NewMemberHandler 회원 핸들러 생성
func NewMemberHandler(memberService service.MemberService, jwtManager *jwt.Manager) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		jwtManager:    jwtManager,
	}
}

// RegisterMember 회원 등록 및 액세스 토큰 발급
// @Summary 회원 등록
// @Tags members
// @Router /members [post]
func (h *MemberHandler) RegisterMember(c *gin.Context) {
	var req domain.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	member, err := h.memberService.Register(&req)
	if err != nil {
		common.FailResponse(c, err, "Failed to register member")
		return
	}

	token, err := h.jwtManager.GenerateToken(member.ID, member.Nickname, member.Level)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	common.CreatedResponse(c, gin.H{
		"member":       member.ToSummary(),
		"access_token": token,
	})
}

// SearchMembers 회원 검색 (닉네임/전화번호/공개ID, 최대 20명, 본인 제외)
// @Summary 회원 검색
// @Tags members
// @Security BearerAuth
// @Param q query string true "검색어 (2글자 이상)"
// @Router /members/search [get]
func (h *MemberHandler) SearchMembers(c *gin.Context) {
	myID := middleware.GetMemberID(c)
	query := c.Query("q")

	results, err := h.memberService.SearchMembers(query, myID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to search members", err)
		return
	}

	common.SuccessResponse(c, results)
}
