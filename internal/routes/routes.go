package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jangteo/jangteo-backend/internal/handler"
	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/pkg/jwt"
)

// Setup 코어 라우트 등록 (플러그인 라우트는 각 플러그인의 RegisterRoutes가 담당)
func Setup(
	router *gin.Engine,
	memberHandler *handler.MemberHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api")

	// 공개 API — 등록은 토큰 발급 전이므로 인증 밖
	api.POST("/members", memberHandler.RegisterMember)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtManager))
	{
		authed.GET("/members/search", memberHandler.SearchMembers)
	}

	// WebSocket 업그레이드 — 브라우저 제약상 access_token 쿼리 파라미터 허용
	router.GET("/ws/chat", middleware.JWTAuth(jwtManager), wsHandler.Connect)
}
