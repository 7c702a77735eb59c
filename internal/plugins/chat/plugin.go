package chat

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/handler"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/repository"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat/service"
	"github.com/jangteo/jangteo-backend/pkg/jwt"
)

// Plugin 채팅 플러그인
type Plugin struct {
	db         *gorm.DB
	jwtManager *jwt.Manager

	// Repositories
	convRepo   repository.ConversationRepository
	friendRepo repository.FriendshipRepository
	msgRepo    repository.MessageRepository

	// Services
	convService     service.ConversationService
	msgService      service.MessageService
	reactionService service.ReactionService

	// Handlers
	chatHandler *handler.ChatHandler
}

// Deps 플러그인 외부 의존성
type Deps struct {
	DB          *gorm.DB
	JWTManager  *jwt.Manager
	Broadcaster service.Broadcaster
	Members     service.MemberDirectory
	Items       service.ItemCatalog
}

// New 채팅 플러그인 생성 및 초기화
func New(deps Deps) *Plugin {
	p := &Plugin{
		db:         deps.DB,
		jwtManager: deps.JWTManager,
	}

	broadcaster := &meteredBroadcaster{inner: deps.Broadcaster}

	p.convRepo = repository.NewConversationRepository(p.db)
	p.friendRepo = repository.NewFriendshipRepository(p.db)
	p.msgRepo = repository.NewMessageRepository(p.db)

	p.msgService = service.NewMessageService(p.msgRepo, p.convRepo, broadcaster)
	p.convService = service.NewConversationService(
		p.convRepo, p.friendRepo, p.msgRepo,
		p.msgService, broadcaster, deps.Members, deps.Items,
	)
	p.reactionService = service.NewReactionService(p.msgRepo, p.convRepo, broadcaster)

	p.chatHandler = handler.NewChatHandler(p.convService, p.msgService, p.reactionService)
	return p
}

// Name 플러그인 이름 반환
func (p *Plugin) Name() string {
	return "chat"
}

// RegisterRoutes 라우트 등록 — 모든 채팅 API는 인증 필요
func (p *Plugin) RegisterRoutes(rg *gin.RouterGroup) {
	authRequired := rg.Group("")
	authRequired.Use(middleware.JWTAuth(p.jwtManager))
	{
		authRequired.POST("/conversations", p.chatHandler.InitiateConversation)
		authRequired.GET("/conversations", p.chatHandler.ListConversations)
		authRequired.POST("/messages", p.chatHandler.SendMessage)
		authRequired.GET("/messages", p.chatHandler.FetchMessages)
		authRequired.POST("/messages/:id/reactions", p.chatHandler.ToggleReaction)
		authRequired.PATCH("/friendships", p.chatHandler.UpdateFriendship)
	}
}

// meteredBroadcaster 발행 이벤트를 Prometheus 카운터에 기록
type meteredBroadcaster struct {
	inner service.Broadcaster
}

func (b *meteredBroadcaster) Publish(memberID uint64, event string, payload interface{}) {
	middleware.CountChatEvent(event)
	b.inner.Publish(memberID, event, payload)
}
