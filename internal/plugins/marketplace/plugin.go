package marketplace

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/handler"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/repository"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace/service"
	pkgcache "github.com/jangteo/jangteo-backend/pkg/cache"
	"github.com/jangteo/jangteo-backend/pkg/jwt"
)

// Plugin 마켓플레이스 플러그인
type Plugin struct {
	db         *gorm.DB
	jwtManager *jwt.Manager

	itemRepo    repository.ItemRepository
	itemService service.ItemService
	itemHandler *handler.ItemHandler
}

// New 마켓플레이스 플러그인 생성 및 초기화 (cache는 nil 허용)
func New(db *gorm.DB, jwtManager *jwt.Manager, cache pkgcache.Service) *Plugin {
	p := &Plugin{
		db:         db,
		jwtManager: jwtManager,
	}

	p.itemRepo = repository.NewItemRepository(db)
	p.itemService = service.NewItemService(p.itemRepo, cache)
	p.itemHandler = handler.NewItemHandler(p.itemService)
	return p
}

// Name 플러그인 이름 반환
func (p *Plugin) Name() string {
	return "marketplace"
}

// ItemService 채팅 플러그인의 ItemCatalog 의존성으로 노출
func (p *Plugin) ItemService() service.ItemService {
	return p.itemService
}

// RegisterRoutes 라우트 등록
func (p *Plugin) RegisterRoutes(rg *gin.RouterGroup) {
	// 공개 API
	rg.GET("/items", p.itemHandler.ListItems)
	rg.GET("/items/:id", p.itemHandler.GetItem)

	// 인증 필요 API
	authRequired := rg.Group("")
	authRequired.Use(middleware.JWTAuth(p.jwtManager))
	{
		authRequired.POST("/items", p.itemHandler.CreateItem)
		authRequired.PATCH("/items/:id/status", p.itemHandler.UpdateStatus)
		authRequired.GET("/my/items", p.itemHandler.ListMyItems)
	}
}
