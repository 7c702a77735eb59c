package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jangteo/jangteo-backend/internal/config"
	"github.com/jangteo/jangteo-backend/internal/handler"
	"github.com/jangteo/jangteo-backend/internal/middleware"
	"github.com/jangteo/jangteo-backend/internal/migration"
	"github.com/jangteo/jangteo-backend/internal/plugins/chat"
	"github.com/jangteo/jangteo-backend/internal/plugins/marketplace"
	"github.com/jangteo/jangteo-backend/internal/repository"
	"github.com/jangteo/jangteo-backend/internal/routes"
	"github.com/jangteo/jangteo-backend/internal/service"
	"github.com/jangteo/jangteo-backend/internal/ws"
	pkgcache "github.com/jangteo/jangteo-backend/pkg/cache"
	pkges "github.com/jangteo/jangteo-backend/pkg/elasticsearch"
	"github.com/jangteo/jangteo-backend/pkg/jwt"
	pkglogger "github.com/jangteo/jangteo-backend/pkg/logger"
	pkgredis "github.com/jangteo/jangteo-backend/pkg/redis"
)

// @title           Jangteo Backend API
// @version         1.0
// @description     장터 - 중고거래 플랫폼 백엔드 API
//
// @host            localhost:8082
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	zlog := pkglogger.GetLogger()
	zlog.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting jangteo-backend")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL 연결
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	zlog.Info().Msg("connected to MySQL")
	if err := migration.Run(db); err != nil {
		zlog.Warn().Err(err).Msg("migration warning")
	}

	// Redis 연결 (없어도 기동 — 단일 인스턴스 fan-out + 캐시 미사용으로 동작)
	redisClient, err := pkgredis.NewClient(pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		redisClient = nil
	} else {
		zlog.Info().Msg("connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	// Elasticsearch 연결 (선택 — 회원 검색 가속)
	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			zlog.Warn().Err(err).Msg("elasticsearch connection failed, continuing without it")
			esClient = nil
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()
	defer wsHub.Stop()

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn.Std(), cfg.JWT.RefreshIn.Std())

	// Gin 라우터
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	// Middleware
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "jangteo-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 코어 서비스
	memberRepo := repository.NewMemberRepository(db)
	memberService := service.NewMemberService(memberRepo, cacheService, esClient)
	memberHandler := handler.NewMemberHandler(memberService, jwtManager)
	wsHandler := handler.NewWSHandler(wsHub, allowOrigins)

	routes.Setup(router, memberHandler, wsHandler, jwtManager)

	// 플러그인
	marketplacePlugin := marketplace.New(db, jwtManager, cacheService)
	marketplacePlugin.RegisterRoutes(router.Group("/api/plugins/marketplace"))

	chatPlugin := chat.New(chat.Deps{
		DB:          db,
		JWTManager:  jwtManager,
		Broadcaster: wsHub,
		Members:     memberService,
		Items:       marketplacePlugin.ItemService(),
	})
	chatPlugin.RegisterRoutes(router.Group("/api/plugins/chat"))

	// 서버 시작
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	zlog.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB MySQL 연결 및 gorm 설정.
// TranslateError로 드라이버 에러를 gorm.ErrDuplicatedKey 등으로 변환한다 —
// 채팅의 find-or-create 충돌 처리가 이 변환에 의존한다.
func initDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
	}
	if cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	} else {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
