package main

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// API 게이트웨이: /api와 /ws는 Go 백엔드로, 나머지는 레거시 웹으로 프록시
func main() {
	legacyURL := getEnv("LEGACY_BACKEND_URL", "http://localhost:80")
	apiURL := getEnv("API_URL", "http://localhost:8082")
	gatewayPort := getEnv("GATEWAY_PORT", "8080")

	log.Printf("Starting API Gateway on port %s", gatewayPort)
	log.Printf("API Backend: %s", apiURL)
	log.Printf("Legacy Backend: %s", legacyURL)

	apiTarget, err := url.Parse(apiURL)
	if err != nil {
		log.Fatalf("Invalid API_URL: %v", err)
	}
	legacyTarget, err := url.Parse(legacyURL)
	if err != nil {
		log.Fatalf("Invalid LEGACY_BACKEND_URL: %v", err)
	}

	apiProxy := httputil.NewSingleHostReverseProxy(apiTarget)
	legacyProxy := httputil.NewSingleHostReverseProxy(legacyTarget)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Gateway OK")
	})

	// API → Go Backend
	router.Any("/api/*path", func(c *gin.Context) {
		apiProxy.ServeHTTP(c.Writer, c.Request)
	})

	// WebSocket → Go Backend (httputil 프록시는 업그레이드 요청도 통과시킨다)
	router.Any("/ws/*path", func(c *gin.Context) {
		apiProxy.ServeHTTP(c.Writer, c.Request)
	})

	// 그 외 모든 요청 → 레거시
	router.NoRoute(func(c *gin.Context) {
		legacyProxy.ServeHTTP(c.Writer, c.Request)
	})

	addr := fmt.Sprintf(":%s", gatewayPort)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
