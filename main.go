package main

import (
	"context"
	"log"
	"os"
	"time"

	"recruit-iq/config"
	"recruit-iq/database"
	"recruit-iq/internal/ai"
	"recruit-iq/internal/ai/gemini"
	routes "recruit-iq/internal/app/http"
	"recruit-iq/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	zlog, err := logger.New(os.Getenv("LOG_JSON") == "true", os.Getenv("LOG_DEBUG") == "true")
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	var analyzer ai.Analyzer
	if config.GEMINI_API_KEY != "" {
		generator, err := gemini.NewGenerator(context.Background(), config.GEMINI_API_KEY, config.GEMINI_MODEL)
		if err != nil {
			log.Fatal("Failed to init Gemini client:", err)
		}
		analyzer = gemini.NewAnalyzer(generator, zlog)
		zlog.Info("gemini analyzer ready", zap.String("model", generator.Model()))
	} else {
		zlog.Warn("GEMINI_API_KEY not set, analysis endpoint disabled")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, analyzer, zlog)

	r.Run(":" + config.PORT)
}
