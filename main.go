package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mp3repair-backend/analysis"
	"mp3repair-backend/config"
	"mp3repair-backend/handlers"
	"mp3repair-backend/repair"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := config.SetupLogging(cfg, "mp3repair.log"); err != nil {
		log.Fatalf("setup logging: %v", err)
	}

	analyzer := analysis.NewAnalyzer(cfg.Window(), log.Default())
	analyzer.Tolerance = cfg.DurationTolerance
	repairer := repair.New(analyzer, log.Default())
	repairer.ExportWAV = cfg.ExportWAV
	repairer.PDFReport = cfg.PDFReport
	repairer.ChartWidth = cfg.Chart.Width
	repairer.ChartHeight = cfg.Chart.Height

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{
		"Content-Disposition",
		"X-Repair-Valid-Frames",
		"X-Repair-Corrupted-Frames",
		"X-Repair-Original-Duration",
		"X-Repair-Repaired-Duration",
		"X-Repair-SHA256",
		"X-Repair-Output-Dir",
	}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	mp3Handler := handlers.NewMP3Handler(analyzer, repairer, cfg.UploadLimit(), cfg.OutputDir, log.Default()).
		WithChartSize(cfg.Chart.Width, cfg.Chart.Height)

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", mp3Handler.HealthCheck)

		mp3 := api.Group("/mp3")
		{
			mp3.POST("/analyze", mp3Handler.Analyze)
			mp3.POST("/repair", mp3Handler.Repair)
		}
	}

	port := cfg.ListenPort()

	log.Printf("Server starting on port %s", port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/mp3/analyze - Cross-check duration and classify frames (returns JSON report)")
	log.Printf("  POST /api/v1/mp3/repair  - Rebuild MP3 from decodable frames (returns repaired MP3)")
	log.Printf("  GET  /api/v1/health      - Health check")
	if cfg.OutputDir != "" {
		log.Printf("Repair outputs kept under %s", cfg.OutputDir)
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
