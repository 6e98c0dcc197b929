package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/scepbjoern/comp-act-diary/internal/audio"
	"github.com/scepbjoern/comp-act-diary/internal/config"
	"github.com/scepbjoern/comp-act-diary/internal/database"
	"github.com/scepbjoern/comp-act-diary/internal/domain/diary"
	"github.com/scepbjoern/comp-act-diary/internal/domain/media"
	"github.com/scepbjoern/comp-act-diary/internal/middleware"
	"github.com/scepbjoern/comp-act-diary/internal/progress"
	"github.com/scepbjoern/comp-act-diary/internal/transcribe"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&diary.Entry{}, &media.Asset{}, &media.Attachment{}); err != nil {
		log.Fatal(err)
	}

	prober := audio.NewProber(cfg.FFmpegPath)
	splitter, err := audio.NewSplitter(cfg.FFmpegPath, cfg.ChunkThreshold)
	if err != nil {
		log.Fatal(err)
	}

	// Backends without a credential stay nil; selecting one through the
	// model router is then a fatal configuration error per request.
	var together, openai transcribe.Client
	if cfg.TogetherAPIKey != "" {
		together = transcribe.NewTogetherClient(cfg.TogetherAPIKey)
	}
	if cfg.OpenAIAPIKey != "" {
		openai = transcribe.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	dispatcher := transcribe.NewDispatcher(transcribe.NewRouter(cfg.TogetherModels), together, openai)

	hub := progress.NewHub()
	defer hub.Close()

	storage := media.NewStorage(cfg.UploadsDir)
	mediaRepo := media.NewRepository(db)
	entryRepo := diary.NewRepository(db)

	diarySvc := diary.NewService(
		entryRepo,
		mediaRepo,
		storage,
		prober,
		splitter,
		dispatcher,
		hub,
		cfg.MaxAudioFileBytes(),
		cfg.DefaultTranscribeModel,
	)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws/progress", progress.Handler(hub))

	api := r.Group("/api")
	{
		diary.NewHandler(diarySvc, cfg.MaxAudioFileSizeMB).RegisterRoutes(api)
		media.NewHandler(mediaRepo).RegisterRoutes(api)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
