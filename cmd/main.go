package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"claimflow/backend/internal/api/handler"
	"claimflow/backend/internal/blobstore"
	"claimflow/backend/internal/claims"
	"claimflow/backend/internal/models"
	"claimflow/backend/internal/notify"
	"claimflow/backend/internal/storage"
	"claimflow/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(zlog *zap.Logger) (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ClaimType{},
		&models.Claim{},
		&models.Document{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seedClaimTypes(db, zlog)

	zlog.Info("database and redis connections established, migrations complete")
	return db, rdb
}

// seedClaimTypes inserts the reference claim types on first start.
func seedClaimTypes(db *gorm.DB, zlog *zap.Logger) {
	for _, name := range models.SeedClaimTypes {
		ct := models.ClaimType{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&ct).Error; err != nil {
			log.Fatalf("Failed to seed claim type %q: %v", name, err)
		}
	}
	zlog.Info("claim types seeded", zap.Int("count", len(models.SeedClaimTypes)))
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	zlog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(zlog)
	s := storage.NewStorageService(db, rdb, zlog)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	blobs, err := blobstore.New(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	claimsSvc := claims.NewService(s, blobs, zlog)

	// Optional Telegram ops alerts on terminal decisions.
	var alerter *notify.TelegramAlerter
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, convErr := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if convErr != nil {
			log.Fatalf("TELEGRAM_CHAT_ID is not a valid chat id: %v", convErr)
		}
		alerter, err = notify.NewTelegramAlerter(token, chatID, zlog)
		if err != nil {
			log.Fatalf("Failed to connect Telegram bot: %v", err)
		}
	}

	hub := notify.NewHub(s, alerter, zlog)
	go hub.Run(context.Background())

	r := gin.Default()
	h := handler.NewHandler(claimsSvc, s, hub, []byte(jwtSecret), zlog)

	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", h.Authenticate())

	claimant := authed.Group("/claimant", h.RequireRole(models.RoleClaimant))
	claimant.POST("/claims", h.CreateClaim)
	claimant.GET("/claims", h.ListClaims)
	claimant.GET("/claims/:id", h.GetClaim)

	reviewer := authed.Group("/reviewer", h.RequireRole(models.RoleReviewer))
	reviewer.GET("/claims", h.ListClaims)
	reviewer.GET("/claims/:id", h.GetClaim)
	reviewer.PATCH("/claims/:id/submit-for-approval", h.SubmitForApproval)

	checker := authed.Group("/checker", h.RequireRole(models.RoleChecker))
	checker.GET("/claims", h.ListClaims)
	checker.GET("/claims/:id", h.GetClaim)
	checker.PATCH("/claims/:id/assign", h.AssignClaim)
	checker.PATCH("/claims/:id/approve", h.ApproveClaim)
	checker.PATCH("/claims/:id/deny", h.DenyClaim)

	r.GET("/ws", h.Authenticate(), h.FeedSocket)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	zlog.Info("starting claimflow backend", zap.String("addr", addr))
	log.Fatal(server.ListenAndServe())
}
