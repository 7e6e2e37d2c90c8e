package app

import (
	"database/sql"
	"fmt"

	"vernopromo/internal/config"
	"vernopromo/internal/handlers"
	"vernopromo/internal/logger"
	"vernopromo/internal/middleware"
	"vernopromo/internal/pdf"
	"vernopromo/internal/repositories"
	"vernopromo/internal/routes"
	"vernopromo/internal/services"
	"vernopromo/internal/storage"
	"vernopromo/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "vernopromo/docs"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	middleware.SetSecret(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Log.Fatalf("db connect: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Log.Errorf("db close: %v", err)
		}
	}()

	// === Storage ===
	files, err := storage.NewFileStorage(cfg.Files.RootDir, cfg.Files.MaxUploadMB)
	if err != nil {
		logger.Log.Fatalf("storage init: %v", err)
	}

	// === Repos ===
	memberRepo := repositories.NewMemberRepository(db)
	lookupRepo := repositories.NewLookupRepository(db)

	// === Внешние адаптеры ===
	smsClient := utils.NewSMSClient(cfg.SMS.Token, cfg.SMS.Sender)
	geoClient := utils.NewGeoIPClient(cfg.GeoIP.BaseURL)
	agreementGen := pdf.NewAgreementGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	// === Services ===
	authService := services.NewAuthService(cfg.JWT.AccessTTL.Std())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.FeedbackTo,
	)
	phoneCodeService := services.NewPhoneCodeService(
		memberRepo,
		smsClient,
		cfg.JWT.PhoneTokenSalt,
		cfg.SMS.Bypass,
	)
	memberService := services.NewMemberService(
		memberRepo,
		lookupRepo,
		authService,
		phoneCodeService,
		geoClient,
		files,
	)
	documentService := services.NewDocumentService(memberRepo, files, agreementGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(memberService, authService, cfg.JWT.RefreshTTL.Std())
	registrationHandler := handlers.NewRegistrationHandler(memberService, phoneCodeService, authHandler)
	profileHandler := handlers.NewProfileHandler(memberService)
	documentHandler := handlers.NewDocumentHandler(memberService, documentService)
	lookupHandler := handlers.NewLookupHandler(lookupRepo, geoClient)
	feedbackHandler := handlers.NewFeedbackHandler(emailService)

	// === Gin ===
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		cfg.RateLimit.Public,
		authHandler,
		registrationHandler,
		profileHandler,
		documentHandler,
		lookupHandler,
		feedbackHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Log.Infof("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		logger.Log.Fatalf("server run: %v", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
