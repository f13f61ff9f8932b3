package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ifinsure/docs"
	"ifinsure/internal/auth"
	"ifinsure/internal/config"
	"ifinsure/internal/database"
	"ifinsure/internal/database/migration"
	handlers "ifinsure/internal/http/handler"
	"ifinsure/internal/http/middleware"
	tracing "ifinsure/internal/otel"
	"ifinsure/internal/repository/postgres"
	"ifinsure/internal/service"
	"ifinsure/internal/session"
	"ifinsure/internal/storage"
	"ifinsure/internal/worker"
)

// @title Ifinsure API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Redis-backed session store; tokens die with their session
	sessions := session.NewStore(cfg.Redis, cfg.Auth.SessionTTL)
	if err := sessions.Ping(ctx); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth)

	// Repositories
	userRepo := postgres.NewUserPostgres(db)
	profileRepo := postgres.NewProfilePostgres(db)
	agentRepo := postgres.NewAgentPostgres(db)
	walletRepo := postgres.NewWalletPostgres(db)
	prefRepo := postgres.NewPreferencePostgres(db)
	notificationRepo := postgres.NewNotificationPostgres(db)
	trashRepo := postgres.NewTrashPostgres(db)
	searchRepo := postgres.NewSearchPostgres(db)
	departmentRepo := postgres.NewDepartmentPostgres(db)
	workClassRepo := postgres.NewWorkClassPostgres(db)
	ticketRepo := postgres.NewTicketPostgres(db)
	activityRepo := postgres.NewTicketActivityPostgres(db)
	performanceRepo := postgres.NewPerformancePostgres(db)
	providerRepo := postgres.NewProviderPostgres(db)
	categoryRepo := postgres.NewCategoryPostgres(db)
	productRepo := postgres.NewProductPostgres(db)
	leadRepo := postgres.NewLeadPostgres(db)
	invoiceRepo := postgres.NewInvoicePostgres(db)
	paymentRepo := postgres.NewPaymentPostgres(db)
	policyRepo := postgres.NewPolicyPostgres(db)
	applicationRepo := postgres.NewApplicationPostgres(db)
	policyDocRepo := postgres.NewPolicyDocumentPostgres(db)
	claimRepo := postgres.NewClaimPostgres(db)
	claimDocRepo := postgres.NewClaimDocumentPostgres(db)
	claimNoteRepo := postgres.NewClaimNotePostgres(db)
	reviewRepo := postgres.NewReviewPostgres(db)

	// Services, in dependency order
	walletSvc := service.NewWalletService(walletRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, prefRepo)
	trashSvc := service.NewTrashService(trashRepo)
	searchSvc := service.NewSearchService(searchRepo)
	workflowSvc := service.NewWorkflowService(departmentRepo, workClassRepo, agentRepo, ticketRepo, activityRepo, performanceRepo, notificationSvc, trashSvc)
	crmSvc := service.NewCRMService(providerRepo, categoryRepo, productRepo, leadRepo, trashSvc)
	billingSvc := service.NewBillingService(invoiceRepo, paymentRepo, walletSvc, notificationSvc, trashSvc)
	claimSvc := service.NewClaimService(claimRepo, claimDocRepo, claimNoteRepo, policyRepo, workflowSvc, walletSvc, notificationSvc, trashSvc, objStore)
	policySvc := service.NewPolicyService(policyRepo, applicationRepo, policyDocRepo, productRepo, workflowSvc, walletSvc, notificationSvc, billingSvc, trashSvc, objStore)
	accountSvc := service.NewAccountService(userRepo, profileRepo, agentRepo, walletRepo, prefRepo, sessions, tokens)
	reviewSvc := service.NewReviewService(reviewRepo, trashSvc)
	dashboardSvc := service.NewDashboardService(userRepo, ticketRepo, policyRepo, claimRepo, invoiceRepo, notificationRepo, walletRepo)

	// Restore/purge hooks for the trash registry
	workflowSvc.RegisterTrashHandlers(trashSvc)
	crmSvc.RegisterTrashHandlers(trashSvc)
	billingSvc.RegisterTrashHandlers(trashSvc)
	claimSvc.RegisterTrashHandlers(trashSvc)
	policySvc.RegisterTrashHandlers(trashSvc)
	reviewSvc.RegisterTrashHandlers(trashSvc)

	// Search index hooks; indexing is best-effort on writes
	accountSvc.RegisterSearchIndexer(searchSvc)
	workflowSvc.RegisterSearchIndexer(searchSvc)
	crmSvc.RegisterSearchIndexer(searchSvc)
	claimSvc.RegisterSearchIndexer(searchSvc)
	policySvc.RegisterSearchIndexer(searchSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, handlers.Services{
		Accounts:      accountSvc,
		Workflow:      workflowSvc,
		CRM:           crmSvc,
		Policies:      policySvc,
		Claims:        claimSvc,
		Billing:       billingSvc,
		Wallets:       walletSvc,
		Notifications: notificationSvc,
		Search:        searchSvc,
		Trash:         trashSvc,
		Reviews:       reviewSvc,
		Dashboard:     dashboardSvc,
	}, tokens, sessions)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Background maintenance: trash purge, overdue invoices, policy expiry
	maintenance := worker.NewMaintenance(cfg.Worker, trashSvc, billingSvc, policySvc, logger.Named("maintenance"))
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	if cfg.Worker.Enabled {
		go maintenance.Start(workerCtx)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		cancelWorker()
		maintenance.Stop()
		_ = app.Shutdown()
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
