package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/auth"
	"ifinsure/internal/http/middleware"
	"ifinsure/internal/model"
	"ifinsure/internal/service"
	"ifinsure/internal/session"
)

// Services groups everything the HTTP layer dispatches to.
type Services struct {
	Accounts      service.AccountService
	Workflow      service.WorkflowService
	CRM           service.CRMService
	Policies      service.PolicyService
	Claims        service.ClaimService
	Billing       service.BillingService
	Wallets       service.WalletService
	Notifications service.NotificationService
	Search        service.SearchService
	Trash         service.TrashService
	Reviews       service.ReviewService
	Dashboard     service.DashboardService
}

// RegisterRoutes attaches all HTTP routes to the Fiber app. Handlers stay
// thin: parse, dispatch to a service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, tokens *auth.TokenIssuer, sessions *session.Store) {
	// Health: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	authn := middleware.RequireAuth(tokens, sessions)
	backOffice := middleware.RequireBackOffice()
	adminOnly := middleware.RequireRole()

	v1 := app.Group("/api/v1")

	registerAuthRoutes(v1, svc)
	registerUserRoutes(v1, svc, authn, backOffice, adminOnly)
	registerWorkflowRoutes(v1, svc, authn, backOffice, adminOnly)
	registerCRMRoutes(v1, svc, authn, backOffice, adminOnly)
	registerPolicyRoutes(v1, svc, authn, backOffice)
	registerClaimRoutes(v1, svc, authn, backOffice)
	registerBillingRoutes(v1, svc, authn, backOffice)
	registerWalletRoutes(v1, svc, authn, adminOnly)
	registerNotificationRoutes(v1, svc, authn)
	registerSearchRoutes(v1, svc, authn)
	registerTrashRoutes(v1, svc, authn)
	registerReviewRoutes(v1, svc, authn, backOffice)

	// Customers get their own slice, back office gets the global counters.
	v1.Get("/dashboard", authn, func(c *fiber.Ctx) error {
		if currentUserType(c) == model.UserTypeCustomer {
			overview, err := svc.Dashboard.CustomerOverview(c.UserContext(), currentUserID(c))
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(overview)
		}
		summary, err := svc.Dashboard.Summary(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(summary)
	})
}
