package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/service"
)

// isBackOffice reports whether the authenticated request may act on
// other customers' records.
func isBackOffice(c *fiber.Ctx) bool {
	switch currentUserType(c) {
	case model.UserTypeAgent, model.UserTypeStaff, model.UserTypeAdmin:
		return true
	}
	return false
}

func registerPolicyRoutes(r fiber.Router, svc Services, authn, backOffice fiber.Handler) {
	applications := r.Group("/applications", authn)

	applications.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		f := repository.ApplicationFilter{
			Status:        c.Query("status"),
			PaymentStatus: c.Query("payment_status"),
		}
		if isBackOffice(c) {
			f.ApplicantID = c.Query("applicant_id")
			f.AssignedAgentID = c.Query("assigned_agent_id")
		} else {
			f.ApplicantID = currentUserID(c)
		}
		res, err := svc.Policies.ListApplications(c.UserContext(), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	applications.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		app, err := svc.Policies.GetApplication(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !isBackOffice(c) && app.ApplicantID != currentUserID(c) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "application not found")
		}
		return c.JSON(app)
	})

	applications.Post("/", func(c *fiber.Ctx) error {
		var in service.CreateApplicationInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if !isBackOffice(c) || in.ApplicantID == "" {
			in.ApplicantID = currentUserID(c)
		}
		app, err := svc.Policies.CreateApplication(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(app)
	})

	applications.Post("/:id/submit", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		app, err := svc.Policies.SubmitApplication(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	})

	applications.Post("/:id/pay", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			UseWallet   bool   `json:"use_wallet"`
			ExternalRef string `json:"external_ref"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		app, err := svc.Policies.PayApplication(c.UserContext(), id, in.UseWallet, in.ExternalRef)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	})

	applications.Post("/:id/approve", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		app, err := svc.Policies.ApproveApplication(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	})

	applications.Post("/:id/reject", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		app, err := svc.Policies.RejectApplication(c.UserContext(), id, currentUserID(c), in.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	})

	applications.Post("/:id/cancel", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		app, err := svc.Policies.CancelApplication(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(app)
	})

	applications.Delete("/:id", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Policies.TrashApplication(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	policies := r.Group("/policies", authn)

	policies.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		f := repository.PolicyFilter{
			ProductID: c.Query("product_id"),
			Status:    c.Query("status"),
		}
		if isBackOffice(c) {
			f.CustomerID = c.Query("customer_id")
			f.AgentID = c.Query("agent_id")
		} else {
			f.CustomerID = currentUserID(c)
		}
		res, err := svc.Policies.ListPolicies(c.UserContext(), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	policies.Get("/stats", backOffice, func(c *fiber.Ctx) error {
		stats, err := svc.Policies.PolicyStats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	})

	policies.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Policies.GetPolicy(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !isBackOffice(c) && p.CustomerID != currentUserID(c) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "policy not found")
		}
		return c.JSON(p)
	})

	policies.Post("/:id/suspend", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Notes string `json:"notes"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		p, err := svc.Policies.SuspendPolicy(c.UserContext(), id, in.Notes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	policies.Post("/:id/reactivate", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Policies.ReactivatePolicy(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	policies.Post("/:id/cancel", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Notes string `json:"notes"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		p, err := svc.Policies.CancelPolicy(c.UserContext(), id, in.Notes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	policies.Post("/:id/renew", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			TermMonths int `json:"term_months"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		p, err := svc.Policies.RenewPolicy(c.UserContext(), id, in.TermMonths)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	policies.Delete("/:id", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Policies.TrashPolicy(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	policies.Get("/:id/documents", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		docs, err := svc.Policies.ListPolicyDocuments(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	})

	policies.Post("/:id/documents", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "cannot read upload")
		}
		defer f.Close()

		actor := currentUserID(c)
		doc, err := svc.Policies.UploadPolicyDocument(c.UserContext(), service.UploadDocumentInput{
			PolicyID:     id,
			DocumentType: c.FormValue("document_type"),
			Title:        c.FormValue("title", fh.Filename),
			Description:  c.FormValue("description"),
			ContentType:  fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Body:         f,
			UploadedByID: &actor,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	policies.Get("/documents/:docID/url", func(c *fiber.Ctx) error {
		docID, err := pathID(c, "docID")
		if err != nil {
			return err
		}
		url, err := svc.Policies.PolicyDocumentURL(c.UserContext(), docID, 15*time.Minute)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})

	policies.Delete("/documents/:docID", backOffice, func(c *fiber.Ctx) error {
		docID, err := pathID(c, "docID")
		if err != nil {
			return err
		}
		if err := svc.Policies.DeletePolicyDocument(c.UserContext(), docID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
