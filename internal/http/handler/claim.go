package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"ifinsure/internal/repository"
	"ifinsure/internal/service"
)

func registerClaimRoutes(r fiber.Router, svc Services, authn, backOffice fiber.Handler) {
	claims := r.Group("/claims", authn)

	claims.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		f := repository.ClaimFilter{
			PolicyID: c.Query("policy_id"),
			Status:   c.Query("status"),
			Priority: c.Query("priority"),
		}
		if isBackOffice(c) {
			f.ClaimantID = c.Query("claimant_id")
			f.AssignedAdjusterID = c.Query("adjuster_id")
		} else {
			f.ClaimantID = currentUserID(c)
		}
		res, err := svc.Claims.ListClaims(c.UserContext(), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	claims.Get("/stats", backOffice, func(c *fiber.Ctx) error {
		stats, err := svc.Claims.ClaimStats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	})

	claims.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cl, err := svc.Claims.GetClaim(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !isBackOffice(c) && cl.ClaimantID != currentUserID(c) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "claim not found")
		}
		return c.JSON(cl)
	})

	claims.Post("/", func(c *fiber.Ctx) error {
		var in service.CreateClaimInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if !isBackOffice(c) || in.ClaimantID == "" {
			in.ClaimantID = currentUserID(c)
		}
		cl, err := svc.Claims.CreateClaim(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cl)
	})

	claims.Post("/:id/submit", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cl, err := svc.Claims.SubmitClaim(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/review", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cl, err := svc.Claims.StartReview(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/investigate", backOffice, func(c *fiber.Ctx) error {
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
		cl, err := svc.Claims.StartInvestigation(c.UserContext(), id, in.Notes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/approve", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			ApprovedAmount decimal.Decimal `json:"approved_amount"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		cl, err := svc.Claims.ApproveClaim(c.UserContext(), id, currentUserID(c), in.ApprovedAmount)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/reject", backOffice, func(c *fiber.Ctx) error {
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
		cl, err := svc.Claims.RejectClaim(c.UserContext(), id, currentUserID(c), in.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/pay", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cl, err := svc.Claims.PayClaim(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Post("/:id/close", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		cl, err := svc.Claims.CloseClaim(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cl)
	})

	claims.Delete("/:id", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Claims.TrashClaim(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	claims.Get("/:id/documents", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		docs, err := svc.Claims.ListClaimDocuments(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	})

	claims.Post("/:id/documents", func(c *fiber.Ctx) error {
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
		doc, err := svc.Claims.UploadClaimDocument(c.UserContext(), service.UploadClaimDocumentInput{
			ClaimID:      id,
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

	claims.Get("/documents/:docID/url", func(c *fiber.Ctx) error {
		docID, err := pathID(c, "docID")
		if err != nil {
			return err
		}
		url, err := svc.Claims.ClaimDocumentURL(c.UserContext(), docID, 15*time.Minute)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})

	claims.Delete("/documents/:docID", backOffice, func(c *fiber.Ctx) error {
		docID, err := pathID(c, "docID")
		if err != nil {
			return err
		}
		if err := svc.Claims.DeleteClaimDocument(c.UserContext(), docID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	claims.Get("/:id/notes", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		// Internal notes stay inside the back office.
		notes, err := svc.Claims.ListClaimNotes(c.UserContext(), id, isBackOffice(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": notes})
	})

	claims.Post("/:id/notes", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Note     string `json:"note"`
			Internal bool   `json:"internal"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if !isBackOffice(c) {
			in.Internal = false
		}
		actor := currentUserID(c)
		note, err := svc.Claims.AddClaimNote(c.UserContext(), id, in.Note, in.Internal, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	})
}
