package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/service"
)

func registerBillingRoutes(r fiber.Router, svc Services, authn, backOffice fiber.Handler) {
	invoices := r.Group("/invoices", authn)

	invoices.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		f := repository.InvoiceFilter{
			PolicyID: c.Query("policy_id"),
			Status:   c.Query("status"),
		}
		if isBackOffice(c) {
			f.CustomerID = c.Query("customer_id")
		} else {
			f.CustomerID = currentUserID(c)
		}
		res, err := svc.Billing.ListInvoices(c.UserContext(), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	invoices.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		inv, err := svc.Billing.GetInvoice(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !isBackOffice(c) && inv.CustomerID != currentUserID(c) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "invoice not found")
		}
		return c.JSON(inv)
	})

	invoices.Post("/", backOffice, func(c *fiber.Ctx) error {
		var in service.CreateInvoiceInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		inv, err := svc.Billing.CreateInvoice(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	})

	invoices.Post("/:id/cancel", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		inv, err := svc.Billing.CancelInvoice(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(inv)
	})

	invoices.Delete("/:id", backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Billing.TrashInvoice(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	invoices.Get("/:id/payments", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		items, err := svc.Billing.ListPayments(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	invoices.Post("/:id/payments", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in service.RecordPaymentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.InvoiceID = id
		if isBackOffice(c) {
			actor := currentUserID(c)
			in.ReceivedByID = &actor
		} else {
			// Customers settle their own invoices from the wallet only.
			in.Method = model.PaymentMethodWallet
			in.ReceivedByID = nil
		}
		p, err := svc.Billing.RecordPayment(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	payments := r.Group("/payments", authn, backOffice)

	payments.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Billing.GetPayment(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})
}
