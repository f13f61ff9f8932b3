package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

func registerCRMRoutes(r fiber.Router, svc Services, authn, backOffice, adminOnly fiber.Handler) {
	providers := r.Group("/providers")

	providers.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.CRM.ListProviders(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	providers.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.CRM.GetProvider(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	providers.Post("/", authn, adminOnly, func(c *fiber.Ctx) error {
		var in model.InsuranceProvider
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		p, err := svc.CRM.CreateProvider(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	providers.Put("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.InsuranceProvider
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		p, err := svc.CRM.UpdateProvider(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	providers.Delete("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.CRM.TrashProvider(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	categories := r.Group("/categories")

	categories.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.CRM.ListCategories(c.UserContext(), c.QueryBool("include_inactive", false))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	categories.Post("/", authn, adminOnly, func(c *fiber.Ctx) error {
		var in model.ProductCategory
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		cat, err := svc.CRM.CreateCategory(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	})

	categories.Put("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.ProductCategory
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		cat, err := svc.CRM.UpdateCategory(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	})

	categories.Delete("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.CRM.DeleteCategory(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	products := r.Group("/products")

	products.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.CRM.ListProducts(c.UserContext(), repository.ProductFilter{
			ProviderID:   c.Query("provider_id"),
			CategoryID:   c.Query("category_id"),
			FeaturedOnly: c.QueryBool("featured", false),
			ActiveOnly:   !c.QueryBool("include_inactive", false),
			Search:       c.Query("q"),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	products.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.CRM.GetProduct(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	products.Get("/:id/quote", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		coverage, err := decimal.NewFromString(c.Query("coverage", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "coverage must be a decimal number")
		}
		q, err := svc.CRM.Quote(c.UserContext(), id, coverage)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	})

	products.Post("/", authn, adminOnly, func(c *fiber.Ctx) error {
		var in model.InsuranceProduct
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		p, err := svc.CRM.CreateProduct(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	products.Put("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.InsuranceProduct
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		p, err := svc.CRM.UpdateProduct(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	products.Delete("/:id", authn, adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.CRM.TrashProduct(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	leads := r.Group("/leads", authn, backOffice)

	leads.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.CRM.ListLeads(c.UserContext(), repository.LeadFilter{
			Status:          c.Query("status"),
			AssignedAgentID: c.Query("assigned_agent_id"),
			Search:          c.Query("q"),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	leads.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		l, err := svc.CRM.GetLead(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	})

	leads.Post("/", func(c *fiber.Ctx) error {
		var in model.Lead
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		l, err := svc.CRM.CreateLead(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})

	leads.Put("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.Lead
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		l, err := svc.CRM.UpdateLead(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	})

	leads.Post("/:id/contacted", func(c *fiber.Ctx) error {
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
		l, err := svc.CRM.MarkLeadContacted(c.UserContext(), id, in.Notes)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	})

	leads.Post("/:id/convert", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			UserID string `json:"user_id"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		l, err := svc.CRM.ConvertLead(c.UserContext(), id, in.UserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	})

	leads.Delete("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.CRM.TrashLead(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
