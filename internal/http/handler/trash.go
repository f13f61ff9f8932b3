package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/repository"
)

func registerTrashRoutes(r fiber.Router, svc Services, authn fiber.Handler) {
	trash := r.Group("/trash", authn)

	trash.Get("/", func(c *fiber.Ctx) error {
		viewer, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		limit, offset := pagination(c)
		res, err := svc.Trash.List(c.UserContext(), viewer, repository.TrashFilter{
			EntityType: c.Query("entity_type"),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	trash.Get("/stats", func(c *fiber.Ctx) error {
		viewer, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		stats, err := svc.Trash.Stats(c.UserContext(), viewer)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	})

	trash.Post("/:entityType/:id/restore", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		viewer, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.Trash.Restore(c.UserContext(), viewer, c.Params("entityType"), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	trash.Delete("/:entityType/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		viewer, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.Trash.Purge(c.UserContext(), viewer, c.Params("entityType"), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
