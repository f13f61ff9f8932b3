package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
)

func registerNotificationRoutes(r fiber.Router, svc Services, authn fiber.Handler) {
	notifications := r.Group("/notifications", authn)

	notifications.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.Notifications.ListByRecipient(c.UserContext(), currentUserID(c), repository.NotificationFilter{
			UnreadOnly:      c.QueryBool("unread", false),
			IncludeArchived: c.QueryBool("include_archived", false),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	notifications.Post("/read", func(c *fiber.Ctx) error {
		n, err := svc.Notifications.MarkAllRead(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"marked": n})
	})

	notifications.Post("/:id/read", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Notifications.MarkRead(c.UserContext(), id, currentUserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	notifications.Post("/:id/archive", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Notifications.Archive(c.UserContext(), id, currentUserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	notifications.Get("/preferences", func(c *fiber.Ctx) error {
		p, err := svc.Notifications.GetPreferences(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})

	notifications.Put("/preferences", func(c *fiber.Ctx) error {
		var in model.NotificationPreference
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.UserID = currentUserID(c)
		p, err := svc.Notifications.SavePreferences(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	})
}
