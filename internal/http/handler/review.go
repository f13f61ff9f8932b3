package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/repository"
)

func registerReviewRoutes(r fiber.Router, svc Services, authn, backOffice fiber.Handler) {
	reviews := r.Group("/reviews")

	// Published reviews are the public testimonial feed.
	reviews.Get("/published", func(c *fiber.Ctx) error {
		items, err := svc.Reviews.ListPublished(c.UserContext(), c.QueryInt("limit", 10))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	reviews.Post("/", authn, func(c *fiber.Ctx) error {
		var in struct {
			Quote  string `json:"quote"`
			Rating int    `json:"rating"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		rv, err := svc.Reviews.Submit(c.UserContext(), currentUserID(c), in.Quote, in.Rating)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rv)
	})

	reviews.Get("/", authn, backOffice, func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.Reviews.List(c.UserContext(), repository.ReviewFilter{
			UserID: c.Query("user_id"),
			Status: c.Query("status"),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	reviews.Get("/:id", authn, backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		rv, err := svc.Reviews.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rv)
	})

	reviews.Post("/:id/approve", authn, backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		rv, err := svc.Reviews.Approve(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rv)
	})

	reviews.Post("/:id/reject", authn, backOffice, func(c *fiber.Ctx) error {
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
		rv, err := svc.Reviews.Reject(c.UserContext(), id, currentUserID(c), in.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rv)
	})

	reviews.Put("/:id/active", authn, backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Active bool `json:"active"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		rv, err := svc.Reviews.SetActive(c.UserContext(), id, in.Active)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rv)
	})

	reviews.Delete("/:id", authn, backOffice, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Reviews.Trash(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
