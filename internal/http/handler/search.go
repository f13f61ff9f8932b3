package handler

import (
	"github.com/gofiber/fiber/v2"
)

func registerSearchRoutes(r fiber.Router, svc Services, authn fiber.Handler) {
	search := r.Group("/search", authn)

	search.Get("/", func(c *fiber.Ctx) error {
		// Visibility filtering needs the full user record, not just the
		// token claims.
		viewer, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.Search.Search(c.UserContext(), viewer, c.Query("q"), c.QueryInt("limit", 20))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	search.Get("/recent", func(c *fiber.Ctx) error {
		items, err := svc.Search.RecentQueries(c.UserContext(), currentUserID(c), c.QueryInt("limit", 10))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})
}
