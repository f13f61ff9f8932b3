package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/service"
)

func registerAuthRoutes(r fiber.Router, svc Services) {
	authGroup := r.Group("/auth")

	authGroup.Post("/register", func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		// Privileged roles are granted through the admin surface, never
		// at self-service signup.
		if in.UserType != "" && in.UserType != model.UserTypeCustomer {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "cannot self-register a privileged role")
		}
		user, err := svc.Accounts.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	authGroup.Post("/login", func(c *fiber.Ctx) error {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Device   string `json:"device"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		res, err := svc.Accounts.Login(c.UserContext(), in.Email, in.Password, in.Device)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})
}

func registerUserRoutes(r fiber.Router, svc Services, authn, backOffice, adminOnly fiber.Handler) {
	r.Post("/auth/logout", authn, func(c *fiber.Ctx) error {
		if err := svc.Accounts.Logout(c.UserContext(), currentSessionID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/auth/password", authn, func(c *fiber.Ctx) error {
		var in struct {
			Current string `json:"current_password"`
			New     string `json:"new_password"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Accounts.ChangePassword(c.UserContext(), currentUserID(c), in.Current, in.New); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me := r.Group("/me", authn)

	me.Get("/", func(c *fiber.Ctx) error {
		user, err := svc.Accounts.Get(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	})

	me.Patch("/", func(c *fiber.Ctx) error {
		var in service.UpdateUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		user, err := svc.Accounts.Update(c.UserContext(), currentUserID(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	})

	me.Get("/profile", func(c *fiber.Ctx) error {
		profile, err := svc.Accounts.GetProfile(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(profile)
	})

	me.Put("/profile", func(c *fiber.Ctx) error {
		var in model.Profile
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.UserID = currentUserID(c)
		profile, err := svc.Accounts.UpdateProfile(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(profile)
	})

	users := r.Group("/users", authn, backOffice)

	users.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.Accounts.List(c.UserContext(), repository.UserFilter{
			UserType:   c.Query("user_type"),
			Search:     c.Query("q"),
			ActiveOnly: c.QueryBool("active_only", false),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	users.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		user, err := svc.Accounts.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	})

	users.Post("/", adminOnly, func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		user, err := svc.Accounts.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	users.Put("/:id/type", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			UserType string `json:"user_type"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		user, err := svc.Accounts.ChangeUserType(c.UserContext(), id, in.UserType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	})

	users.Put("/:id/active", adminOnly, func(c *fiber.Ctx) error {
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
		if err := svc.Accounts.SetActive(c.UserContext(), id, in.Active); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
