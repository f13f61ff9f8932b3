package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func registerWalletRoutes(r fiber.Router, svc Services, authn, adminOnly fiber.Handler) {
	wallets := r.Group("/wallets", authn)

	wallets.Get("/me", func(c *fiber.Ctx) error {
		w, err := svc.Wallets.GetByUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(w)
	})

	wallets.Get("/me/ledger", func(c *fiber.Ctx) error {
		w, err := svc.Wallets.GetByUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		limit, offset := pagination(c)
		res, err := svc.Wallets.Ledger(c.UserContext(), w.ID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	wallets.Post("/me/deposit", func(c *fiber.Ctx) error {
		var in struct {
			Amount      decimal.Decimal `json:"amount"`
			Description string          `json:"description"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		w, err := svc.Wallets.GetByUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		txn, err := svc.Wallets.Deposit(c.UserContext(), w.ID, in.Amount, in.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(txn)
	})

	wallets.Post("/me/withdraw", func(c *fiber.Ctx) error {
		var in struct {
			Amount      decimal.Decimal `json:"amount"`
			Description string          `json:"description"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		w, err := svc.Wallets.GetByUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		txn, err := svc.Wallets.Withdraw(c.UserContext(), w.ID, in.Amount, in.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(txn)
	})

	wallets.Post("/me/transfer", func(c *fiber.Ctx) error {
		var in struct {
			ToUserID    string          `json:"to_user_id"`
			Amount      decimal.Decimal `json:"amount"`
			Description string          `json:"description"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		from, err := svc.Wallets.GetByUser(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		to, err := svc.Wallets.GetByUser(c.UserContext(), in.ToUserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		if err := svc.Wallets.Transfer(c.UserContext(), from.ID, to.ID, in.Amount, in.Description); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	wallets.Get("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		w, err := svc.Wallets.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(w)
	})

	wallets.Get("/:id/ledger", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		limit, offset := pagination(c)
		res, err := svc.Wallets.Ledger(c.UserContext(), id, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	wallets.Put("/:id/active", adminOnly, func(c *fiber.Ctx) error {
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
		if err := svc.Wallets.SetActive(c.UserContext(), id, in.Active); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
