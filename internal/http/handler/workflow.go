package handler

import (
	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/model"
	"ifinsure/internal/repository"
	"ifinsure/internal/service"
)

func registerWorkflowRoutes(r fiber.Router, svc Services, authn, backOffice, adminOnly fiber.Handler) {
	departments := r.Group("/departments", authn, backOffice)

	departments.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Workflow.ListDepartments(c.UserContext(), c.QueryBool("include_inactive", false))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	departments.Post("/", adminOnly, func(c *fiber.Ctx) error {
		var in model.Department
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		d, err := svc.Workflow.CreateDepartment(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	})

	departments.Put("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.Department
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		d, err := svc.Workflow.UpdateDepartment(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	})

	departments.Delete("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Workflow.TrashDepartment(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	workClasses := r.Group("/workclasses", authn, backOffice)

	workClasses.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Workflow.ListWorkClasses(c.UserContext(), c.QueryBool("include_inactive", false))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	workClasses.Post("/", adminOnly, func(c *fiber.Ctx) error {
		var in model.WorkClass
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		w, err := svc.Workflow.CreateWorkClass(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	})

	workClasses.Put("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.WorkClass
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		in.ID = id
		w, err := svc.Workflow.UpdateWorkClass(c.UserContext(), &in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(w)
	})

	workClasses.Delete("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Workflow.TrashWorkClass(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	agents := r.Group("/agents", authn, backOffice)

	agents.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.Workflow.ListAgents(c.UserContext(), repository.AgentFilter{
			DepartmentID:  c.Query("department_id"),
			AvailableOnly: c.QueryBool("available_only", false),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	agents.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		a, err := svc.Workflow.GetAgent(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	})

	agents.Get("/:id/performance", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		periods, err := svc.Workflow.AgentPerformance(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": periods})
	})

	agents.Put("/:id/workclasses", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			WorkClassIDs []string `json:"workclass_ids"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Workflow.SetAgentWorkClasses(c.UserContext(), id, in.WorkClassIDs); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	agents.Put("/:id/availability", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Available bool `json:"available"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		if err := svc.Workflow.SetAgentAvailability(c.UserContext(), id, in.Available); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	tickets := r.Group("/tickets", authn, backOffice)

	tickets.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		res, err := svc.Workflow.ListTickets(c.UserContext(), repository.TicketFilter{
			Status:       c.Query("status"),
			Priority:     c.Query("priority"),
			TicketType:   c.Query("type"),
			AssignedToID: c.Query("assigned_to"),
			CustomerID:   c.Query("customer_id"),
			Unassigned:   c.QueryBool("unassigned", false),
		}, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	tickets.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := svc.Workflow.TicketStats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	})

	tickets.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		t, err := svc.Workflow.GetTicket(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/", func(c *fiber.Ctx) error {
		var in service.CreateTicketInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		actor := currentUserID(c)
		in.CreatedByID = &actor
		t, err := svc.Workflow.CreateTicket(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	tickets.Post("/:id/assign", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			AgentID string `json:"agent_id"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		actor := currentUserID(c)
		var t *model.Ticket
		if in.AgentID == "" {
			t, err = svc.Workflow.AutoAssignTicket(c.UserContext(), id)
		} else {
			t, err = svc.Workflow.AssignTicket(c.UserContext(), id, in.AgentID, &actor)
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/pick", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		t, err := svc.Workflow.PickTicket(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/start", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		t, err := svc.Workflow.StartTicket(c.UserContext(), id, currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/escalate", func(c *fiber.Ctx) error {
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
		actor := currentUserID(c)
		t, err := svc.Workflow.EscalateTicket(c.UserContext(), id, in.Reason, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/resolve", func(c *fiber.Ctx) error {
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
		actor := currentUserID(c)
		t, err := svc.Workflow.ResolveTicket(c.UserContext(), id, in.Notes, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/close", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		actor := currentUserID(c)
		t, err := svc.Workflow.CloseTicket(c.UserContext(), id, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/reopen", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		actor := currentUserID(c)
		t, err := svc.Workflow.ReopenTicket(c.UserContext(), id, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	})

	tickets.Post("/:id/notes", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in struct {
			Note string `json:"note"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed body")
		}
		actor := currentUserID(c)
		activity, err := svc.Workflow.AddTicketNote(c.UserContext(), id, in.Note, &actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(activity)
	})

	tickets.Get("/:id/activities", func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		items, err := svc.Workflow.ListTicketActivities(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	})

	tickets.Delete("/:id", adminOnly, func(c *fiber.Ctx) error {
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		// Trashing a ticket removes it from queues but keeps the audit
		// trail until the retention sweep.
		if err := svc.Workflow.TrashTicket(c.UserContext(), id, currentUserID(c), c.Query("reason")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
