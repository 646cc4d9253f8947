package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/wizard"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// DefaultSubmitTimeout bounds a submit request, including the wait for the
// selected stage's field configuration.
const DefaultSubmitTimeout = 30 * time.Second

type APIHandlers struct {
	registry      *SessionRegistry
	backend       backend.Backend
	validator     *validator.Validate
	logger        *slog.Logger
	submitTimeout time.Duration
}

// HandlerOption configures APIHandlers.
type HandlerOption func(*APIHandlers)

// WithSubmitTimeout overrides DefaultSubmitTimeout.
func WithSubmitTimeout(timeout time.Duration) HandlerOption {
	return func(h *APIHandlers) { h.submitTimeout = timeout }
}

func NewAPIHandlers(
	registry *SessionRegistry,
	be backend.Backend,
	validator *validator.Validate,
	logger *slog.Logger,
	opts ...HandlerOption,
) *APIHandlers {
	h := &APIHandlers{
		registry:      registry,
		backend:       be,
		validator:     validator,
		logger:        logger,
		submitTimeout: DefaultSubmitTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register mounts the wizard routes on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Post("/developments/:developmentId/activity-wizards", h.OpenWizard)

	w := router.Group("/activity-wizards")
	w.Get("/:id", h.GetWizard)
	w.Patch("/:id/form", h.UpdateForm)
	w.Put("/:id/dynamic-fields/:name", h.SetDynamicField)
	w.Post("/:id/next", h.NextStep)
	w.Post("/:id/previous", h.PreviousStep)
	w.Post("/:id/steps/:step", h.GoToStep)
	w.Post("/:id/submit", h.Submit)
	w.Delete("/:id", h.CloseWizard)

	router.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) OpenWizard(c fiber.Ctx) error {
	developmentID := c.Params("developmentId")
	if developmentID == "" {
		return badRequest(c, "Development ID is required")
	}

	var req OpenWizardRequest

	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	session := h.registry.Open(c.Context(), developmentID, req.DefaultStageID)

	return c.Status(fiber.StatusCreated).JSON(session.Snapshot())
}

func (h *APIHandlers) GetWizard(c fiber.Ctx) error {
	session, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return handleWizardError(c, err)
	}

	return c.JSON(session.Snapshot())
}

func (h *APIHandlers) UpdateForm(c fiber.Ctx) error {
	session, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return handleWizardError(c, err)
	}

	var req UpdateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := applyFormUpdate(session, req); err != nil {
		return handleWizardError(c, err)
	}

	return c.JSON(session.Snapshot())
}

// applyFormUpdate runs one session update per field present in req.
func applyFormUpdate(session *wizard.Session, req UpdateFormRequest) error {
	var updates []func() error

	if req.StageID != nil {
		updates = append(updates, func() error { return session.SetStage(*req.StageID) })
	}

	if req.ActivityType != nil {
		updates = append(updates, func() error { return session.SetActivityType(models.ActivityType(*req.ActivityType)) })
	}

	if req.ActorType != nil {
		updates = append(updates, func() error { return session.SetActorType(models.ActorType(*req.ActorType)) })
	}

	if req.Status != nil {
		updates = append(updates, func() error { return session.SetStatus(models.ActivityStatus(*req.Status)) })
	}

	if req.StartDate != nil {
		updates = append(updates, func() error { return session.SetStartDate(*req.StartDate) })
	}

	if req.EndDate != nil {
		updates = append(updates, func() error { return session.SetEndDate(*req.EndDate) })
	}

	if req.FollowUp != nil {
		updates = append(updates, func() error { return session.SetFollowUp(req.FollowUp.config()) })
	}

	if req.Notes != nil {
		updates = append(updates, func() error { return session.SetNotes(*req.Notes) })
	}

	for name, value := range req.DynamicPayload {
		updates = append(updates, func() error { return session.SetDynamicField(name, value) })
	}

	for _, update := range updates {
		if err := update(); err != nil {
			return err
		}
	}

	return nil
}

func (h *APIHandlers) SetDynamicField(c fiber.Ctx) error {
	session, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return handleWizardError(c, err)
	}

	var req DynamicFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := session.SetDynamicField(c.Params("name"), req.Value); err != nil {
		return handleWizardError(c, err)
	}

	return c.JSON(session.Snapshot())
}

func (h *APIHandlers) NextStep(c fiber.Ctx) error {
	return h.navigate(c, (*wizard.Session).Next)
}

func (h *APIHandlers) PreviousStep(c fiber.Ctx) error {
	return h.navigate(c, (*wizard.Session).Previous)
}

func (h *APIHandlers) GoToStep(c fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return badRequest(c, "Step must be a number")
	}

	return h.navigate(c, func(s *wizard.Session) error { return s.GoTo(step) })
}

func (h *APIHandlers) navigate(c fiber.Ctx, move func(s *wizard.Session) error) error {
	session, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return handleWizardError(c, err)
	}

	if err := move(session); err != nil {
		return handleWizardError(c, err)
	}

	return c.JSON(session.Snapshot())
}

func (h *APIHandlers) Submit(c fiber.Ctx) error {
	session, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return handleWizardError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.submitTimeout)
	defer cancel()

	activity, err := session.Submit(ctx)
	if err != nil {
		return handleWizardError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(activity)
}

func (h *APIHandlers) CloseWizard(c fiber.Ctx) error {
	if err := h.registry.Close(c.Params("id")); err != nil {
		return handleWizardError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "Activity wizard API is healthy"
	httpStatus := http.StatusOK
	backendCheck := "ok"

	if err := h.backend.HealthCheck(c.Context()); err != nil {
		h.logger.WarnContext(c.Context(), "Backend health check failed", "error", err)

		status = "unhealthy"
		message = "Activity wizard API is unhealthy"
		httpStatus = http.StatusServiceUnavailable
		backendCheck = err.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"backend": backendCheck,
		},
		"open_wizards": h.registry.Len(),
		"timestamp":    time.Now().UTC(),
	})
}
