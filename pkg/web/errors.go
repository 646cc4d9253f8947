package web

import (
	"errors"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/validation"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/wizard"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// validationProblem carries the messages the wizard shows next to the form.
type validationProblem struct {
	*problems.Problem

	Errors []string `json:"errors"`
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("bad_request").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusNotFound).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleWizardError maps wizard and validation errors to problem responses.
func handleWizardError(c fiber.Ctx, err error) error {
	switch {
	case validation.IsValidationError(err):
		problem := validationProblem{
			Problem: problems.NewStatusProblem(fiber.StatusUnprocessableEntity).
				WithInstance(c.Path()).
				WithType("validation_error").
				WithDetail(err.Error()),
			Errors: validation.Messages(err),
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case errors.Is(err, ErrSessionNotFound):
		return notFound(c, "activity wizard not found")

	case wizard.IsSessionClosed(err):
		problem := problems.NewStatusProblem(fiber.StatusGone).
			WithInstance(c.Path()).
			WithType("wizard_closed").
			WithDetail("activity wizard is closed")

		return c.Status(fiber.StatusGone).JSON(problem)

	case wizard.IsConflictError(err):
		problem := problems.NewStatusProblem(fiber.StatusConflict).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case errors.Is(err, wizard.ErrInvalidStep), errors.Is(err, wizard.ErrFieldNameRequired):
		return badRequest(c, err.Error())

	case wizard.IsSubmissionError(err):
		// the backend error stays in the logs
		problem := validationProblem{
			Problem: problems.NewStatusProblem(fiber.StatusBadGateway).
				WithInstance(c.Path()).
				WithType("submission_failed").
				WithDetail(wizard.SubmissionFailedMessage),
			Errors: []string{wizard.SubmissionFailedMessage},
		}

		return c.Status(fiber.StatusBadGateway).JSON(problem)

	default:
		return internalError(c, err)
	}
}
