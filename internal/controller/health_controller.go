package controller

import (
	"pillsee-be/internal/pkg/serverutils"
	"pillsee-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	medicationRepo contract.MedicationRepository
}

func NewHealthController(medicationRepo contract.MedicationRepository) IHealthController {
	return &healthController{
		medicationRepo: medicationRepo,
	}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	corpusSize, err := c.medicationRepo.Count(ctx.Context())
	status := "ok"
	if err != nil {
		status = "degraded"
		corpusSize = 0
	}

	return ctx.JSON(serverutils.SuccessResponse("Health check", fiber.Map{
		"status":      status,
		"corpus_size": corpusSize,
	}))
}
