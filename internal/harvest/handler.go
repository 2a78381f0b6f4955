package harvest

import (
	"encoding/json"

	tasks "jobharvest/internal/platform/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Handler exposes the manual trigger and run lookup endpoints.
type Handler struct {
	tracker    *RunTracker
	tasks      *tasks.Client
	maxRetries int
}

func NewHandler(tracker *RunTracker, taskClient *tasks.Client, maxRetries int) *Handler {
	return &Handler{tracker: tracker, tasks: taskClient, maxRetries: maxRetries}
}

// HandleCreateRun enqueues a harvest run and returns its id immediately.
func (h *Handler) HandleCreateRun(c *fiber.Ctx) error {
	runID := uuid.NewString()
	if err := h.tracker.InitPending(c.Context(), runID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	payload, _ := json.Marshal(TaskPayload{RunID: runID})
	if err := h.tasks.Enqueue(asynq.NewTask(tasks.TaskTypeHarvest, payload), "default", h.maxRetries); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "run_id": runID})
}

// HandleGetRun returns the tracked state of a run.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	runID := c.Params("runId")
	run, err := h.tracker.Get(c.Context(), runID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "not_found"})
	}
	return c.JSON(fiber.Map{"success": true, "run": run})
}
