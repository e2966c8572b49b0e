package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"messenger_service/internal/backend/domain"
	"messenger_service/internal/backend/repository"
	errprocess "messenger_service/pkg/err"
	"messenger_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// ResourceHandler HTTP surface of the generic collections
type ResourceHandler struct {
	uc *ResourceUseCase
}

// NewResourceHandler init resource handler
func NewResourceHandler(uc *ResourceUseCase) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

// List GET /:collection?field=value
//
// Query keys starting with "_" are reserved and ignored.
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	filter := map[string]string{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if strings.HasPrefix(k, "_") {
			return
		}
		filter[k] = string(value)
	})

	records, err := h.uc.List(c.UserContext(), collectionParam(c), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(records)
}

// Get GET /:collection/:id
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	record, err := h.uc.Get(c.UserContext(), collectionParam(c), idParam(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(record)
}

// Create POST /:collection
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	record, err := decodeRecord(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	created, err := h.uc.Create(c.UserContext(), collectionParam(c), record)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Patch PATCH /:collection/:id
func (h *ResourceHandler) Patch(c *fiber.Ctx) error {
	fields, err := decodeRecord(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	updated, err := h.uc.Patch(c.UserContext(), collectionParam(c), idParam(c), fields)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

// Delete DELETE /:collection/:id
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), collectionParam(c), idParam(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{})
}

// collectionParam copied out of the request buffer; stores keep it as a map key
func collectionParam(c *fiber.Ctx) string { return utils.CopyString(c.Params("collection")) }

func idParam(c *fiber.Ctx) string { return utils.CopyString(c.Params("id")) }

func (h *ResourceHandler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrUnknownCollection), errors.Is(err, errprocess.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errprocess.ErrValidation):
		status = fiber.StatusBadRequest
	default:
		logger.Log.Error("resource request failed",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// decodeRecord JSON object body, numbers kept as json.Number
func decodeRecord(body []byte) (domain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var record domain.Record
	if err := dec.Decode(&record); err != nil {
		return nil, errprocess.Validation("body", fmt.Sprintf("invalid JSON object: %v", err))
	}
	if record == nil {
		return nil, errprocess.Validation("body", "expected a JSON object")
	}
	return record, nil
}

// ConnectCheck GET / health
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("messenger backend start!")
}

// DebugLogFlag POST /debug?status=true|false toggles debug logging
func DebugLogFlag(c *fiber.Ctx) error {
	statusStr := c.Query("status")
	logger.Log.Info("debug", zap.String("status", statusStr))
	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", logger.Log.IsDebugMode()))
}
