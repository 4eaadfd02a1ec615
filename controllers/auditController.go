package controllers

import (
	"strconv"

	"geogateway-backend/database"
	"geogateway-backend/models"

	"github.com/gofiber/fiber/v2"
)

// ListApiRequests returns recent audit records, newest first. Supports
// endpoint=, status= and limit= query filters.
func ListApiRequests(c *fiber.Ctx) error {
	if database.DB == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "audit store not configured")
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}

	q := database.DB.Model(&models.ApiRequest{}).Order("request_timestamp DESC").Limit(limit)
	if endpoint := c.Query("endpoint"); endpoint != "" {
		q = q.Where("endpoint = ?", endpoint)
	}
	if status := c.Query("status"); status != "" {
		switch status {
		case models.StatusPending, models.StatusSuccess, models.StatusFailed:
			q = q.Where("status = ?", status)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "unknown status filter")
		}
	}

	var records []models.ApiRequest
	if err := q.Find(&records).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(records)
}

// GetApiRequest looks a single audit record up by its public request id.
func GetApiRequest(c *fiber.Ctx) error {
	if database.DB == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "audit store not configured")
	}

	var record models.ApiRequest
	if err := database.DB.Where("request_id = ?", c.Params("id")).First(&record).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "audit record not found")
	}
	return c.JSON(record)
}
