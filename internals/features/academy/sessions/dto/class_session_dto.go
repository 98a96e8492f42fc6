package dto

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type CreateClassSessionRequest struct {
	SessionDate string `json:"session_date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

type UpdateClassSessionRequest struct {
	SessionDate *string `json:"session_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsCompleted *bool   `json:"is_completed"`
}

// NormalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeClock(raw string) (string, error) {
	if t, err := time.Parse("15:04:05", raw); err == nil {
		return t.Format("15:04:05"), nil
	}
	if t, err := time.Parse("15:04", raw); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "Invalid time, expected HH:MM or HH:MM:SS")
}
