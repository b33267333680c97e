package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrInvalidID is returned for a path id that is not a positive integer
var ErrInvalidID = errors.New("invalid id")

// ParseID reads the :id path parameter
func ParseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

// QueryUint reads an optional unsigned query parameter, 0 when absent
func QueryUint(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
