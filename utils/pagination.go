package utils

import "github.com/gofiber/fiber/v2"

const maxPageSize = 100

// Pagination reads skip and limit from the query string.
func Pagination(c *fiber.Ctx, defaultLimit int) (skip, limit int) {
	skip = c.QueryInt("skip", 0)
	limit = c.QueryInt("limit", defaultLimit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultLimit
	}
	return skip, limit
}
