package handler

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// parseDateQuery parses an optional RFC 3339 date query parameter
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Date-only values are accepted too.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s, expected RFC 3339 or YYYY-MM-DD: %w", name, err)
		}
	}
	return &t, nil
}

// parseBoolQuery parses an optional boolean query parameter
func parseBoolQuery(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// parseAllocations converts a string-keyed allocation map from the wire
// into a UUID-keyed one, rejecting malformed bill IDs.
func parseAllocations(raw map[string]decimal.Decimal) (map[uuid.UUID]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one allocation is required")
	}
	allocations := make(map[uuid.UUID]decimal.Decimal, len(raw))
	for idStr, amount := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Invalid document ID %q in allocation map", idStr))
		}
		allocations[id] = amount
	}
	return allocations, nil
}
