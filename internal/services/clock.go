package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/models"
	"github.com/google/uuid"
)

// clock is embedded by services that read the current time; tests replace Now
type clock struct {
	Now func() time.Time
}

func (c clock) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c clock) today() time.Time {
	return models.StartOfDay(c.now())
}

// validateID rejects ids that are not UUIDs
func validateID(entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return models.NewValidationError("id", fmt.Sprintf("%s ID is required", entity))
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.NewValidationError("id", fmt.Sprintf("invalid %s ID format", strings.ToLower(entity)))
	}
	return nil
}
