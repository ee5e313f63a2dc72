package lifecycle

import (
	"strings"

	"oxibook/pkg/logger"
)

// Status is the canonical three-value booking state. Every view filters
// on normalized statuses; raw backend strings are never compared
// directly outside this package.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Normalize maps a raw backend status string to its canonical value.
// Matching is case-insensitive; "cancel" and "cancelled" collapse to
// Cancelled. Anything unrecognized, including the empty string, is
// treated as not-yet-resolved and maps to Upcoming. Total and
// idempotent.
func Normalize(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cancel", "cancelled":
		return StatusCancelled
	case "completed":
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

// Normalizer applies the same mapping but makes the silent default
// observable: raw values outside the known vocabulary are logged and
// mapped to a configurable fallback. The known upstream synonyms for
// an unresolved booking ("pending", "active") stay silent.
type Normalizer struct {
	log      *logger.Logger
	fallback Status
}

func NewNormalizer(log *logger.Logger, fallback Status) *Normalizer {
	if fallback == "" {
		fallback = StatusUpcoming
	}
	return &Normalizer{log: log, fallback: fallback}
}

func (n *Normalizer) Normalize(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cancel", "cancelled":
		return StatusCancelled
	case "completed":
		return StatusCompleted
	case "", "upcoming", "pending", "active":
		return StatusUpcoming
	}

	if n.log != nil {
		n.log.Warn("Unrecognized booking status",
			"raw_status", raw,
			"fallback", string(n.fallback),
		)
	}
	return n.fallback
}
