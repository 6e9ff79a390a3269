package structurer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"faxfhir/internal/port"
)

// circuitState tracks rate-limit backoff for a single structurer.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// Fallback tries structurers in order, skipping those with open circuits.
// It implements port.Structurer.
type Fallback struct {
	structurers []port.Structurer
	circuits    []*circuitState
}

// NewFallback creates a Fallback from an ordered list of structurers.
func NewFallback(structurers []port.Structurer) *Fallback {
	circuits := make([]*circuitState, len(structurers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &Fallback{
		structurers: structurers,
		circuits:    circuits,
	}
}

// Name identifies the chain by its member providers.
func (f *Fallback) Name() string {
	names := make([]string, len(f.structurers))
	for i, s := range f.structurers {
		names[i] = s.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *Fallback) Structure(ctx context.Context, text string) (*port.StructureOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, s := range f.structurers {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Warn().
				Str("provider", s.Name()).
				Time("reset_at", resetAt).
				Msg("skipping structurer with open circuit")
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := s.Structure(ctx, text)
		if err == nil {
			return out, nil
		}

		log.Warn().Err(err).Str("provider", s.Name()).Msg("structurer failed")
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		// Everything was skipped or rate limited.
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all structurers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all structurers failed: %w", lastErr)
}
