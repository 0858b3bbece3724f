// internal/service/override/importexport.go
package override

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	domain "esim-pricing-service/internal/domain/pricing"
	xerrors "esim-pricing-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Export serializes the current cached override map as a flat JSON object
// of packageCode -> price.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	overrides := s.FetchAll(ctx)
	raw, err := json.Marshal(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal overrides: %w", err)
	}
	return raw, nil
}

// Import validates the payload and atomically replaces the entire override
// map. Any invalid key or value rejects the whole import; nothing is
// persisted on failure. Zero values follow SetPrice semantics and are
// dropped rather than stored.
func (s *Service) Import(ctx context.Context, raw []byte, adminID string) (*domain.ImportResult, error) {
	if adminID == "" {
		return nil, xerrors.ErrAuthorization
	}

	// Decode values lazily so a wrong-typed value is caught per key below
	// and the error can name the offender.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, xerrors.Validationf("payload must be a JSON object of plan code to price: %v", err)
	}

	// Validate in key order so the reported offender is deterministic.
	codes := make([]string, 0, len(doc))
	for code := range doc {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	incoming := make(domain.PriceOverride, len(doc))
	skipped := 0
	for _, code := range codes {
		if code == "" {
			return nil, xerrors.Validationf("import contains an empty plan code")
		}
		val := bytes.TrimSpace(doc[code])
		// json.Number would accept a quoted numeric string; values must be
		// plain JSON numbers.
		if len(val) == 0 || val[0] == '"' {
			return nil, xerrors.Validationf("invalid price for %q: not a number", code)
		}
		var num json.Number
		if err := json.Unmarshal(val, &num); err != nil {
			return nil, xerrors.Validationf("invalid price for %q: not a number", code)
		}
		price, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, xerrors.Validationf("invalid price for %q: not a number", code)
		}
		if price.IsNegative() {
			return nil, xerrors.Validationf("invalid price for %q: must be >= 0", code)
		}
		if price.IsZero() {
			skipped++
			continue
		}
		incoming[code] = price
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveOverrides(ctx, incoming); err != nil {
		return nil, fmt.Errorf("import overrides: %w: %w", xerrors.ErrUpstreamUnavailable, err)
	}

	s.audit(ctx, adminID, "import", "", fmt.Sprintf("%d entries", len(incoming)))
	s.cache.Invalidate(cacheKey)
	s.publish(domain.OverrideEvent{Action: "import", Actor: adminID, At: time.Now()})

	s.logger.Info("price overrides imported",
		zap.Int("imported", len(incoming)),
		zap.Int("skipped", skipped),
		zap.String("admin_id", adminID),
	)

	return &domain.ImportResult{Imported: len(incoming), Skipped: skipped}, nil
}
