package fxrate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// IRateProvider is a static lookup of fixed conversion rates between
// currency/asset pairs, loaded once at start-up. There is no fallback: a
// missing pair is a hard failure for the conversion stage.
type IRateProvider interface {
	GetRate(sourceCcy, targetCcy string) (decimal.Decimal, bool)
	AllRates() map[string]map[string]decimal.Decimal
}

type rateProvider struct {
	rates  map[string]map[string]decimal.Decimal
	logger zerolog.Logger
}

// Load reads the rate table (source -> target -> rate) from a JSON file.
func Load(filePath string, logger zerolog.Logger) (IRateProvider, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate table %s: %w", filePath, err)
	}

	var rates map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode rate table %s: %w", filePath, err)
	}

	logger.Info().Int("currency_sets", len(rates)).Str("path", filePath).Msg("Loaded FX rate table")

	return &rateProvider{rates: rates, logger: logger}, nil
}

func (p *rateProvider) GetRate(sourceCcy, targetCcy string) (decimal.Decimal, bool) {
	targets, ok := p.rates[sourceCcy]
	if !ok {
		return decimal.Decimal{}, false
	}
	rate, ok := targets[targetCcy]
	return rate, ok
}

// AllRates returns a copy of the full table so callers cannot mutate the
// loaded rates.
func (p *rateProvider) AllRates() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(p.rates))
	for source, targets := range p.rates {
		inner := make(map[string]decimal.Decimal, len(targets))
		for target, rate := range targets {
			inner[target] = rate
		}
		out[source] = inner
	}
	return out
}
