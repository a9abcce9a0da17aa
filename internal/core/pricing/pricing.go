package pricing

import (
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

const perMillion = 1_000_000.0

// ModelPricing defines token pricing for a Claude model family
type ModelPricing struct {
	Input         float64 // Per million tokens
	Output        float64 // Per million tokens
	CacheCreation float64 // Per million tokens
	CacheRead     float64 // Per million tokens
}

const defaultFamily = "sonnet"

// familyPricing is keyed by util.ModelFamily
var familyPricing = map[string]ModelPricing{
	"opus": {
		Input:         15.00,
		Output:        75.00,
		CacheCreation: 18.75,
		CacheRead:     1.50,
	},
	"sonnet": {
		Input:         3.00,
		Output:        15.00,
		CacheCreation: 3.75,
		CacheRead:     0.30,
	},
	"haiku": {
		Input:         0.80,
		Output:        4.00,
		CacheCreation: 1.00,
		CacheRead:     0.08,
	},
}

// GetPricing returns the pricing for a model identifier. Unknown models are
// priced as Sonnet.
func GetPricing(modelName string) ModelPricing {
	if pricing, ok := familyPricing[util.ModelFamily(modelName)]; ok {
		return pricing
	}
	return familyPricing[defaultFamily]
}

// EstimateCost prices a model's lifetime usage from the token table.
func EstimateCost(modelName string, usage model.ModelUsage) float64 {
	p := GetPricing(modelName)
	return float64(usage.InputTokens)*p.Input/perMillion +
		float64(usage.OutputTokens)*p.Output/perMillion +
		float64(usage.CacheCreationInputTokens)*p.CacheCreation/perMillion +
		float64(usage.CacheReadInputTokens)*p.CacheRead/perMillion
}

// UsageCost returns the recorded cost, or an estimate when none was recorded.
// The second result reports whether the value is an estimate.
func UsageCost(modelName string, usage model.ModelUsage) (float64, bool) {
	if usage.CostUsd > 0 {
		return usage.CostUsd, false
	}
	return EstimateCost(modelName, usage), true
}

// TotalCost sums UsageCost over every model and reports whether any part
// of the total was estimated.
func TotalCost(usage map[string]model.ModelUsage) (float64, bool) {
	var (
		total     float64
		estimated bool
	)
	for name, u := range usage {
		cost, est := UsageCost(name, u)
		total += cost
		estimated = estimated || (est && cost > 0)
	}
	return total, estimated
}
