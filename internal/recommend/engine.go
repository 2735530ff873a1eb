// Package recommend scores plan query results against tracked user
// preferences and proposes the best match.
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// Recommendation is the proposed plan with its rationale and runners-up.
type Recommendation struct {
	Plan         map[string]any   `json:"package"`
	Reason       string           `json:"reason"`
	Confidence   float64          `json:"confidence"`
	Alternatives []map[string]any `json:"alternatives,omitempty"`
}

// features are the preference signals extracted from dialog state.
type features struct {
	pricePreference float64
	hasPrice        bool
	dataFloor       float64
	hasData         bool
	isStudent       bool
}

// Engine ranks candidate plans.
type Engine struct {
	log *logging.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(log *logging.Logger) *Engine {
	return &Engine{log: log.Sub("recommend")}
}

// Recommend picks the best plan from a successful query result, or nil
// when the result set is too small or too large to be worth ranking.
func (e *Engine) Recommend(state *domain.DialogState, result *domain.ExecutionResult) *Recommendation {
	plans, ok := result.Data.([]map[string]any)
	if !ok {
		return nil
	}
	if len(plans) < 2 || len(plans) > 10 {
		return nil
	}

	f := extractFeatures(state)

	type scored struct {
		plan  map[string]any
		score float64
	}
	ranked := make([]scored, 0, len(plans))
	for _, p := range plans {
		ranked = append(ranked, scored{plan: p, score: score(p, f)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	best := ranked[0]
	rec := &Recommendation{
		Plan:       best.plan,
		Reason:     explain(best.plan, f),
		Confidence: math.Min(best.score/100, 1.0),
	}
	for _, alt := range ranked[1:] {
		rec.Alternatives = append(rec.Alternatives, alt.plan)
		if len(rec.Alternatives) == 2 {
			break
		}
	}

	e.log.Debug().Str("plan", planName(best.plan)).Float64("score", best.score).Msg("recommended")
	return rec
}

func extractFeatures(state *domain.DialogState) features {
	var f features

	if v, ok := toFloat(state.Slots[domain.SlotPriceMax]); ok {
		f.pricePreference, f.hasPrice = v, true
	} else if v, ok := toFloat(state.Slots[domain.SlotPriceMin]); ok {
		f.pricePreference, f.hasPrice = v*1.5, true
	}

	if v, ok := toFloat(state.Slots[domain.SlotDataMin]); ok {
		f.dataFloor, f.hasData = v, true
	}

	if target, _ := state.Slots[domain.SlotTargetUser].(string); target == "student" {
		f.isStudent = true
	}
	if isStudent, _ := state.UserProfile["is_student"].(bool); isStudent {
		f.isStudent = true
	}
	return f
}

// score rates a plan 0–100: price fit 40%, data fit 30%, value for money
// 20%, audience match 10%.
func score(plan map[string]any, f features) float64 {
	price, _ := toFloat(plan["price"])
	dataGB, _ := toFloat(plan["data_gb"])

	var total float64

	if f.hasPrice {
		total += math.Max(0, 100-math.Abs(price-f.pricePreference)) * 0.4
	}

	if f.hasData {
		dataScore := 30.0
		if dataGB >= f.dataFloor {
			dataScore = 100
			if dataGB > f.dataFloor*2 {
				dataScore = 70 // fits, but wasteful
			}
		}
		total += dataScore * 0.3
	}

	if dataGB > 0 {
		costPerGB := price / dataGB
		total += math.Max(0, 100-costPerGB*10) * 0.2
	}

	if f.isStudent {
		if target, _ := plan["target_user"].(string); target == "student" {
			total += 100 * 0.1
		} else {
			total += 50 * 0.1
		}
	}
	return total
}

func explain(plan map[string]any, f features) string {
	price, _ := toFloat(plan["price"])
	dataGB, _ := toFloat(plan["data_gb"])

	var reasons []string
	if f.hasPrice && math.Abs(price-f.pricePreference) < 20 {
		reasons = append(reasons, "fits your budget")
	}
	if f.hasData && dataGB >= f.dataFloor {
		reasons = append(reasons, "covers your data needs")
	}
	if dataGB > 0 && price/dataGB < 2 {
		reasons = append(reasons, "strong value for money")
	}
	if f.isStudent {
		if target, _ := plan["target_user"].(string); target == "student" {
			reasons = append(reasons, "student discount")
		}
	}

	if len(reasons) == 0 {
		return "This plan looks like a good fit for you."
	}
	return "Recommended because it " + strings.Join(reasons, ", ") + "."
}

func planName(plan map[string]any) string {
	name, _ := plan["name"].(string)
	return name
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
