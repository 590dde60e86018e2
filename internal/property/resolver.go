package property

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"staybook/internal/domain"
)

// AcceptScore is the score a match must exceed to be accepted.
const AcceptScore = 40

const (
	scoreExact         = 100
	scoreFamilyDefault = 80
	scoreFamilyPartial = 60
	weightContainment  = 70.0
	weightTokenOverlap = 40.0
)

// Resolver maps free-text property names from booking documents onto catalog entries.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the best scoring catalog entry for name, or nil when no
// entry scores above AcceptScore. Ties keep catalog order.
func (r *Resolver) Resolve(name string, catalog []domain.Property) *domain.PropertyMatch {
	target := Normalize(name)
	if target == "" || len(catalog) == 0 {
		return nil
	}

	// An exact name wins outright so family hits scoring 100 cannot tie it.
	for i := range catalog {
		if sameName(target, Normalize(catalog[i].Name)) {
			return &domain.PropertyMatch{Property: catalog[i], Score: scoreExact}
		}
	}

	defaults := familyDefaults(catalog)
	var best *domain.PropertyMatch
	for i := range catalog {
		s := score(target, Normalize(catalog[i].Name), defaults)
		if best == nil || s > best.Score {
			best = &domain.PropertyMatch{Property: catalog[i], Score: s}
		}
	}

	if best.Score <= AcceptScore {
		r.logger.Debug("property.Resolver.Resolve: no match above threshold",
			zap.String("name", name), zap.Int("best_score", best.Score), zap.String("best", best.Property.Name))
		return nil
	}
	return best
}

// Score rates how well name refers to p on a 0 to 100 scale, treating the
// first variant of a family as its default.
func Score(name string, p domain.Property) int {
	return score(Normalize(name), Normalize(p.Name), nil)
}

// familyDefaults maps each family base to its lowest variant in the catalog.
func familyDefaults(catalog []domain.Property) map[string]int {
	out := make(map[string]int)
	for i := range catalog {
		base, v, ok := splitVariant(strings.Fields(Normalize(catalog[i].Name)))
		if !ok {
			continue
		}
		key := strings.Join(base, " ")
		if cur, seen := out[key]; !seen || v < cur {
			out[key] = v
		}
	}
	return out
}

func score(target, candidate string, defaults map[string]int) int {
	if target == "" || candidate == "" {
		return 0
	}
	if sameName(target, candidate) {
		return scoreExact
	}

	targetTokens := strings.Fields(target)
	candTokens := strings.Fields(candidate)

	if s, ok := familyScore(targetTokens, candTokens, defaults); ok {
		return s
	}

	short, long := compact(target), compact(candidate)
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(long, short) {
		return int(math.Round(weightContainment * float64(len([]rune(short))) / float64(len([]rune(long)))))
	}

	return int(math.Round(weightTokenOverlap * tokenOverlap(targetTokens, candTokens)))
}

func sameName(target, candidate string) bool {
	return target == candidate || compact(target) == compact(candidate)
}

// familyScore applies the building-phase rules when candidate carries a
// variant suffix and target mentions its base name. ok is false when the
// family rules do not apply.
func familyScore(target, candidate []string, defaults map[string]int) (int, bool) {
	base, variant, ok := splitVariant(candidate)
	if !ok {
		return 0, false
	}
	at := indexRun(target, base)
	if at < 0 {
		return 0, false
	}

	next := at + len(base)
	if next < len(target) {
		if v, isVariant := variantNumber(target[next]); isVariant {
			// "aroeira ii beach" names another place than "aroeira ii".
			if v == variant && next+1 == len(target) {
				return scoreExact, true
			}
			return scoreFamilyPartial, true
		}
	}

	def := 1
	if d, found := defaults[strings.Join(base, " ")]; found {
		def = d
	}
	if variant == def {
		return scoreFamilyDefault, true
	}
	return scoreFamilyPartial, true
}

func tokenOverlap(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	common := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			common++
		}
	}
	maxLen := len(setA)
	if len(setB) > maxLen {
		maxLen = len(setB)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(common) / float64(maxLen)
}

// NameSimilarity is the token overlap ratio of two person or property names
// after normalization, in [0, 1].
func NameSimilarity(a, b string) float64 {
	return tokenOverlap(strings.Fields(Normalize(a)), strings.Fields(Normalize(b)))
}
