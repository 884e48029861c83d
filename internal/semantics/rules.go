package semantics

// Status is the outcome class of a rule evaluation.
type Status int

const (
	StatusAccepted Status = iota
	StatusRejected
	StatusWarning
)

// Verdict is the outcome of evaluating an action's preconditions against
// a resolved feature set. Produced fresh per evaluation, never shared.
type Verdict struct {
	Status  Status
	Message string
}

// Accept returns an unconditional acceptance.
func Accept() Verdict { return Verdict{Status: StatusAccepted} }

// Reject returns a rejection carrying a user-facing message.
func Reject(message string) Verdict {
	return Verdict{Status: StatusRejected, Message: message}
}

// Warn returns an acceptance carrying a non-blocking advisory message.
func Warn(message string) Verdict {
	return Verdict{Status: StatusWarning, Message: message}
}

// Rejected reports whether the connection must be reverted.
func (v Verdict) Rejected() bool { return v.Status == StatusRejected }

// Warned reports whether the connection stands but the user is advised.
func (v Verdict) Warned() bool { return v.Status == StatusWarning }

// Rule decides a verdict from a feature set and the reachable
// quantity-wrapper count.
type Rule func(features FeatureSet, leafCount int) Verdict

// rules maps action identifiers to their precondition rules. Actions not
// listed here always accept; the table is open-ended on purpose so new
// palette actions work before they grow rules.
var rules = map[string]Rule{
	"slice": func(f FeatureSet, _ int) Verdict {
		if !f.Has(FeatureSolid) {
			return Reject("slicing requires a solid ingredient")
		}
		return Accept()
	},

	"grind": func(f FeatureSet, _ int) Verdict {
		if !f.Has(FeatureSolid) {
			return Reject("grinding requires a solid ingredient")
		}
		if f.Has(FeaturePowder) {
			return Warn("already powder; grinding may be unnecessary")
		}
		return Accept()
	},

	"mix": func(_ FeatureSet, leafCount int) Verdict {
		if leafCount < 2 {
			return Reject("mixing requires ≥2 ingredients; combine them first")
		}
		return Accept()
	},

	// Sub-conditions are checked in documented order; when several fail
	// at once, the first failing check picks the surfaced message.
	"fry": func(f FeatureSet, _ int) Verdict {
		if !f.Has(FeatureOil) {
			return Reject("frying requires oil")
		}
		if !f.Has(FeatureSolid) && !f.Has(FeaturePowder) {
			return Reject("frying requires solid or powder")
		}
		if f.Has(FeatureLiquid) {
			return Reject("frying should not include liquid")
		}
		return Accept()
	},

	"boil": func(f FeatureSet, _ int) Verdict {
		if !f.Has(FeatureLiquid) {
			return Reject("boiling requires a liquid")
		}
		return Accept()
	},

	"simmer": func(f FeatureSet, _ int) Verdict {
		if !f.Has(FeatureLiquid) || !f.Has(FeatureSolid) {
			return Reject("simmering requires both liquid and solid")
		}
		return Accept()
	},

	"put": func(FeatureSet, int) Verdict { return Accept() },
}

// Evaluate applies the action's rule to the resolved features and leaf
// count. Pure and total: every action maps to exactly one verdict for a
// given input, and unknown actions accept.
func Evaluate(action string, features FeatureSet, leafCount int) Verdict {
	rule, ok := rules[action]
	if !ok {
		return Accept()
	}
	return rule(features, leafCount)
}
