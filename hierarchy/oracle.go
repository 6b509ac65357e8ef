package hierarchy

import (
	"typebind/internal/common"
	"typebind/meta"
)

// Rule names the step of the tie-break order that decided a compatibility question.
type Rule int

const (
	RuleUnrelated Rule = iota // no rule matched; not convertible
	RuleInvalid               // a nil descriptor was given
	RuleIdentity              // candidate and target are the same type
	RuleSealed                // target is sealed and differs from candidate
	RuleInterface             // target interface found in the candidate lineage
	RuleAncestor              // target struct found among the candidate ancestors
)

const (
	VerdictUnrelated = "unrelated"
	VerdictInvalid   = "invalid"
	VerdictIdentity  = "identity"
	VerdictSealed    = "sealed"
	VerdictInterface = "interface"
	VerdictAncestor  = "ancestor"
)

// String returns a human-readable name for the rule.
func (r Rule) String() string {
	switch r {
	case RuleUnrelated:
		return VerdictUnrelated
	case RuleInvalid:
		return VerdictInvalid
	case RuleIdentity:
		return VerdictIdentity
	case RuleSealed:
		return VerdictSealed
	case RuleInterface:
		return VerdictInterface
	case RuleAncestor:
		return VerdictAncestor
	default:
		return common.UnknownStr
	}
}

// Result contains detailed information about a compatibility decision.
type Result struct {
	Convertible bool
	Rule        Rule
	Reason      string     // Human-readable explanation
	Candidate   string     // String representation of the candidate type
	Target      string     // String representation of the target type
	Via         *meta.Type // Lineage level where the target was found, if any
}

// IsConvertible reports whether a value of candidate can be used where target is expected.
// nil descriptors are never convertible.
func IsConvertible(candidate, target *meta.Type) bool {
	return Explain(candidate, target).Convertible
}

// Explain decides compatibility like IsConvertible and reports why.
func Explain(candidate, target *meta.Type) Result {
	res := Result{
		Candidate: candidate.String(),
		Target:    target.String(),
	}

	if candidate == nil || target == nil {
		res.Rule = RuleInvalid
		res.Reason = "missing type descriptor"
		return res
	}

	// Identity short-circuits before the sealed check, so a sealed type
	// is still convertible to itself.
	if candidate.ID() == target.ID() {
		res.Convertible = true
		res.Rule = RuleIdentity
		res.Reason = "types are identical"
		return res
	}

	if target.IsSealed() {
		res.Rule = RuleSealed
		res.Reason = "target is sealed"
		return res
	}

	if target.IsInterface() {
		for level := range Lineage(candidate) {
			if containsType(InterfacesAt(level), target) {
				res.Convertible = true
				res.Rule = RuleInterface
				res.Via = level
				if level == candidate {
					res.Reason = "candidate implements target"
				} else {
					res.Reason = "ancestor " + level.String() + " implements target"
				}
				return res
			}
		}

		res.Reason = "target interface not implemented in candidate lineage"
		return res
	}

	for level := range Ancestors(candidate) {
		if level.ID() == target.ID() {
			res.Convertible = true
			res.Rule = RuleAncestor
			res.Via = level
			res.Reason = "target is an ancestor of candidate"
			return res
		}
	}

	res.Reason = "target is not an ancestor of candidate"
	return res
}

// ConvertibleTo reports whether candidate is convertible to TBase as described by cat.
// It is false when TBase is not in the catalog.
func ConvertibleTo[TBase any](cat *meta.Catalog, candidate *meta.Type) bool {
	target, ok := meta.TypeOf[TBase](cat)
	if !ok {
		return false
	}

	return IsConvertible(candidate, target)
}

func containsType(list []*meta.Type, t *meta.Type) bool {
	for _, x := range list {
		if x.ID() == t.ID() {
			return true
		}
	}

	return false
}
