// Package ndg classifies candidate non-degeneracy polynomials against the
// known degenerate forms of the constructions of a protocol.
package ndg

import (
	"log/slog"

	"github.com/njchilds90/geoprover/algebra"
	"github.com/njchilds90/geoprover/protocol"
)

// Condition is one candidate polynomial, tagged when it matched a known form.
type Condition struct {
	Polynomial  *algebra.Polynomial
	Label       string // construction whose form matched, empty if none
	Description string
	Classified  bool
}

func (c Condition) String() string {
	if !c.Classified {
		return c.Polynomial.String() + " != 0"
	}
	return "not (" + c.Description + ")"
}

// Classifier matches candidates against degenerate forms.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier returns a classifier. A nil logger means slog.Default().
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Initials returns, for every hypothesis, the coefficient of the highest
// power of its highest dependent variable. These are the polynomials a
// triangular solver must assume nonzero. Constant initials are dropped.
func Initials(sys *protocol.System) []*algebra.Polynomial {
	var out []*algebra.Polynomial
	for _, h := range sys.Hypotheses {
		lead, ok := leadingVariable(h.Polynomial)
		if !ok {
			continue
		}
		init := h.Polynomial.CoefficientOf(
			func(v algebra.Variable) bool { return v == lead },
			algebra.Power{Var: lead, Exp: h.Polynomial.DegreeIn(lead)},
		)
		if !init.IsConstant() {
			out = append(out, init)
		}
	}
	return out
}

func leadingVariable(p *algebra.Polynomial) (algebra.Variable, bool) {
	var lead algebra.Variable
	found := false
	for _, v := range p.Variables() {
		if v.IsDependent() && (!found || v.Index > lead.Index) {
			lead, found = v, true
		}
	}
	return lead, found
}

// normalize makes forms comparable up to a nonzero constant factor.
func normalize(p *algebra.Polynomial) *algebra.Polynomial { return p.Primitive() }

// Classify looks candidate up in the degenerate forms of c. It reports the
// matching description, or false when the candidate is not recognised or c
// knows no forms.
func (cl *Classifier) Classify(candidate *algebra.Polynomial, c protocol.Construction) (string, bool) {
	d, ok := c.(protocol.Degenerate)
	if !ok || candidate == nil || candidate.IsZero() {
		return "", false
	}
	forms, err := d.DegenerateForms()
	if err != nil {
		cl.logger.Debug("degenerate forms unavailable", "construction", c.Label(), "error", err)
		return "", false
	}
	want := normalize(candidate)
	for _, f := range forms {
		if f.Polynomial == nil || f.Polynomial.IsZero() {
			continue
		}
		if normalize(f.Polynomial).Equal(want) {
			return f.Description, true
		}
	}
	return "", false
}

// ClassifyAll tags every candidate with the first construction of cp, in
// index order, that recognises it. Unmatched candidates are returned
// verbatim.
func (cl *Classifier) ClassifyAll(cp *protocol.Protocol, candidates []*algebra.Polynomial) []Condition {
	cs := cp.Constructions()
	out := make([]Condition, 0, len(candidates))
	for _, cand := range candidates {
		cond := Condition{Polynomial: cand}
		for _, c := range cs {
			if desc, ok := cl.Classify(cand, c); ok {
				cond.Label, cond.Description, cond.Classified = c.Label(), desc, true
				break
			}
		}
		if cond.Classified {
			cl.logger.Info("ndg classified", "polynomial", cand.String(), "construction", cond.Label, "form", cond.Description)
		} else {
			cl.logger.Debug("ndg unclassified", "polynomial", cand.String())
		}
		out = append(out, cond)
	}
	return out
}
