// Package theorem reads theorem descriptions from YAML (or JSON) and builds
// the corresponding construction protocol.
//
// A document lists constructions in order; each refers to earlier ones by
// label:
//
//	name: midline
//	constructions:
//	  - {label: A, kind: free-point}
//	  - {label: B, kind: free-point}
//	  - {label: M, kind: midpoint, refs: [A, B]}
//	statement: {kind: collinear, refs: [A, B, M]}
package theorem

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/geoprover/catalog"
	"github.com/njchilds90/geoprover/protocol"
)

var (
	ErrEmptyDocument    = errors.New("theorem: empty document")
	ErrUnknownKind      = errors.New("theorem: unknown kind")
	ErrUnknownReference = errors.New("theorem: reference to a label not constructed earlier")
	ErrArity            = errors.New("theorem: wrong number of references")
	ErrReferenceType    = errors.New("theorem: reference has the wrong shape")
	ErrBadRatio         = errors.New("theorem: invalid ratio")
)

// Descriptor describes one construction. Ratio is used by dividing points
// ("1/3", "0.25") and Turns by rotated points.
type Descriptor struct {
	Label string   `yaml:"label" json:"label"`
	Kind  string   `yaml:"kind" json:"kind"`
	Refs  []string `yaml:"refs,omitempty" json:"refs,omitempty"`
	Ratio string   `yaml:"ratio,omitempty" json:"ratio,omitempty"`
	Turns int      `yaml:"turns,omitempty" json:"turns,omitempty"`
}

// Statement describes the goal.
type Statement struct {
	Kind string   `yaml:"kind" json:"kind"`
	Refs []string `yaml:"refs" json:"refs"`
}

// Document is one theorem.
type Document struct {
	Name          string       `yaml:"name" json:"name"`
	Constructions []Descriptor `yaml:"constructions" json:"constructions"`
	Statement     *Statement   `yaml:"statement,omitempty" json:"statement,omitempty"`
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("theorem: parse: %w", err)
	}
	if len(doc.Constructions) == 0 {
		return nil, ErrEmptyDocument
	}
	return &doc, nil
}

// Load reads and parses path. A document without a name is named after
// the file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theorem: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Build registers every construction of doc, in order, in a new protocol
// and sets its statement.
func Build(doc *Document) (*protocol.Protocol, error) {
	if doc == nil || len(doc.Constructions) == 0 {
		return nil, ErrEmptyDocument
	}
	cp := protocol.New(doc.Name)
	for _, d := range doc.Constructions {
		c, err := construct(cp, d)
		if err != nil {
			return nil, fmt.Errorf("construction %q: %w", d.Label, err)
		}
		if err := cp.Add(c); err != nil {
			return nil, fmt.Errorf("construction %q: %w", d.Label, err)
		}
	}
	if doc.Statement != nil {
		s, err := statement(cp, *doc.Statement)
		if err != nil {
			return nil, fmt.Errorf("statement %q: %w", doc.Statement.Kind, err)
		}
		if err := cp.SetStatement(s); err != nil {
			return nil, fmt.Errorf("statement %q: %w", doc.Statement.Kind, err)
		}
	}
	return cp, nil
}

// Compile builds doc and transforms it.
func Compile(ctx *protocol.Context, doc *Document) (*protocol.Protocol, *protocol.System, error) {
	cp, err := Build(doc)
	if err != nil {
		return nil, nil, err
	}
	sys, err := cp.Transform(ctx)
	if err != nil {
		return cp, nil, err
	}
	return cp, sys, nil
}

// ============================================================
// Reference resolution
// ============================================================

type refs struct {
	cp     *protocol.Protocol
	labels []string
}

func (r refs) expect(n int) error {
	if len(r.labels) != n {
		return fmt.Errorf("%w: want %d, got %d", ErrArity, n, len(r.labels))
	}
	return nil
}

func (r refs) lookup(i int) (protocol.Construction, error) {
	c, ok := r.cp.Lookup(r.labels[i])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, r.labels[i])
	}
	return c, nil
}

func (r refs) point(i int) (*protocol.Point, error) {
	c, err := r.lookup(i)
	if err != nil {
		return nil, err
	}
	p, ok := c.(*protocol.Point)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a point", ErrReferenceType, r.labels[i])
	}
	return p, nil
}

func (r refs) set(i int) (protocol.SetOfPoints, error) {
	c, err := r.lookup(i)
	if err != nil {
		return nil, err
	}
	s, ok := c.(protocol.SetOfPoints)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a line or curve", ErrReferenceType, r.labels[i])
	}
	return s, nil
}

// points resolves all references as points, requiring exactly n.
func (r refs) points(n int) ([]*protocol.Point, error) {
	if err := r.expect(n); err != nil {
		return nil, err
	}
	ps := make([]*protocol.Point, n)
	for i := range ps {
		p, err := r.point(i)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

func (r refs) sets(n int) ([]protocol.SetOfPoints, error) {
	if err := r.expect(n); err != nil {
		return nil, err
	}
	ss := make([]protocol.SetOfPoints, n)
	for i := range ss {
		s, err := r.set(i)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return ss, nil
}

func parseRatio(s string) (*big.Rat, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: missing", ErrBadRatio)
	}
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadRatio, s)
	}
	return r, nil
}

// construct maps a descriptor onto the catalog.
func construct(cp *protocol.Protocol, d Descriptor) (protocol.Construction, error) {
	kind, ok := protocol.ParseKind(d.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	r := refs{cp: cp, labels: d.Refs}

	switch kind {
	case protocol.KindFreePoint:
		if err := r.expect(0); err != nil {
			return nil, err
		}
		return catalog.FreePoint(d.Label), nil

	case protocol.KindRandomPoint:
		ss, err := r.sets(1)
		if err != nil {
			return nil, err
		}
		return catalog.RandomPointOn(d.Label, ss[0]), nil

	case protocol.KindIntersectionPoint:
		ss, err := r.sets(2)
		if err != nil {
			return nil, err
		}
		return catalog.IntersectionPoint(d.Label, ss[0], ss[1]), nil

	case protocol.KindTangentLine:
		if err := r.expect(2); err != nil {
			return nil, err
		}
		at, err := r.point(0)
		if err != nil {
			return nil, err
		}
		curve, err := r.set(1)
		if err != nil {
			return nil, err
		}
		return catalog.TangentLine(d.Label, at, curve)
	}

	arity := map[protocol.Kind]int{
		protocol.KindMidpoint:                 2,
		protocol.KindTranslatedPoint:          3,
		protocol.KindRotatedPoint:             2,
		protocol.KindDividingPoint:            2,
		protocol.KindHarmonicConjugate:        3,
		protocol.KindLineThroughTwoPoints:     2,
		protocol.KindParallelLine:             3,
		protocol.KindPerpendicularLine:        3,
		protocol.KindPerpendicularBisector:    2,
		protocol.KindCircleWithCenterAndPoint: 2,
		protocol.KindCircleThroughThreePoints: 3,
		protocol.KindConicThroughFivePoints:   5,
	}[kind]
	ps, err := r.points(arity)
	if err != nil {
		return nil, err
	}

	switch kind {
	case protocol.KindMidpoint:
		return catalog.Midpoint(d.Label, ps[0], ps[1]), nil
	case protocol.KindTranslatedPoint:
		return catalog.TranslatedPoint(d.Label, ps[0], ps[1], ps[2]), nil
	case protocol.KindRotatedPoint:
		return catalog.RotatedPoint(d.Label, ps[0], ps[1], d.Turns)
	case protocol.KindDividingPoint:
		ratio, err := parseRatio(d.Ratio)
		if err != nil {
			return nil, err
		}
		return catalog.DividingPoint(d.Label, ps[0], ps[1], ratio)
	case protocol.KindHarmonicConjugate:
		return catalog.HarmonicConjugate(d.Label, ps[0], ps[1], ps[2]), nil
	case protocol.KindLineThroughTwoPoints:
		return catalog.LineThroughTwoPoints(d.Label, ps[0], ps[1]), nil
	case protocol.KindParallelLine:
		return catalog.ParallelLine(d.Label, ps[0], ps[1], ps[2]), nil
	case protocol.KindPerpendicularLine:
		return catalog.PerpendicularLine(d.Label, ps[0], ps[1], ps[2]), nil
	case protocol.KindPerpendicularBisector:
		return catalog.PerpendicularBisector(d.Label, ps[0], ps[1]), nil
	case protocol.KindCircleWithCenterAndPoint:
		return catalog.CircleWithCenterAndPoint(d.Label, ps[0], ps[1]), nil
	case protocol.KindCircleThroughThreePoints:
		return catalog.CircleThroughThreePoints(d.Label, ps[0], ps[1], ps[2]), nil
	case protocol.KindConicThroughFivePoints:
		return catalog.ConicThroughFivePoints(d.Label, ps[0], ps[1], ps[2], ps[3], ps[4]), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
}

// Statement kinds.
const (
	StatementCollinear     = "collinear"
	StatementParallel      = "parallel"
	StatementPerpendicular = "perpendicular"
	StatementEqual         = "equal"
	StatementConcyclic     = "concyclic"
	StatementOn            = "on"
)

func statement(cp *protocol.Protocol, s Statement) (protocol.Statement, error) {
	r := refs{cp: cp, labels: s.Refs}
	switch s.Kind {
	case StatementCollinear:
		ps, err := r.points(3)
		if err != nil {
			return nil, err
		}
		return catalog.Collinear(ps[0], ps[1], ps[2]), nil
	case StatementParallel, StatementPerpendicular, StatementEqual, StatementConcyclic:
		ps, err := r.points(4)
		if err != nil {
			return nil, err
		}
		switch s.Kind {
		case StatementParallel:
			return catalog.Parallel(ps[0], ps[1], ps[2], ps[3]), nil
		case StatementPerpendicular:
			return catalog.Perpendicular(ps[0], ps[1], ps[2], ps[3]), nil
		case StatementEqual:
			return catalog.EqualSegments(ps[0], ps[1], ps[2], ps[3]), nil
		}
		return catalog.Concyclic(ps[0], ps[1], ps[2], ps[3]), nil
	case StatementOn:
		if err := r.expect(2); err != nil {
			return nil, err
		}
		p, err := r.point(0)
		if err != nil {
			return nil, err
		}
		set, err := r.set(1)
		if err != nil {
			return nil, err
		}
		return catalog.PointOn(p, set), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
}
