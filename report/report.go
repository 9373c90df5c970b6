// Package report renders compilation steps and compiled systems as text or
// JSON lines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/njchilds90/geoprover/ndg"
	"github.com/njchilds90/geoprover/protocol"
)

// Formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("report: unknown format")

// Writer is a protocol.Sink that also renders whole systems. Every writer
// carries a run id that tags its output.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	format string
	runID  string
}

// NewWriter returns a writer for format with a fresh run id.
func NewWriter(w io.Writer, format string) (*Writer, error) {
	switch format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Writer{w: w, format: format, runID: uuid.New().String()}, nil
}

func (w *Writer) RunID() string { return w.runID }

// StepRecord is the JSON form of a protocol.Step.
type StepRecord struct {
	Type        string `json:"type"`
	Run         string `json:"run"`
	Label       string `json:"label"`
	Kind        string `json:"kind,omitempty"`
	Action      string `json:"action"`
	Template    string `json:"template,omitempty"`
	Binding     string `json:"binding,omitempty"`
	Coordinates string `json:"coordinates,omitempty"`
	Polynomial  string `json:"polynomial,omitempty"`
}

// HypothesisRecord is one polynomial of a SystemRecord.
type HypothesisRecord struct {
	Label      string `json:"label"`
	Polynomial string `json:"polynomial"`
}

// ConditionRecord is one NDG condition of a SystemRecord.
type ConditionRecord struct {
	Polynomial   string `json:"polynomial"`
	Construction string `json:"construction,omitempty"`
	Description  string `json:"description,omitempty"`
}

// SystemRecord is the JSON form of a compiled system.
type SystemRecord struct {
	Type       string             `json:"type"`
	Run        string             `json:"run"`
	Name       string             `json:"name"`
	Free       int                `json:"free"`
	Dependent  int                `json:"dependent"`
	Hypotheses []HypothesisRecord `json:"hypotheses"`
	Statement  string             `json:"statement,omitempty"`
	Goal       string             `json:"goal,omitempty"`
	NDG        []ConditionRecord  `json:"ndg,omitempty"`
}

// NewStepRecord converts s.
func NewStepRecord(run string, s protocol.Step) StepRecord {
	r := StepRecord{
		Type:        "step",
		Run:         run,
		Label:       s.Label,
		Action:      s.Action.String(),
		Template:    s.Template,
		Binding:     s.Binding,
		Coordinates: s.Coordinates,
	}
	if s.Kind != protocol.KindUnknown {
		r.Kind = s.Kind.String()
	}
	if s.Polynomial != nil {
		r.Polynomial = s.Polynomial.String()
	}
	return r
}

// NewSystemRecord converts sys and its classified conditions.
func NewSystemRecord(run string, sys *protocol.System, conds []ndg.Condition) SystemRecord {
	r := SystemRecord{
		Type:       "system",
		Run:        run,
		Name:       sys.Name,
		Free:       sys.FreeCount,
		Dependent:  sys.DependentCount,
		Hypotheses: make([]HypothesisRecord, len(sys.Hypotheses)),
		Statement:  sys.Statement,
	}
	for i, h := range sys.Hypotheses {
		r.Hypotheses[i] = HypothesisRecord{Label: h.Label, Polynomial: h.Polynomial.String()}
	}
	if sys.Goal != nil {
		r.Goal = sys.Goal.String()
	}
	for _, c := range conds {
		r.NDG = append(r.NDG, ConditionRecord{
			Polynomial:   c.Polynomial.String(),
			Construction: c.Label,
			Description:  c.Description,
		})
	}
	return r
}

// WriteStep implements protocol.Sink.
func (w *Writer) WriteStep(s protocol.Step) error {
	if w.format == FormatJSON {
		return w.encode(NewStepRecord(w.runID, s))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-8s", s.Label, s.Action)
	if s.Template != "" {
		b.WriteString(" " + s.Template + s.Binding)
	}
	if s.Coordinates != "" {
		b.WriteString(" " + s.Coordinates)
	}
	if s.Polynomial != nil {
		b.WriteString(": " + s.Polynomial.String() + " = 0")
	}
	b.WriteByte('\n')
	return w.write(b.String())
}

// WriteSystem renders sys followed by its NDG conditions.
func (w *Writer) WriteSystem(sys *protocol.System, conds []ndg.Condition) error {
	if w.format == FormatJSON {
		return w.encode(NewSystemRecord(w.runID, sys, conds))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "theorem %s (run %s)\n", sys.Name, w.runID)
	fmt.Fprintf(&b, "variables: %d free, %d dependent\n", sys.FreeCount, sys.DependentCount)
	b.WriteString("hypotheses:\n")
	for _, h := range sys.Hypotheses {
		fmt.Fprintf(&b, "  %s: %s = 0\n", h.Label, h.Polynomial)
	}
	if sys.Goal != nil {
		fmt.Fprintf(&b, "goal %s: %s = 0\n", sys.Statement, sys.Goal)
	}
	if len(conds) > 0 {
		b.WriteString("ndg:\n")
		for _, c := range conds {
			b.WriteString("  " + c.String() + "\n")
		}
	}
	return w.write(b.String())
}

func (w *Writer) encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return w.write(string(data) + "\n")
}

func (w *Writer) write(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, s); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
