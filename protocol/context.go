package protocol

import (
	"log/slog"

	"github.com/njchilds90/geoprover/algebra"
)

// Options are the tunable bounds of the coordinate-assignment engine.
type Options struct {
	// MaxCandidates caps the candidates scored per relation. Zero means no cap.
	MaxCandidates int
	// FixBasePoints places the first free point at the origin and the
	// second on the x-axis.
	FixBasePoints bool
}

// Action says what a compilation step did.
type Action uint8

const (
	ActionFree Action = iota
	ActionAdded
	ActionZeroed
	ActionRenamed
	ActionGoal
)

var actionNames = [...]string{"free", "added", "zeroed", "renamed", "goal"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "action"
}

// Step is one diagnostic record: which construction, which binding won and
// what the resulting polynomial was.
type Step struct {
	Label       string
	Kind        Kind
	Action      Action
	Template    string
	Binding     string
	Coordinates string
	Polynomial  *algebra.Polynomial
}

// Sink receives diagnostic steps. A failing sink aborts the current
// construction after its state has been rolled back.
type Sink interface {
	WriteStep(Step) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Step) error

func (f SinkFunc) WriteStep(s Step) error { return f(s) }

// Observer is notified of engine events; metrics hang off it.
type Observer interface {
	CandidateScored(k Kind)
	PointRenamed(k Kind)
	PolynomialAdded(k Kind)
	CompileFailed(k Kind, reason string)
}

type nopObserver struct{}

func (nopObserver) CandidateScored(Kind)       {}
func (nopObserver) PointRenamed(Kind)          {}
func (nopObserver) PolynomialAdded(Kind)       {}
func (nopObserver) CompileFailed(Kind, string) {}

// Context is threaded through compilation in place of global settings.
type Context struct {
	Logger   *slog.Logger
	Sink     Sink
	Observer Observer
	Options  Options
}

// NewContext returns a context with no sink and no observer.
func NewContext(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{Logger: logger, Observer: nopObserver{}}
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Context) observer() Observer {
	if c == nil || c.Observer == nil {
		return nopObserver{}
	}
	return c.Observer
}

func (c *Context) options() Options {
	if c == nil {
		return Options{}
	}
	return c.Options
}

func (c *Context) write(steps []Step) error {
	if c == nil || c.Sink == nil {
		return nil
	}
	for _, s := range steps {
		if err := c.Sink.WriteStep(s); err != nil {
			return err
		}
	}
	return nil
}
