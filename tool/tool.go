// Package tool exposes theorem compilation as JSON tool calls for agent
// frameworks.
package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/njchilds90/geoprover/ndg"
	"github.com/njchilds90/geoprover/protocol"
	"github.com/njchilds90/geoprover/report"
	"github.com/njchilds90/geoprover/theorem"
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// CompileResult is the result of the compile tool.
type CompileResult struct {
	System report.SystemRecord `json:"system"`
	Steps  []report.StepRecord `json:"steps"`
}

// ConstructionInfo is one entry of the validate tool's result.
type ConstructionInfo struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Describe string `json:"describe"`
}

// Handler answers tool calls. The zero value is not usable; see NewHandler.
type Handler struct {
	logger   *slog.Logger
	observer protocol.Observer
	options  protocol.Options
}

// NewHandler returns a handler. obs may be nil.
func NewHandler(logger *slog.Logger, obs protocol.Observer, opts protocol.Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, observer: obs, options: opts}
}

func (h *Handler) HandleToolCall(req ToolRequest) ToolResponse {
	getDocument := func(key string) (*theorem.Document, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return theorem.Parse([]byte(val))
		case map[string]interface{}:
			// JSON is valid YAML
			data, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			return theorem.Parse(data)
		}
		return nil, fmt.Errorf("param %s must be a string or an object", key)
	}
	getOptions := func() (protocol.Options, error) {
		opts := h.options
		if v, ok := req.Params["max_candidates"]; ok {
			f, ok := v.(float64)
			if !ok || f < 0 || f != float64(int(f)) {
				return opts, fmt.Errorf("param max_candidates must be a non-negative integer")
			}
			opts.MaxCandidates = int(f)
		}
		if v, ok := req.Params["fix_base_points"]; ok {
			b, ok := v.(bool)
			if !ok {
				return opts, fmt.Errorf("param fix_base_points must be a boolean")
			}
			opts.FixBasePoints = b
		}
		return opts, nil
	}

	switch req.Tool {
	case "compile":
		doc, err := getDocument("theorem")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		opts, err := getOptions()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return h.compile(doc, opts)

	case "validate":
		doc, err := getDocument("theorem")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		cp, err := theorem.Build(doc)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		infos := make([]ConstructionInfo, 0, cp.Len())
		var buf bytes.Buffer
		for _, c := range cp.Constructions() {
			infos = append(infos, ConstructionInfo{Index: c.Index(), Label: c.Label(), Kind: c.Kind().String(), Describe: c.Describe()})
			fmt.Fprintf(&buf, "%d. %s\n", c.Index(), c.Describe())
		}
		return ToolResponse{Result: infos, String: buf.String()}

	case "kinds":
		kinds := protocol.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		statements := []string{
			theorem.StatementCollinear, theorem.StatementParallel, theorem.StatementPerpendicular,
			theorem.StatementEqual, theorem.StatementConcyclic, theorem.StatementOn,
		}
		return ToolResponse{Result: map[string][]string{"constructions": names, "statements": statements}}

	case "mcp_spec":
		return ToolResponse{String: MCPToolSpec()}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func (h *Handler) compile(doc *theorem.Document, opts protocol.Options) ToolResponse {
	var text bytes.Buffer
	w, err := report.NewWriter(&text, report.FormatText)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}

	var steps []report.StepRecord
	ctx := protocol.NewContext(h.logger.With("run", w.RunID(), "theorem", doc.Name))
	ctx.Options = opts
	if h.observer != nil {
		ctx.Observer = h.observer
	}
	ctx.Sink = protocol.SinkFunc(func(s protocol.Step) error {
		steps = append(steps, report.NewStepRecord(w.RunID(), s))
		return w.WriteStep(s)
	})

	cp, sys, err := theorem.Compile(ctx, doc)
	if err != nil {
		return ToolResponse{Error: err.Error(), String: text.String()}
	}
	conds := ndg.NewClassifier(ctx.Logger).ClassifyAll(cp, ndg.Initials(sys))
	if err := w.WriteSystem(sys, conds); err != nil {
		return ToolResponse{Error: err.Error()}
	}
	return ToolResponse{
		Result: CompileResult{System: report.NewSystemRecord(w.RunID(), sys, conds), Steps: steps},
		String: text.String(),
	}
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("compile", "Compile a theorem (constructions + statement, YAML string or object) into hypothesis and goal polynomials with classified NDG conditions. Optional: max_candidates, fix_base_points",
			[]string{"theorem"}, map[string]string{"theorem": "object", "max_candidates": "integer", "fix_base_points": "boolean"}),
		ts("validate", "Check that every construction of a theorem refers only to earlier ones", []string{"theorem"}, map[string]string{"theorem": "object"}),
		ts("kinds", "List construction and statement kinds", []string{}, map[string]string{}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
