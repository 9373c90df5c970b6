package tool_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/geoprover/protocol"
	"github.com/njchilds90/geoprover/tool"
)

const pointOnLine = `
name: point-on-line
constructions:
  - {label: A, kind: free-point}
  - {label: B, kind: free-point}
  - {label: L, kind: line, refs: [A, B]}
  - {label: P, kind: random-point, refs: [L]}
statement: {kind: collinear, refs: [P, A, B]}
`

func newHandler() *tool.Handler {
	return tool.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, protocol.Options{})
}

func TestHandleToolCall_Compile(t *testing.T) {
	resp := newHandler().HandleToolCall(tool.ToolRequest{
		Tool:   "compile",
		Params: map[string]interface{}{"theorem": pointOnLine},
	})
	require.Empty(t, resp.Error)

	res, ok := resp.Result.(tool.CompileResult)
	require.True(t, ok, "got %T", resp.Result)
	assert.Equal(t, "point-on-line", res.System.Name)
	assert.Equal(t, 5, res.System.Free)
	assert.Equal(t, 1, res.System.Dependent)
	require.Len(t, res.System.Hypotheses, 1)
	assert.Equal(t, res.System.Hypotheses[0].Polynomial, res.System.Goal)
	require.Len(t, res.System.NDG, 1)
	assert.Equal(t, "L", res.System.NDG[0].Construction)
	assert.Equal(t, "AB is vertical", res.System.NDG[0].Description)

	require.Len(t, res.Steps, 4)
	assert.Equal(t, "(u5, x1)", res.Steps[2].Coordinates)
	assert.Equal(t, res.System.Run, res.Steps[0].Run)

	assert.Contains(t, resp.String, "theorem point-on-line")
	assert.Contains(t, resp.String, "not (AB is vertical)")
}

func TestHandleToolCall_CompileObjectParam(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "bisector",
		"constructions": [
			{"label": "A", "kind": "free-point"},
			{"label": "B", "kind": "free-point"},
			{"label": "m", "kind": "perpendicular-bisector", "refs": ["A", "B"]},
			{"label": "P", "kind": "random-point", "refs": ["m"]}
		]
	}`), &doc))

	resp := newHandler().HandleToolCall(tool.ToolRequest{
		Tool:   "compile",
		Params: map[string]interface{}{"theorem": doc, "fix_base_points": true},
	})
	require.Empty(t, resp.Error)
	res := resp.Result.(tool.CompileResult)
	assert.Equal(t, "renamed", res.Steps[2].Action)
	assert.Equal(t, "(u2, x1)", res.Steps[2].Coordinates)
	assert.Equal(t, "2*u2 - u1", res.Steps[2].Polynomial)
	assert.Equal(t, "(x1, u2)", res.Steps[len(res.Steps)-1].Coordinates)
	assert.Empty(t, res.System.Goal)
}

func TestHandleToolCall_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    tool.ToolRequest
		expect string
	}{
		{"unknown tool", tool.ToolRequest{Tool: "nonexistent", Params: map[string]interface{}{}}, "unknown tool"},
		{"missing theorem", tool.ToolRequest{Tool: "compile", Params: map[string]interface{}{}}, "missing param: theorem"},
		{"wrong type", tool.ToolRequest{Tool: "compile", Params: map[string]interface{}{"theorem": 3.0}}, "must be a string or an object"},
		{"bad option", tool.ToolRequest{Tool: "compile", Params: map[string]interface{}{"theorem": pointOnLine, "max_candidates": -1.0}}, "max_candidates"},
		{"forward reference", tool.ToolRequest{Tool: "validate", Params: map[string]interface{}{
			"theorem": "constructions:\n  - {label: M, kind: midpoint, refs: [A, B]}\n",
		}}, "not constructed earlier"},
		{"compile failure", tool.ToolRequest{Tool: "compile", Params: map[string]interface{}{
			"theorem": "constructions:\n  - {label: A, kind: free-point}\n  - {label: b, kind: perpendicular-bisector, refs: [A, A]}\n  - {label: P, kind: random-point, refs: [b]}\n",
		}}, "compile P: bad polynomial"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newHandler().HandleToolCall(tt.req)
			assert.Contains(t, resp.Error, tt.expect)
		})
	}
}

func TestHandleToolCall_Validate(t *testing.T) {
	resp := newHandler().HandleToolCall(tool.ToolRequest{
		Tool:   "validate",
		Params: map[string]interface{}{"theorem": pointOnLine},
	})
	require.Empty(t, resp.Error)
	infos := resp.Result.([]tool.ConstructionInfo)
	require.Len(t, infos, 4)
	assert.Equal(t, tool.ConstructionInfo{Index: 3, Label: "P", Kind: "random-point", Describe: infos[3].Describe}, infos[3])
	assert.True(t, strings.HasPrefix(resp.String, "0. "))
}

func TestHandleToolCall_Kinds(t *testing.T) {
	resp := newHandler().HandleToolCall(tool.ToolRequest{Tool: "kinds"})
	require.Empty(t, resp.Error)
	kinds := resp.Result.(map[string][]string)
	assert.Contains(t, kinds["constructions"], "harmonic-conjugate")
	assert.NotContains(t, kinds["constructions"], "unknown")
	assert.Contains(t, kinds["statements"], "concyclic")
}

func TestMCPToolSpec(t *testing.T) {
	spec := tool.MCPToolSpec()
	assert.Contains(t, spec, "compile")
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(spec), &m))
	assert.Len(t, m["tools"], 4)
}
