// Package report renders the outcome of a check run for people or tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"minicc/pkg/compiler"
)

// Stage names the pipeline stage a run stopped in.
const (
	StageLexical  = "lexical"
	StageSyntax   = "syntax"
	StageSemantic = "semantic"
)

// Options selects the output format and the optional sections.
type Options struct {
	JSON       bool
	Color      bool
	DumpAST    bool
	DumpTokens bool
}

// Reporter formats and outputs check results
type Reporter struct {
	output io.Writer
	opts   Options
	styles styles
}

// NewReporter creates a new reporter
func NewReporter(output io.Writer, opts Options) *Reporter {
	return &Reporter{
		output: output,
		opts:   opts,
		styles: newStyles(output, opts.Color && !opts.JSON),
	}
}

// Report writes the outcome of compiler.Check. err is the front-end error
// Check returned, if any; res may be nil in that case.
func (r *Reporter) Report(file string, res *compiler.Result, err error) error {
	if r.opts.JSON {
		return r.reportJSON(file, res, err)
	}
	return r.reportConsole(res, err)
}

// FailedStage classifies a run: the empty string means everything passed.
func FailedStage(res *compiler.Result, err error) string {
	var lexErr *compiler.LexicalError
	var synErr *compiler.SyntaxError
	switch {
	case errors.As(err, &lexErr):
		return StageLexical
	case errors.As(err, &synErr):
		return StageSyntax
	case err != nil:
		return StageSyntax
	case res != nil && !res.Report.OK:
		return StageSemantic
	}
	return ""
}

func (r *Reporter) reportConsole(res *compiler.Result, err error) error {
	w := &errWriter{w: r.output}
	st := r.styles

	if r.opts.DumpTokens && res != nil && len(res.Tokens) > 0 {
		w.println(st.heading.Render("Generated Tokens:"))
		for _, tok := range res.Tokens {
			w.println(tok.String())
		}
		w.println()
	}

	if err != nil {
		w.println(st.failure.Render(err.Error()))
		return w.err
	}

	w.println(st.success.Render("PARSING SUCCESSFUL"))
	if r.opts.DumpAST {
		w.println()
		w.println(st.heading.Render("In Order Traversal:"))
		w.print(res.Program.String())
	}

	w.println()
	w.println(st.heading.Render("SEMANTIC ANALYSIS"))
	if res.Report.OK {
		w.println(st.success.Render("✓ Semantic analysis successful. No errors found."))
		return w.err
	}
	w.println(st.failure.Render("✗ Semantic Errors:"))
	w.printf("  - %s %s\n", res.Report.Message, st.muted.Render(fmt.Sprintf("(line %d)", res.Report.Err.Line)))
	return w.err
}

// errWriter remembers the first write error so the console renderer can
// stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}

func (e *errWriter) print(s string) { e.printf("%s", s) }

func (e *errWriter) println(args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintln(e.w, args...)
	}
}

// Output is the JSON document emitted for a run.
type Output struct {
	RunID  string           `json:"run_id,omitempty"`
	File   string           `json:"file,omitempty"`
	OK     bool             `json:"ok"`
	Stage  string           `json:"stage,omitempty"`
	Error  *ErrorInfo       `json:"error,omitempty"`
	Tokens []TokenInfo      `json:"tokens,omitempty"`
	AST    *NodeInfo        `json:"ast,omitempty"`
	Report *compiler.Report `json:"semantic,omitempty"`
}

// ErrorInfo describes the error that stopped a run.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
}

// TokenInfo is the JSON form of a token.
type TokenInfo struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Line     int    `json:"line"`
	Position int    `json:"position"`
}

// NodeInfo is the JSON form of an AST node.
type NodeInfo struct {
	Kind     string         `json:"kind"`
	Line     int            `json:"line"`
	Attrs    map[string]any `json:"attrs,omitempty"`
	Children []*NodeInfo    `json:"children,omitempty"`
}

// BuildOutput assembles the JSON document for a run.
func BuildOutput(file string, res *compiler.Result, err error, opts Options) Output {
	out := Output{File: file, Stage: FailedStage(res, err)}
	out.OK = out.Stage == ""
	if res != nil {
		out.RunID = res.RunID
		if opts.DumpTokens {
			out.Tokens = tokenInfos(res.Tokens)
		}
	}

	var lexErr *compiler.LexicalError
	var synErr *compiler.SyntaxError
	switch {
	case errors.As(err, &lexErr):
		out.Error = &ErrorInfo{Kind: "LexicalError", Message: lexErr.Error(), Line: lexErr.Line}
	case errors.As(err, &synErr):
		out.Error = &ErrorInfo{Kind: "SyntaxError", Message: synErr.Error(), Line: synErr.Line}
	case err != nil:
		out.Error = &ErrorInfo{Kind: "Error", Message: err.Error()}
	case res != nil:
		rep := res.Report
		out.Report = &rep
		if !rep.OK {
			out.Error = &ErrorInfo{Kind: rep.Err.Kind.String(), Message: rep.Message, Line: rep.Err.Line}
		}
		if opts.DumpAST {
			out.AST = nodeInfo(res.Program)
		}
	}
	return out
}

func (r *Reporter) reportJSON(file string, res *compiler.Result, err error) error {
	encoder := json.NewEncoder(r.output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(file, res, err, r.opts))
}

func tokenInfos(tokens []compiler.Token) []TokenInfo {
	infos := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		infos[i] = TokenInfo{Type: tok.Type.String(), Value: tok.Value(), Line: tok.Line, Position: tok.Pos}
	}
	return infos
}

func nodeInfo(n *compiler.Node) *NodeInfo {
	if n == nil {
		return nil
	}
	info := &NodeInfo{Kind: n.Kind.String(), Line: n.Line}
	if len(n.Attrs) > 0 {
		info.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			info.Attrs[k] = v
		}
	}
	for _, c := range n.Children {
		info.Children = append(info.Children, nodeInfo(c))
	}
	return info
}
