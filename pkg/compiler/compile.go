package compiler

import (
	"time"

	"github.com/google/uuid"

	"minicc/pkg/logging"
)

// Options configures Check.
type Options struct {
	Parse  ParseOptions
	Logger *logging.Logger // nil discards stage logging
}

// Result carries everything a Check run produced. Program is nil when
// tokenizing or parsing failed.
type Result struct {
	RunID   string
	Tokens  []Token
	Program *Node
	Report  Report
}

// Check runs the whole front end: tokenize, parse, analyze. Lexical and
// syntax errors are returned; a semantic error is recorded in Result.Report
// and Check itself succeeds.
func Check(src string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	res := &Result{RunID: uuid.New().String()}
	log = log.With("run", res.RunID)

	start := time.Now()
	tokens, err := Tokenize(src)
	if err != nil {
		log.Debug("tokenize failed", "error", err)
		return res, err
	}
	res.Tokens = tokens
	log.Debug("tokenized", "tokens", len(tokens), "elapsed", time.Since(start))

	start = time.Now()
	prog, err := ParseTokens(tokens, src, opts.Parse)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return res, err
	}
	res.Program = prog
	log.Debug("parsed", "nodes", prog.Count(), "elapsed", time.Since(start))

	start = time.Now()
	res.Report = Analyze(prog)
	if res.Report.OK {
		log.Debug("analyzed", "elapsed", time.Since(start))
	} else {
		log.Debug("semantic error", "kind", res.Report.Err.Kind, "line", res.Report.Err.Line, "message", res.Report.Message)
	}
	return res, nil
}
