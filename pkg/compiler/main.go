// Package compiler provides the front end for a small C subset: a lexer, a
// recursive-descent parser building a generic AST, and a semantic analyzer
// that checks scoping and types against a fixed set of library functions.
//
// Pipeline: C source → Tokenize → Parse → Analyze → Report
package compiler
