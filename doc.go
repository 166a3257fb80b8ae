// Package pbnjson is a streaming-capable JSON parser, validator, and
// serializer modeled on webOS's libpbnjson: reference-counted values
// (package value), a chunk-fed lexer (package lexer), a DOM builder
// (package builder), a schema compiler and validator (packages schema
// and validator), a jQuery-style selector engine (package query), and
// a writer (package stringify). This package wires those pieces into
// the session and one-shot entry points applications actually call.
package pbnjson
