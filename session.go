package pbnjson

import (
	"github.com/google/uuid"

	"github.com/webosose/pbnjson-go/arena"
	"github.com/webosose/pbnjson-go/builder"
	"github.com/webosose/pbnjson-go/internkey"
	"github.com/webosose/pbnjson-go/lexer"
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/validator"
	"github.com/webosose/pbnjson-go/value"
)

// Option configures a Session at construction.
type Option func(*sessionConfig)

type sessionConfig struct {
	schema     *schema.Schema
	apply      bool
	borrow     bool
	rawStrings bool
}

// WithSchema attaches a compiled schema: End validates the built
// document before returning it.
func WithSchema(s *schema.Schema) Option {
	return func(c *sessionConfig) { c.schema = s }
}

// ApplyDefaults makes End fill in missing object properties from the
// schema's "default" keyword before validating, the same two-step
// inject-then-Validate behavior validator.Apply performs. Has no
// effect without WithSchema.
func ApplyDefaults() Option {
	return func(c *sessionConfig) { c.apply = true }
}

// Borrowed makes the session's builder retain slices into the fed
// chunks instead of copying, per builder.Borrowed: the caller must keep
// every chunk alive for the document's lifetime.
func Borrowed() Option {
	return func(c *sessionConfig) { c.borrow = true }
}

// RawStrings disables escape decoding in the underlying lexer, per
// lexer.RawStrings.
func RawStrings() Option {
	return func(c *sessionConfig) { c.rawStrings = true }
}

// Session is a resumable, chunk-fed DOM parse: feed bytes as they
// arrive, call End once the document is complete. It corresponds to a
// SAX parser plus a DOM consumer wired together, the combination
// jdom_create's streaming counterpart exposes as one session object.
type Session struct {
	id  uuid.UUID
	cfg sessionConfig
	lex *lexer.Lexer
	bld *builder.Builder
	err *Error
}

// NewSession constructs a Session ready to Feed.
func NewSession(opts ...Option) *Session {
	var cfg sessionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	bopts := []builder.Option{
		builder.WithInterner(internkey.Default),
		builder.WithArena(arena.New()),
	}
	if cfg.borrow {
		bopts = append(bopts, builder.Borrowed())
	}
	bld := builder.New(bopts...)

	var lopts []lexer.Option
	if cfg.rawStrings {
		lopts = append(lopts, lexer.RawStrings())
	}

	s := &Session{id: uuid.New(), cfg: cfg, bld: bld}
	s.lex = lexer.New(bld.Handle, lopts...)
	return s
}

// ID uniquely identifies the session, for log correlation.
func (s *Session) ID() uuid.UUID { return s.id }

// Feed parses another chunk of the document. It returns false once the
// session has failed; Error then reports why.
func (s *Session) Feed(chunk []byte) bool {
	if s.err != nil {
		return false
	}
	if !s.lex.Feed(chunk) {
		s.err = newError(CategorySyntax, "%v", s.lex.Err())
		return false
	}
	return true
}

// End signals end of input and returns the parsed document. If a
// schema was attached via WithSchema, the document is validated (and,
// with ApplyDefaults, default-filled) before being returned.
func (s *Session) End() (*value.Value, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.lex.End() {
		s.err = newError(CategorySyntax, "%v", s.lex.Err())
		return nil, s.err
	}
	if !s.bld.End() {
		s.err = newError(CategorySyntax, "%v", s.bld.Err())
		return nil, s.err
	}

	result := s.bld.Result()
	if s.cfg.schema != nil {
		var ok bool
		var errs []*validator.Error
		if s.cfg.apply {
			ok, errs = validator.Apply(result, s.cfg.schema)
		} else {
			ok, errs = validator.Validate(result, s.cfg.schema)
		}
		if !ok {
			s.err = newError(CategoryValidation, "%v", errs[0])
			return nil, s.err
		}
	}
	return result, nil
}

// Error reports the sticky failure, if any, that caused Feed or End to
// fail.
func (s *Session) Error() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Release drops the session's reference to its built document. Callers
// that kept a reference of their own (via Value.Copy) are unaffected.
func (s *Session) Release() {
	if s.bld != nil {
		value.Release(s.bld.Result())
	}
}

// SAXSession is a resumable, chunk-fed parse that reports lexical
// events directly to a caller-supplied handler instead of building a
// DOM, for callers that want jsax_parse's lower-allocation path.
type SAXSession struct {
	id  uuid.UUID
	lex *lexer.Lexer
	err *Error
}

// NewSAXSession constructs a SAXSession that reports events to handle.
func NewSAXSession(handle lexer.Handler, opts ...lexer.Option) *SAXSession {
	return &SAXSession{id: uuid.New(), lex: lexer.New(handle, opts...)}
}

// ID uniquely identifies the session.
func (s *SAXSession) ID() uuid.UUID { return s.id }

// Feed parses another chunk, reporting each event to the handler.
func (s *SAXSession) Feed(chunk []byte) bool {
	if s.err != nil {
		return false
	}
	if !s.lex.Feed(chunk) {
		s.err = newError(CategorySyntax, "%v", s.lex.Err())
		return false
	}
	return true
}

// End signals end of input.
func (s *SAXSession) End() error {
	if s.err != nil {
		return s.err
	}
	if !s.lex.End() {
		s.err = newError(CategorySyntax, "%v", s.lex.Err())
		return s.err
	}
	return nil
}

// Error reports the sticky failure, if any.
func (s *SAXSession) Error() error {
	if s.err == nil {
		return nil
	}
	return s.err
}
