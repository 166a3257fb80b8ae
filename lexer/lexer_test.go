package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/lexer"
)

func collect(t *testing.T, feed func(h lexer.Handler) bool) []lexer.Event {
	t.Helper()
	var events []lexer.Event
	ok := feed(func(ev lexer.Event) bool {
		cp := ev
		if ev.Bytes != nil {
			cp.Bytes = append([]byte(nil), ev.Bytes...)
		}
		events = append(events, cp)
		return true
	})
	require.True(t, ok)
	return events
}

func parseWhole(t *testing.T, doc string) []lexer.Event {
	t.Helper()
	var events []lexer.Event
	var l *lexer.Lexer
	l = lexer.New(func(ev lexer.Event) bool {
		cp := ev
		if ev.Bytes != nil {
			cp.Bytes = append([]byte(nil), ev.Bytes...)
		}
		events = append(events, cp)
		return true
	})
	require.True(t, l.Feed([]byte(doc)))
	require.True(t, l.End())
	return events
}

func parseByteAtATime(t *testing.T, doc string) []lexer.Event {
	t.Helper()
	var events []lexer.Event
	l := lexer.New(func(ev lexer.Event) bool {
		cp := ev
		if ev.Bytes != nil {
			cp.Bytes = append([]byte(nil), ev.Bytes...)
		}
		events = append(events, cp)
		return true
	})
	for i := 0; i < len(doc); i++ {
		require.True(t, l.Feed([]byte{doc[i]}), "byte %d (%q)", i, doc[i])
	}
	require.True(t, l.End())
	return events
}

func TestByteAtATimeMatchesWholeBuffer(t *testing.T) {
	docs := []string{
		`{"a":1,"b":[true,false,null],"c":{"d":"eéf"}}`,
		`[1, -2.5, 3e10, 0.001, -0]`,
		`"plain string"`,
		`123456789012345`,
		`{} `,
		`[]`,
		`{"k": "v" /* trailing */}`,
	}
	for _, doc := range docs {
		whole := parseWhole(t, doc)
		chunked := parseByteAtATime(t, doc)
		require.Equal(t, len(whole), len(chunked), "doc: %s", doc)
		for i := range whole {
			assert.Equal(t, whole[i].Kind, chunked[i].Kind, "doc: %s event %d", doc, i)
			assert.Equal(t, whole[i].Bytes, chunked[i].Bytes, "doc: %s event %d", doc, i)
			assert.Equal(t, whole[i].Bool, chunked[i].Bool, "doc: %s event %d", doc, i)
		}
	}
}

func TestObjectAndArrayStructure(t *testing.T) {
	events := parseWhole(t, `{"name":"ok","tags":[1,2,3]}`)
	kinds := make([]lexer.Kind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []lexer.Kind{
		lexer.ObjectStart,
		lexer.ObjectKey, lexer.String,
		lexer.ObjectKey, lexer.ArrayStart,
		lexer.Number, lexer.Number, lexer.Number,
		lexer.ArrayEnd,
		lexer.ObjectEnd,
	}, kinds)
}

func TestNumbersAreRawBytes(t *testing.T) {
	events := parseWhole(t, `[0, -0, 3.14, 1e10, -2.5e-3, 100]`)
	var got []string
	for _, ev := range events {
		if ev.Kind == lexer.Number {
			got = append(got, string(ev.Bytes))
		}
	}
	assert.Equal(t, []string{"0", "-0", "3.14", "1e10", "-2.5e-3", "100"}, got)
}

func TestStringEscapesDecodedByDefault(t *testing.T) {
	events := parseWhole(t, `"a\tb\ncA"`)
	require.Len(t, events, 1)
	assert.Equal(t, "a\tb\ncA", string(events[0].Bytes))
}

func TestSurrogatePairDecodes(t *testing.T) {
	doc := "\"\\ud83d\\ude00\""
	events := parseWhole(t, doc)
	require.Len(t, events, 1)
	assert.Equal(t, "\U0001F600", string(events[0].Bytes))
}

func TestUnpairedHighSurrogateBecomesReplacementChar(t *testing.T) {
	events := parseWhole(t, `"\ud83dx"`)
	require.Len(t, events, 1)
	assert.Equal(t, "�x", string(events[0].Bytes))
}

func TestRawStringsModePreservesEscapes(t *testing.T) {
	var events []lexer.Event
	l := lexer.New(func(ev lexer.Event) bool {
		events = append(events, ev)
		return true
	}, lexer.RawStrings())
	require.True(t, l.Feed([]byte(`"a\tb"`)))
	require.True(t, l.End())
	require.Len(t, events, 1)
	assert.Equal(t, `a\tb`, string(events[0].Bytes))
}

func TestLineAndBlockCommentsAreSkipped(t *testing.T) {
	events := parseWhole(t, "// leading comment\n{\"a\": 1 /* inline */, \"b\": 2}\n// trailing\n")
	var keys []string
	for _, ev := range events {
		if ev.Kind == lexer.ObjectKey {
			keys = append(keys, string(ev.Bytes))
		}
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestCommentSplitAcrossChunksStillResumes(t *testing.T) {
	var events []lexer.Event
	l := lexer.New(func(ev lexer.Event) bool {
		events = append(events, ev)
		return true
	})
	chunks := []string{`{"a": 1 /`, `* split comment`, ` still going */, "b": 2}`}
	for _, c := range chunks {
		require.True(t, l.Feed([]byte(c)))
	}
	require.True(t, l.End())
	require.Len(t, events, 6) // object_start, key a, 1, key b, 2, object_end
}

func TestTruncatedDocumentFailsAtEnd(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	require.True(t, l.Feed([]byte(`{"a": [1, 2`)))
	assert.False(t, l.End())
	assert.Error(t, l.Err())
}

func TestTruncatedNumberAtEOFFails(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	require.True(t, l.Feed([]byte(`3.`)))
	assert.False(t, l.End())
}

func TestNumberTerminatesCleanlyAtEOF(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	require.True(t, l.Feed([]byte(`42`)))
	assert.True(t, l.End())
}

func TestMalformedJSONFailsDuringFeed(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	assert.False(t, l.Feed([]byte(`{"a": }`)))
	assert.Error(t, l.Err())
}

func TestLeadingZeroIsRejected(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	assert.False(t, l.Feed([]byte(`01`)))
}

func TestHandlerCancelStopsParsing(t *testing.T) {
	seen := 0
	l := lexer.New(func(ev lexer.Event) bool {
		seen++
		return seen < 2
	})
	ok := l.Feed([]byte(`[1, 2, 3]`))
	assert.False(t, ok)
	assert.ErrorIs(t, l.Err(), lexer.ErrCanceled)
	assert.Equal(t, 2, seen)
}

func TestTrailingDataAfterTopLevelValueFails(t *testing.T) {
	l := lexer.New(func(lexer.Event) bool { return true })
	assert.False(t, l.Feed([]byte(`1 2`)))
}

func TestEmptyObjectAndArray(t *testing.T) {
	events := collect(t, func(h lexer.Handler) bool {
		l := lexer.New(h)
		return l.Feed([]byte(`{}`)) && l.End()
	})
	require.Len(t, events, 2)
	assert.Equal(t, lexer.ObjectStart, events[0].Kind)
	assert.Equal(t, lexer.ObjectEnd, events[1].Kind)
}
