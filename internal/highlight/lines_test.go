package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize("", StyleWord))
	assert.Equal(t, []string{"foo", " ", "bar"}, Tokenize("foo bar", StyleWord))
	assert.Equal(t, []string{"fooBar", "(", "x", ")"}, Tokenize("fooBar(x)", StyleWord))
	assert.Equal(t, []string{"a", "b", "c"}, Tokenize("abc", StyleChar))
	assert.Equal(t, []string{"é", "x"}, Tokenize("éx", StyleChar))

	for _, s := range []string{"\tif err := f(ctx); err != nil {", "héllo, wörld!!", "x  :=   y"} {
		assert.Equal(t, s, strings.Join(Tokenize(s, StyleWord), ""))
		assert.Equal(t, s, strings.Join(Tokenize(s, StyleChar), ""))
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name  string
		old   string
		new   string
		style Style
		want  []Span
	}{
		{
			name: "both empty",
			want: nil,
		},
		{
			name: "identical",
			old:  "return x",
			new:  "return x",
			want: []Span{{Op: OpEqual, OldText: "return x", NewText: "return x"}},
		},
		{
			name: "single word replaced",
			old:  "b",
			new:  "c",
			want: []Span{{Op: OpReplace, OldText: "b", NewText: "c"}},
		},
		{
			name: "identifier replaced whole",
			old:  "return nil",
			new:  "return err",
			want: []Span{
				{Op: OpEqual, OldText: "return ", NewText: "return "},
				{Op: OpReplace, OldText: "nil", NewText: "err"},
			},
		},
		{
			name: "word appended",
			old:  "hello",
			new:  "hello world",
			want: []Span{
				{Op: OpEqual, OldText: "hello", NewText: "hello"},
				{Op: OpInsert, NewText: " world"},
			},
		},
		{
			name: "changes separated by whitespace merge",
			old:  "foo bar baz",
			new:  "qux quux baz",
			want: []Span{
				{Op: OpReplace, OldText: "foo bar", NewText: "qux quux"},
				{Op: OpEqual, OldText: " baz", NewText: " baz"},
			},
		},
		{
			name:  "char style",
			old:   "abc",
			new:   "abd",
			style: StyleChar,
			want: []Span{
				{Op: OpEqual, OldText: "ab", NewText: "ab"},
				{Op: OpReplace, OldText: "c", NewText: "d"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.old, tt.new, tt.style))
		})
	}
}

func TestDiff_Reconstructs(t *testing.T) {
	pairs := [][2]string{
		{"\tfmt.Println(\"hello\", name)", "\tlog.Printf(\"hello %s\", name)"},
		{"if x > 0 {", "if x >= 0 && y {"},
		{"", "added"},
		{"removed", ""},
		{"日本語のテキスト", "日本語の文章"},
		{"a b c d e f", "a c e g"},
	}
	for _, p := range pairs {
		for _, style := range []Style{StyleWord, StyleChar} {
			spans := Diff(p[0], p[1], style)
			var oldB, newB strings.Builder
			for _, sp := range spans {
				oldB.WriteString(sp.OldText)
				newB.WriteString(sp.NewText)
				switch sp.Op {
				case OpEqual:
					require.Equal(t, sp.OldText, sp.NewText)
				case OpInsert:
					require.Empty(t, sp.OldText)
				case OpDelete:
					require.Empty(t, sp.NewText)
				case OpReplace:
					require.NotEmpty(t, sp.OldText)
					require.NotEmpty(t, sp.NewText)
				}
			}
			require.Equal(t, p[0], oldB.String(), "style=%v", style)
			require.Equal(t, p[1], newB.String(), "style=%v", style)
		}
	}
}

func TestLines(t *testing.T) {
	oldLine, newLine := Lines("-return nil", "+return err", false, wordOptions())

	assert.Equal(t, "-", oldLine.Prefix)
	assert.Equal(t, "return nil", oldLine.Body)
	assert.Equal(t, "+", newLine.Prefix)
	assert.Equal(t, "return err", newLine.Body)

	assert.Equal(t, "return [-nil-]", mark(oldLine))
	assert.Equal(t, "return {+err+}", mark(newLine))
	assert.True(t, highlighted(oldLine))
	assert.True(t, highlighted(newLine))
}

func TestLines_IdenticalBodiesHaveNoHighlight(t *testing.T) {
	oldLine, newLine := Lines("-same text", "+same text", false, wordOptions())
	assert.False(t, highlighted(oldLine))
	assert.False(t, highlighted(newLine))
	assert.Equal(t, "same text", mark(oldLine))
	assert.Equal(t, "same text", mark(newLine))
}

func TestLines_Combined(t *testing.T) {
	oldLine, newLine := Lines("- value = 1", " +value = 2", true, wordOptions())
	assert.Equal(t, "- ", oldLine.Prefix)
	assert.Equal(t, " +", newLine.Prefix)
	assert.Equal(t, "value = [-1-]", mark(oldLine))
	assert.Equal(t, "value = {+2+}", mark(newLine))
}

func TestLines_TooLongSkipsHighlight(t *testing.T) {
	opts := wordOptions()
	opts.MaxLineLength = 5

	oldLine, newLine := Lines("-abcdefgh", "+abcdefgX", false, opts)
	assert.Nil(t, oldLine.Spans)
	assert.Nil(t, newLine.Spans)
	assert.Equal(t, "abcdefgh", mark(oldLine))
	assert.Equal(t, []Segment{{Kind: SegmentPlain, Text: "abcdefgX"}}, newLine.Segments())
}

func TestLines_MatchWords(t *testing.T) {
	opts := wordOptions()
	opts.MatchWords = true

	oldLine, newLine := Lines("-the color is red", "+the colour is blue", false, opts)

	var changed, unchanged []string
	for _, seg := range newLine.Segments() {
		if seg.Kind != SegmentInserted {
			continue
		}
		if seg.Changed {
			changed = append(changed, seg.Text)
		} else {
			unchanged = append(unchanged, seg.Text)
		}
	}
	assert.Equal(t, []string{"colour"}, changed)
	assert.Equal(t, []string{"blue"}, unchanged)
	assert.True(t, highlighted(oldLine))
}

func TestPlain(t *testing.T) {
	l := Plain("+added line", false, SideNew)
	assert.Equal(t, "+", l.Prefix)
	assert.Equal(t, "added line", l.Body)
	assert.False(t, highlighted(l))
	assert.Equal(t, []Segment{{Kind: SegmentPlain, Text: "added line"}}, l.Segments())

	assert.Nil(t, Plain("+", false, SideNew).Segments())
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("char")
	require.NoError(t, err)
	assert.Equal(t, StyleChar, s)
	assert.Equal(t, "char", s.String())

	s, err = ParseStyle("word")
	require.NoError(t, err)
	assert.Equal(t, StyleWord, s)

	_, err = ParseStyle("line")
	assert.Error(t, err)
}

func wordOptions() Options {
	return Options{Style: StyleWord, MaxLineLength: 10000, MatchWordsThreshold: 0.25}
}

func mark(l Line) string {
	return MarkSegments(l.Segments(), BracketMarker{})
}

func highlighted(l Line) bool {
	for _, seg := range l.Segments() {
		if seg.Kind != SegmentPlain {
			return true
		}
	}
	return false
}
