package css

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser turns stylesheet text (plain CSS, CSS nesting or SCSS-like nesting
// with "&" references) into a Stylesheet tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	text string
	loc  Loc
}

// Parse parses CSS text into a Stylesheet. Parsing never fails, problems are
// recorded in Stylesheet.Warnings. The optional source parameter identifies
// what is being parsed.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	var name string
	if len(source) > 0 {
		name = source[0]
	}
	sheet := NewStylesheet(name)

	if name != "" {
		p.log.Debug("Parsing CSS", zap.String("source", name), zap.Int("bytes", len(data)))
	}

	b := &builder{
		log:   p.log,
		sheet: sheet,
		src:   data,
		toks:  stripLineComments(tokenize(data)),
	}
	b.parseBlock(NoNode)

	p.log.Debug("Parsed CSS", zap.String("source", name), zap.Int("nodes", sheet.Len()), zap.Int("warnings", len(sheet.Warnings)))
	return sheet
}

// tokenize runs the lexer over the whole input attaching line and column to
// every token.
func tokenize(data []byte) []token {
	in := parse.NewInputBytes(data)
	// input may borrow one byte past len(data) for its terminator
	defer in.Restore()
	l := css.NewLexer(in)

	var (
		toks   []token
		offset int
		line   = 1
		col    = 1
	)
	for {
		tt, raw := l.Next()
		if tt == css.ErrorToken {
			// io.EOF or input error, either way we are done
			return toks
		}
		text := string(raw)
		toks = append(toks, token{tt: tt, text: text, loc: Loc{Line: line, Column: col, Offset: offset}})

		offset += len(raw)
		if nl := strings.LastIndexByte(text, '\n'); nl >= 0 {
			line += strings.Count(text, "\n")
			col = 1 + utf8.RuneCountInString(text[nl+1:])
		} else {
			col += utf8.RuneCountInString(text)
		}
	}
}

// stripLineComments drops SCSS "//" comments up to the end of line.
func stripLineComments(toks []token) []token {
	out := toks[:0]
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.tt == css.DelimToken && t.text == "/" && i+1 < len(toks) &&
			toks[i+1].tt == css.DelimToken && toks[i+1].text == "/" && toks[i+1].loc.Offset == t.loc.Offset+1 {
			for i+1 < len(toks) && !strings.Contains(toks[i+1].text, "\n") {
				i++
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

type builder struct {
	log   *zap.Logger
	sheet *Stylesheet
	src   []byte
	toks  []token
	pos   int
}

func (b *builder) warn(offset int, format string, args ...any) {
	e := parse.NewError(bytes.NewReader(b.src), offset, format, args...)
	msg := fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Line, e.Column)
	b.sheet.Warnings = append(b.sheet.Warnings, msg)
	b.log.Debug("CSS problem", zap.String("source", b.sheet.Source), zap.String("problem", msg))
}

// parseBlock consumes block content until the matching "}" and returns true
// if it was found. For the top level it consumes everything.
func (b *builder) parseBlock(parent NodeID) bool {
	var (
		run   []token
		depth int // () and [] nesting, ";" does not end anything inside
	)
	for b.pos < len(b.toks) {
		t := b.toks[b.pos]
		b.pos++

		switch t.tt {
		case css.CommentToken, css.CDOToken, css.CDCToken:
			continue

		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
			run = append(run, t)

		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
			run = append(run, t)

		case css.SemicolonToken:
			if depth > 0 {
				run = append(run, t)
				continue
			}
			b.statement(parent, run)
			run = nil

		case css.LeftBraceToken:
			depth = 0
			b.openBlock(parent, run, t)
			run = nil

		case css.RightBraceToken:
			depth = 0
			if parent == NoNode {
				b.warn(t.loc.Offset, "unexpected closing brace")
				run = nil
				continue
			}
			b.statement(parent, run)
			return true

		case css.WhitespaceToken:
			if len(run) > 0 {
				run = append(run, t)
			}

		default:
			run = append(run, t)
		}
	}
	b.statement(parent, run)
	return parent == NoNode
}

// openBlock creates rule or at-rule for prelude and parses its block.
func (b *builder) openBlock(parent NodeID, prelude []token, brace token) {
	prelude = trimSpace(prelude)

	var (
		id   NodeID
		head string
		loc  = brace.loc
	)
	switch {
	case len(prelude) > 0 && prelude[0].tt == css.AtKeywordToken:
		loc = prelude[0].loc
		name := strings.ToLower(strings.TrimPrefix(prelude[0].text, "@"))
		head = prelude[0].text
		id = b.sheet.AddAtRule(parent, name, joinText(prelude[1:]), true, loc)
	default:
		if len(prelude) == 0 {
			b.warn(brace.loc.Offset, "block without selector")
		} else {
			loc = prelude[0].loc
		}
		head = rawText(prelude)
		id = b.sheet.AddRule(parent, head, loc)
	}

	if !b.parseBlock(id) {
		b.warn(loc.Offset, "unclosed block %q", head)
	}
}

// statement handles run of tokens terminated by ";" or end of block.
func (b *builder) statement(parent NodeID, run []token) {
	run = trimSpace(run)
	if len(run) == 0 {
		return
	}
	first := run[0]

	if first.tt == css.AtKeywordToken {
		name := strings.ToLower(strings.TrimPrefix(first.text, "@"))
		b.sheet.AddAtRule(parent, name, joinText(run[1:]), false, first.loc)
		return
	}

	if parent == NoNode {
		b.warn(first.loc.Offset, "declaration outside of rule %q", joinText(run))
		return
	}

	var prop string
	switch first.tt {
	case css.IdentToken:
		prop = strings.ToLower(first.text)
	case css.CustomPropertyNameToken:
		// custom properties are case sensitive
		prop = first.text
	default:
		b.warn(first.loc.Offset, "malformed declaration %q", joinText(run))
		return
	}

	rest := trimSpace(run[1:])
	if len(rest) == 0 || rest[0].tt != css.ColonToken {
		b.warn(first.loc.Offset, "missing colon in declaration %q", joinText(run))
		return
	}
	value, important := splitImportant(trimSpace(rest[1:]))
	b.sheet.AddDeclaration(parent, prop, joinText(value), important, first.loc)
}

// splitImportant removes trailing "!important" from value tokens.
func splitImportant(value []token) ([]token, bool) {
	n := len(value)
	if n < 2 {
		return value, false
	}
	last := value[n-1]
	if last.tt != css.IdentToken || !strings.EqualFold(last.text, "important") {
		return value, false
	}
	i := n - 2
	for i >= 0 && value[i].tt == css.WhitespaceToken {
		i--
	}
	if i < 0 || value[i].tt != css.DelimToken || value[i].text != "!" {
		return value, false
	}
	return trimSpace(value[:i]), true
}

func trimSpace(run []token) []token {
	for len(run) > 0 && run[0].tt == css.WhitespaceToken {
		run = run[1:]
	}
	for len(run) > 0 && run[len(run)-1].tt == css.WhitespaceToken {
		run = run[:len(run)-1]
	}
	return run
}

// rawText concatenates tokens keeping whitespace as authored. Comments are
// not part of the run already.
func rawText(run []token) string {
	var sb strings.Builder
	for _, t := range trimSpace(run) {
		sb.WriteString(t.text)
	}
	return sb.String()
}

// joinText concatenates tokens collapsing whitespace to a single space.
func joinText(run []token) string {
	var (
		sb    strings.Builder
		space bool
	)
	for _, t := range trimSpace(run) {
		if t.tt == css.WhitespaceToken {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteString(t.text)
	}
	return sb.String()
}
