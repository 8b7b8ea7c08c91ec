package parser

import (
	"strings"

	"github.com/gshell/gsh/core/ast"
)

// Control-flow pre-pass. if/for/while/function forms are matched on
// the raw line before tokenization because their bodies are embedded
// command text that must be parsed recursively. Two surface syntaxes
// are accepted for each block:
//
//	if cond { body } else { body }
//	if cond; then body; else body; fi
//	for v in items { body }        / for v in items; do body; done
//	while cond { body }            / while cond; do body; done
//
// Keywords only match at word boundaries, never as substrings.

func (p *Parser) parseControlFlow(input string) (*ast.Command, bool, error) {
	switch {
	case hasKeywordPrefix(input, "if"):
		cmd, err := p.parseIf(input)
		return cmd, true, err
	case hasKeywordPrefix(input, "for"):
		cmd, err := p.parseFor(input)
		return cmd, true, err
	case hasKeywordPrefix(input, "while"):
		cmd, err := p.parseWhile(input)
		return cmd, true, err
	}

	if name, ok := ParseFunctionStart(input); ok {
		cmd, err := p.parseInlineFunction(input, name)
		return cmd, true, err
	}

	return nil, false, nil
}

// ParseFunctionStart reports whether line opens a function definition
// ("function name ..." or "name() {") and returns the function name.
func ParseFunctionStart(line string) (string, bool) {
	line = strings.TrimSpace(line)

	if rest, ok := strings.CutPrefix(line, "function "); ok {
		name := rest
		for i, r := range rest {
			if r == '(' || r == '{' || r == ' ' || r == '\t' {
				name = rest[:i]
				break
			}
		}
		name = strings.TrimSpace(name)
		if name != "" {
			return name, true
		}
		return "", false
	}

	if paren := strings.Index(line, "()"); paren > 0 {
		name := strings.TrimSpace(line[:paren])
		if isIdentifier(name) && strings.HasPrefix(strings.TrimSpace(line[paren+2:]), "{") {
			return name, true
		}
	}

	return "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// parseInlineFunction handles a one-line definition like
// "greet() { echo hi; echo $1 }". Body lines are stored raw and
// re-parsed at call time.
func (p *Parser) parseInlineFunction(input, name string) (*ast.Command, error) {
	open := strings.Index(input, "{")
	if open < 0 {
		return &ast.Command{
			Kind:    ast.KindFuncDef,
			FuncDef: &ast.FuncDef{Name: name},
		}, nil
	}

	body, _, err := extractBraceBlock(input, open)
	if err != nil {
		return nil, err
	}

	return &ast.Command{
		Kind:    ast.KindFuncDef,
		FuncDef: &ast.FuncDef{Name: name, Body: splitStatements(body)},
	}, nil
}

func (p *Parser) parseIf(input string) (*ast.Command, error) {
	rest := strings.TrimSpace(input[len("if"):])

	brace := findUnquoted(rest, '{')
	then := findKeyword(rest, "then", 0)

	if brace >= 0 && (then < 0 || brace < then) {
		return p.parseBraceIf(rest, brace)
	}
	if then >= 0 {
		return p.parseKeywordIf(rest, then)
	}
	return nil, syntaxErrorf("if: expected 'then' or '{'")
}

func (p *Parser) parseBraceIf(rest string, brace int) (*ast.Command, error) {
	cond, err := p.Parse(strings.TrimSuffix(strings.TrimSpace(rest[:brace]), ";"))
	if err != nil {
		return nil, syntaxErrorf("if: bad condition: %v", err)
	}

	bodyText, after, err := extractBraceBlock(rest, brace)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody(bodyText)
	if err != nil {
		return nil, err
	}

	node := &ast.If{Cond: cond, Body: body}

	tail := strings.TrimSpace(rest[after:])
	if hasKeywordPrefix(tail, "else") {
		elseTail := strings.TrimSpace(tail[len("else"):])
		open := findUnquoted(elseTail, '{')
		if open < 0 {
			return nil, syntaxErrorf("if: expected '{' after else")
		}
		elseText, afterElse, err := extractBraceBlock(elseTail, open)
		if err != nil {
			return nil, err
		}
		node.Else, err = p.parseBody(elseText)
		if err != nil {
			return nil, err
		}
		tail = elseTail[afterElse:]
	}

	return p.withTail(&ast.Command{Kind: ast.KindIf, If: node}, tail)
}

// withTail sequences any command text remaining after a block, e.g.
// "if a { b }; echo done".
func (p *Parser) withTail(cmd *ast.Command, tail string) (*ast.Command, error) {
	tail = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tail), ";"))
	if tail == "" {
		return cmd, nil
	}
	rest, err := p.Parse(tail)
	if err != nil {
		return nil, err
	}
	return &ast.Command{Kind: ast.KindSequence, Left: cmd, Right: rest}, nil
}

func (p *Parser) parseKeywordIf(rest string, then int) (*ast.Command, error) {
	condText := strings.TrimSuffix(strings.TrimSpace(rest[:then]), ";")
	cond, err := p.Parse(condText)
	if err != nil {
		return nil, syntaxErrorf("if: bad condition: %v", err)
	}

	afterThen := then + len("then")
	elseIdx, fiIdx, err := findElseFi(rest, afterThen)
	if err != nil {
		return nil, err
	}

	node := &ast.If{Cond: cond}
	if elseIdx >= 0 {
		node.Body, err = p.parseBody(rest[afterThen:elseIdx])
		if err != nil {
			return nil, err
		}
		node.Else, err = p.parseBody(rest[elseIdx+len("else") : fiIdx])
		if err != nil {
			return nil, err
		}
	} else {
		node.Body, err = p.parseBody(rest[afterThen:fiIdx])
		if err != nil {
			return nil, err
		}
	}

	return p.withTail(&ast.Command{Kind: ast.KindIf, If: node}, rest[fiIdx+len("fi"):])
}

func (p *Parser) parseFor(input string) (*ast.Command, error) {
	rest := strings.TrimSpace(input[len("for"):])

	fields := strings.Fields(rest)
	if len(fields) < 2 || fields[1] != "in" {
		return nil, syntaxErrorf("for: expected 'for VAR in ITEMS'")
	}
	varName := fields[0]

	inIdx := findKeyword(rest, "in", 0)
	if inIdx < 0 {
		return nil, syntaxErrorf("for: expected 'in'")
	}
	afterIn := rest[inIdx+len("in"):]

	var itemsText, bodyText, tail string
	brace := findUnquoted(afterIn, '{')
	doIdx := findKeyword(afterIn, "do", 0)

	switch {
	case brace >= 0 && (doIdx < 0 || brace < doIdx):
		itemsText = strings.TrimSuffix(strings.TrimSpace(afterIn[:brace]), ";")
		var after int
		var err error
		bodyText, after, err = extractBraceBlock(afterIn, brace)
		if err != nil {
			return nil, err
		}
		tail = afterIn[after:]

	case doIdx >= 0:
		itemsText = strings.TrimSuffix(strings.TrimSpace(afterIn[:doIdx]), ";")
		doneIdx := findMatchingKeyword(afterIn, "do", "done", doIdx+len("do"))
		if doneIdx < 0 {
			return nil, syntaxErrorf("for: expected 'done'")
		}
		bodyText = afterIn[doIdx+len("do") : doneIdx]
		tail = afterIn[doneIdx+len("done"):]

	default:
		return nil, syntaxErrorf("for: expected 'do' or '{'")
	}

	itemTokens, err := Tokenize(itemsText, p.Home)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, tok := range itemTokens {
		if tok.Kind != TokenWord {
			return nil, syntaxErrorf("for: unexpected operator in item list")
		}
		items = append(items, tok.Text)
	}

	body, err := p.parseBody(bodyText)
	if err != nil {
		return nil, err
	}

	return p.withTail(&ast.Command{
		Kind: ast.KindFor,
		For:  &ast.For{Var: varName, Items: items, Body: body},
	}, tail)
}

func (p *Parser) parseWhile(input string) (*ast.Command, error) {
	rest := strings.TrimSpace(input[len("while"):])

	brace := findUnquoted(rest, '{')
	doIdx := findKeyword(rest, "do", 0)

	var condText, bodyText, tail string
	switch {
	case brace >= 0 && (doIdx < 0 || brace < doIdx):
		condText = strings.TrimSuffix(strings.TrimSpace(rest[:brace]), ";")
		var after int
		var err error
		bodyText, after, err = extractBraceBlock(rest, brace)
		if err != nil {
			return nil, err
		}
		tail = rest[after:]

	case doIdx >= 0:
		condText = strings.TrimSuffix(strings.TrimSpace(rest[:doIdx]), ";")
		doneIdx := findMatchingKeyword(rest, "do", "done", doIdx+len("do"))
		if doneIdx < 0 {
			return nil, syntaxErrorf("while: expected 'done'")
		}
		bodyText = rest[doIdx+len("do") : doneIdx]
		tail = rest[doneIdx+len("done"):]

	default:
		return nil, syntaxErrorf("while: expected 'do' or '{'")
	}

	cond, err := p.Parse(condText)
	if err != nil {
		return nil, syntaxErrorf("while: bad condition: %v", err)
	}
	body, err := p.parseBody(bodyText)
	if err != nil {
		return nil, err
	}

	return p.withTail(&ast.Command{
		Kind:  ast.KindWhile,
		While: &ast.While{Cond: cond, Body: body},
	}, tail)
}

// parseBody splits block text into statements and parses each one,
// recursing through Parse so nested blocks work.
func (p *Parser) parseBody(body string) ([]*ast.Command, error) {
	var cmds []*ast.Command
	for _, stmt := range splitStatements(body) {
		if strings.HasPrefix(stmt, "#") {
			continue
		}
		cmd, err := p.Parse(stmt)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// ── raw-text scanning helpers ──

func hasKeywordPrefix(s, kw string) bool {
	if !strings.HasPrefix(s, kw) {
		return false
	}
	return len(s) == len(kw) || isBoundary(s[len(kw)])
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', ';', '\n', '{', '}':
		return true
	}
	return false
}

// findUnquoted returns the offset of the first occurrence of c outside
// quotes, or -1.
func findUnquoted(s string, c byte) int {
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		switch {
		case inSingle:
			if s[i] == '\'' {
				inSingle = false
			}
		case inDouble:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				inDouble = false
			}
		case s[i] == '\'':
			inSingle = true
		case s[i] == '"':
			inDouble = true
		case s[i] == c:
			return i
		}
	}
	return -1
}

// findKeyword returns the offset of kw as a standalone word outside
// quotes and braces, searching from offset from. Returns -1 if absent.
func findKeyword(s, kw string, from int) int {
	inSingle, inDouble := false, false
	depth := 0
	for i := from; i < len(s); i++ {
		switch {
		case inSingle:
			if s[i] == '\'' {
				inSingle = false
			}
			continue
		case inDouble:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				inDouble = false
			}
			continue
		case s[i] == '\'':
			inSingle = true
			continue
		case s[i] == '"':
			inDouble = true
			continue
		case s[i] == '{':
			depth++
			continue
		case s[i] == '}':
			depth--
			continue
		}

		if depth != 0 || !strings.HasPrefix(s[i:], kw) {
			continue
		}
		if i > 0 && !isBoundary(s[i-1]) {
			continue
		}
		end := i + len(kw)
		if end < len(s) && !isBoundary(s[end]) {
			continue
		}
		return i
	}
	return -1
}

// findMatchingKeyword locates the close keyword matching an already
// consumed open keyword, counting nested open/close pairs.
func findMatchingKeyword(s, open, close string, from int) int {
	depth := 1
	i := from
	for {
		openIdx := findKeyword(s, open, i)
		closeIdx := findKeyword(s, close, i)
		if closeIdx < 0 {
			return -1
		}
		if openIdx >= 0 && openIdx < closeIdx {
			depth++
			i = openIdx + len(open)
			continue
		}
		depth--
		if depth == 0 {
			return closeIdx
		}
		i = closeIdx + len(close)
	}
}

// findElseFi locates the 'else' (optional, -1 if absent) and 'fi'
// belonging to the current keyword-form if, skipping nested ifs.
func findElseFi(s string, from int) (elseIdx, fiIdx int, err error) {
	elseIdx = -1
	depth := 0
	i := from
	for {
		nextIf := findKeyword(s, "if", i)
		nextFi := findKeyword(s, "fi", i)
		nextElse := findKeyword(s, "else", i)

		if nextFi < 0 {
			return -1, -1, syntaxErrorf("if: expected 'fi'")
		}

		pos, kw := nextFi, "fi"
		if nextIf >= 0 && nextIf < pos {
			pos, kw = nextIf, "if"
		}
		if nextElse >= 0 && nextElse < pos {
			pos, kw = nextElse, "else"
		}

		switch kw {
		case "if":
			depth++
		case "fi":
			if depth == 0 {
				return elseIdx, pos, nil
			}
			depth--
		case "else":
			if depth == 0 && elseIdx < 0 {
				elseIdx = pos
			}
		}
		i = pos + len(kw)
	}
}

// extractBraceBlock returns the text between the brace at s[open] and
// its matching close brace, plus the offset just past the close.
func extractBraceBlock(s string, open int) (body string, after int, err error) {
	if open >= len(s) || s[open] != '{' {
		return "", 0, syntaxErrorf("expected '{'")
	}

	inSingle, inDouble := false, false
	depth := 0
	for i := open; i < len(s); i++ {
		switch {
		case inSingle:
			if s[i] == '\'' {
				inSingle = false
			}
		case inDouble:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				inDouble = false
			}
		case s[i] == '\'':
			inSingle = true
		case s[i] == '"':
			inDouble = true
		case s[i] == '{':
			depth++
		case s[i] == '}':
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, nil
			}
		}
	}
	return "", 0, syntaxErrorf("unmatched '{'")
}

// splitStatements splits block text on top-level ';' and newlines,
// leaving nested blocks (brace or keyword form) and quoted text
// intact.
func splitStatements(body string) []string {
	var stmts []string
	inSingle, inDouble := false, false
	depth := 0
	start := 0

	flush := func(end int) {
		if stmt := strings.TrimSpace(body[start:end]); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}

	for i := 0; i < len(body); i++ {
		switch {
		case inSingle:
			if body[i] == '\'' {
				inSingle = false
			}
		case inDouble:
			if body[i] == '\\' {
				i++
			} else if body[i] == '"' {
				inDouble = false
			}
		case body[i] == '\'':
			inSingle = true
		case body[i] == '"':
			inDouble = true
		case body[i] == '{':
			depth++
		case body[i] == '}':
			depth--
		case depth == 0 && (body[i] == ';' || body[i] == '\n'):
			// Keyword-form blocks span several ';'-separated parts;
			// hold off until the block is closed.
			if openKeywordBlock(strings.TrimSpace(body[start:i])) {
				continue
			}
			flush(i)
			start = i + 1
		}
	}
	flush(len(body))

	return stmts
}

// openKeywordBlock reports whether seg starts a keyword-form block
// ("if ...; then", "for/while ...; do") that hasn't reached its
// closing fi/done yet.
func openKeywordBlock(seg string) bool {
	switch {
	case hasKeywordPrefix(seg, "if"):
		then := findKeyword(seg, "then", 0)
		if then < 0 {
			// Brace-form conditions never split here (depth > 0);
			// a lone "if cond" is still waiting for its "then".
			return findUnquoted(seg, '{') < 0
		}
		_, _, err := findElseFi(seg, then+len("then"))
		return err != nil

	case hasKeywordPrefix(seg, "for"), hasKeywordPrefix(seg, "while"):
		doIdx := findKeyword(seg, "do", 0)
		if doIdx < 0 {
			return findUnquoted(seg, '{') < 0
		}
		return findMatchingKeyword(seg, "do", "done", doIdx+len("do")) < 0
	}
	return false
}
