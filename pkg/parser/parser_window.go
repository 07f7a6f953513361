package parser

import (
	"fmt"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Window specification parsing: OVER clauses, WINDOW definitions, frame specs.
//
// Grammar:
//
//	window_spec   → identifier | "(" [identifier] [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec] ")"
//	window_def    → identifier AS window_spec
//	frame_spec    → (ROWS|RANGE|GROUPS) frame_extent [EXCLUDE ...]
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW | expr PRECEDING | expr FOLLOWING

// parseWindowSpec parses a window specification after OVER or AS.
func (p *Parser) parseWindowSpec() *WindowSpec {
	spec := &WindowSpec{}

	if isName(p.token) {
		spec.Name = p.token.Literal
		p.nextToken()
		return spec
	}

	if !p.expect(token.LPAREN) {
		return spec
	}

	// Base window name: OVER (w ORDER BY x)
	if p.check(token.IDENT) {
		spec.Name = p.token.Literal
		p.nextToken()
	}

	if p.match(token.PARTITION) {
		if !p.expect(token.BY) {
			return spec
		}
		spec.PartitionBy = p.parseExpressionList()
	}

	if !p.failed() && p.match(token.ORDER) {
		if !p.expect(token.BY) {
			return spec
		}
		spec.OrderBy = p.parseOrderByList()
	}

	if !p.failed() && (p.check(token.ROWS) || p.check(token.RANGE) || p.check(token.GROUPS)) {
		spec.Frame = p.parseFrameSpec()
	}

	if !p.failed() {
		p.expect(token.RPAREN)
	}
	return spec
}

// parseWindowDefs parses the WINDOW clause list.
func (p *Parser) parseWindowDefs() []WindowDef {
	var defs []WindowDef
	for {
		name := p.parseName("window name")
		if p.failed() || !p.expect(token.AS) {
			return defs
		}
		defs = append(defs, WindowDef{Name: name, Spec: p.parseWindowSpec()})
		if p.failed() || !p.match(token.COMMA) {
			return defs
		}
	}
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *FrameSpec {
	frame := &FrameSpec{}

	switch {
	case p.match(token.ROWS):
		frame.Type = FrameRows
	case p.match(token.RANGE):
		frame.Type = FrameRange
	case p.match(token.GROUPS):
		frame.Type = FrameGroups
	}

	if p.match(token.BETWEEN) {
		frame.Start = p.parseFrameBound()
		if p.failed() || !p.expect(token.AND) {
			return frame
		}
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	// EXCLUDE {NO OTHERS | CURRENT ROW | GROUP | TIES} does not affect
	// which columns are read, so it is skipped.
	if isWord(p.token, "exclude") {
		p.nextToken()
		switch {
		case isWord(p.token, "no"):
			p.nextToken()
			p.nextToken()
		case p.check(token.CURRENT):
			p.nextToken()
			p.expect(token.ROW)
		default:
			p.nextToken()
		}
	}

	return frame
}

// parseFrameBound parses a frame bound.
func (p *Parser) parseFrameBound() *FrameBound {
	bound := &FrameBound{}

	switch {
	case p.match(token.UNBOUNDED):
		switch {
		case p.match(token.PRECEDING):
			bound.Type = FrameUnboundedPreceding
		case p.match(token.FOLLOWING):
			bound.Type = FrameUnboundedFollowing
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "PRECEDING or FOLLOWING"))
		}

	case p.match(token.CURRENT):
		p.expect(token.ROW)
		bound.Type = FrameCurrentRow

	default:
		bound.Offset = p.parseExpressionWithPrecedence(precAdditive)
		switch {
		case p.match(token.PRECEDING):
			bound.Type = FrameExprPreceding
		case p.match(token.FOLLOWING):
			bound.Type = FrameExprFollowing
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "PRECEDING or FOLLOWING"))
		}
	}

	return bound
}
