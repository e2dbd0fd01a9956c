package parser

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/token"
)

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek().Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseOperand()
	if left == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		op := p.advance()
		// an operator never ends a line, so the operand may start on the next one
		p.skipNewlines()

		switch op.Type {
		case token.ASSIGN:
			value := p.parseExpression(ASSIGN - 1)
			if value == nil {
				return nil
			}
			left = &ast.AssignExpression{Token: op, Target: left, Value: value}
		case token.DOT_DOT:
			rng := &ast.RangeExpression{Token: op, From: left}
			if startsOperand(p.peek().Type) {
				if rng.To = p.parseExpression(RANGE); rng.To == nil {
					return nil
				}
			}
			left = rng
		default:
			right := p.parseExpression(precedences[op.Type])
			if right == nil {
				return nil
			}
			left = &ast.InfixExpression{Token: op, Left: left, Operator: op.Lexeme, Right: right}
		}
	}
	return left
}

func startsOperand(t token.TokenType) bool {
	switch t {
	case token.MINUS, token.BANG, token.IF, token.FN, token.FOR, token.MATCH:
		return true
	}
	return t.StartsPrimary()
}

// parseOperand parses anything that can stand between operators. Calls bind
// tighter than every operator: `f 1 + 2` is `(f 1) + 2`.
func (p *Parser) parseOperand() ast.Expression {
	switch tok := p.peek(); tok.Type {
	case token.MINUS, token.BANG:
		p.advance()
		right := p.parseExpression(PREFIX)
		if right == nil {
			return nil
		}
		return &ast.PrefixExpression{Token: tok, Operator: tok.Lexeme, Right: right}
	case token.IF:
		return p.parseIfExpression()
	case token.FN:
		return p.parseClosure()
	case token.FOR:
		return p.parseForExpression()
	case token.MATCH:
		return p.parseMatchExpression()
	case token.DOT_DOT:
		p.advance()
		rng := &ast.RangeExpression{Token: tok}
		if startsOperand(p.peek().Type) {
			if rng.To = p.parseExpression(RANGE); rng.To == nil {
				return nil
			}
		}
		return rng
	case token.IDENT:
		return p.parseCallChain()
	default:
		return p.parsePrimary()
	}
}

// parseCallChain parses a call by juxtaposition with `@` chaining:
// `f 1 @ g 2` is `g 2 (f 1)`.
func (p *Parser) parseCallChain() ast.Expression {
	expr := p.parseCall()
	for expr != nil && p.peekIs(token.AT) {
		at := p.advance()
		p.skipNewlines()
		if !p.peekIs(token.IDENT) {
			p.unexpected(p.peek(), "a function after @")
			return nil
		}
		next := p.parseCall()
		switch target := next.(type) {
		case *ast.CallExpression:
			target.Arguments = append(target.Arguments, expr)
			expr = target
		case *ast.PathExpression:
			expr = &ast.CallExpression{Token: target.Token, Function: target, Arguments: []ast.Expression{expr}}
		case nil:
			return nil
		default:
			p.fail(diagnostics.ErrP001, at, "only a function call can follow @")
			return nil
		}
	}
	return expr
}

func (p *Parser) parseCall() ast.Expression {
	path := p.parsePath()
	if p.peekIs(token.LBRACE) {
		return p.parseStructLiteral(path)
	}
	if p.indexFollows() {
		return p.parseIndexSuffix(path)
	}

	var args []ast.Expression
	for p.peek().Type.StartsPrimary() {
		arg := p.parsePrimary()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return path
	}
	return &ast.CallExpression{Token: path.Token, Function: path, Arguments: args}
}

// parsePrimary parses a call argument: literals, paths, struct literals,
// arrays, indexing and parenthesized expressions.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.peek()
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: tok.Literal.(int64)}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Token: tok, Value: tok.Literal.(float64)}
	case token.CHAR:
		p.advance()
		return &ast.CharLiteral{Token: tok, Value: tok.Literal.(rune)}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal.(string)}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.UNIT:
		p.advance()
		return &ast.UnitLiteral{Token: tok}
	case token.IDENT:
		path := p.parsePath()
		if p.peekIs(token.LBRACE) {
			return p.parseStructLiteral(path)
		}
		return p.parseIndexSuffix(path)
	case token.LPAREN:
		p.advance()
		var expr ast.Expression
		p.bracketed(func() {
			if expr = p.parseExpression(LOWEST); expr == nil {
				return
			}
			if !p.expect(token.RPAREN, "')'") {
				expr = nil
			}
		})
		if expr == nil {
			return nil
		}
		return p.parseIndexSuffix(expr)
	case token.LBRACKET:
		arr := p.parseArrayLiteral()
		if arr == nil {
			return nil
		}
		return p.parseIndexSuffix(arr)
	default:
		p.unexpected(tok, "an expression")
		return nil
	}
}

func (p *Parser) parsePath() *ast.PathExpression {
	tok := p.advance()
	path := &ast.PathExpression{Token: tok, Segments: []string{tok.Lexeme}}
	for {
		dot, name := p.at(p.pos), p.at(p.pos+1)
		if dot.Type != token.DOT || dot.SpaceBefore || name.Type != token.IDENT || name.SpaceBefore {
			return path
		}
		p.pos += 2
		p.curToken = name
		path.Segments = append(path.Segments, name.Lexeme)
	}
}

// indexFollows reports whether a '[' is glued to the previous token, which
// distinguishes `a[1]` from the call `f [1]`.
func (p *Parser) indexFollows() bool {
	tok := p.at(p.pos)
	return tok.Type == token.LBRACKET && !tok.SpaceBefore
}

func (p *Parser) parseIndexSuffix(left ast.Expression) ast.Expression {
	for p.indexFollows() {
		idx := &ast.IndexExpression{Token: p.advance(), Left: left}
		p.bracketed(func() {
			if idx.Index = p.parseExpression(LOWEST); idx.Index == nil {
				return
			}
			p.expect(token.RBRACKET, "']'")
		})
		if p.failed {
			return nil
		}
		left = idx
	}
	return left
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.advance()}
	p.bracketed(func() {
		for !p.failed {
			if p.peekIs(token.RBRACKET) {
				p.advance()
				return
			}
			elem := p.parseExpression(LOWEST)
			if elem == nil {
				return
			}
			arr.Elements = append(arr.Elements, elem)
			switch tok := p.peek(); tok.Type {
			case token.COMMA:
				p.advance()
				if p.peekIs(token.RBRACKET) {
					p.fail(diagnostics.ErrP001, p.peek(), "unexpected ']' after ','")
				}
			case token.RBRACKET:
			default:
				p.unexpected(tok, "',' or ']'")
			}
		}
	})
	if p.failed {
		return nil
	}
	return arr
}

func (p *Parser) parseStructLiteral(path *ast.PathExpression) ast.Expression {
	lit := &ast.StructLiteral{Token: path.Token, Type: path}
	p.advance() // {
	p.bracketed(func() {
		for !p.failed {
			if p.peekIs(token.RBRACE) {
				p.advance()
				return
			}
			if !p.expect(token.IDENT, "a field name") {
				return
			}
			field := &ast.FieldValue{Token: p.curToken, Name: p.curToken.Lexeme}
			if !p.expect(token.COLON, "':' after the field name") {
				return
			}
			if field.Value = p.parseExpression(LOWEST); field.Value == nil {
				return
			}
			lit.Fields = append(lit.Fields, field)
			if p.peekIs(token.COMMA) {
				p.advance()
			}
		}
	})
	if p.failed {
		return nil
	}
	return lit
}

// parseIfExpression parses `if c then a [else b]`. A line-leading `else`
// belongs to this `if` only when it is aligned with the line of the `if`.
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.advance()}
	if expr.Condition = p.parseExpression(LOWEST); expr.Condition == nil {
		return nil
	}
	if !p.expect(token.THEN, "then") {
		return nil
	}
	if expr.Consequence = p.parseBlock(); expr.Consequence == nil {
		return nil
	}

	switch {
	case p.peekIs(token.ELSE):
		p.advance()
	case p.at(p.pos).Type == token.NEWLINE:
		next := p.at(p.nextLine())
		if next.Type != token.ELSE || next.Indent != expr.Token.Indent {
			return expr
		}
		p.pos = p.nextLine()
		p.advance()
	default:
		return expr
	}

	if p.peekIs(token.IF) {
		nested := p.parseIfExpression()
		if nested == nil {
			return nil
		}
		expr.Alternative = &ast.BlockExpression{
			Token:      nested.GetToken(),
			Statements: []ast.Statement{&ast.ExpressionStatement{Token: nested.GetToken(), Expression: nested}},
		}
		return expr
	}
	if expr.Alternative = p.parseBlock(); expr.Alternative == nil {
		return nil
	}
	return expr
}

// parseClosure parses `fn a b -> body`.
func (p *Parser) parseClosure() ast.Expression {
	closure := &ast.ClosureExpression{Token: p.advance()}
	for p.peekIs(token.IDENT) {
		closure.Params = append(closure.Params, identifier(p.advance()))
	}
	if !p.expect(token.ARROW, "'->' after closure parameters") {
		return nil
	}
	if closure.Body = p.parseBlock(); closure.Body == nil {
		return nil
	}
	return closure
}

func (p *Parser) parseForExpression() ast.Expression {
	expr := &ast.ForExpression{Token: p.advance()}
	if !p.expect(token.IDENT, "a loop variable") {
		return nil
	}
	expr.Name = identifier(p.curToken)
	if !p.expect(token.IN, "in") {
		return nil
	}
	if expr.Iterable = p.parseExpression(LOWEST); expr.Iterable == nil {
		return nil
	}
	if !p.expect(token.DO, "do") {
		return nil
	}
	if expr.Body = p.parseBlock(); expr.Body == nil {
		return nil
	}
	return expr
}

// parseMatchExpression parses
//
//	match subject
//	| pattern [if guard] -> body
//	...
func (p *Parser) parseMatchExpression() ast.Expression {
	expr := &ast.MatchExpression{Token: p.advance()}
	if expr.Subject = p.parseExpression(LOWEST); expr.Subject == nil {
		return nil
	}
	for {
		if p.at(p.pos).Type == token.NEWLINE {
			next := p.at(p.nextLine())
			if next.Type != token.PIPE || next.Indent < expr.Token.Indent {
				break
			}
			p.pos = p.nextLine()
		} else if !p.peekIs(token.PIPE) {
			break
		}

		branch := &ast.MatchBranch{Token: p.advance()}
		if branch.Pattern = p.parseExpression(LOWEST); branch.Pattern == nil {
			return nil
		}
		if p.peekIs(token.IF) {
			p.advance()
			if branch.Guard = p.parseExpression(LOWEST); branch.Guard == nil {
				return nil
			}
		}
		if !p.expect(token.ARROW, "'->' after the match pattern") {
			return nil
		}
		if branch.Body = p.parseBlock(); branch.Body == nil {
			return nil
		}
		expr.Branches = append(expr.Branches, branch)
	}
	if len(expr.Branches) == 0 {
		p.unexpected(p.peek(), "a match branch starting with '|'")
		return nil
	}
	return expr
}
