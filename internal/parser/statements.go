package parser

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/diagnostics"
	"github.com/focus-lang/focus/internal/token"
)

func (p *Parser) parseStatement(topLevel bool) ast.Statement {
	vis, visTok := ast.Private, p.peek()
	if visTok.Type == token.PUB {
		if !topLevel {
			p.fail(diagnostics.ErrP006, visTok, "visibility is only allowed on top-level declarations")
			return nil
		}
		vis = p.parseVisibility()
	}

	switch tok := p.peek(); tok.Type {
	case token.LET:
		return p.parseLetStatement(vis)
	case token.TYPE, token.MODULE, token.USE:
		if !topLevel {
			p.fail(diagnostics.ErrP006, tok, "declarations are only allowed at the top level")
			return nil
		}
		switch tok.Type {
		case token.TYPE:
			return p.parseTypeStatement(vis)
		case token.MODULE:
			return p.parseModuleStatement(vis)
		default:
			return p.parseUseStatement(vis)
		}
	default:
		if vis != ast.Private {
			p.unexpected(tok, "a declaration after pub")
			return nil
		}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return &ast.ExpressionStatement{Token: tok, Expression: expr}
	}
}

// parseVisibility consumes `pub` or `pub module`. A `pub module name`
// declaration keeps its `module` keyword.
func (p *Parser) parseVisibility() ast.Visibility {
	p.advance()
	if p.peekIs(token.MODULE) {
		switch p.at(p.next() + 1).Type {
		case token.LET, token.TYPE, token.USE, token.MODULE:
			p.advance()
			return ast.ModuleVisible
		}
	}
	return ast.Public
}

// parseLetStatement parses
//
//	let name [params | ()] [: type] [= block]
func (p *Parser) parseLetStatement(vis ast.Visibility) ast.Statement {
	stmt := &ast.LetStatement{Token: p.advance(), Visibility: vis}
	if !p.expect(token.IDENT, "a name after let") {
		return nil
	}
	stmt.Name = identifier(p.curToken)

	for p.peekIs(token.IDENT) {
		stmt.Params = append(stmt.Params, identifier(p.advance()))
	}
	if p.peekIs(token.UNIT) {
		tok := p.advance()
		stmt.Params = append(stmt.Params, &ast.Identifier{Token: tok, Value: ast.UnitParam})
	}

	if p.peekIs(token.COLON) {
		p.advance()
		if stmt.Type = p.parseType(); stmt.Type == nil {
			return nil
		}
	}

	if p.peekIs(token.ASSIGN) {
		p.advance()
		if stmt.Value = p.parseBlock(); stmt.Value == nil {
			return nil
		}
	}
	return stmt
}

// parseTypeStatement parses
//
//	type Name = { [pub] field: type, ... }
//	type Name = type
//	type Name
func (p *Parser) parseTypeStatement(vis ast.Visibility) ast.Statement {
	stmt := &ast.TypeStatement{Token: p.advance(), Visibility: vis}
	if !p.expect(token.IDENT, "a type name") {
		return nil
	}
	stmt.Name = identifier(p.curToken)

	if !p.peekIs(token.ASSIGN) {
		return stmt
	}
	p.advance()

	if !p.peekIs(token.LBRACE) {
		if stmt.Alias = p.parseType(); stmt.Alias == nil {
			return nil
		}
		return stmt
	}

	p.advance()
	stmt.IsStruct = true
	p.bracketed(func() {
		for !p.failed {
			if p.peekIs(token.RBRACE) {
				p.advance()
				return
			}
			field := &ast.FieldDeclaration{}
			if p.peekIs(token.PUB) {
				field.Visibility = p.parseVisibility()
			}
			if !p.expect(token.IDENT, "a field name") {
				return
			}
			field.Token, field.Name = p.curToken, p.curToken.Lexeme
			if !p.expect(token.COLON, "':' after the field name") {
				return
			}
			if field.Type = p.parseType(); field.Type == nil {
				return
			}
			stmt.Fields = append(stmt.Fields, field)
			if p.peekIs(token.COMMA) {
				p.advance()
			}
		}
	})
	if p.failed {
		return nil
	}
	return stmt
}

func (p *Parser) parseModuleStatement(vis ast.Visibility) ast.Statement {
	stmt := &ast.ModuleStatement{Token: p.advance(), Visibility: vis}
	if !p.expect(token.IDENT, "a module name") {
		return nil
	}
	stmt.Name = identifier(p.curToken)
	return stmt
}

func (p *Parser) parseUseStatement(vis ast.Visibility) ast.Statement {
	stmt := &ast.UseStatement{Token: p.advance(), Visibility: vis}
	if !p.peekIs(token.IDENT) {
		p.unexpected(p.peek(), "a module path")
		return nil
	}
	stmt.Path = p.parsePath().Segments
	return stmt
}

// parseBlock parses the body that follows `=`, `->`, `then`, `else` or `do`.
// A body starting on the same line is a single statement; a body starting
// on the next line is every following line indented deeper than the line
// holding the opening token, at one common indentation.
func (p *Parser) parseBlock() *ast.BlockExpression {
	open := p.curToken
	block := &ast.BlockExpression{Token: open}

	if p.at(p.pos).Type != token.NEWLINE {
		stmt := p.parseStatement(false)
		if stmt == nil {
			return nil
		}
		block.Statements = []ast.Statement{stmt}
		return block
	}

	first := p.at(p.nextLine())
	if first.Type == token.EOF {
		p.fail(diagnostics.ErrP004, first, "unexpected end of input, expected an indented block")
		return nil
	}
	if first.Indent <= open.Indent {
		p.fail(diagnostics.ErrP003, first, "expected an indented block")
		return nil
	}

	outer := p.indent
	p.indent = first.Indent
	defer func() { p.indent = outer }()

	p.pos = p.nextLine()
	for {
		stmt := p.parseStatement(false)
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)

		tok := p.peek()
		if tok.Type == token.EOF {
			return block
		}
		if tok.Type != token.NEWLINE {
			p.unexpected(tok, "end of line")
			return nil
		}
		next := p.at(p.nextLine())
		if next.Type == token.EOF || next.Indent < p.indent {
			if next.Type != token.EOF && outer >= 0 && next.Indent > outer {
				p.fail(diagnostics.ErrP003, next, "unindent does not match any outer indentation level")
				return nil
			}
			return block
		}
		p.pos = p.nextLine()
	}
}
