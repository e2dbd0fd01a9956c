package parser

import (
	"github.com/focus-lang/focus/internal/ast"
	"github.com/focus-lang/focus/internal/token"
)

// parseType parses `()`, `name`, `mod.name`, `[T]` and `(a -> b -> r)`.
func (p *Parser) parseType() ast.Type {
	tok := p.peek()
	switch tok.Type {
	case token.UNIT:
		p.advance()
		return &ast.UnitType{Token: tok}
	case token.IDENT:
		return &ast.NamedType{Token: tok, Path: p.parsePath().Segments}
	case token.LBRACKET:
		p.advance()
		var elem ast.Type
		p.bracketed(func() {
			if elem = p.parseType(); elem == nil {
				return
			}
			if !p.expect(token.RBRACKET, "']'") {
				elem = nil
			}
		})
		if elem == nil {
			return nil
		}
		return &ast.ArrayType{Token: tok, Element: elem}
	case token.LPAREN:
		p.advance()
		var parts []ast.Type
		p.bracketed(func() {
			for !p.failed {
				part := p.parseType()
				if part == nil {
					return
				}
				parts = append(parts, part)
				switch next := p.peek(); next.Type {
				case token.ARROW:
					p.advance()
				case token.RPAREN:
					p.advance()
					return
				default:
					p.unexpected(next, "'->' or ')'")
				}
			}
		})
		if p.failed {
			return nil
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return &ast.FunctionType{Token: tok, Params: parts[:len(parts)-1], Return: parts[len(parts)-1]}
	default:
		p.unexpected(tok, "a type")
		return nil
	}
}
