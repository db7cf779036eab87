package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses author stylesheets into structured items.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing stylesheet", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// end of input or error
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("Stylesheet parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			if atRule == "@themed" {
				names := parseThemeNames(parser.Values())
				rules := p.parseThemedRules(parser, sheet)
				p.log.Debug("Parsed @themed block", zap.Strings("themes", names), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					Themed: &ThemedBlock{Themes: names, Rules: rules},
				})
			} else {
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// simple @-rule without block (e.g. @import)
			atRule := string(data)
			if atRule == "@import" {
				url := extractImportURL(parser.Values())
				if url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginRulesetGrammar:
			selector := buildSelector(data, parser.Values())
			props := p.parseDeclarations(parser, sheet)
			sheet.Items = append(sheet.Items, StylesheetItem{
				Rule: &Rule{Selector: selector, Properties: props},
			})
		}
	}
}

// buildSelector reconstructs the raw selector text from token data. Grouped
// selectors stay one string; scoping splits them again during generation.
func buildSelector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// parseThemeNames extracts the theme name filter from @themed prelude
// tokens: identifiers or strings, comma separated.
func parseThemeNames(tokens []css.Token) []string {
	var names []string
	for _, t := range tokens {
		switch t.TokenType {
		case css.IdentToken:
			names = append(names, string(t.Data))
		case css.StringToken:
			names = append(names, unquote(string(t.Data)))
		}
	}
	return names
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) map[string]Value {
	props := make(map[string]Value)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar:
			propName := string(data)
			values := parser.Values()
			if len(values) > 0 {
				props[propName] = p.parsePropertyValue(propName, values, sheet)
			}

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) pass through untouched
			propName := string(data)
			props[propName] = Value{Raw: rawText(parser.Values())}
		}
	}
}

// rawText joins token data, collapsing whitespace runs to single spaces.
func rawText(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 && parts[len(parts)-1] != " " {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// parsePropertyValue converts declaration tokens to a Value, recognizing
// theme(...) references. A reference must be the whole declaration value;
// theme() embedded in a longer value stays literal with a warning.
func (p *Parser) parsePropertyValue(propName string, tokens []css.Token, sheet *Stylesheet) Value {
	raw := rawText(tokens)
	val := Value{Raw: raw}

	significant := make([]css.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			significant = append(significant, t)
		}
	}
	if len(significant) == 0 {
		return val
	}

	first := significant[0]
	if first.TokenType != css.FunctionToken || string(first.Data) != "theme(" {
		if strings.Contains(raw, "theme(") {
			sheet.Warnings = append(sheet.Warnings, "theme() must be the whole value of "+propName+": "+raw)
			p.log.Debug("Ignoring embedded theme() reference", zap.String("property", propName), zap.String("value", raw))
		}
		return val
	}
	last := significant[len(significant)-1]
	if last.TokenType != css.RightParenthesisToken {
		sheet.Warnings = append(sheet.Warnings, "malformed theme() reference in "+propName+": "+raw)
		return val
	}

	ref := parseThemeRef(significant[1 : len(significant)-1])
	if ref == nil || len(ref.Keys) == 0 {
		sheet.Warnings = append(sheet.Warnings, "malformed theme() reference in "+propName+": "+raw)
		return val
	}
	val.Ref = ref
	return val
}

// parseThemeRef parses the argument tokens of a theme(...) call: style keys
// before the comma, an optional theme name after it.
func parseThemeRef(tokens []css.Token) *ThemeRef {
	ref := &ThemeRef{}
	afterComma := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.CommaToken:
			if afterComma {
				return nil
			}
			afterComma = true
		case css.IdentToken, css.StringToken:
			word := string(t.Data)
			if t.TokenType == css.StringToken {
				word = unquote(word)
			}
			if afterComma {
				if ref.Theme != "" {
					return nil
				}
				ref.Theme = word
			} else {
				ref.Keys = append(ref.Keys, word)
			}
		default:
			return nil
		}
	}
	if afterComma && ref.Theme == "" {
		return nil
	}
	return ref
}

// parseThemedRules parses rules inside an @themed block and returns them.
func (p *Parser) parseThemedRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginRulesetGrammar:
			selector := buildSelector(data, parser.Values())
			props := p.parseDeclarations(parser, sheet)
			rules = append(rules, Rule{Selector: selector, Properties: props})
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
