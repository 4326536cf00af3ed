package main

import (
	"fmt"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/expand"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
)

// handleHover shows what a specialize or specializeInline call expands to.
func (s *LanguageServer) handleHover(id interface{}, params HoverParams) error {
	s.mu.RLock()
	docState, exists := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()

	var hover *Hover
	if exists {
		docState.Mu.RLock()
		hover = findHover(docState, params.Position)
		docState.Mu.RUnlock()
	}

	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result:  hover,
	})
}

func findHover(doc *DocumentState, pos Position) *Hover {
	word, start := wordAt(doc.Content, pos.Line, pos.Character)
	if word == "" {
		return nil
	}
	for i := range doc.Sites {
		site := &doc.Sites[i]
		callee, ok := site.Call.Function.(*ast.Identifier)
		if !ok || callee.Value != word {
			continue
		}
		if callee.Token.Line-1 != pos.Line || callee.Token.Column-1 != start {
			continue
		}
		return &Hover{
			Contents: MarkupContent{Kind: "markdown", Value: describeSite(doc, site)},
			Range: &Range{
				Start: Position{Line: pos.Line, Character: start},
				End:   Position{Line: pos.Line, Character: start + len(word)},
			},
		}
	}
	return nil
}

func describeSite(doc *DocumentState, site *expand.Site) string {
	var b strings.Builder
	if site.Result == ast.Expression(site.Call) {
		fmt.Fprintf(&b, "`%s` is left as a runtime call.", site.Macro)
		return b.String()
	}

	if ref, ok := site.Result.(*ast.Identifier); ok {
		if decl, hoisted := doc.Hoisted[ref.Value]; hoisted && decl != nil {
			fmt.Fprintf(&b, "Specialized as `%s`:\n", ref.Value)
			fmt.Fprintf(&b, "```typescript\n%s\n```", strings.TrimRight(prettyprinter.Print(decl), "\n"))
			return b.String()
		}
	}
	b.WriteString("Expands to:\n")
	fmt.Fprintf(&b, "```typescript\n%s\n```", prettyprinter.Print(site.Result))
	return b.String()
}
