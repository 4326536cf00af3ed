package lexer

import (
	"fmt"

	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = New(ctx.SourceCode).Tokenize()
	for _, tok := range ctx.Tokens {
		if tok.Type == token.ILLEGAL {
			msg := fmt.Sprintf("illegal token %q", tok.Lexeme)
			if reason, ok := tok.Literal.(string); ok && reason != tok.Lexeme {
				msg += ": " + reason
			}
			ctx.Report(diagnostics.NewError(diagnostics.ErrP003, tok, msg))
		}
	}
	return ctx
}
