package evaluator

import (
	"errors"
	"io"

	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// EvaluatorProcessor runs the program as the last pipeline stage.
type EvaluatorProcessor struct {
	Out    io.Writer
	Config *config.Config
	// Setup runs before evaluation, e.g. to define external tables.
	Setup func(e *Evaluator) error
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	eval := New(ep.Out, ep.Config)
	if ep.Setup != nil {
		if err := ep.Setup(eval); err != nil {
			ctx.Report(diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error()))
			return ctx
		}
	}
	if err := eval.Run(ctx.AstRoot); err != nil {
		tok := token.Token{}
		var rt *RuntimeError
		if errors.As(err, &rt) {
			tok.Line, tok.Column = rt.Line, rt.Column
			ctx.Report(diagnostics.NewError(diagnostics.ErrR001, tok, "Uncaught "+describeThrown(rt.Value)))
		} else {
			ctx.Report(diagnostics.NewError(diagnostics.ErrR001, tok, err.Error()))
		}
	}
	return ctx
}
