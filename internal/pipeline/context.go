package pipeline

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one source unit through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string
	Tokens     []token.Token
	AstRoot    *ast.Program
	Errors     []*diagnostics.DiagnosticError
}

func NewContext(filePath, source string) *PipelineContext {
	return &PipelineContext{FilePath: filePath, SourceCode: source}
}

// Report implements diagnostics.Reporter so stages can hand the context to
// collaborators that only know how to report.
func (ctx *PipelineContext) Report(d *diagnostics.DiagnosticError) {
	if d.File == "" {
		d.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, d)
}

// HasErrors ignores warnings and informational notes.
func (ctx *PipelineContext) HasErrors() bool {
	for _, e := range ctx.Errors {
		if e.IsError() {
			return true
		}
	}
	return false
}
