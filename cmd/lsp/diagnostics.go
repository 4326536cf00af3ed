package main

import (
	"path/filepath"

	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
)

func (s *LanguageServer) publishDiagnostics(uri string, finalCtx *pipeline.PipelineContext) error {
	notification := NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: convertDiagnostics(finalCtx.Errors, uriToPath(uri)),
		},
	}
	return s.sendNotification(notification)
}

func convertDiagnostics(errors []*diagnostics.DiagnosticError, filePath string) []Diagnostic {
	result := make([]Diagnostic, 0)
	targetPath := filepath.Clean(filePath)

	for _, err := range errors {
		if err.File != "" && targetPath != "" && filepath.Clean(err.File) != targetPath {
			continue
		}

		// LSP positions are 0-based.
		line := max(err.Token.Line-1, 0)
		col := max(err.Token.Column-1, 0)
		width := max(len(err.Token.Lexeme), 1)

		message := err.Message
		if err.Hint != "" {
			message += "\nhint: " + err.Hint
		}
		result = append(result, Diagnostic{
			Range: Range{
				Start: Position{Line: line, Character: col},
				End:   Position{Line: line, Character: col + width},
			},
			Severity: convertSeverity(err.Severity),
			Code:     string(err.Code),
			Message:  message,
			Source:   "specialize",
		})
	}
	return result
}

func convertSeverity(s diagnostics.Severity) DiagnosticSeverity {
	switch s {
	case diagnostics.SeverityWarning:
		return SeverityWarning
	case diagnostics.SeverityInfo:
		return SeverityInfo
	default:
		return SeverityError
	}
}
