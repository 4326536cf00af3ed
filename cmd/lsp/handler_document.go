package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/expand"
	"github.com/typesugar/typesugar-sub002/internal/lexer"
	"github.com/typesugar/typesugar-sub002/internal/parser"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// DocumentState stores the state of a single open document
type DocumentState struct {
	Content string                    // Current file content
	Context *pipeline.PipelineContext // Result of the last expansion
	Sites   []expand.Site             // Macro calls found by the last expansion
	Hoisted map[string]*ast.VariableDeclaration
	Mu      sync.RWMutex
}

func (s *LanguageServer) handleDidOpen(params DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	docState := &DocumentState{}
	s.analyzeDocument(docState, params.TextDocument.Text, uri)

	s.mu.Lock()
	s.documents[uri] = docState
	s.mu.Unlock()

	log.Printf("Opened file: %s", uri)
	return s.publishDiagnostics(uri, docState.Context)
}

func (s *LanguageServer) handleDidChange(params DidChangeTextDocumentParams) error {
	// Full sync: the last change carries the whole document.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := params.TextDocument.URI
	newContent := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.mu.RLock()
	docState, exists := s.documents[uri]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("document %s not found", uri)
	}

	s.analyzeDocument(docState, newContent, uri)
	log.Printf("Changed file: %s", uri)
	return s.publishDiagnostics(uri, docState.Context)
}

func (s *LanguageServer) handleDidClose(params DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	log.Printf("Closed file: %s", params.TextDocument.URI)

	// Clear the editor's markers for the closed document.
	return s.sendNotification(NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []Diagnostic{}},
	})
}

// analyzeDocument expands content with a fresh compilation context and
// stores the result in docState.
func (s *LanguageServer) analyzeDocument(docState *DocumentState, content string, uri string) {
	path := uriToPath(uri)
	ctx := pipeline.NewContext(path, content)

	cfg, tables, err := s.loadSettings(path)
	if err != nil {
		ctx.Report(diagnostics.NewWarning(diagnostics.ErrC001, token.Token{Line: 1, Column: 1}, err.Error()))
	}

	cctx := specialize.NewContext(cfg, nil, s.trace)
	for _, t := range tables {
		cctx.RegisterTable(t.Name, t.Brand, t.Methods).Contract = t.Contract
	}
	expander := expand.New(cctx)
	finalCtx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		expander,
	).Run(ctx)

	hoisted := make(map[string]*ast.VariableDeclaration)
	for _, e := range cctx.Cache.Hoisted() {
		hoisted[e.Name] = e.Decl
	}

	docState.Mu.Lock()
	docState.Content = content
	docState.Context = finalCtx
	docState.Sites = expander.Sites
	docState.Hoisted = hoisted
	docState.Mu.Unlock()
}

// loadSettings finds the configuration governing path and loads the
// capability files it lists. On error it still returns usable defaults.
func (s *LanguageServer) loadSettings(path string) (*config.Config, []*capability.Table, error) {
	cfg := config.Default()
	found, err := config.FindConfig(filepath.Dir(path))
	if err == nil && found != "" && s.inWorkspace(found) {
		var loaded *config.Config
		if loaded, err = config.LoadConfig(found); err == nil {
			cfg = loaded
		}
	}
	cfg.ApplyEnv()
	if err != nil {
		return cfg, nil, err
	}

	var tables []*capability.Table
	for _, file := range cfg.Capabilities {
		loaded, err := capability.LoadFile(file)
		if err != nil {
			return cfg, tables, err
		}
		tables = append(tables, loaded...)
	}
	return cfg, tables, nil
}

// inWorkspace reports whether path lies under the workspace root. Without
// a root every path qualifies.
func (s *LanguageServer) inWorkspace(path string) bool {
	if s.rootPath == "" {
		return true
	}
	rel, err := filepath.Rel(s.rootPath, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
