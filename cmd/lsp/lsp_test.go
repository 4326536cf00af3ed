package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const program = `// @capability number Monoid
const Sum = { concat: (x, y) => x + y, empty: 0 };

const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((acc, x) => M.concat(acc, x), M.empty);

const total = specialize(fold, Sum);
const five = specializeInline(Sum, (M: Monoid<number>) => M.concat(2, 3));
const other = specialize(fold, Product);
`

func parseLSPOutput(t *testing.T, output string) string {
	t.Helper()
	parts := strings.SplitN(output, "\r\n\r\n", 2)
	if len(parts) != 2 {
		t.Fatalf("Invalid LSP output format (header/body split failed): %q", output)
	}
	return parts[1]
}

// splitMessages splits a stream of framed messages into their bodies.
func splitMessages(t *testing.T, output string) []string {
	t.Helper()
	var bodies []string
	for output != "" {
		sep := strings.Index(output, "\r\n\r\n")
		if sep < 0 {
			t.Fatalf("unterminated frame header in %q", output)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(output[:sep], "Content-Length: "))
		if err != nil {
			t.Fatalf("bad frame header in %q: %v", output, err)
		}
		start := sep + 4
		bodies = append(bodies, output[start:start+n])
		output = output[start+n:]
	}
	return bodies
}

func setupServer(t *testing.T, uri, code string) (*LanguageServer, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	server := NewLanguageServer(buf)

	didOpenParams := DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        uri,
			LanguageID: "typescript",
			Version:    1,
			Text:       code,
		},
	}
	if err := server.handleDidOpen(didOpenParams); err != nil {
		t.Fatalf("handleDidOpen failed: %v", err)
	}
	return server, buf
}

func publishedDiagnostics(t *testing.T, output string) PublishDiagnosticsParams {
	t.Helper()
	var msg struct {
		Method string                   `json:"method"`
		Params PublishDiagnosticsParams `json:"params"`
	}
	if err := json.Unmarshal([]byte(parseLSPOutput(t, output)), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Method != "textDocument/publishDiagnostics" {
		t.Fatalf("method = %q", msg.Method)
	}
	return msg.Params
}

func hoverAt(t *testing.T, server *LanguageServer, buf *bytes.Buffer, uri string, line, char int) *Hover {
	t.Helper()
	buf.Reset()
	params := HoverParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: line, Character: char},
	}
	if err := server.handleHover(1, params); err != nil {
		t.Fatalf("handleHover failed: %v", err)
	}
	var resp struct {
		Result *Hover `json:"result"`
	}
	if err := json.Unmarshal([]byte(parseLSPOutput(t, buf.String())), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Result
}

func TestLSP_Diagnostics(t *testing.T) {
	uri := "file://" + filepath.Join(t.TempDir(), "main.ts")
	_, buf := setupServer(t, uri, program)

	params := publishedDiagnostics(t, buf.String())
	if params.URI != uri {
		t.Errorf("URI = %q", params.URI)
	}
	if len(params.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v, want one S001", params.Diagnostics)
	}
	d := params.Diagnostics[0]
	if d.Code != "S001" || d.Severity != SeverityWarning || d.Source != "specialize" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Range.Start.Line != 7 {
		t.Errorf("diagnostic on line %d, want 7", d.Range.Start.Line)
	}
	if !strings.Contains(d.Message, "Product") || !strings.Contains(d.Message, "hint:") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestLSP_ParseErrors(t *testing.T) {
	uri := "file://" + filepath.Join(t.TempDir(), "bad.ts")
	_, buf := setupServer(t, uri, "const x = ;\n")

	params := publishedDiagnostics(t, buf.String())
	if len(params.Diagnostics) == 0 {
		t.Fatal("no diagnostics for a parse error")
	}
	d := params.Diagnostics[0]
	code, _ := d.Code.(string)
	if d.Severity != SeverityError || !strings.HasPrefix(code, "P") {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Range.Start.Line != 0 || d.Range.End.Character <= d.Range.Start.Character {
		t.Errorf("range = %+v", d.Range)
	}
}

func TestLSP_DidChangeAndClose(t *testing.T) {
	uri := "file://" + filepath.Join(t.TempDir(), "main.ts")
	server, buf := setupServer(t, uri, program)

	buf.Reset()
	fixed := strings.Replace(program, "specialize(fold, Product)", "specialize(fold, Sum)", 1)
	err := server.handleDidChange(DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: fixed}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if params := publishedDiagnostics(t, buf.String()); len(params.Diagnostics) != 0 {
		t.Errorf("diagnostics after fix = %+v", params.Diagnostics)
	}

	buf.Reset()
	if err := server.handleDidClose(DidCloseTextDocumentParams{TextDocument: TextDocumentIdentifier{URI: uri}}); err != nil {
		t.Fatal(err)
	}
	if params := publishedDiagnostics(t, buf.String()); len(params.Diagnostics) != 0 {
		t.Errorf("close did not clear diagnostics: %+v", params.Diagnostics)
	}
	if hover := hoverAt(t, server, buf, uri, 5, 15); hover != nil {
		t.Errorf("hover on a closed document = %+v", hover)
	}

	err = server.handleDidChange(DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 3},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: fixed}},
	})
	if err == nil {
		t.Error("change to a closed document accepted")
	}
}

func TestLSP_Hover(t *testing.T) {
	uri := "file://" + filepath.Join(t.TempDir(), "main.ts")
	server, buf := setupServer(t, uri, program)

	tests := []struct {
		name string
		line int
		char int
		want []string // empty means no hover
	}{
		{"hoisted specialization", 5, 15, []string{"Specialized as `__specialized_fold_", "xs.reduce((acc, x) => acc + x, 0)"}},
		{"end of macro name", 5, 24, []string{"Specialized as"}},
		{"inline collapse", 6, 14, []string{"Expands to:", "2 + 3"}},
		{"fallback wrapper", 7, 16, []string{"(...args) => fold(Product, ...args)"}},
		{"argument of the call", 5, 26, nil},
		{"declaration", 3, 7, nil},
		{"past the end of the line", 5, 80, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hover := hoverAt(t, server, buf, uri, tt.line, tt.char)
			if len(tt.want) == 0 {
				if hover != nil {
					t.Errorf("unexpected hover: %+v", hover)
				}
				return
			}
			if hover == nil {
				t.Fatal("no hover")
			}
			if hover.Contents.Kind != "markdown" {
				t.Errorf("kind = %q", hover.Contents.Kind)
			}
			for _, w := range tt.want {
				if !strings.Contains(hover.Contents.Value, w) {
					t.Errorf("hover lacks %q:\n%s", w, hover.Contents.Value)
				}
			}
			if hover.Range == nil || hover.Range.Start.Line != tt.line {
				t.Errorf("range = %+v", hover.Range)
			}
		})
	}
}

func TestLSP_ConfigDiscovery(t *testing.T) {
	dir := t.TempDir()
	caps := "tables:\n  - name: Product\n    brand: number\n    contract: Monoid\n    methods:\n      concat: \"(x, y) => x * y\"\n      empty: \"1\"\n"
	if err := os.WriteFile(filepath.Join(dir, "caps.yaml"), []byte(caps), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "specialize.yaml"), []byte("hoist: false\ncapabilities: [caps.yaml]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	uri := "file://" + filepath.Join(dir, "main.ts")
	server, buf := setupServer(t, uri, program)

	if params := publishedDiagnostics(t, buf.String()); len(params.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v", params.Diagnostics)
	}
	hover := hoverAt(t, server, buf, uri, 7, 16)
	if hover == nil {
		t.Fatal("no hover")
	}
	if !strings.Contains(hover.Contents.Value, "Expands to:") || !strings.Contains(hover.Contents.Value, "acc * x, 1") {
		t.Errorf("hover = %s", hover.Contents.Value)
	}
}

func TestLSP_BadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "specialize.yaml"), []byte("max_depth: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, buf := setupServer(t, "file://"+filepath.Join(dir, "main.ts"), program)

	found := false
	for _, d := range publishedDiagnostics(t, buf.String()).Diagnostics {
		if d.Code == "C001" && strings.Contains(d.Message, "max_depth") {
			found = true
		}
	}
	if !found {
		t.Error("configuration error not reported")
	}
}

func frame(t *testing.T, msg interface{}) string {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
}

func TestLSP_Session(t *testing.T) {
	uri := "file://" + filepath.Join(t.TempDir(), "main.ts")
	var in strings.Builder
	in.WriteString(frame(t, RequestMessage{Jsonrpc: "2.0", ID: 1, Method: "initialize", Params: InitializeParams{}}))
	in.WriteString(frame(t, NotificationMessage{Jsonrpc: "2.0", Method: "initialized"}))
	in.WriteString(frame(t, NotificationMessage{Jsonrpc: "2.0", Method: "textDocument/didOpen", Params: DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: program},
	}}))
	in.WriteString(frame(t, RequestMessage{Jsonrpc: "2.0", ID: 2, Method: "textDocument/definition"}))
	in.WriteString(frame(t, RequestMessage{Jsonrpc: "2.0", ID: 3, Method: "shutdown"}))
	in.WriteString(frame(t, NotificationMessage{Jsonrpc: "2.0", Method: "exit"}))
	in.WriteString(frame(t, RequestMessage{Jsonrpc: "2.0", ID: 4, Method: "shutdown"}))

	var out bytes.Buffer
	server := NewLanguageServer(&out)
	server.Start(strings.NewReader(in.String()))

	bodies := splitMessages(t, out.String())
	if len(bodies) != 4 {
		t.Fatalf("got %d messages, want 4:\n%s", len(bodies), out.String())
	}
	if !strings.Contains(bodies[0], `"hoverProvider":true`) || !strings.Contains(bodies[0], `"textDocumentSync":1`) {
		t.Errorf("initialize result = %s", bodies[0])
	}
	if !strings.Contains(bodies[1], "publishDiagnostics") || !strings.Contains(bodies[1], "S001") {
		t.Errorf("expected diagnostics, got %s", bodies[1])
	}
	if !strings.Contains(bodies[2], "-32601") {
		t.Errorf("unknown method response = %s", bodies[2])
	}
	if !strings.Contains(bodies[3], `"id":3`) || !strings.Contains(bodies[3], `"result":null`) {
		t.Errorf("shutdown response = %s", bodies[3])
	}
	if server.ExitCode() != 0 {
		t.Errorf("exit code = %d after shutdown", server.ExitCode())
	}

	if NewLanguageServer(&out).ExitCode() != 1 {
		t.Error("exit without shutdown should fail")
	}
}
