// Command specialize-lsp is a language server that reports specialization
// diagnostics as documents change and shows expansions on hover.
package main

import (
	"log"
	"os"

	"github.com/xyproto/env/v2"
)

// EnvTrace enables engine tracing on stderr.
const EnvTrace = "SPECIALIZE_LSP_TRACE"

func main() {
	log.SetFlags(0)          // Disable timestamp in logs
	log.SetOutput(os.Stderr) // stdout carries the protocol

	server := NewLanguageServer(os.Stdout)
	if env.Bool(EnvTrace) {
		server.trace = log.New(os.Stderr, "specialize: ", 0)
	}
	server.Start(os.Stdin)
	os.Exit(server.ExitCode())
}
