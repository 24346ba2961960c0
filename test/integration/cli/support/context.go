// Package support holds the step definitions of the CLI feature suite.
package support

import (
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	TempDir string
	// Files maps fixture names used in feature files to their paths.
	Files map[string]string

	// Command execution state
	LastOutput   string
	LastStderr   string
	LastError    error
	LastExitCode int

	// Server state
	HTTPServer      *httptest.Server
	LastHTTPStatus  int
	LastHTTPBody    []byte
	LastHTTPHeaders map[string]string
}

// NewTestContext creates a new test context with its own temp directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "qrnode-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &TestContext{
		TempDir:         tempDir,
		Files:           map[string]string{},
		LastHTTPHeaders: map[string]string{},
	}, nil
}

// Cleanup stops the server and removes the temp directory.
func (testCtx *TestContext) Cleanup() error {
	if testCtx.HTTPServer != nil {
		testCtx.HTTPServer.Close()
		testCtx.HTTPServer = nil
	}
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// resolve replaces a fixture name with its path.
func (testCtx *TestContext) resolve(arg string) string {
	if path, ok := testCtx.Files[arg]; ok {
		return path
	}
	return arg
}

// splitArgs splits a command line on spaces. Single quotes group words and
// '' is an empty argument.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '\'':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
