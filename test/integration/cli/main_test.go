package cli_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/MeKo-Tech/qrnode/test/integration/cli/support"
	"github.com/cucumber/godog"
)

const featuresDir = "features"

// initializeScenario gives every scenario its own temp dir and fixtures.
func initializeScenario(sc *godog.ScenarioContext) {
	testCtx, err := support.NewTestContext()
	if err != nil {
		panic(fmt.Sprintf("scenario context: %v", err))
	}

	testCtx.RegisterImageSteps(sc)
	testCtx.RegisterCommandSteps(sc)
	testCtx.RegisterServerSteps(sc)

	sc.After(func(ctx context.Context, sn *godog.Scenario, _ error) (context.Context, error) {
		if err := testCtx.Cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup after %q: %v\n", sn.Name, err)
		}
		return ctx, nil
	})
}

// suiteTags joins the GODOG_TAGS filter with the tags this build cannot run.
func suiteTags(userTags string) string {
	var parts []string
	if t := strings.TrimSpace(userTags); t != "" {
		parts = append(parts, t)
	}
	if buildTagFilter != "" {
		parts = append(parts, buildTagFilter)
	}
	return strings.Join(parts, " && ")
}

func featureFiles(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(featuresDir)
	if err != nil {
		t.Fatalf("reading %s: %v", featuresDir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".feature" {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	if len(files) == 0 {
		t.Fatalf("no .feature files in %s", featuresDir)
	}
	return files
}

// TestFeatures runs each feature file as its own subtest. Scenarios tagged
// @decode need a linked decoder; @nodecode ones only run without one.
func TestFeatures(t *testing.T) {
	format := os.Getenv("GODOG_FORMAT")
	if format == "" {
		format = "pretty"
	}
	tags := suiteTags(os.Getenv("GODOG_TAGS"))

	for _, name := range featureFiles(t) {
		path := filepath.Join(featuresDir, name)
		t.Run(strings.TrimSuffix(name, ".feature"), func(t *testing.T) {
			suite := godog.TestSuite{
				Name:                name,
				ScenarioInitializer: initializeScenario,
				Options: &godog.Options{
					Format:   format,
					Tags:     tags,
					Paths:    []string{path},
					Strict:   true,
					TestingT: t,
				},
			}
			if status := suite.Run(); status != 0 {
				t.Fatalf("%s: godog exited with status %d", path, status)
			}
		})
	}
}

func TestSuiteTags(t *testing.T) {
	got := suiteTags("  ")
	if got != buildTagFilter {
		t.Errorf("suiteTags(blank) = %q, want %q", got, buildTagFilter)
	}

	got = suiteTags("@wip")
	if !strings.HasPrefix(got, "@wip") || !strings.Contains(got, buildTagFilter) {
		t.Errorf("suiteTags(@wip) = %q, want @wip joined with %q", got, buildTagFilter)
	}
}
