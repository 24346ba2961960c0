package support

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/qrnode/cmd/qrnode/cmd"
	"github.com/cucumber/godog"
)

// RegisterCommandSteps registers CLI execution and assertion steps.
func (testCtx *TestContext) RegisterCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRun)
	sc.Step(`^the exit code should be (\d+)$`, testCtx.theExitCodeShouldBe)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the output should be "([^"]*)"$`, testCtx.theOutputShouldBe)
	sc.Step(`^the output should be empty$`, testCtx.theOutputShouldBeEmpty)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the error should be "([^"]*)"$`, testCtx.theErrorShouldBe)
	sc.Step(`^the error should be:$`, func(doc *godog.DocString) error {
		return testCtx.theErrorShouldBe(strings.TrimSpace(doc.Content))
	})
	sc.Step(`^the error should contain "([^"]*)"$`, testCtx.theErrorShouldContain)
}

// iRun executes a fresh qrnode command tree in-process. Fixture names in the
// command line are replaced by their paths.
func (testCtx *TestContext) iRun(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	for i, a := range args {
		args[i] = testCtx.resolve(a)
	}

	root := cmd.NewRootCommand()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	testCtx.LastError = root.Execute()
	testCtx.LastExitCode = cmd.ExitCode(testCtx.LastError)
	testCtx.LastOutput = stdout.String()
	testCtx.LastStderr = stderr.String()
	return nil
}

func (testCtx *TestContext) theExitCodeShouldBe(code int) error {
	if testCtx.LastExitCode != code {
		return fmt.Errorf("expected exit code %d, got %d (error: %v)", code, testCtx.LastExitCode, testCtx.LastError)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	return testCtx.theExitCodeShouldBe(0)
}

func (testCtx *TestContext) theOutputShouldBe(expected string) error {
	got := strings.TrimRight(testCtx.LastOutput, "\n")
	if got != expected {
		return fmt.Errorf("expected output %q, got %q", expected, got)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldBeEmpty() error {
	return testCtx.theOutputShouldBe("")
}

func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(testCtx.LastOutput, unexpected) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", unexpected, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theErrorShouldBe(expected string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("expected error %q, command succeeded", expected)
	}
	if testCtx.LastError.Error() != expected {
		return fmt.Errorf("expected error %q, got %q", expected, testCtx.LastError.Error())
	}
	return nil
}

func (testCtx *TestContext) theErrorShouldContain(expected string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("expected error containing %q, command succeeded", expected)
	}
	if !strings.Contains(testCtx.LastError.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, testCtx.LastError.Error())
	}
	return nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}
