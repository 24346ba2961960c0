package support

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/qrnode/internal/testutil"
	"github.com/cucumber/godog"
)

// RegisterImageSteps registers fixture steps.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a QR image "([^"]*)" encoding "([^"]*)"$`, testCtx.aQRImageEncoding)
	sc.Step(`^a blank image "([^"]*)"$`, testCtx.aBlankImage)
	sc.Step(`^a text image "([^"]*)" showing "([^"]*)"$`, testCtx.aTextImageShowing)
	sc.Step(`^a file "([^"]*)" containing "([^"]*)"$`, testCtx.aFileContaining)
	sc.Step(`^a directory "([^"]*)"$`, testCtx.aDirectory)
}

func (testCtx *TestContext) aQRImageEncoding(name, content string) error {
	img, err := testutil.EncodeQR(content, testutil.DefaultQRSize)
	if err != nil {
		return fmt.Errorf("encode QR: %w", err)
	}
	return testCtx.savePNG(name, img)
}

func (testCtx *TestContext) aBlankImage(name string) error {
	return testCtx.savePNG(name, testutil.BlankImage(160, 160))
}

func (testCtx *TestContext) aTextImageShowing(name, text string) error {
	return testCtx.savePNG(name, testutil.TextImage(text, 320, 80))
}

func (testCtx *TestContext) aFileContaining(name, content string) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := writeFile(path, []byte(content)); err != nil {
		return err
	}
	testCtx.Files[name] = path
	return nil
}

// aDirectory creates a directory fixture so that it can be named in commands.
func (testCtx *TestContext) aDirectory(name string) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := os.MkdirAll(path, 0o750); err != nil {
		return err
	}
	testCtx.Files[name] = path
	return nil
}

func (testCtx *TestContext) savePNG(name string, img image.Image) error {
	path := filepath.Join(testCtx.TempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	if err := testutil.SavePNG(path, img); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	testCtx.Files[name] = path
	return nil
}
