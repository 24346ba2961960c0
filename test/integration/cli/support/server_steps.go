package support

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/qrnode/internal/server"
	"github.com/cucumber/godog"
)

// RegisterServerSteps registers HTTP server steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the qrnode server is running$`, testCtx.theServerIsRunning)
	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGET)
	sc.Step(`^I POST image "([^"]*)" to node "([^"]*)"$`, testCtx.iPOSTImageToNode)
	sc.Step(`^I POST image "([^"]*)" to node "([^"]*)" with fields:$`, testCtx.iPOSTImageToNodeWithFields)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseFieldShouldBe)
	sc.Step(`^the response header "([^"]*)" should not be empty$`, testCtx.theResponseHeaderShouldNotBeEmpty)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
}

func (testCtx *TestContext) theServerIsRunning() error {
	srv, err := server.NewServer(server.Config{CORSOrigin: "*", MaxUploadMB: 5, TimeoutSec: 10})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	testCtx.HTTPServer = httptest.NewServer(srv.Handler())
	return nil
}

func (testCtx *TestContext) iGET(path string) error {
	if testCtx.HTTPServer == nil {
		return fmt.Errorf("server is not running")
	}
	resp, err := http.Get(testCtx.HTTPServer.URL + path) //nolint:noctx // test request
	if err != nil {
		return err
	}
	return testCtx.recordResponse(resp)
}

func (testCtx *TestContext) iPOSTImageToNode(name, nodeID string) error {
	return testCtx.postNode(name, nodeID, nil)
}

func (testCtx *TestContext) iPOSTImageToNodeWithFields(name, nodeID string, table *godog.Table) error {
	fields := map[string]string{}
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("row %d: expected 2 cells", i+1)
		}
		if i == 0 && row.Cells[0].Value == "field" {
			continue
		}
		fields[row.Cells[0].Value] = row.Cells[1].Value
	}
	return testCtx.postNode(name, nodeID, fields)
}

func (testCtx *TestContext) postNode(name, nodeID string, fields map[string]string) error {
	if testCtx.HTTPServer == nil {
		return fmt.Errorf("server is not running")
	}
	data, err := os.ReadFile(testCtx.resolve(name))
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(name))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	for k, v := range fields {
		// "<empty>" stands for an empty field value
		if v == "<empty>" {
			v = ""
		}
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := http.Post(testCtx.HTTPServer.URL+"/nodes/"+nodeID, mw.FormDataContentType(), &body) //nolint:noctx // test request
	if err != nil {
		return err
	}
	return testCtx.recordResponse(resp)
}

func (testCtx *TestContext) recordResponse(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	testCtx.LastHTTPStatus = resp.StatusCode
	testCtx.LastHTTPBody = body
	testCtx.LastHTTPHeaders = map[string]string{}
	for k := range resp.Header {
		testCtx.LastHTTPHeaders[k] = resp.Header.Get(k)
	}
	return nil
}

func (testCtx *TestContext) theResponseStatusShouldBe(status int) error {
	if testCtx.LastHTTPStatus != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, testCtx.LastHTTPStatus, testCtx.LastHTTPBody)
	}
	return nil
}

// theResponseFieldShouldBe looks up a dotted path in the JSON body.
func (testCtx *TestContext) theResponseFieldShouldBe(path, expected string) error {
	var doc any
	if err := json.Unmarshal(testCtx.LastHTTPBody, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q: %v is not an object", key, cur)
		}
		if cur, ok = obj[key]; !ok {
			return fmt.Errorf("field %q not found in %s", path, testCtx.LastHTTPBody)
		}
	}

	var got string
	switch v := cur.(type) {
	case string:
		got = v
	case float64:
		got = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		got = fmt.Sprint(v)
	}
	if got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", path, expected, got)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldNotBeEmpty(name string) error {
	if testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)] == "" {
		return fmt.Errorf("header %s is empty", name)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(testCtx.LastHTTPBody), expected) {
		return fmt.Errorf("expected response to contain %q, got %s", expected, testCtx.LastHTTPBody)
	}
	return nil
}
