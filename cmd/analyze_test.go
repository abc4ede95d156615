package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikogura/ats-match/pkg/renderer"
	"github.com/nikogura/ats-match/pkg/scorer"
)

func TestGetOutputDir(t *testing.T) {
	if got := getOutputDir("/flag", "/config"); got != "/flag" {
		t.Errorf("Expected flag value, got %s", got)
	}
	if got := getOutputDir("", "/config"); got != "/config" {
		t.Errorf("Expected config value, got %s", got)
	}
}

func TestBuildCVRequest(t *testing.T) {
	tmpDir := t.TempDir()
	cvPath := filepath.Join(tmpDir, "resume.txt")
	err := os.WriteFile(cvPath, []byte("Java developer"), 0600)
	if err != nil {
		t.Fatalf("Failed to write CV: %v", err)
	}

	analyzeCV, analyzeCVText = cvPath, "ignored"
	t.Cleanup(func() { analyzeCV, analyzeCVText = "", "" })

	req, source, err := buildCVRequest("jd")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.CVFile == nil || req.CVFile.Name != "resume.txt" || string(req.CVFile.Data) != "Java developer" {
		t.Errorf("Expected CV file resume.txt, got %+v", req.CVFile)
	}
	if source != cvPath {
		t.Errorf("Expected source %s, got %s", cvPath, source)
	}

	analyzeCV = filepath.Join(tmpDir, "missing.pdf")
	_, _, err = buildCVRequest("jd")
	if err == nil {
		t.Error("Expected error for missing CV file, got nil")
	}
}

func TestWriteResultJSON(t *testing.T) {
	analyzeFormat, analyzeOutput = formatJSON, ""
	t.Cleanup(func() { analyzeFormat = formatJSON })

	var out bytes.Buffer
	err := writeResult(&out, scorer.ErrorResult("boom"), renderer.ReportMeta{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var result scorer.AnalysisResult
	err = json.Unmarshal(out.Bytes(), &result)
	if err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out.String())
	}
	if result.DetectedIndustry != "general" || result.OptimizationTips[0] != "boom" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestWriteResultMarkdownFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.md")
	analyzeFormat, analyzeOutput = formatMarkdown, outPath
	t.Cleanup(func() { analyzeFormat, analyzeOutput = formatJSON, "" })

	var out bytes.Buffer
	err := writeResult(&out, scorer.ErrorResult("boom"), renderer.ReportMeta{CVSource: "cv.pdf"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", out.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "- **CV:** cv.pdf") {
		t.Errorf("Unexpected report:\n%s", data)
	}
}
