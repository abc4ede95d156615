package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/nikogura/ats-match/pkg/jd"
	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/renderer"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
)

// Output formats.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeJD string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCV string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCVText string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeFormat string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeOutput string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzePDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a CV against a job description",
	Long: `Scores a CV against a job description and prints the match percentage,
matched and missing keywords and skills, the detected industry and
optimization tips.

The job description may be a text, PDF or DOCX file, or an http(s) URL.
The CV may be a PDF, DOCX or TXT file, or inline text.

Examples:
  ats-match analyze --jd job.txt --cv resume.pdf
  ats-match analyze --jd https://example.com/jobs/42 --cv-text "Java developer..."
  ats-match analyze --jd job.txt --cv resume.docx --format markdown --output report.md
  ats-match analyze --jd job.txt --cv resume.pdf --pdf --output-dir ~/Documents/reports`,
	RunE: runAnalyze,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description file or URL (required)")
	analyzeCmd.Flags().StringVar(&analyzeCV, "cv", "", "CV file (pdf, docx, doc or txt)")
	analyzeCmd.Flags().StringVar(&analyzeCVText, "cv-text", "", "CV as inline text")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", formatJSON, "Output format: json or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the output to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzePDF, "pdf", false, "Also render the markdown report to PDF with pandoc")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "PDF output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeKeepMarkdown, "keep-markdown", false, "Keep the markdown file after PDF generation")
	_ = analyzeCmd.MarkFlagRequired("jd")
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	if analyzeFormat != formatJSON && analyzeFormat != formatMarkdown {
		err = errors.Errorf("invalid format %q: must be json or markdown", analyzeFormat)
		return err
	}

	rt, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rt.cfg.Server.Timeout())
	defer cancel()

	if getVerbose() {
		fmt.Fprintf(os.Stderr, "Fetching job description from: %s\n", analyzeJD)
	}

	jobDescription, err := jd.FetchWithContext(ctx, analyzeJD)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch job description")
		return err
	}

	req, cvSource, err := buildCVRequest(jobDescription)
	if err != nil {
		return err
	}

	if getVerbose() {
		printIndustryScores(rt, jobDescription)
	}

	ctx = observe.WithRequestID(ctx, observe.NewRequestID())
	result, analyzeErr := rt.svc.Analyze(ctx, req)
	if analyzeErr != nil {
		_, result = service.ErrorResult(analyzeErr)
	}

	meta := renderer.ReportMeta{
		JobSource:   analyzeJD,
		CVSource:    cvSource,
		GeneratedAt: time.Now(),
	}

	err = writeResult(cmd.OutOrStdout(), result, meta)
	if err != nil {
		return err
	}

	if analyzePDF && analyzeErr == nil {
		err = renderReportPDF(result, meta, getOutputDir(analyzeOutputDir, rt.cfg.Defaults.OutputDir), rt.cfg.Pandoc.TemplatePath)
		if err != nil {
			return err
		}
	}

	if analyzeErr != nil {
		_, message := service.Classify(analyzeErr)
		err = errors.New(message)
		return err
	}

	return err
}

func buildCVRequest(jobDescription string) (req service.Request, source string, err error) {
	req = service.Request{JobDescription: jobDescription, CVText: analyzeCVText}
	source = "inline text"

	if analyzeCV == "" {
		return req, source, err
	}

	data, err := os.ReadFile(analyzeCV)
	if err != nil {
		err = errors.Wrapf(err, "failed to read CV file: %s", analyzeCV)
		return req, source, err
	}

	req.CVFile = &service.File{Name: filepath.Base(analyzeCV), Data: data}
	source = analyzeCV
	return req, source, err
}

func printIndustryScores(rt runtime, jobDescription string) {
	fmt.Fprintln(os.Stderr, "Industry keyword hits in job description:")
	for _, score := range rt.engine.Detector().Scores(jobDescription) {
		fmt.Fprintf(os.Stderr, "  %-12s %d\n", score.Industry, score.Hits)
	}
}

func writeResult(stdout io.Writer, result scorer.AnalysisResult, meta renderer.ReportMeta) (err error) {
	var out []byte

	switch analyzeFormat {
	case formatMarkdown:
		out = []byte(renderer.Markdown(result, meta))
	default:
		out, err = json.Marshal(result)
		if err != nil {
			err = errors.Wrap(err, "failed to marshal result")
			return err
		}
		out = pretty.Pretty(out)
		if analyzeOutput == "" && isTerminal(os.Stdout) {
			out = pretty.Color(out, nil)
		}
	}

	if analyzeOutput != "" {
		err = renderer.WriteMarkdown(string(out), analyzeOutput)
		if err != nil {
			return err
		}
		if getVerbose() {
			fmt.Fprintf(os.Stderr, "Report written to: %s\n", analyzeOutput)
		}
		return err
	}

	_, err = stdout.Write(out)
	if err != nil {
		err = errors.Wrap(err, "failed to write result")
	}
	return err
}

func renderReportPDF(result scorer.AnalysisResult, meta renderer.ReportMeta, outDir, templatePath string) (err error) {
	base := filepath.Join(outDir, fmt.Sprintf("ats-report-%s", meta.GeneratedAt.Format("20060102-150405")))
	reportMD := base + ".md"
	reportPDF := base + ".pdf"

	err = renderer.WriteMarkdown(renderer.Markdown(result, meta), reportMD)
	if err != nil {
		return err
	}

	if getVerbose() {
		fmt.Fprintln(os.Stderr, "Rendering PDF...")
	}

	err = renderer.RenderPDF(reportMD, reportPDF, templatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to render report PDF: %v\n", err)
		fmt.Fprintf(os.Stderr, "Report markdown saved at: %s\n", reportMD)
		err = nil
		return err
	}

	fmt.Fprintf(os.Stderr, "Report PDF saved at: %s\n", reportPDF)

	if !analyzeKeepMarkdown {
		err = renderer.CleanupMarkdown(reportMD)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to clean up markdown file: %v\n", err)
			err = nil
		}
	}

	return err
}

func getOutputDir(flagValue, configValue string) (outDir string) {
	outDir = flagValue
	if outDir == "" {
		outDir = configValue
	}
	return outDir
}

func isTerminal(f *os.File) (terminal bool) {
	info, err := f.Stat()
	if err != nil {
		return terminal
	}
	terminal = info.Mode()&os.ModeCharDevice != 0
	return terminal
}
