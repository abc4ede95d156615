// Package mcptools exposes the analysis service as Model Context Protocol tools.
package mcptools

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
)

// ServerName identifies the MCP server to clients.
const ServerName = "ats-match"

// Tool names.
const (
	ToolScore      = "ats_match_score"
	ToolIndustries = "list_industries"
)

// ScoreInput is the argument of the ats_match_score tool.
type ScoreInput struct {
	JobDescription string `json:"job_description" jsonschema:"Full job description text"`
	CVText         string `json:"cv_text,omitempty" jsonschema:"Plain text of the CV or resume"`
	CVFileBase64   string `json:"cv_file_base64,omitempty" jsonschema:"Base64 encoded CV document (PDF, DOCX or TXT). Takes precedence over cv_text"`
	CVFileName     string `json:"cv_file_name,omitempty" jsonschema:"File name of the encoded CV, used to pick the parser"`
}

// IndustriesInput is the (empty) argument of the list_industries tool.
type IndustriesInput struct{}

// IndustriesOutput lists the supported industries.
type IndustriesOutput struct {
	Industries []string `json:"industries"`
}

// NewServer creates an MCP server with every tool registered.
func NewServer(svc *service.Service, version string) (server *mcp.Server) {
	server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	Register(server, svc)
	return server
}

// Register adds the analysis tools to server.
func Register(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolScore,
		Description: "Score how well a CV matches a job description the way an applicant tracking system would. Returns the match percentage, matched and missing keywords and skills, the detected industry and optimization tips.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScoreInput) (*mcp.CallToolResult, scorer.AnalysisResult, error) {
		req, err := toRequest(input)
		if err != nil {
			return nil, scorer.AnalysisResult{}, err
		}

		ctx = observe.WithRequestID(ctx, observe.NewRequestID())
		result, err := svc.Analyze(ctx, req)
		if err != nil {
			_, message := service.Classify(err)
			return nil, scorer.AnalysisResult{}, errors.New(message)
		}
		return nil, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolIndustries,
		Description: "List the industries the ATS match scorer can detect.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ IndustriesInput) (*mcp.CallToolResult, IndustriesOutput, error) {
		industries := make([]string, len(service.SupportedIndustries))
		copy(industries, service.SupportedIndustries)
		return nil, IndustriesOutput{Industries: industries}, nil
	})
}

func toRequest(input ScoreInput) (req service.Request, err error) {
	req = service.Request{JobDescription: input.JobDescription, CVText: input.CVText}

	if strings.TrimSpace(input.CVFileBase64) == "" {
		return req, err
	}
	if input.CVFileName == "" {
		err = errors.New("cv_file_name is required with cv_file_base64")
		return req, err
	}

	data, err := base64.StdEncoding.DecodeString(input.CVFileBase64)
	if err != nil {
		err = errors.Wrap(err, "cv_file_base64 is not valid base64")
		return req, err
	}

	req.CVFile = &service.File{Name: input.CVFileName, Data: data}
	return req, err
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *mcp.Server) (handler http.Handler) {
	handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return handler
}

// RunStdio serves server on stdin and stdout until ctx is done or the client disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) (err error) {
	err = server.Run(ctx, &mcp.StdioTransport{})
	if err != nil {
		err = errors.Wrap(err, "mcp stdio server failed")
	}
	return err
}
