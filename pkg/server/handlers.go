package server

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
)

// HealthMessage is returned by the liveness endpoint.
const HealthMessage = "ATS Match Simulator Backend is running!"

// analysisForm is the JSON alternative to the multipart form.
type analysisForm struct {
	JobDescription string `json:"jobDescription"`
	CVContent      string `json:"cvContent"`
}

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	svc     *service.Service
	timeout time.Duration
}

// NewAnalysisHandler creates a handler bounding each analysis by timeout.
func NewAnalysisHandler(svc *service.Service, timeout time.Duration) (h *AnalysisHandler) {
	h = &AnalysisHandler{svc: svc, timeout: timeout}
	return h
}

// Analyze handles POST /api/analysis.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	req, err := bindRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	ctx = observe.WithRequestID(ctx, c.GetString(requestIDKey))

	result, err := h.svc.Analyze(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Test handles GET /api/analysis/test.
func (h *AnalysisHandler) Test(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}

// Industries handles GET /api/analysis/industries.
func (h *AnalysisHandler) Industries(c *gin.Context) {
	c.JSON(http.StatusOK, service.SupportedIndustries)
}

// Metrics handles GET /metrics.
func (h *AnalysisHandler) Metrics(c *gin.Context) {
	c.String(http.StatusOK, h.svc.Metrics().Format())
}

func (h *AnalysisHandler) fail(c *gin.Context, err error) {
	kind, result := service.ErrorResult(err)

	status := http.StatusInternalServerError
	if kind == service.KindInvalidInput {
		status = http.StatusBadRequest
	}

	c.JSON(status, result)
}

// bindRequest reads either a JSON body or the multipart form.
func bindRequest(c *gin.Context) (req service.Request, err error) {
	if c.ContentType() == gin.MIMEJSON {
		var form analysisForm
		err = c.ShouldBindJSON(&form)
		if err != nil {
			err = &scorer.InvalidInputError{Reason: "Invalid request body: " + err.Error()}
			return req, err
		}
		req = service.Request{JobDescription: form.JobDescription, CVText: form.CVContent}
		return req, err
	}

	req = service.Request{
		JobDescription: c.PostForm("jobDescription"),
		CVText:         c.PostForm("cvContent"),
	}

	header, err := c.FormFile("cvFile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			err = nil
			return req, err
		}
		err = &scorer.InvalidInputError{Reason: "Invalid multipart request: " + err.Error()}
		return req, err
	}

	req.CVFile, err = readUpload(header)
	return req, err
}

func readUpload(header *multipart.FileHeader) (file *service.File, err error) {
	if header.Size > MaxUploadBytes {
		err = &scorer.InvalidInputError{Reason: fmt.Sprintf("CV file exceeds the %d MB limit", MaxUploadBytes>>20)}
		return file, err
	}

	f, err := header.Open()
	if err != nil {
		err = errors.Wrapf(err, "failed opening upload %s", header.Filename)
		return file, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		err = errors.Wrapf(err, "failed reading upload %s", header.Filename)
		return file, err
	}
	if len(data) > MaxUploadBytes {
		err = &scorer.InvalidInputError{Reason: fmt.Sprintf("CV file exceeds the %d MB limit", MaxUploadBytes>>20)}
		return file, err
	}

	file = &service.File{Name: strings.TrimSpace(header.Filename), Data: data}
	return file, err
}
