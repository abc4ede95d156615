// Package jd loads job descriptions from files or web pages.
package jd

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/document"
)

// MaxBodyBytes caps how much of a job posting page is read.
const MaxBodyBytes = 5 << 20

// Fetch retrieves job description from file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves job description with context.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	// Check if input is a URL
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads a job description from disk. PDF and Word files are
// converted to text, anything else is read as-is.
func fetchFromFile(path string) (content string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".doc":
		content, err = document.NewExtractor().ExtractFile(path)
		if err != nil {
			return content, err
		}
	default:
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read file: %s", path)
			return content, err
		}
		content = string(data)
	}

	if strings.TrimSpace(content) == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves a job posting and converts HTML pages to text.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "ats-match/1.0")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var bodyBytes []byte
	bodyBytes, err = io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	content = string(bodyBytes)
	if isHTML(resp.Header.Get("Content-Type"), content) {
		content, err = htmlToText(content)
		if err != nil {
			return content, err
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

func isHTML(contentType string, body string) (html bool) {
	mediaType, _, parseErr := mime.ParseMediaType(contentType)
	if parseErr == nil && mediaType != "" {
		html = mediaType == "text/html" || mediaType == "application/xhtml+xml"
		return html
	}

	prefix := strings.ToLower(strings.TrimSpace(body))
	html = strings.HasPrefix(prefix, "<!doctype html") || strings.HasPrefix(prefix, "<html")
	return html
}

// htmlToText renders the page as markdown, which drops scripts, styles and
// markup while keeping headings and list items on their own lines.
func htmlToText(html string) (text string, err error) {
	text, err = htmltomarkdown.ConvertString(html)
	if err != nil {
		err = errors.Wrap(err, "failed to convert HTML")
		return text, err
	}
	return text, err
}
