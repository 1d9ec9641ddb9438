package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	openapicomparator "github.com/criteo/openapi-comparator"
)

// isURL reports whether specPath names an http(s) document.
func isURL(specPath string) bool {
	return strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://")
}

// formatFromName maps a file or URL path extension to a source format.
func formatFromName(name string) SourceFormat {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// formatFromContentType maps a response media type to a source format.
func formatFromContentType(contentType string) SourceFormat {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return SourceFormatUnknown
	}
	switch mediaType {
	case "application/json":
		return SourceFormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// sniffFormat guesses the format from the first significant byte: JSON
// documents open with an object or an array, anything else is YAML.
func sniffFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case len(trimmed) == 0:
		return SourceFormatUnknown
	case trimmed[0] == '{' || trimmed[0] == '[':
		return SourceFormatJSON
	default:
		return SourceFormatYAML
	}
}

// readSource loads specPath from disk or over HTTP. The returned format is
// SourceFormatUnknown when neither the name nor the response says.
func (p *Parser) readSource(specPath string) ([]byte, SourceFormat, error) {
	if !isURL(specPath) {
		data, err := os.ReadFile(specPath) //nolint:gosec // path is user-provided input (CLI)
		return data, formatFromName(specPath), err
	}

	data, contentType, err := p.fetch(specPath)
	if err != nil {
		return nil, SourceFormatUnknown, err
	}
	format := SourceFormatUnknown
	if u, perr := url.Parse(specPath); perr == nil {
		format = formatFromName(u.Path)
	}
	if format == SourceFormatUnknown {
		format = formatFromContentType(contentType)
	}
	return data, format, nil
}

// fetch GETs rawURL and returns the body with its Content-Type.
func (p *Parser) fetch(rawURL string) ([]byte, string, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: p.timeout()}
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("parser: failed to create request: %w", err)
	}
	ua := p.UserAgent
	if ua == "" {
		ua = openapicomparator.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	p.log().Debug("fetching document", "url", rawURL)
	resp, err := client.Do(req) //nolint:gosec // URL is user-provided input (CLI)
	if err != nil {
		return nil, "", fmt.Errorf("parser: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("parser: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("parser: failed to read response body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (p *Parser) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return defaultTimeout
}
