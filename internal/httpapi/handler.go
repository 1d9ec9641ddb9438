package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/criteo/openapi-comparator/comparator"
	"github.com/criteo/openapi-comparator/parser"
)

type handler struct {
	opts   Options
	logger *slog.Logger
}

// CompareRequest is the body of POST /v1/compare. Old and New hold the
// document sources as JSON or YAML text.
type CompareRequest struct {
	Old    string `json:"old"`
	New    string `json:"new"`
	Strict *bool  `json:"strict,omitempty"`
}

// RuleResponse describes one catalog entry.
type RuleResponse struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	DocURL   string `json:"docUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) handleRules(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	kind := r.URL.Query().Get("kind")

	rules := make([]RuleResponse, 0)
	for _, rule := range comparator.Rules() {
		if code != "" && rule.Code != code {
			continue
		}
		if kind != "" && !strings.EqualFold(rule.Kind.String(), kind) {
			continue
		}
		rules = append(rules, RuleResponse{
			ID:       rule.ID,
			Code:     rule.Code,
			Kind:     rule.Kind.String(),
			Severity: rule.Severity.String(),
			Message:  rule.Template,
			DocURL:   rule.DocURL(),
		})
	}
	if code != "" && len(rules) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown rule code %q", code))
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodySize)

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Old) == "" || strings.TrimSpace(req.New) == "" {
		writeError(w, http.StatusBadRequest, "both old and new documents are required")
		return
	}

	logger := parser.NewSlogAdapter(h.logger)
	old, err := h.parse("old", req.Old, logger)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "old document: "+err.Error())
		return
	}
	new, err := h.parse("new", req.New, logger)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "new document: "+err.Error())
		return
	}

	strict := h.opts.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}
	c := comparator.New()
	c.Strict = strict
	c.Logger = logger

	result, err := c.CompareParsed(*old, *new)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) parse(name, source string, logger parser.Logger) (*parser.ParseResult, error) {
	return parser.ParseWithOptions(
		parser.WithBytes([]byte(source)),
		parser.WithSourceName(name),
		parser.WithValidateStructure(h.opts.Validate),
		parser.WithLogger(logger),
	)
}
