package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-structure/internal/layout"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
)

var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY or GOOGLE_API_KEY")

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

const outlinePrompt = `You are a document outline parser. Return ONLY valid JSON, no code fences and no explanations.

List the headings of this PDF in reading order, using this structure:
{
  "sections": [
    {"title": "Introduction", "depth": 1, "start_page": 1}
  ]
}

RULES:
- title: heading text exactly as printed, without its number
- depth: 1 for top-level headings, 2 for their subsections, 3 for anything deeper
- start_page: 1-based page where the heading appears
- only consider pages 1 to `

// ExtractOutline sends the PDF to Gemini and parses the returned headings.
func (g *Gemini) ExtractOutline(ctx context.Context, pdfPath string, maxPages int) ([]layout.OutlineEntry, error) {
	b, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, err
	}
	content := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: outlinePrompt + strconv.Itoa(maxPages)},
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: b}},
			},
		},
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, content, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	js := res.Text()
	logging.Logger().Debug("gemini response", slog.String("model", g.model), slog.Int("bytes", len(js)))

	out, err := parseOutline(js)
	if err != nil {
		return nil, err
	}
	return out.Entries(), nil
}

// parseOutline accepts the bare JSON object, a fenced one or one embedded
// in prose.
func parseOutline(js string) (StructuredOutline, error) {
	var out StructuredOutline
	js = stripCodeFences(js)
	err := json.Unmarshal([]byte(js), &out)
	if err == nil {
		return out, nil
	}
	s := findFirstJSON(js)
	if s == "" {
		return out, fmt.Errorf("no JSON object in gemini response: %w", err)
	}
	if err2 := json.Unmarshal([]byte(s), &out); err2 != nil {
		return out, fmt.Errorf("failed to parse gemini response: %w (original error: %v)", err2, err)
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// findFirstJSON returns the first balanced {...} block. Braces inside
// strings are not special-cased.
func findFirstJSON(s string) string {
	start, depth := -1, 0
	for i, r := range s {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
