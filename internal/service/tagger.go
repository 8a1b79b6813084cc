package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/matthewyanek/pdf-classroom-manager/internal/config"
	"github.com/matthewyanek/pdf-classroom-manager/internal/domain"
)

// Tagger text limits. Classification works fine on an excerpt, and a
// whole PDF would blow the prompt budget for nothing.
const (
	taggerMaxPages = 5
	taggerMaxChars = 4000
	taggerMaxTags  = 5
)

// GenerateTagsRequest asks for tag suggestions, either for a stored PDF
// or for caller-provided text. Exactly one of PDFID/Text must be set.
type GenerateTagsRequest struct {
	PDFID *int64 `json:"pdf_id,omitempty"`
	Text  string `json:"text,omitempty"`
}

// TaggerService suggests tags for a document. Suggestions are
// candidates only; callers apply them through the normal retag path.
type TaggerService interface {
	Generate(ctx context.Context, req *GenerateTagsRequest) ([]string, error)
}

type taggerService struct {
	client    anthropic.Client
	model     string
	labels    []string
	pdfs      PDFService
	files     *FileStore
	inspector *PDFInspector
	logger    *slog.Logger
}

// NewTaggerService creates the auto-tagger. Returns an error when no
// API key is configured so the server can disable the endpoint.
func NewTaggerService(
	cfg *config.Config,
	settings *config.Settings,
	pdfs PDFService,
	files *FileStore,
	inspector *PDFInspector,
	logger *slog.Logger,
) (TaggerService, error) {
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	return &taggerService{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:     cfg.TaggerModel,
		labels:    settings.TagLabels,
		pdfs:      pdfs,
		files:     files,
		inspector: inspector,
		logger:    logger,
	}, nil
}

func (s *taggerService) Generate(ctx context.Context, req *GenerateTagsRequest) ([]string, error) {
	text := strings.TrimSpace(req.Text)

	if req.PDFID != nil {
		pdf, err := s.pdfs.Get(ctx, *req.PDFID)
		if err != nil {
			return nil, err
		}
		text, err = s.inspector.ExtractText(s.files.Path(pdf.StoredName), taggerMaxPages, taggerMaxChars)
		if err != nil {
			return nil, fmt.Errorf("extract text from pdf %d: %w", pdf.ID, err)
		}
		// Filenames carry signal too ("Algebra_Quiz_3.pdf")
		text = pdf.Filename + "\n" + text
	}

	if text == "" {
		return nil, fmt.Errorf("%w: text content is required", domain.ErrValidation)
	}
	if len(text) > taggerMaxChars {
		text = text[:taggerMaxChars]
	}

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{{
			Type: "text",
			Text: s.systemPrompt(),
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tag generation failed: %w", err)
	}

	var reply strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	tags := s.parseTags(reply.String())
	s.logger.Debug("tags generated", "count", len(tags), "tags", tags)
	return tags, nil
}

func (s *taggerService) systemPrompt() string {
	return fmt.Sprintf(
		"You classify classroom documents. Given document text, pick the most "+
			"fitting labels from this list and nothing else: %s. "+
			"Reply with a JSON array of at most %d labels, best match first.",
		strings.Join(s.labels, ", "), taggerMaxTags)
}

// parseTags reads the model reply as a JSON array, falling back to
// comma-splitting, and keeps only configured labels.
func (s *taggerService) parseTags(reply string) []string {
	reply = strings.TrimSpace(reply)

	var candidates []string
	if start := strings.Index(reply, "["); start >= 0 {
		if end := strings.LastIndex(reply, "]"); end > start {
			if err := json.Unmarshal([]byte(reply[start:end+1]), &candidates); err != nil {
				candidates = nil
			}
		}
	}
	if candidates == nil {
		candidates = strings.Split(reply, ",")
	}

	allowed := make(map[string]string, len(s.labels))
	for _, l := range s.labels {
		allowed[strings.ToLower(l)] = l
	}

	tags := []string{}
	for _, c := range candidates {
		c = strings.ToLower(strings.Trim(strings.TrimSpace(c), `"`))
		if label, ok := allowed[c]; ok && len(tags) < taggerMaxTags {
			tags = append(tags, label)
		}
	}
	return tags
}
