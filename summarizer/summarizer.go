package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"google.golang.org/genai"

	"portfolio/internal/logger"
)

var ErrNotConfigured = errors.New("summarizer_not_configured")

// ErrTooFewTags 는 중복/공백을 걸러낸 뒤 태그가 MinTags 개보다 적은 응답이다.
var ErrTooFewTags = errors.New("summarizer_too_few_tags")

const (
	MaxExcerptRunes = 500
	MinTags         = 3
	MaxTags         = 7
	// 긴 본문은 앞부분만 보낸다
	maxInputRunes = 20000
)

type Suggestion struct {
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
	Error   *string  `json:"error,omitempty"`
}

const SYSTEM_INSTRUCTION = `
You are an editing assistant for a personal portfolio blog.
Analyze the provided blog post and respond with a JSON object with these keys:

1. excerpt: A short teaser for the post, at most 500 characters, written in the same language as the post.
2. tags: A list of 3-7 short keywords naming the concrete technologies, tools, languages or topics in the post.
   - Use reusable terms (e.g., "Go", "MongoDB", "Kubernetes"), not long phrases.
   - Remove duplicates.
3. error: Optional. If the text is a bot check or otherwise not an article (e.g., "Are you human?"),
   set a short message here and leave excerpt empty and tags empty. Otherwise null.

You MUST NOT wrap the JSON output in a markdown code block. Return ONLY the raw JSON string.
`

// Summarizer 는 Gemini 로 블로그 요약(excerpt)과 태그를 제안한다. 결과를 저장하지는 않는다.
type Summarizer struct {
	client *genai.Client
	model  string
	quota  *Quota
}

func New(ctx context.Context, apiKey, model string) (*Summarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Summarizer{client: client, model: model}, nil
}

// WithQuota 는 Suggest 호출마다 q 에서 한 번씩 예약하게 한다.
func (s *Summarizer) WithQuota(q *Quota) *Summarizer {
	s.quota = q
	return s
}

func (s *Summarizer) Suggest(ctx context.Context, text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty content")
	}
	if utf8.RuneCountInString(text) > maxInputRunes {
		text = string([]rune(text)[:maxInputRunes])
	}
	if s.quota != nil {
		if err := s.quota.Reserve(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	result, err := s.client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, err
	}

	fields := logger.Fields{
		"model":      s.model,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		fields["input_tokens"] = result.UsageMetadata.PromptTokenCount
		fields["output_tokens"] = result.UsageMetadata.CandidatesTokenCount
	}
	logger.DebugWithFields("summarizer response", fields)

	return ParseSuggestion(result.Text())
}

// ParseSuggestion 은 모델 응답을 해석하고 excerpt 길이와 태그 개수를 제한한다.
// 모델이 코드 블록으로 감싸서 돌려주는 경우도 받아준다.
func ParseSuggestion(raw string) (*Suggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var s Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &s); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	if s.Error != nil && *s.Error != "" {
		return &s, fmt.Errorf("content is not summarizable: %s", *s.Error)
	}

	s.Excerpt = strings.TrimSpace(s.Excerpt)
	if utf8.RuneCountInString(s.Excerpt) > MaxExcerptRunes {
		s.Excerpt = string([]rune(s.Excerpt)[:MaxExcerptRunes])
	}
	s.Tags = normalizeTags(s.Tags)
	if len(s.Tags) < MinTags {
		return &s, fmt.Errorf("%w: got %d, want at least %d", ErrTooFewTags, len(s.Tags), MinTags)
	}
	return &s, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}
