// Package llm 提供 Gemini 模型调用实现
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"

	"gamertales-api/internal/config"
	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/suggestion"
	apperrors "gamertales-api/pkg/errors"
	"gamertales-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// TaleType 短篇类型
type TaleType string

const (
	TaleTeaser  TaleType = "teaser"
	TaleMini    TaleType = "mini"
	TaleSummary TaleType = "summary"
)

// ValidTaleType 校验短篇类型
func ValidTaleType(t string) bool {
	switch TaleType(t) {
	case TaleTeaser, TaleMini, TaleSummary:
		return true
	}
	return false
}

// Client Gemini 客户端
//
// 同时充当续写建议、短篇生成和玩家卡片图像生成的提供方。
type Client struct {
	genai *genai.Client
	cfg   *config.GeminiConfig
}

// NewClient 创建 Gemini 客户端
func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		genai: client,
		cfg:   cfg,
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.genai.Close()
}

// suggestionsPayload 建议响应的 JSON 结构
type suggestionsPayload struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest 实现 suggestion.Provider
//
// 用 JSON response schema 约束模型输出 {"suggestions": [...]}，
// 畸形响应和空结果都作为错误返回，由循环控制器统一走失败路径。
func (c *Client) Suggest(ctx context.Context, req suggestion.Request) ([]string, error) {
	ctx, span := tracer.Start(ctx, "llm.Suggest",
		trace.WithAttributes(attribute.String("llm.model", c.cfg.TextModel)))
	defer span.End()

	model := c.genai.GenerativeModel(c.cfg.TextModel)
	model.SetTemperature(c.cfg.Temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"suggestions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"suggestions"},
	}

	prompt := buildSuggestionPrompt(req.Content, req.Profile)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	c.observe("suggestion", c.cfg.TextModel, start, err)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrProviderUnavailable.WithError(err)
	}

	text := responseText(resp)
	var payload suggestionsPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrProviderInvalidResponse.WithError(err)
	}
	if len(payload.Suggestions) == 0 {
		return nil, apperrors.ErrProviderInvalidResponse
	}

	return payload.Suggestions, nil
}

// GenerateShortTale 生成指定长度档位的故事短篇
func (c *Client) GenerateShortTale(ctx context.Context, fullStory string, taleType TaleType) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.GenerateShortTale",
		trace.WithAttributes(
			attribute.String("llm.model", c.cfg.TextModel),
			attribute.String("tale.type", string(taleType)),
		))
	defer span.End()

	model := c.genai.GenerativeModel(c.cfg.TextModel)
	model.SetTemperature(c.cfg.Temperature)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(buildTalePrompt(fullStory, taleType)))
	c.observe("tale", c.cfg.TextModel, start, err)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.ErrProviderUnavailable.WithError(err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", apperrors.ErrProviderInvalidResponse
	}
	return text, nil
}

// GenerateGamerCard 基于用户照片生成风格化玩家卡片图像
//
// 模型可能拒绝返回图像，此时按提供方错误处理。
func (c *Client) GenerateGamerCard(ctx context.Context, imageData []byte, mimeType, prompt string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "llm.GenerateGamerCard",
		trace.WithAttributes(attribute.String("llm.model", c.cfg.ImageModel)))
	defer span.End()

	model := c.genai.GenerativeModel(c.cfg.ImageModel)

	start := time.Now()
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: imageData},
		genai.Text(prompt),
	)
	c.observe("gamer_card", c.cfg.ImageModel, start, err)
	if err != nil {
		span.RecordError(err)
		return nil, "", apperrors.ErrProviderUnavailable.WithError(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return blob.Data, blob.MIMEType, nil
			}
		}
	}

	return nil, "", apperrors.ErrProviderInvalidResponse
}

// observe 记录 LLM 调用指标
func (c *Client) observe(kind, model string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallDuration.WithLabelValues(model, kind).Observe(time.Since(start).Seconds())
	metrics.LLMCallTotal.WithLabelValues(model, kind, status).Inc()
}

// responseText 拼接响应中的所有文本部分
func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	return b.String()
}

// orDefault 空字段用占位符
func orDefault(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

// buildSuggestionPrompt 构造续写建议提示词
func buildSuggestionPrompt(content string, profile *entity.GamerProfile) string {
	p := profile
	if p == nil {
		p = &entity.GamerProfile{}
	}

	return fmt.Sprintf(`You are a master storyteller and game narrative designer. Your role is to assist a gamer in writing a compelling story by providing two distinct, creative continuations for their last sentence. The suggestions should feel like a natural progression of their narrative, fitting their established style, tone, and world.

The user's story so far:
---
%s
---

Key Information about the story's context:
- Character Name: %s
- Character Class/Role: %s
- Character Trait: %s
- Favorite Genres: %s
- Desired Story Tone: %s
- Game World / Setting: %s

Follow these rules STRICTLY for each suggestion you generate:
1.  **Seamless Continuation:** Each suggestion must flow naturally from the user's VERY LAST sentence. Match their writing style, vocabulary, and pacing. Do not repeat the last few words of the user's text.
2.  **Advance the Narrative:** Your suggestions should move the story forward. Introduce a new action, a sensory detail, an internal thought, or a piece of dialogue that adds depth and encourages the user to keep writing.
3.  **Maintain Consistency:** The suggestions MUST be consistent with all details provided in the story and the key information.
4.  **Embrace the Genre & Tone:** The suggestions must align with the specified genres and story tone.
5.  **Be Creative & Specific:** Offer tangible, interesting ideas with concrete sensory detail.
6.  **Offer Distinct Choices:** The two suggestions must present genuinely different paths. One could focus on an internal monologue or emotion, while the other focuses on an external action or environmental interaction.
7.  **Length:** Each suggestion must be between 8 and 10 words.
8.  **Output Format:** Return ONLY a JSON object with a single key "suggestions" containing an array of two unique string suggestions. Do not include any other text, explanation, or markdown formatting.`,
		content,
		orDefault(p.CharacterName),
		orDefault(p.CharacterClass),
		orDefault(p.CharacterTrait),
		orDefault(p.FavoriteGenres),
		orDefault(p.StoryTone),
		orDefault(p.GameWorld),
	)
}

// buildTalePrompt 构造短篇生成提示词
func buildTalePrompt(fullStory string, taleType TaleType) string {
	var wordCount, typeDescription string
	switch taleType {
	case TaleTeaser:
		wordCount = "25-50 words"
		typeDescription = "Teaser Tale: A tiny, exciting glimpse to get them hooked! Perfect for a quick text message."
	case TaleMini:
		wordCount = "100-150 words"
		typeDescription = "Mini Tale: A snapshot of the story, introducing the main characters and the beginning of their adventure."
	case TaleSummary:
		wordCount = "250-300 words"
		typeDescription = "Summary Tale: The core adventure from start to finish, hitting all the key moments and highlights."
	}

	return fmt.Sprintf(`You are a master marketer for epic stories. Your task is to summarize the following story into a compelling short version to share with friends and family.

**Story:**
---
%s
---

**Instructions:**
1.  **Summarize the story** into a "%s".
2.  **Word Count:** The summary must be approximately %s.
3.  **Goal:** The summary should be exciting and make the reader want to know what happens next.
4.  **Format:** Return only the text of the summary. Do not include any titles, headers, or introductory phrases like "Here is the summary:". Just the story summary itself.`,
		fullStory, typeDescription, wordCount)
}
