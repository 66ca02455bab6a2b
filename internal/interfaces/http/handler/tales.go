// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/infrastructure/llm"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/internal/writing"
	"gamertales-api/pkg/logger"
)

// maxGamerCardPhotoBytes 玩家卡片照片大小上限
const maxGamerCardPhotoBytes = 8 << 20

// defaultGamerCardPrompt 未提供自定义提示词时的默认卡片风格
const defaultGamerCardPrompt = "Transform the person in this photo into an epic fantasy game character portrait. " +
	"Render them as a heroic adventurer in a stylized game-art style with dramatic lighting, " +
	"ornate armor or attire fitting a legendary storyteller, and a mystical background. " +
	"Keep the person's face recognizable. Return only the image."

// TaleGenerator 短篇与玩家卡片生成能力
// llm.Client 天然满足
type TaleGenerator interface {
	GenerateShortTale(ctx context.Context, fullStory string, taleType llm.TaleType) (string, error)
	GenerateGamerCard(ctx context.Context, imageData []byte, mimeType, prompt string) ([]byte, string, error)
}

// TaleHandler 故事分享处理器
type TaleHandler struct {
	chapterRepo repository.ChapterRepository
	generator   TaleGenerator
}

// NewTaleHandler 创建故事分享处理器
func NewTaleHandler(chapterRepo repository.ChapterRepository, generator TaleGenerator) *TaleHandler {
	return &TaleHandler{
		chapterRepo: chapterRepo,
		generator:   generator,
	}
}

// GenerateTale 生成可分享的故事短篇
//
// 把用户的全部章节按顺序拼成完整故事交给模型摘要。
func (h *TaleHandler) GenerateTale(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var req dto.GenerateTaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapters, err := h.chapterRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list chapters for tale", err)
		dto.InternalError(c, "failed to generate tale")
		return
	}

	var b strings.Builder
	for _, ch := range chapters {
		text := writing.ToPlainText(ch.Content)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "Chapter: %s\n\n%s\n\n", ch.Name, text)
	}
	fullStory := strings.TrimSpace(b.String())
	if fullStory == "" {
		dto.BadRequest(c, "your story is still empty, write something first")
		return
	}

	tale, err := h.generator.GenerateShortTale(ctx, fullStory, llm.TaleType(req.Type))
	if err != nil {
		logger.Error(ctx, "failed to generate tale", err, "tale_type", req.Type)
		respondError(c, err)
		return
	}

	dto.Success(c, &dto.TaleResponse{
		Type: req.Type,
		Text: tale,
	})
}

// GenerateGamerCard 基于用户上传的照片生成风格化玩家卡片
func (h *TaleHandler) GenerateGamerCard(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		dto.BadRequest(c, "photo file is required")
		return
	}
	if fileHeader.Size > maxGamerCardPhotoBytes {
		dto.BadRequest(c, "photo is too large (max 8 MB)")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		dto.BadRequest(c, "photo must be an image")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error(ctx, "failed to open uploaded photo", err)
		dto.InternalError(c, "failed to read photo")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxGamerCardPhotoBytes))
	if err != nil {
		logger.Error(ctx, "failed to read uploaded photo", err)
		dto.InternalError(c, "failed to read photo")
		return
	}

	prompt := c.PostForm("prompt")
	if prompt == "" {
		prompt = defaultGamerCardPrompt
	}

	cardData, cardMime, err := h.generator.GenerateGamerCard(ctx, imageData, mimeType, prompt)
	if err != nil {
		logger.Error(ctx, "failed to generate gamer card", err)
		respondError(c, err)
		return
	}

	dto.Success(c, &dto.GamerCardResponse{
		Image:    base64.StdEncoding.EncodeToString(cardData),
		MimeType: cardMime,
	})
}
