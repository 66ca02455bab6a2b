// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/internal/suggestion"
	"gamertales-api/internal/writing"
	"gamertales-api/pkg/debounce"
	apperrors "gamertales-api/pkg/errors"
	"gamertales-api/pkg/logger"
)

// EditorHandler 编辑器事件与建议循环处理器
//
// 章节内容在静默窗口后落库，落库完成才通知游戏化调度器，
// 保证重算读到的总字数是最新的。
type EditorHandler struct {
	chapterRepo     repository.ChapterRepository
	sessions        *suggestion.Manager
	scheduler       *gamification.Scheduler
	cache           StatsInvalidator
	contentDebounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave // chapterID -> 最新待写入内容
}

type pendingSave struct {
	timer     *debounce.Debouncer
	userID    string
	content   string
	wordCount int
}

// NewEditorHandler 创建编辑器处理器
func NewEditorHandler(
	chapterRepo repository.ChapterRepository,
	sessions *suggestion.Manager,
	scheduler *gamification.Scheduler,
	cache StatsInvalidator,
	contentDebounce time.Duration,
) *EditorHandler {
	if contentDebounce <= 0 {
		contentDebounce = time.Second
	}
	return &EditorHandler{
		chapterRepo:     chapterRepo,
		sessions:        sessions,
		scheduler:       scheduler,
		cache:           cache,
		contentDebounce: contentDebounce,
		pending:         make(map[string]*pendingSave),
	}
}

// Events 处理编辑器内容变更事件
//
// 返回服务端重算的字数和最新的循环状态。锁定期内的事件
// 只更新内容镜像，不参与触发判定。
func (h *EditorHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	chapterID := c.Param("cid")

	var req dto.EditorEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := loadOwnedChapter(ctx, h.chapterRepo, userID, chapterID)
	if err != nil {
		respondError(c, err)
		return
	}

	session := h.sessions.Session(userID, chapter.ID, chapter.Content)
	state := session.ContentChanged(req.Content)

	wordCount := writing.CountContentWords(req.Content)
	h.scheduleSave(userID, chapter.ID, req.Content, wordCount)

	dto.Success(c, &dto.EditorEventResponse{
		WordCount: wordCount,
		Cycle:     dto.ToCycleStateResponse(state),
	})
}

// CycleState 轮询建议循环状态
func (h *EditorHandler) CycleState(c *gin.Context) {
	userID := currentUserID(c)
	chapterID := c.Param("cid")

	session, ok := h.sessions.Peek(userID, chapterID)
	if !ok {
		dto.Success(c, dto.ToCycleStateResponse(suggestion.State{Phase: suggestion.PhaseIdle}))
		return
	}

	dto.Success(c, dto.ToCycleStateResponse(session.State()))
}

// Accept 采纳候选
//
// 候选追加到章节内容并立即落库，随后触发游戏化重算。
func (h *EditorHandler) Accept(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	chapterID := c.Param("cid")

	var req dto.AcceptSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	session, ok := h.sessions.Peek(userID, chapterID)
	if !ok {
		respondError(c, apperrors.ErrNoCyclePresenting)
		return
	}

	newContent, seq, err := session.Accept(req.Choice)
	if err != nil {
		respondError(c, err)
		return
	}

	// 采纳结果立即落库，作废同章的待写入快照
	h.cancelPending(chapterID)
	wordCount := writing.CountContentWords(newContent)
	if err := h.chapterRepo.UpdateContent(ctx, chapterID, newContent, wordCount); err != nil {
		logger.Error(ctx, "failed to persist accepted suggestion", err, "chapter_id", chapterID)
		dto.InternalError(c, "failed to save chapter content")
		return
	}

	h.scheduler.WordsChanged(userID)
	if err := h.cache.InvalidateStats(ctx, userID); err != nil {
		logger.Warn(ctx, "failed to invalidate stats cache", "error", err.Error())
	}

	dto.Success(c, &dto.AcceptSuggestionResponse{
		Content:   newContent,
		WordCount: wordCount,
		Highlight: dto.ToHighlightResponse(seq),
		Cycle:     dto.ToCycleStateResponse(session.State()),
	})
}

// Skip 跳过本轮候选
func (h *EditorHandler) Skip(c *gin.Context) {
	userID := currentUserID(c)
	chapterID := c.Param("cid")

	session, ok := h.sessions.Peek(userID, chapterID)
	if !ok {
		respondError(c, apperrors.ErrNoCyclePresenting)
		return
	}

	if err := session.Skip(); err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ToCycleStateResponse(session.State()))
}

// scheduleSave 防抖安排章节内容落库，后续事件覆盖待写入快照
func (h *EditorHandler) scheduleSave(userID, chapterID, content string, wordCount int) {
	h.mu.Lock()
	p, ok := h.pending[chapterID]
	if !ok {
		p = &pendingSave{timer: debounce.New()}
		h.pending[chapterID] = p
	}
	p.userID = userID
	p.content = content
	p.wordCount = wordCount
	timer := p.timer
	h.mu.Unlock()

	timer.Schedule(h.contentDebounce, func() {
		h.saveNow(chapterID)
	})
}

// saveNow 立即写入待落库的章节内容
func (h *EditorHandler) saveNow(chapterID string) {
	h.mu.Lock()
	p, ok := h.pending[chapterID]
	if !ok {
		h.mu.Unlock()
		return
	}
	userID, content, wordCount := p.userID, p.content, p.wordCount
	delete(h.pending, chapterID)
	h.mu.Unlock()

	ctx := logger.WithContext(context.Background(), logger.UserIDKey, userID)
	ctx = logger.WithContext(ctx, logger.ChapterIDKey, chapterID)

	if err := h.chapterRepo.UpdateContent(ctx, chapterID, content, wordCount); err != nil {
		logger.Error(ctx, "failed to autosave chapter content", err)
		return
	}

	// 内容落库后再通知调度器，重算读到的才是最新字数
	h.scheduler.WordsChanged(userID)
	if err := h.cache.InvalidateStats(ctx, userID); err != nil {
		logger.Warn(ctx, "failed to invalidate stats cache", "error", err.Error())
	}
}

// cancelPending 作废指定章节的待写入快照
func (h *EditorHandler) cancelPending(chapterID string) {
	h.mu.Lock()
	p, ok := h.pending[chapterID]
	if ok {
		delete(h.pending, chapterID)
	}
	h.mu.Unlock()
	if ok {
		p.timer.Cancel()
	}
}

// Flush 立即写入所有待落库的内容（停机时调用）
func (h *EditorHandler) Flush() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.pending))
	for id, p := range h.pending {
		p.timer.Cancel()
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.saveNow(id)
	}
}
