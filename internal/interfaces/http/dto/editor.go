// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"gamertales-api/internal/highlight"
	"gamertales-api/internal/suggestion"
)

// EditorEventRequest 编辑器内容变更事件
type EditorEventRequest struct {
	// Content 章节当前的完整富文本内容
	Content string `json:"content"`
}

// EditorEventResponse 事件处理结果
type EditorEventResponse struct {
	WordCount int                 `json:"word_count"`
	Cycle     *CycleStateResponse `json:"cycle"`
}

// HighlightResponse 高亮动画排程
//
// 时长字段统一以毫秒表示。
type HighlightResponse struct {
	Text           string    `json:"text"`
	TextBefore     string    `json:"text_before"`
	CharStaggerMs  int64     `json:"char_stagger_ms"`
	CharDurationMs int64     `json:"char_duration_ms"`
	TotalMs        int64     `json:"total_ms"`
	StartedAt      time.Time `json:"started_at"`
}

// CycleStateResponse 建议循环状态
type CycleStateResponse struct {
	Phase      string             `json:"phase"`
	CycleWords int                `json:"cycle_words"`
	Candidates []string           `json:"candidates,omitempty"`
	Locked     bool               `json:"locked"`
	Highlight  *HighlightResponse `json:"highlight,omitempty"`
}

// AcceptSuggestionRequest 采纳候选请求
type AcceptSuggestionRequest struct {
	// Choice 候选序号，从 1 开始
	Choice int `json:"choice" binding:"required,min=1"`
}

// AcceptSuggestionResponse 采纳候选结果
type AcceptSuggestionResponse struct {
	Content   string              `json:"content"`
	WordCount int                 `json:"word_count"`
	Highlight *HighlightResponse  `json:"highlight"`
	Cycle     *CycleStateResponse `json:"cycle"`
}

// ToHighlightResponse 将高亮排程转换为响应 DTO
func ToHighlightResponse(seq *highlight.Sequence) *HighlightResponse {
	if seq == nil {
		return nil
	}
	return &HighlightResponse{
		Text:           seq.Text,
		TextBefore:     seq.TextBefore,
		CharStaggerMs:  seq.CharStagger.Milliseconds(),
		CharDurationMs: seq.CharDuration.Milliseconds(),
		TotalMs:        seq.Total.Milliseconds(),
		StartedAt:      seq.StartedAt,
	}
}

// ToCycleStateResponse 将循环状态快照转换为响应 DTO
func ToCycleStateResponse(st suggestion.State) *CycleStateResponse {
	return &CycleStateResponse{
		Phase:      string(st.Phase),
		CycleWords: st.CycleWords,
		Candidates: st.Candidates,
		Locked:     st.Locked,
		Highlight:  ToHighlightResponse(st.Highlight),
	}
}
