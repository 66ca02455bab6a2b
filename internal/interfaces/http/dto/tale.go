// Package dto 提供 HTTP 层数据传输对象
package dto

// GenerateTaleRequest 生成故事短篇请求
type GenerateTaleRequest struct {
	// Type 短篇档位：teaser / mini / summary
	Type string `json:"type" binding:"required,oneof=teaser mini summary"`
}

// TaleResponse 故事短篇响应
type TaleResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// GamerCardResponse 玩家卡片图像响应
type GamerCardResponse struct {
	// Image Base64 编码的图像数据
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
}
