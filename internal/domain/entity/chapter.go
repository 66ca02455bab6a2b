// Package entity 定义领域实体
package entity

import (
	"time"
)

// FirstChapterName 新用户自动创建的第一章名称
const FirstChapterName = "The Adventure Begins"

// Chapter 章节实体
type Chapter struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	WordCount int       `json:"word_count" gorm:"default:0"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}

// NewChapter 创建新章节
func NewChapter(userID, name string, sortOrder int) *Chapter {
	now := time.Now()
	return &Chapter{
		UserID:    userID,
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFirstChapter 为新用户创建第一章
func NewFirstChapter(userID string) *Chapter {
	return NewChapter(userID, FirstChapterName, 0)
}

// SetContent 设置章节内容及服务端重算的字数
func (c *Chapter) SetContent(content string, wordCount int) {
	c.Content = content
	c.WordCount = wordCount
	c.UpdatedAt = time.Now()
}

// Rename 重命名章节
func (c *Chapter) Rename(name string) {
	c.Name = name
	c.UpdatedAt = time.Now()
}
