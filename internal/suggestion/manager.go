package suggestion

import (
	"sync"
	"time"

	"gamertales-api/internal/highlight"
)

// Manager 会话注册表
//
// 每个用户同时只有一个活跃会话；切换章节会关闭旧会话
// （所有待执行定时器随之取消）。空闲超过 TTL 的会话在
// 后续访问时惰性回收。
type Manager struct {
	opts       Options
	hcfg       highlight.Config
	sessionTTL time.Duration
	provider   Provider
	notifier   ErrorNotifier
	profiles   ProfileSource

	mu       sync.Mutex
	sessions map[string]*Session // userID -> session
}

// NewManager 创建会话注册表
func NewManager(opts Options, hcfg highlight.Config, sessionTTL time.Duration, provider Provider, notifier ErrorNotifier, profiles ProfileSource) *Manager {
	return &Manager{
		opts:       opts,
		hcfg:       hcfg,
		sessionTTL: sessionTTL,
		provider:   provider,
		notifier:   notifier,
		profiles:   profiles,
		sessions:   make(map[string]*Session),
	}
}

// Session 返回用户在指定章节上的会话，必要时创建
//
// content 只在新建会话时作为 tracker 基线使用。
func (m *Manager) Session(userID, chapterID, content string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	if s, ok := m.sessions[userID]; ok {
		if s.ChapterID() == chapterID {
			return s
		}
		// 章节切换：拆除旧会话
		s.Close()
	}

	s := NewSession(userID, chapterID, content, m.opts, m.hcfg, m.provider, m.notifier, m.profiles)
	m.sessions[userID] = s
	return s
}

// Peek 返回用户的活跃会话，不创建
func (m *Manager) Peek(userID, chapterID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || s.ChapterID() != chapterID {
		return nil, false
	}
	return s, true
}

// Close 关闭并移除用户的会话（登出时调用）
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		s.Close()
		delete(m.sessions, userID)
	}
}

// CloseAll 关闭所有会话（服务停机时调用）
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}

// sweepLocked 回收空闲超时的会话，调用方必须持有 m.mu
func (m *Manager) sweepLocked() {
	if m.sessionTTL <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.sessionTTL)
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			s.Close()
			delete(m.sessions, id)
		}
	}
}
