package events

import (
	"time"

	"github.com/google/uuid"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	SearchCompleted EventType = "search.completed"
	AlertTriggered  EventType = "alert.triggered"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent 는 공통 필드를 채운 BaseEvent 를 생성한다.
func NewBaseEvent(t EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    "mention-radar",
		Version:   "1.0",
	}
}

// SearchCompletedEvent 검색 집계 완료 이벤트
type SearchCompletedEvent struct {
	BaseEvent
	Query      string   `json:"query"`
	Sources    []string `json:"sources"`
	TotalPosts int      `json:"total_posts"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// AlertTriggeredEvent 저장된 검색의 알림 기준 충족 이벤트
type AlertTriggeredEvent struct {
	BaseEvent
	SavedSearchID primitive.ObjectID `json:"saved_search_id"`
	Owner         string             `json:"owner"`
	Query         string             `json:"query"`
	TotalPosts    int                `json:"total_posts"`
	MinMentions   int                `json:"min_mentions"`
}
