package dto

import (
	"time"

	"mention-radar/models"
)

// SavedSearchRequestDTO creates or updates a saved search.
type SavedSearchRequestDTO struct {
	Owner            string   `json:"owner" example:"acme-brand-team"`
	Query            string   `json:"query" example:"acme recall"`
	Sources          []string `json:"sources" example:"x,reddit"`
	TimeFilter       string   `json:"timeFilter" example:"24h"`
	Language         string   `json:"language,omitempty" example:"en"`
	Sort             string   `json:"sort,omitempty" example:"recent"`
	AlertEnabled     bool     `json:"alertEnabled"`
	AlertMinMentions int      `json:"alertMinMentions" example:"50"`
}

// SavedSearchDTO exposes a saved search with its id as a hex string.
type SavedSearchDTO struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Owner            string    `json:"owner"`
	Query            string    `json:"query"`
	Sources          []string  `json:"sources"`
	TimeFilter       string    `json:"timeFilter"`
	Language         string    `json:"language,omitempty"`
	Sort             string    `json:"sort"`
	AlertEnabled     bool      `json:"alertEnabled"`
	AlertMinMentions int       `json:"alertMinMentions"`
	LastRunAt        time.Time `json:"lastRunAt,omitempty"`
	LastTotal        int       `json:"lastTotal"`
}

func MapSavedSearch(s *models.SavedSearch) SavedSearchDTO {
	return SavedSearchDTO{
		ID:               s.ID.Hex(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Owner:            s.Owner,
		Query:            s.Query,
		Sources:          s.Sources,
		TimeFilter:       s.TimeFilter,
		Language:         s.Language,
		Sort:             s.Sort,
		AlertEnabled:     s.AlertEnabled,
		AlertMinMentions: s.AlertMinMentions,
		LastRunAt:        s.LastRunAt,
		LastTotal:        s.LastTotal,
	}
}

// AlertDTO exposes a fired alert.
type AlertDTO struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	SavedSearchID string    `json:"savedSearchId"`
	Owner         string    `json:"owner"`
	Query         string    `json:"query"`
	TotalPosts    int       `json:"totalPosts"`
	Message       string    `json:"message"`
}

func MapAlert(a *models.Alert) AlertDTO {
	return AlertDTO{
		ID:            a.ID.Hex(),
		CreatedAt:     a.CreatedAt,
		SavedSearchID: a.SavedSearchID.Hex(),
		Owner:         a.Owner,
		Query:         a.Query,
		TotalPosts:    a.TotalPosts,
		Message:       a.Message,
	}
}
