package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mention-radar/aggregator"
	"mention-radar/cmd/api/dto"
	"mention-radar/events"
	"mention-radar/internal/logger"
	"mention-radar/kafka"
	"mention-radar/models"
	"mention-radar/repositories"
	"mention-radar/scoring"
)

// SavedSearchService manages saved searches, re-runs them through the
// aggregation engine and fires alerts when a re-run crosses the threshold.
type SavedSearchService struct {
	searches *repositories.SavedSearchRepository
	alerts   *repositories.AlertRepository
	engine   *aggregator.Engine
	producer kafka.Producer
}

func NewSavedSearchService(
	searches *repositories.SavedSearchRepository,
	alerts *repositories.AlertRepository,
	engine *aggregator.Engine,
	producer kafka.Producer,
) *SavedSearchService {
	if producer == nil {
		producer = kafka.NewNoopProducer()
	}
	return &SavedSearchService{searches: searches, alerts: alerts, engine: engine, producer: producer}
}

func (s *SavedSearchService) Create(ctx context.Context, in dto.SavedSearchRequestDTO) (*dto.SavedSearchDTO, error) {
	m, err := s.toModel(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.searches.Insert(ctx, m); err != nil {
		return nil, err
	}
	out := dto.MapSavedSearch(m)
	return &out, nil
}

func (s *SavedSearchService) GetByID(ctx context.Context, hexID string) (*dto.SavedSearchDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, &aggregator.ValidationError{Msg: "invalid saved search id"}
	}
	m, err := s.searches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.MapSavedSearch(m)
	return &out, nil
}

func (s *SavedSearchService) ListByOwner(ctx context.Context, owner string, limit int64) ([]dto.SavedSearchDTO, error) {
	if owner == "" {
		return nil, &aggregator.ValidationError{Msg: "owner is required"}
	}
	items, err := s.searches.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SavedSearchDTO, 0, len(items))
	for i := range items {
		out = append(out, dto.MapSavedSearch(&items[i]))
	}
	return out, nil
}

func (s *SavedSearchService) Update(ctx context.Context, hexID string, in dto.SavedSearchRequestDTO) (*dto.SavedSearchDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, &aggregator.ValidationError{Msg: "invalid saved search id"}
	}
	m, err := s.toModel(in)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.searches.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, hexID)
}

func (s *SavedSearchService) Delete(ctx context.Context, hexID string) error {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return &aggregator.ValidationError{Msg: "invalid saved search id"}
	}
	return s.searches.Delete(ctx, id)
}

// Run re-executes a saved search through the engine, records the outcome,
// and fires an alert when the alert rule's threshold is reached.
func (s *SavedSearchService) Run(ctx context.Context, hexID string) (*dto.SearchResponseDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, &aggregator.ValidationError{Msg: "invalid saved search id"}
	}
	m, err := s.searches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sort, _ := scoring.ParseMode(m.Sort)
	platforms := make([]models.Platform, 0, len(m.Sources))
	for _, src := range m.Sources {
		platforms = append(platforms, models.Platform(src))
	}
	result, err := s.engine.Search(ctx, aggregator.Request{
		Query:      m.Query,
		Sources:    platforms,
		TimeFilter: aggregator.TimeFilter(m.TimeFilter),
		Language:   m.Language,
		Sort:       sort,
	})
	if err != nil {
		return nil, err
	}

	ranAt := time.Now()
	if err := s.searches.RecordRun(ctx, id, ranAt, result.Summary.TotalPosts); err != nil {
		logger.WarnWithFields("failed to record saved search run", logger.Fields{
			"saved_search_id": hexID,
			"error":           err.Error(),
		})
	}

	if m.AlertEnabled && result.Summary.TotalPosts >= m.AlertMinMentions {
		s.fireAlert(ctx, m, result.Summary.TotalPosts)
	}

	out := dto.MapSearchResponse(result)
	return &out, nil
}

func (s *SavedSearchService) ListAlerts(ctx context.Context, hexID string, limit int64) ([]dto.AlertDTO, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, &aggregator.ValidationError{Msg: "invalid saved search id"}
	}
	items, err := s.alerts.ListBySavedSearch(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertDTO, 0, len(items))
	for i := range items {
		out = append(out, dto.MapAlert(&items[i]))
	}
	return out, nil
}

// fireAlert persists the alert record and publishes alert.triggered.
// 둘 다 best-effort: 실패해도 Run 응답에는 영향을 주지 않는다.
func (s *SavedSearchService) fireAlert(ctx context.Context, m *models.SavedSearch, total int) {
	alert := &models.Alert{
		SavedSearchID: m.ID,
		Owner:         m.Owner,
		Query:         m.Query,
		TotalPosts:    total,
		Message:       fmt.Sprintf("%q reached %d mentions (threshold %d)", m.Query, total, m.AlertMinMentions),
	}
	if _, err := s.alerts.Insert(ctx, alert); err != nil {
		logger.WarnWithFields("failed to record alert", logger.Fields{
			"saved_search_id": m.ID.Hex(),
			"error":           err.Error(),
		})
	}

	ev := events.AlertTriggeredEvent{
		BaseEvent:     events.NewBaseEvent(events.AlertTriggered),
		SavedSearchID: m.ID,
		Owner:         m.Owner,
		Query:         m.Query,
		TotalPosts:    total,
		MinMentions:   m.AlertMinMentions,
	}
	if err := s.producer.PublishEvent(kafka.TopicAlertEvents, ev); err != nil {
		logger.WarnWithFields("failed to publish alert event", logger.Fields{
			"saved_search_id": m.ID.Hex(),
			"error":           err.Error(),
		})
	}
}

// toModel validates the request body and maps it to the storage model.
func (s *SavedSearchService) toModel(in dto.SavedSearchRequestDTO) (*models.SavedSearch, error) {
	if in.Owner == "" {
		return nil, &aggregator.ValidationError{Msg: "owner is required"}
	}
	if in.Query == "" {
		return nil, &aggregator.ValidationError{Msg: "query is required"}
	}
	if len(in.Sources) == 0 {
		return nil, &aggregator.ValidationError{Msg: "at least one source is required"}
	}
	for _, src := range in.Sources {
		if !models.IsKnownPlatform(models.Platform(src)) {
			return nil, &aggregator.ValidationError{Msg: fmt.Sprintf("unknown platform: %s", src)}
		}
	}
	sort, _ := scoring.ParseMode(in.Sort)
	return &models.SavedSearch{
		Owner:            in.Owner,
		Query:            in.Query,
		Sources:          in.Sources,
		TimeFilter:       in.TimeFilter,
		Language:         in.Language,
		Sort:             string(sort),
		AlertEnabled:     in.AlertEnabled,
		AlertMinMentions: in.AlertMinMentions,
	}, nil
}
