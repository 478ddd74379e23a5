package services

import (
	"context"

	"mention-radar/aggregator"
	"mention-radar/cmd/api/dto"
	"mention-radar/events"
	"mention-radar/internal/logger"
	"mention-radar/kafka"
	"mention-radar/models"
	"mention-radar/scoring"
)

// SearchService encapsulates request mapping around the aggregation engine
// and fire-and-forget event publishing.
type SearchService struct {
	engine   *aggregator.Engine
	producer kafka.Producer
}

func NewSearchService(engine *aggregator.Engine, producer kafka.Producer) *SearchService {
	if producer == nil {
		producer = kafka.NewNoopProducer()
	}
	return &SearchService{engine: engine, producer: producer}
}

// Search runs one aggregation request. Validation failures surface as
// *aggregator.ValidationError so the handler can map them to 400.
func (s *SearchService) Search(ctx context.Context, in dto.SearchRequestDTO) (*dto.SearchResponseDTO, error) {
	sort, _ := scoring.ParseMode(in.Sort)

	platforms := make([]models.Platform, 0, len(in.Sources))
	for _, src := range in.Sources {
		platforms = append(platforms, models.Platform(src))
	}

	req := aggregator.Request{
		Query:      in.Query,
		Sources:    platforms,
		TimeFilter: aggregator.TimeFilter(in.TimeFilter),
		Language:   in.Language,
		Sort:       sort,
	}

	result, err := s.engine.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	s.publishSearchCompleted(in.Sources, result)

	out := dto.MapSearchResponse(result)
	return &out, nil
}

// publishSearchCompleted 는 검색 완료 이벤트를 발행한다. 실패해도 응답에는
// 영향을 주지 않는다.
func (s *SearchService) publishSearchCompleted(sources []string, result *aggregator.Result) {
	ev := events.SearchCompletedEvent{
		BaseEvent:  events.NewBaseEvent(events.SearchCompleted),
		Query:      result.Query,
		Sources:    sources,
		TotalPosts: result.Summary.TotalPosts,
		Warnings:   result.Warnings,
		DurationMs: result.Duration.Milliseconds(),
	}
	if err := s.producer.PublishEvent(kafka.TopicSearchEvents, ev); err != nil {
		logger.WarnWithFields("failed to publish search event", logger.Fields{
			"error": err.Error(),
			"query": result.Query,
		})
	}
}
