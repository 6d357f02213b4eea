package hardware

import (
	"context"
	"fmt"
	"sort"

	"hwcatalog/internal/core/apperror"
	"hwcatalog/pkg/logger"
)

// ReadService is the only read path for records.
// It owns not-found semantics and normalizes the records it returns.
type ReadService struct {
	builder QueryBuilder
	log     *logger.Logger
}

// NewReadService creates a new read service.
func NewReadService(builder QueryBuilder, log *logger.Logger) *ReadService {
	return &ReadService{
		builder: builder,
		log:     log.WithComponent("hardware.read"),
	}
}

// FindByID returns the record with the given identity.
func (s *ReadService) FindByID(ctx context.Context, id int64, withImages bool) (*Record, error) {
	log := s.log.WithContext(ctx).WithHardware(id)
	log.Debugw("find by id", "with_images", withImages)

	rec, err := s.builder.BuildByID(id, withImages).One(ctx)
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", entityName, id, err)
	}
	if rec == nil {
		log.Debugw("find by id: not found")
		return nil, apperror.NewNotFound(entityName, id)
	}

	rec.normalize()
	if withImages && rec.Images == nil {
		rec.Images = []Image{}
	}

	log.Debugw("find by id: found", "version", rec.Version, "images", len(rec.Images))
	return rec, nil
}

// Find returns the page of records matching criteria.
// Nil or empty criteria are delegated to FindAll.
// Unknown keys and unknown type literals are reported as NotFound, the same
// way as criteria that match nothing.
func (s *ReadService) Find(ctx context.Context, criteria SearchCriteria, pageable Pageable) (Slice[Record], error) {
	log := s.log.WithContext(ctx)
	log.Debugw("find", "criteria", criteria, "pageable", pageable)

	if len(criteria) == 0 {
		return s.FindAll(ctx, pageable)
	}

	if bad := criteria.invalidKeys(); len(bad) > 0 {
		sort.Strings(bad)
		log.Debugw("find: invalid criteria keys", "keys", bad)
		return Slice[Record]{}, apperror.NewNotFoundMessage("invalid search criteria")
	}
	if !criteria.validType() {
		log.Debugw("find: invalid type criterion", "type", criteria[KeyType])
		return Slice[Record]{}, apperror.NewNotFoundMessage("invalid search criteria")
	}

	return s.execute(ctx, criteria, pageable, func() *apperror.AppError {
		return apperror.NewNotFoundMessage(
			fmt.Sprintf("no hardware found: %v, page %d", map[string]string(criteria), pageable.Number),
		).WithDetail("criteria", criteria).WithDetail("page", pageable.Number)
	})
}

// FindAll returns one page of all records.
// An empty store and a page past the last one are both NotFound.
func (s *ReadService) FindAll(ctx context.Context, pageable Pageable) (Slice[Record], error) {
	s.log.WithContext(ctx).Debugw("find all", "pageable", pageable)

	return s.execute(ctx, SearchCriteria{}, pageable, func() *apperror.AppError {
		return apperror.NewNotFoundMessage(fmt.Sprintf("invalid page %d", pageable.Number)).
			WithDetail("page", pageable.Number)
	})
}

func (s *ReadService) execute(
	ctx context.Context,
	criteria SearchCriteria,
	pageable Pageable,
	notFound func() *apperror.AppError,
) (Slice[Record], error) {
	q := s.builder.Build(criteria, pageable)

	records, err := q.Many(ctx)
	if err != nil {
		return Slice[Record]{}, fmt.Errorf("find %s: %w", entityName, err)
	}
	if len(records) == 0 {
		s.log.WithContext(ctx).Debugw("find: no records", "criteria", criteria, "page", pageable.Number)
		return Slice[Record]{}, notFound()
	}

	total, err := q.Count(ctx)
	if err != nil {
		return Slice[Record]{}, fmt.Errorf("count %s: %w", entityName, err)
	}

	for i := range records {
		records[i].normalize()
	}

	s.log.WithContext(ctx).Debugw("find: slice", "records", len(records), "total", total)
	return Slice[Record]{Content: records, TotalElements: total}, nil
}
