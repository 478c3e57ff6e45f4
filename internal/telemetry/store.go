package telemetry

import (
	"context"
	"errors"

	"github.com/benvon/todo-items/internal/database"
	"github.com/benvon/todo-items/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/benvon/todo-items/internal/database"

// TracedStore records a span around every call of the wrapped store
type TracedStore struct {
	next   database.TodoStore
	tracer trace.Tracer
}

var _ database.TodoStore = (*TracedStore)(nil)

// TraceStore wraps store. A nil tp selects the global tracer provider.
func TraceStore(store database.TodoStore, tp trace.TracerProvider) *TracedStore {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracedStore{next: store, tracer: tp.Tracer(tracerName)}
}

func (s *TracedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "todo_store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// end records err on span. Not-found is an expected outcome, not a failure.
func end(span trace.Span, err error) {
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func idAttr(id int64) attribute.KeyValue {
	return attribute.Int64("todo_item.id", id)
}

func (s *TracedStore) List(ctx context.Context) ([]*models.TodoItem, error) {
	ctx, span := s.start(ctx, "List")
	items, err := s.next.List(ctx)
	span.SetAttributes(attribute.Int("todo_item.count", len(items)))
	end(span, err)
	return items, err
}

func (s *TracedStore) GetByID(ctx context.Context, id int64) (*models.TodoItem, error) {
	ctx, span := s.start(ctx, "GetByID", idAttr(id))
	item, err := s.next.GetByID(ctx, id)
	end(span, err)
	return item, err
}

func (s *TracedStore) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.start(ctx, "Exists", idAttr(id))
	ok, err := s.next.Exists(ctx, id)
	end(span, err)
	return ok, err
}

func (s *TracedStore) Count(ctx context.Context) (int64, error) {
	ctx, span := s.start(ctx, "Count")
	n, err := s.next.Count(ctx)
	end(span, err)
	return n, err
}

func (s *TracedStore) Create(ctx context.Context, item *models.TodoItem) error {
	ctx, span := s.start(ctx, "Create")
	err := s.next.Create(ctx, item)
	if err == nil {
		span.SetAttributes(idAttr(item.ID))
	}
	end(span, err)
	return err
}

func (s *TracedStore) CreateBatch(ctx context.Context, items []*models.TodoItem) error {
	ctx, span := s.start(ctx, "CreateBatch", attribute.Int("todo_item.count", len(items)))
	err := s.next.CreateBatch(ctx, items)
	end(span, err)
	return err
}

func (s *TracedStore) Replace(ctx context.Context, item *models.TodoItem) error {
	ctx, span := s.start(ctx, "Replace",
		idAttr(item.ID),
		attribute.Int64("todo_item.expected_version", item.Version),
	)
	err := s.next.Replace(ctx, item)
	end(span, err)
	return err
}

func (s *TracedStore) Delete(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "Delete", idAttr(id))
	err := s.next.Delete(ctx, id)
	end(span, err)
	return err
}
