// Package decorator tracks the active document and republishes its checkbox
// decorations whenever it is switched to or edited.
//
// Requests are debounced: a burst of switches and edits produces one scan of
// the document that is active when the quiet period ends.
package decorator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/checklight/internal/cachemanager"
	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/debounce"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/highlight"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/pubsub"
	"github.com/zjrosen/checklight/internal/tracing"
	"github.com/zjrosen/checklight/internal/transition"
)

// Trigger records what caused a scan.
type Trigger string

const (
	TriggerActivate Trigger = "activate"
	TriggerEdit     Trigger = "edit"
	TriggerManual   Trigger = "manual"
)

// Skip reasons recorded on update spans.
const (
	skipNoDocument = "no_active_document"
	skipFiltered   = "filtered"
	skipClosed     = "closed"
	skipInactive   = "inactive"
)

// Decorations is the result of one scan of a document.
type Decorations struct {
	ID        string
	Path      string
	Text      string
	Buckets   checkbox.Buckets
	Stats     checkbox.Stats
	Changes   []transition.Change
	Trigger   Trigger
	ScannedAt time.Time
}

// Config configures a Decorator. Zero fields get defaults.
type Config struct {
	Registry *highlight.Registry
	Filter   document.Filter
	Delay    time.Duration
	Broker   *pubsub.Broker[Decorations]
	Cache    cachemanager.CacheManager[Decorations]
	Tracer   trace.Tracer
}

// Decorator holds the active document and publishes decorations for it.
type Decorator struct {
	registry  *highlight.Registry
	filter    document.Filter
	scheduler *debounce.Scheduler
	broker    *pubsub.Broker[Decorations]
	cache     cachemanager.CacheManager[Decorations]
	tracer    trace.Tracer

	mu      sync.Mutex
	active  document.Source
	trigger Trigger // strongest trigger since the last scan
	closed  bool
}

// New creates a Decorator with no active document.
func New(cfg Config) *Decorator {
	if cfg.Registry == nil {
		cfg.Registry = highlight.NewRegistry(highlight.Palette{}, highlight.Palette{})
	}
	if len(cfg.Filter.Extensions) == 0 {
		cfg.Filter = document.NewFilter(nil)
	}
	if cfg.Delay <= 0 {
		cfg.Delay = debounce.DefaultDelay
	}
	if cfg.Broker == nil {
		cfg.Broker = pubsub.NewBroker[Decorations](pubsub.WithReplay())
	}
	if cfg.Cache == nil {
		cfg.Cache = cachemanager.NewInMemoryCacheManager[Decorations]("decorations",
			cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracing.Noop()
	}
	return &Decorator{
		registry:  cfg.Registry,
		filter:    cfg.Filter,
		scheduler: debounce.New(cfg.Delay),
		broker:    cfg.Broker,
		cache:     cfg.Cache,
		tracer:    cfg.Tracer,
	}
}

// ChangeActiveDocument makes src the active document and schedules a scan.
// Decorations cached for src are republished at once so a switch back shows
// the last result before the rescan lands. A nil src clears the active
// document and cancels any pending scan.
func (d *Decorator) ChangeActiveDocument(src document.Source) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.active = src
	if src == nil {
		d.scheduler.Cancel()
		d.trigger = ""
		d.broker.Publish(pubsub.ClearedEvent, Decorations{})
		log.Debug(log.CatDecorator, "Active document cleared")
		return
	}

	path := src.Path()
	log.Debug(log.CatDecorator, "Active document changed", "path", path)
	if cached, ok := d.cache.Get(context.Background(), path); ok {
		d.broker.Publish(pubsub.UpdatedEvent, cached)
	}
	d.scheduleLocked(TriggerActivate)
}

// ChangeDocument reports an edit to src. Edits to any document other than
// the active one are ignored.
func (d *Decorator) ChangeDocument(src document.Source) {
	if src == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.active == nil || d.active.Path() != src.Path() {
		log.Debug(log.CatDecorator, "Ignoring change to inactive document", "path", src.Path())
		return
	}
	d.scheduleLocked(TriggerEdit)
}

func (d *Decorator) scheduleLocked(trigger Trigger) {
	// An activation pending in the same burst wins over later edits
	if d.trigger != TriggerActivate {
		d.trigger = trigger
	}
	d.scheduler.Trigger(func() {
		d.mu.Lock()
		trigger := d.trigger
		d.trigger = ""
		d.mu.Unlock()

		if _, err := d.update(context.Background(), trigger); err != nil {
			log.ErrorErr(log.CatDecorator, "Scheduled update failed", err)
		}
	})
}

// Update scans the active document now. It returns nil decorations without
// error when there is no active document or its type is filtered out.
func (d *Decorator) Update(ctx context.Context) (*Decorations, error) {
	d.mu.Lock()
	d.scheduler.Cancel()
	d.trigger = ""
	d.mu.Unlock()
	return d.update(ctx, TriggerManual)
}

// Flush runs a pending scheduled scan immediately. It reports whether one
// was pending.
func (d *Decorator) Flush() bool {
	return d.scheduler.Flush()
}

// Pending reports whether a scan is scheduled.
func (d *Decorator) Pending() bool {
	return d.scheduler.Pending()
}

func (d *Decorator) update(ctx context.Context, trigger Trigger) (*Decorations, error) {
	ctx, span := d.tracer.Start(ctx, tracing.SpanDecoratorUpdate,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrTrigger, string(trigger)))

	d.mu.Lock()
	src, closed := d.active, d.closed
	d.mu.Unlock()

	if closed {
		span.SetAttributes(attribute.String(tracing.AttrSkipReason, skipClosed))
		return nil, nil
	}
	if src == nil {
		span.SetAttributes(attribute.String(tracing.AttrSkipReason, skipNoDocument))
		log.Debug(log.CatDecorator, "No active document")
		return nil, nil
	}

	path := src.Path()
	span.SetAttributes(attribute.String(tracing.AttrDocumentPath, path))
	if !d.filter.Matches(path) {
		span.SetAttributes(attribute.String(tracing.AttrSkipReason, skipFiltered))
		log.Debug(log.CatDecorator, "Not a highlighted document type", "path", path)
		return nil, nil
	}

	snap, err := document.Take(src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	buckets := d.scan(ctx, snap.Text)
	dec := Decorations{
		ID:        uuid.New().String(),
		Path:      path,
		Text:      snap.Text,
		Buckets:   buckets,
		Stats:     checkbox.Summarize(buckets),
		Trigger:   trigger,
		ScannedAt: time.Now(),
	}

	eventType := pubsub.CreatedEvent
	if prev, ok := d.cache.Get(ctx, path); ok {
		eventType = pubsub.UpdatedEvent
		dec.Changes = transition.Detect(prev.Text, prev.Buckets, snap.Text, buckets)
	}
	d.cache.Set(ctx, path, dec, 0)

	span.SetAttributes(
		attribute.Int(tracing.AttrDocumentBytes, len(snap.Text)),
		attribute.Int(tracing.AttrDone, dec.Stats.Done),
		attribute.Int(tracing.AttrNotDone, dec.Stats.NotDone),
		attribute.Int(tracing.AttrInProgress, dec.Stats.InProgress),
		attribute.Int(tracing.AttrChanges, len(dec.Changes)),
	)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.active == nil || d.active.Path() != path {
		// Switched away during the scan; the result stays cached for later
		span.SetAttributes(attribute.String(tracing.AttrSkipReason, skipInactive))
		return &dec, nil
	}
	d.broker.Publish(eventType, dec)
	span.SetStatus(codes.Ok, "")

	log.Debug(log.CatDecorator, "Decorations updated",
		"path", path,
		"trigger", trigger,
		"done", dec.Stats.Done,
		"not_done", dec.Stats.NotDone,
		"in_progress", dec.Stats.InProgress,
		"changes", len(dec.Changes))
	return &dec, nil
}

func (d *Decorator) scan(ctx context.Context, text string) checkbox.Buckets {
	_, span := d.tracer.Start(ctx, tracing.SpanCheckboxScan)
	defer span.End()

	b := checkbox.Scan(text)
	span.SetAttributes(
		attribute.Int(tracing.AttrDocumentBytes, len(text)),
		attribute.Int(tracing.AttrDone, len(b.Done)),
		attribute.Int(tracing.AttrNotDone, len(b.NotDone)),
		attribute.Int(tracing.AttrInProgress, len(b.InProgress)),
	)
	return b
}

// Render returns the decorated text styled with the registry.
func (d *Decorator) Render(dec Decorations) string {
	return highlight.Render(dec.Text, dec.Buckets, d.registry)
}

// Matches reports whether documents at path are decorated.
func (d *Decorator) Matches(path string) bool {
	return d.filter.Matches(path)
}

// Registry returns the style registry.
func (d *Decorator) Registry() *highlight.Registry {
	return d.registry
}

// Active returns the active document, or nil.
func (d *Decorator) Active() document.Source {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Cached returns the last decorations computed for path.
func (d *Decorator) Cached(path string) (Decorations, bool) {
	return d.cache.Get(context.Background(), path)
}

// Subscribe returns decoration events for the lifetime of ctx. With the
// default broker the latest event is replayed first.
func (d *Decorator) Subscribe(ctx context.Context) <-chan pubsub.Event[Decorations] {
	return d.broker.Subscribe(ctx)
}

// Close cancels pending scans and closes subscriber channels.
func (d *Decorator) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.active = nil
	d.mu.Unlock()

	d.scheduler.Stop()
	d.broker.Close()
	d.cache.Flush(context.Background())
}
