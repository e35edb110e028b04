package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/turbot/tailpipe-plugin-envi/artifact_loader"
	"github.com/turbot/tailpipe-plugin-envi/artifact_mapper"
	"github.com/turbot/tailpipe-plugin-envi/artifact_source"
	"github.com/turbot/tailpipe-plugin-envi/collection_state"
	"github.com/turbot/tailpipe-plugin-envi/constants"
	"github.com/turbot/tailpipe-plugin-envi/context_values"
	"github.com/turbot/tailpipe-plugin-envi/events"
	"github.com/turbot/tailpipe-plugin-envi/metrics"
	"github.com/turbot/tailpipe-plugin-envi/observable"
	"github.com/turbot/tailpipe-plugin-envi/row_filter"
	"github.com/turbot/tailpipe-plugin-envi/types"
	"github.com/turbot/tailpipe-plugin-envi/writer"
)

// counter names
const (
	CounterArtifactsDiscovered = "artifacts.discovered"
	CounterArtifactsSkipped    = "artifacts.skipped"
	CounterArtifactsFailed     = "artifacts.failed"
	CounterScenesDecoded       = "scenes.decoded"
	CounterScenesWritten       = "scenes.written"
)

// Collection runs a source, decodes every artifact it downloads, passes the records through the
// mappers and filters, and writes them to the writers
//
// The collection observes its source, and raises events to its own observers:
// ArtifactDiscovered, ArtifactSkipped, SceneDecoded, Error, Started, Status and Complete
type Collection struct {
	observable.ObservableImpl

	Source artifact_source.ArtifactSource

	loader          artifact_loader.Loader
	mappers         []artifact_mapper.Mapper
	filters         []row_filter.Filter
	writers         []writer.Writer
	parallelism     int
	collectionState *collection_state.CollectionState

	counters *metrics.Counters

	outcomeLock sync.Mutex
	outcomes    []*types.Outcome
	status      *events.Status

	decodeTiming types.Timing
	writeTiming  types.Timing
	timingLock   sync.Mutex
}

// New creates a collection for the (initialised) source
func New(source artifact_source.ArtifactSource, opts ...CollectionOption) (*Collection, error) {
	if source == nil {
		return nil, errors.New("source must not be nil")
	}
	c := &Collection{
		Source:      source,
		loader:      artifact_loader.NewSceneLoader(),
		mappers:     []artifact_mapper.Mapper{artifact_mapper.NewIdentityMapper()},
		filters:     []row_filter.Filter{row_filter.NewCountingFilter()},
		parallelism: constants.DefaultParallelism,
		counters:    metrics.NewCounters(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	source.SetParallelism(c.parallelism)
	if c.collectionState != nil {
		source.SetCollectionState(c.collectionState)
	}
	// add ourselves as an observer to our source
	if err := source.AddObserver(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Collect runs the collection
// the returned error joins the errors of all failed artifacts; skipped artifacts are not errors
func (c *Collection) Collect(ctx context.Context) (*Result, error) {
	executionId := context_values.NewExecutionId()
	c.counters = metrics.NewCounters()
	ctx = context_values.WithExecutionId(ctx, executionId)
	ctx = context_values.WithCounters(ctx, c.counters)

	c.outcomeLock.Lock()
	c.outcomes = nil
	c.status = events.NewStatusEvent(executionId)
	c.outcomeLock.Unlock()

	slog.Info("Start collection", "execution id", executionId, "source", c.Source.Identifier(), "parallelism", c.parallelism)
	c.notify(ctx, events.NewStartedEvent(executionId))

	// the source returns once every discovered artifact has been processed
	sourceErr := c.Source.Collect(ctx)
	if sourceErr != nil {
		slog.Error("source collection failed", "error", sourceErr)
		c.notify(ctx, events.NewErrorEvent(executionId, sourceErr))
	}

	var closeErrors []error
	for _, w := range c.writers {
		if err := w.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close %s output: %w", w.Identifier(), err))
		}
	}
	if c.collectionState != nil {
		if err := c.collectionState.Save(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to save collection state: %w", err))
		}
	}

	res := c.result(executionId)
	err := errors.Join(append([]error{sourceErr, res.Err()}, closeErrors...)...)

	c.outcomeLock.Lock()
	status := *c.status
	c.outcomeLock.Unlock()
	slog.Info("Collection complete", "execution id", executionId, "status", status.String())

	c.notify(ctx, &status)
	c.notify(ctx, events.NewCompleteEvent(executionId, len(res.Decoded()), res.Counters, res.Timing, err))
	return res, err
}

// Close closes the source
func (c *Collection) Close() error {
	return c.Source.Close()
}

// Notify implements observable.Observer
// it handles the events raised by the source
func (c *Collection) Notify(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.ArtifactDiscovered:
		c.counters.Inc(CounterArtifactsDiscovered, 1)
		c.notify(ctx, e)
	case *events.ArtifactDownloaded:
		c.updateStatus(e)
		c.handleArtifact(ctx, e.ExecutionId, e.Info)
	case *events.ArtifactSkipped:
		c.addOutcome(types.NewSkippedOutcome(e.Info, e.Reason, e.Err))
		c.counters.Inc(CounterArtifactsSkipped, 1)
		c.notify(ctx, e)
	case *events.ArtifactFailed:
		c.addOutcome(types.NewFailedOutcome(e.Info, e.Err))
		c.counters.Inc(CounterArtifactsFailed, 1)
		c.notify(ctx, events.NewErrorEvent(e.ExecutionId, fmt.Errorf("%s: %w", e.Info.OriginalName, e.Err)))
	default:
		slog.Debug("Collection: event received but it's not for us", "event", event)
	}
	// artifact errors are recorded as outcomes, they do not fail the source
	return nil
}

// handleArtifact decodes a downloaded artifact, maps, filters and writes its records and records the outcome
func (c *Collection) handleArtifact(ctx context.Context, executionId string, info *types.ArtifactInfo) {
	decodeStart := time.Now()
	c.timingLock.Lock()
	c.decodeTiming.TryStart(constants.TimingDecode)
	c.timingLock.Unlock()

	outcome := c.loader.Load(ctx, info)

	c.timingLock.Lock()
	c.decodeTiming.UpdateActiveDuration(time.Since(decodeStart))
	c.decodeTiming.End = time.Now()
	c.timingLock.Unlock()

	switch outcome.Status {
	case types.OutcomeSkipped:
		c.addOutcome(outcome)
		c.counters.Inc(CounterArtifactsSkipped, 1)
		c.notify(ctx, events.NewArtifactSkippedEvent(executionId, info, outcome.Reason, outcome.Err))
		return
	case types.OutcomeFailed:
		c.addOutcome(outcome)
		c.counters.Inc(CounterArtifactsFailed, 1)
		c.notify(ctx, events.NewErrorEvent(executionId, fmt.Errorf("%s: %w", info.OriginalName, outcome.Err)))
		return
	}
	c.counters.Inc(CounterScenesDecoded, 1)

	written, err := c.processRecord(ctx, executionId, outcome.Record)
	switch {
	case err != nil:
		c.addOutcome(types.NewFailedOutcome(info, err))
		c.counters.Inc(CounterArtifactsFailed, 1)
		c.notify(ctx, events.NewErrorEvent(executionId, fmt.Errorf("%s: %w", info.OriginalName, err)))
	case written == 0:
		c.addOutcome(types.NewSkippedOutcome(info, types.ReasonFiltered, nil))
		c.counters.Inc(CounterArtifactsSkipped, 1)
		c.notify(ctx, events.NewArtifactSkippedEvent(executionId, info, types.ReasonFiltered, nil))
	default:
		c.addOutcome(outcome)
		if c.collectionState != nil {
			c.collectionState.Upsert(info)
		}
	}
}

// processRecord applies the mappers and filters to a record and writes the resulting records
// it returns the number of records written
func (c *Collection) processRecord(ctx context.Context, executionId string, record *types.SceneRecord) (int, error) {
	records := []*types.SceneRecord{record}
	for _, m := range c.mappers {
		var mapped []*types.SceneRecord
		for _, r := range records {
			res, err := m.Map(ctx, r)
			if err != nil {
				return 0, fmt.Errorf("error mapping scene %s with %s: %w", r.SceneId, m.Identifier(), err)
			}
			mapped = append(mapped, res...)
		}
		records = mapped
	}

	written := 0
	for _, r := range records {
		accepted, err := c.filter(ctx, r)
		if err != nil {
			return written, err
		}
		if !accepted {
			continue
		}
		if err := c.write(ctx, r); err != nil {
			return written, err
		}
		written++
		c.counters.Inc(CounterScenesWritten, 1)
		c.notify(ctx, events.NewSceneDecodedEvent(executionId, r))
	}
	return written, nil
}

// filter returns whether the record is accepted by every filter
// every filter sees the record, so that counting filters count all records
func (c *Collection) filter(ctx context.Context, record *types.SceneRecord) (bool, error) {
	accepted := true
	for _, f := range c.filters {
		ok, err := f.Filter(ctx, record)
		if err != nil {
			return false, fmt.Errorf("error filtering scene %s with %s: %w", record.SceneId, f.Identifier(), err)
		}
		accepted = accepted && ok
	}
	return accepted, nil
}

func (c *Collection) write(ctx context.Context, record *types.SceneRecord) error {
	writeStart := time.Now()
	c.timingLock.Lock()
	c.writeTiming.TryStart(constants.TimingWrite)
	c.timingLock.Unlock()
	defer func() {
		c.timingLock.Lock()
		c.writeTiming.UpdateActiveDuration(time.Since(writeStart))
		c.writeTiming.End = time.Now()
		c.timingLock.Unlock()
	}()

	var errs []error
	for _, w := range c.writers {
		if err := w.Write(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("error writing scene %s to %s output: %w", record.SceneId, w.Identifier(), err))
		}
	}
	return errors.Join(errs...)
}

func (c *Collection) addOutcome(outcome *types.Outcome) {
	slog.Debug("artifact outcome", "outcome", outcome.String())
	c.outcomeLock.Lock()
	defer c.outcomeLock.Unlock()
	// do not retain the pixel data
	c.outcomes = append(c.outcomes, outcome.WithoutRecord())
}

// notify raises an event to our observers, observer errors are logged
func (c *Collection) notify(ctx context.Context, event events.Event) {
	c.updateStatus(event)
	if err := c.NotifyObservers(ctx, event); err != nil {
		slog.Error("error notifying observers", "event", fmt.Sprintf("%T", event), "error", err)
	}
}

func (c *Collection) updateStatus(event events.Event) {
	c.outcomeLock.Lock()
	defer c.outcomeLock.Unlock()
	if c.status != nil {
		c.status.Update(event)
	}
}

func (c *Collection) result(executionId string) *Result {
	c.outcomeLock.Lock()
	outcomes := slices.Clone(c.outcomes)
	c.outcomeLock.Unlock()
	slices.SortStableFunc(outcomes, func(a, b *types.Outcome) int {
		return strings.Compare(a.Artifact, b.Artifact)
	})

	c.timingLock.Lock()
	timing := append(c.Source.GetTiming(), c.decodeTiming, c.writeTiming)
	c.timingLock.Unlock()

	return &Result{
		ExecutionId: executionId,
		Outcomes:    outcomes,
		Counters:    c.counters.Snapshot(),
		Timing:      timing,
	}
}
