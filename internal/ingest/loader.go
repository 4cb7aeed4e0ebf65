package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/verdin/denom/internal/core"
	"github.com/verdin/denom/internal/metrics"
	"github.com/verdin/denom/internal/series"
	"github.com/verdin/denom/internal/storage/archive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader fetches every registered builtin source and assembles the session's
// series store. Sources are fetched in parallel with no ordering dependency;
// valuation cannot begin until all of them have completed, which Load
// enforces by returning the store only after the join.
type Loader struct {
	registry *Registry
	archive  archive.Storage
	logger   *zap.Logger
	metrics  *metrics.Registry
}

// NewLoader creates a loader. logger and m may be nil.
func NewLoader(reg *Registry, logger *zap.Logger, m *metrics.Registry) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{registry: reg, logger: logger, metrics: m}
}

// SetArchive enables snapshot archiving of normalized series after a load.
func (l *Loader) SetArchive(s archive.Storage) { l.archive = s }

// Load fetches all sources and builds the store. Any source failure aborts
// the whole load: partial availability is not reconciled here, the session
// simply has no store to valuate against.
func (l *Loader) Load(ctx context.Context) (*series.Store, error) {
	sources := l.registry.Builtins()

	var mu sync.Mutex
	loaded := make(map[core.Builtin]*series.Series, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for b, src := range sources {
		g.Go(func() error {
			start := time.Now()
			s, err := src.Fetch(ctx)
			if l.metrics != nil {
				l.metrics.RecordFetch(src.Name(), fetchStatus(err), time.Since(start).Seconds())
			}
			if err != nil {
				return core.WrapError(core.ErrSourceFailed,
					fmt.Errorf("%s: %w", src.Name(), err))
			}
			l.logger.Info("source loaded",
				zap.String("source", src.Name()),
				zap.Int("observations", s.Len()),
			)
			mu.Lock()
			loaded[b] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store, err := series.NewStore(loaded)
	if err != nil {
		return nil, err
	}

	if l.archive != nil {
		l.archiveSnapshots(ctx, loaded)
	}
	return store, nil
}

// snapshot is the archived form of one normalized series.
type snapshot struct {
	Name         string             `json:"name"`
	Bounded      bool               `json:"bounded"`
	Observations []core.Observation `json:"observations"`
}

// archiveSnapshots writes each normalized series to the archive. Failures are
// logged and ignored: the archive is a cache, not a requirement.
func (l *Loader) archiveSnapshots(ctx context.Context, loaded map[core.Builtin]*series.Series) {
	for b, s := range loaded {
		data, err := json.Marshal(snapshot{
			Name:         s.Name(),
			Bounded:      s.Bounded(),
			Observations: s.Observations(),
		})
		if err != nil {
			continue
		}
		path := fmt.Sprintf("series/%s.json", b)
		if err := l.archive.Write(ctx, path, data); err != nil {
			l.logger.Warn("archiving series failed",
				zap.String("source", s.Name()),
				zap.Error(err),
			)
		}
	}
}

// LoadFromArchive rebuilds the store from previously archived snapshots,
// allowing a session to start without refetching any source.
func (l *Loader) LoadFromArchive(ctx context.Context) (*series.Store, error) {
	if l.archive == nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("no archive configured"))
	}

	loaded := make(map[core.Builtin]*series.Series)
	for _, b := range []core.Builtin{core.BuiltinCAPE, core.BuiltinHome, core.BuiltinGold, core.BuiltinBitcoin} {
		path := fmt.Sprintf("series/%s.json", b)
		ok, err := l.archive.Exists(ctx, path)
		if err != nil || !ok {
			continue
		}
		data, err := l.archive.Read(ctx, path)
		if err != nil {
			return nil, core.WrapError(core.ErrSourceFailed, err)
		}
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, core.WrapError(core.ErrSourceFailed, err)
		}
		loaded[b] = Normalize(snap.Name, snap.Observations, snap.Bounded)
	}

	return series.NewStore(loaded)
}

func fetchStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
