// Package checker implements the checker host of spec.md §4.7: a
// registry of read-only analyses over one translation unit's token
// stream and symbol graph, fanned out with golang.org/x/sync/errgroup
// the way codenerd's internal/campaign.IntelligenceGatherer fans out its
// information-gathering phases, with a single mutex guarding the
// dedup/suppression-aware report sink (spec.md §5 "shared-resource
// policy").
package checker

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/suppression"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

// Checker is one registered analysis. Run must not mutate u.Tokens or
// u.Symbols — the host gives every checker the same read-only unit and
// may run several concurrently (spec.md §4.7).
type Checker struct {
	Name string
	Run  func(u *intake.Unit, db *symbols.Database, report func(diagnostic.Diagnostic))
}

// Registry is the set of checkers the host dispatches, in registration
// order (order only matters for progress reporting; diagnostic
// deduplication is first-writer-wins regardless of which checker arrives
// first, per spec.md §5 "ordering guarantees").
var Registry []Checker

// Register adds c to the default Registry; called from each checker
// implementation file's init().
func Register(c Checker) { Registry = append(Registry, c) }

// ProgressSink receives percent-complete callbacks during a host run,
// matching spec.md §6's "progress(file, stage, percent)" output method.
type ProgressSink interface {
	Progress(file, stage string, percent int)
}

// Sink receives every diagnostic that survives suppression and dedup,
// matching spec.md §6's "report(Diagnostic)" output method.
type Sink interface {
	Report(diagnostic.Diagnostic)
}

// Host owns the shared, mutex-guarded state spec.md §5 describes as
// visible across workers: the seen-diagnostic dedup set and the
// suppression database. One Host can run checks for many translation
// units; none of its fields are per-unit.
type Host struct {
	Suppressions *suppression.Database
	EmitDuplicates bool
	Logger       *zap.SugaredLogger

	mu   sync.Mutex
	seen map[string]bool
}

// NewHost builds a Host with an empty dedup set. A nil logger is
// replaced with zap's no-op logger so callers never need a nil check.
func NewHost(suppressions *suppression.Database, emitDuplicates bool, logger *zap.SugaredLogger) *Host {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Host{
		Suppressions:   suppressions,
		EmitDuplicates: emitDuplicates,
		Logger:         logger,
		seen:           make(map[string]bool),
	}
}

// Run dispatches every Checker in reg against u concurrently, delivering
// surviving diagnostics to sink and progress events to progress (either
// may be nil). The host is single-threaded per translation unit in the
// sense that reg is always run against exactly one Unit at a time by a
// given Host.Run call — the concurrency here is across *checkers*, not
// across units; cross-file parallelism is the caller's concern (spec.md
// §4.7 "the host itself is single-threaded per translation unit").
func (h *Host) Run(ctx context.Context, u *intake.Unit, sdb *symbols.Database, reg []Checker, sink Sink, progress ProgressSink) error {
	eg, egCtx := errgroup.WithContext(ctx)
	total := len(reg)
	var done int32
	var doneMu sync.Mutex

	for _, c := range reg {
		c := c
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			h.Logger.Debugw("checker starting", "checker", c.Name)
			c.Run(u, sdb, func(d diagnostic.Diagnostic) {
				h.report(u, d, sink)
			})
			if progress != nil {
				doneMu.Lock()
				done++
				pct := 100
				if total > 0 {
					pct = int(done) * 100 / total
				}
				doneMu.Unlock()
				progress.Progress(fileNameOf(u), c.Name, pct)
			}
			return nil
		})
	}
	return eg.Wait()
}

// report applies the suppression lookup and the mutexed dedup insertion
// before handing a surviving diagnostic to sink, matching spec.md §4.7's
// "report path": templating expansion is the sink's concern (it has the
// Settings template string), not the host's.
func (h *Host) report(u *intake.Unit, d diagnostic.Diagnostic, sink Sink) {
	if h.Suppressions != nil && len(d.CallStack) > 0 {
		f := d.CallStack[len(d.CallStack)-1]
		if h.Suppressions.Suppressed(d.ID, f.File, f.Line) {
			return
		}
	}
	if !h.EmitDuplicates {
		key := diagnostic.CanonicalKey(d)
		h.mu.Lock()
		if h.seen[key] {
			h.mu.Unlock()
			return
		}
		h.seen[key] = true
		h.mu.Unlock()
	}
	if sink != nil {
		sink.Report(d)
	}
}

func fileNameOf(u *intake.Unit) string {
	if len(u.Directives) > 0 {
		return u.Files.Path(u.Directives[0].FileIndex)
	}
	return u.Files.Path(0)
}
