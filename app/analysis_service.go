package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/metrics"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/ports"
)

// RunRequest selects what to compare and how. Correction is the caller's raw identifier and
// is resolved (aliases included) before anything else happens; empty means the service default.
type RunRequest struct {
	Family      stats.TestFamily
	Grouping    stats.Grouping
	Alternative stats.Alternative
	Correction  string
}

// AnalysisService runs the select -> test -> correct -> build pipeline against the
// session's tables and memoises result tables by run key.
type AnalysisService struct {
	session           *Session
	provider          ports.StatTestProvider
	tests             map[stats.TestFamily]ports.HypothesisTest
	runner            *TestRunner
	cache             ports.ResultCache
	defaultCorrection stats.CorrectionMethod
	logger            *internal.Logger
	metrics           *metrics.Metrics

	flight singleflight.Group
	mu     sync.Mutex
	calls  map[core.RunKey]*sharedRun
	gen    uint64
}

// sharedRun is one computation joined by every concurrent caller of the same run key.
// It is canceled only once all of its callers have stopped waiting.
type sharedRun struct {
	name    string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewAnalysisService wires the pipeline. An empty defaultCorrection means fdr_bh; m may be nil.
func NewAnalysisService(session *Session, provider ports.StatTestProvider, tests []ports.HypothesisTest,
	runner *TestRunner, cache ports.ResultCache, defaultCorrection stats.CorrectionMethod,
	logger *internal.Logger, m *metrics.Metrics) *AnalysisService {

	byFamily := make(map[stats.TestFamily]ports.HypothesisTest, len(tests))
	for _, t := range tests {
		byFamily[t.Family()] = t
	}
	if defaultCorrection == "" {
		defaultCorrection = stats.CorrectionFDRBH
	}
	return &AnalysisService{
		session:           session,
		provider:          provider,
		tests:             byFamily,
		runner:            runner,
		cache:             cache,
		defaultCorrection: defaultCorrection,
		logger:            logger,
		metrics:           m,
		calls:             make(map[core.RunKey]*sharedRun),
	}
}

// Session exposes the underlying table session.
func (s *AnalysisService) Session() *Session { return s.session }

// DefaultCorrection is applied to requests that leave the correction empty.
func (s *AnalysisService) DefaultCorrection() stats.CorrectionMethod { return s.defaultCorrection }

// LoadTables installs a new table pair and drops cached results of the pair it replaces.
// source labels the load in metrics and logs.
func (s *AnalysisService) LoadTables(ft *dataset.FeatureTable, md *dataset.MetadataTable, source string) error {
	replaced, err := s.session.Load(ft, md)
	if err != nil {
		return err
	}
	purged := 0
	for _, id := range replaced {
		purged += s.cache.InvalidateTable(id)
	}
	s.metrics.TablesLoaded(source)
	s.metrics.SetCacheEntries(s.cache.Len())
	s.logger.Info("loaded %d samples x %d features from %s (%s), purged %d cached results",
		ft.NumSamples(), ft.NumFeatures(), ft.Name, source, purged)
	return nil
}

// Run executes one analysis. Precondition failures (unsupported correction, invalid grouping,
// unequal paired sizes) abort before any feature is tested.
func (s *AnalysisService) Run(ctx context.Context, req RunRequest) (*stats.ResultTable, error) {
	start := time.Now()
	table, err := s.run(ctx, req)
	s.metrics.ObserveRun(string(req.Family), outcomeLabel(err), time.Since(start))
	return table, err
}

func (s *AnalysisService) run(ctx context.Context, req RunRequest) (*stats.ResultTable, error) {
	if req.Correction == "" {
		req.Correction = string(s.defaultCorrection)
	}
	correction, err := stats.ParseCorrectionMethod(req.Correction)
	if err != nil {
		return nil, err
	}
	alt, err := stats.ParseAlternative(string(req.Alternative))
	if err != nil {
		return nil, err
	}
	test, ok := s.tests[req.Family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidTestFamily, req.Family)
	}

	ft, md, err := s.session.Tables()
	if err != nil {
		return nil, err
	}
	if err := dataset.CheckAligned(ft, md); err != nil {
		return nil, err
	}

	prov := ResultProvenance{
		Family:          req.Family,
		Grouping:        req.Grouping,
		Alternative:     alt,
		Correction:      correction,
		FeatureTableID:  ft.ID,
		MetadataTableID: md.ID,
	}
	prov.Key = RunKeyFor(prov)

	if cached, ok := s.cache.Get(prov.Key); ok {
		s.metrics.CacheHit()
		s.logger.Debug("result cache hit for %s (%s)", prov.Key.Short(), req.Grouping)
		return cached, nil
	}
	s.metrics.CacheMiss()

	call := s.join(prov.Key, ctx)
	ch := s.flight.DoChan(call.name, func() (interface{}, error) {
		return s.compute(call.ctx, ft, md, test, prov)
	})

	select {
	case res := <-ch:
		s.leave(prov.Key, call)
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("joined in-flight run %s", prov.Key.Short())
		}
		return res.Val.(*stats.ResultTable), nil
	case <-ctx.Done():
		s.leave(prov.Key, call)
		return nil, ctx.Err()
	}
}

// join registers the caller with the shared computation for key, starting a new one when
// none is running. The computation's context carries ctx's values but not its cancellation.
func (s *AnalysisService) join(key core.RunKey, ctx context.Context) *sharedRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.calls[key]
	if !ok {
		s.gen++
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &sharedRun{
			name:   fmt.Sprintf("%s/%d", key, s.gen),
			ctx:    runCtx,
			cancel: cancel,
		}
		s.calls[key] = call
	}
	call.waiters++
	return call
}

// leave unregisters a caller; the last one out cancels the computation, which is a no-op
// when it already finished.
func (s *AnalysisService) leave(key core.RunKey, call *sharedRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if s.calls[key] == call {
		delete(s.calls, key)
	}
}

func (s *AnalysisService) compute(ctx context.Context, ft *dataset.FeatureTable, md *dataset.MetadataTable,
	test ports.HypothesisTest, prov ResultProvenance) (*stats.ResultTable, error) {

	groups, err := SelectGroups(md, prov.Grouping)
	if err != nil {
		return nil, err
	}
	s.logger.Info("running %s on %d features: %s (n=%d vs n=%d), %s, %s",
		prov.Family.DisplayName(), ft.NumFeatures(), prov.Grouping, len(groups.A), len(groups.B),
		prov.Alternative, prov.Correction)

	outcomes, err := s.runner.RunTests(ctx, ft, groups, test, prov.Alternative)
	if err != nil {
		return nil, err
	}

	corrected, err := s.provider.CorrectPValues(rawPValues(outcomes), prov.Correction)
	if err != nil {
		return nil, err
	}

	table, err := BuildResultTable(outcomes, corrected, prov)
	if err != nil {
		return nil, err
	}

	reasons := undefinedReasons(outcomes)
	s.metrics.ObserveFeatures(string(prov.Family), len(outcomes), reasons)
	if table.Undefined > 0 {
		s.logger.Debug("%d of %d features undefined: %v", table.Undefined, table.Tested, reasons)
	}

	if s.current(prov) {
		s.cache.Put(table)
		s.metrics.SetCacheEntries(s.cache.Len())
	} else {
		s.logger.Debug("tables replaced during run %s, result not cached", prov.Key.Short())
	}
	s.logger.Info("%s finished: %d rows, %d significant", prov.Family, len(table.Rows), len(table.Significant()))
	return table, nil
}

// current reports whether the session still holds the tables prov was computed from.
func (s *AnalysisService) current(prov ResultProvenance) bool {
	ft, md, err := s.session.Tables()
	return err == nil && ft.ID == prov.FeatureTableID && md.ID == prov.MetadataTableID
}

// Result returns a previously computed table.
func (s *AnalysisService) Result(key core.RunKey) (*stats.ResultTable, error) {
	if t, ok := s.cache.Get(key); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, key)
}

// Attributes lists metadata attributes that can be used for a grouping.
func (s *AnalysisService) Attributes() ([]string, error) {
	_, md, err := s.session.Tables()
	if err != nil {
		return nil, err
	}
	return CandidateAttributes(md), nil
}

// Levels lists the sorted values of one attribute.
func (s *AnalysisService) Levels(attribute string) ([]string, error) {
	_, md, err := s.session.Tables()
	if err != nil {
		return nil, err
	}
	return AttributeLevels(md, attribute)
}

// RunKeyFor derives the memoisation key from everything that determines a result table.
func RunKeyFor(p ResultProvenance) core.RunKey {
	return core.ComputeRunKey(
		string(p.Family),
		p.Grouping.Attribute,
		p.Grouping.GroupA,
		p.Grouping.GroupB,
		string(p.Alternative),
		string(p.Correction),
		p.FeatureTableID.String(),
		p.MetadataTableID.String(),
	)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case core.IsPreconditionError(err):
		return "precondition"
	case core.IsInputError(err), core.IsNotFoundError(err):
		return "invalid_input"
	}
	return "error"
}
