// Package analyze orchestrates the full lookup flow for article URLs:
// normalize to a registrable domain, resolve the source, weight its
// credibility for the caller's evidence context and attach opposing
// perspectives. Single lookups and ordered batches share one pipeline.
package analyze

import (
	"context"
	"errors"
	"fmt"

	"sourcelens/internal/counter"
	"sourcelens/internal/domain"
	"sourcelens/internal/model"
	"sourcelens/internal/score"
	"sourcelens/internal/worker"
)

// Options tune one analysis call.
type Options struct {
	// Context is the evidence context every score is computed under.
	Context model.EvidenceContext

	// IncludeCounternarratives attaches opposing sources to found results.
	IncludeCounternarratives bool

	// MinCredibility is the counternarrative credibility floor.
	MinCredibility float64

	// Limit caps the number of counternarratives per result.
	Limit int

	// PreferredLeans, when set, replaces the opposite-side rule with an
	// explicit lean allow-list.
	PreferredLeans []int
}

// DefaultOptions returns the options used when a caller supplies none:
// neutral general-claim scoring with up to ten counternarratives above
// the standard credibility floor.
func DefaultOptions() Options {
	return Options{
		Context:                  model.DefaultContext(),
		IncludeCounternarratives: true,
		MinCredibility:           counter.DefaultMinCredibility,
		Limit:                    counter.DefaultLimit,
	}
}

// Pipeline resolves and scores sources through an injected repository view.
type Pipeline struct {
	reader   counter.SourceReader
	scorer   *score.Scorer
	selector *counter.Selector
	workers  int
}

// New creates a pipeline over the given repository view. workers bounds
// batch concurrency; values below one fall back to serial processing.
func New(reader counter.SourceReader, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		reader:   reader,
		scorer:   score.NewScorer(),
		selector: counter.NewSelector(reader),
		workers:  workers,
	}
}

// AnalyzeURL normalizes rawURL and analyzes its publishing domain.
// Unusable URLs and unknown domains are reported in-band on the Analysis;
// the error return is reserved for repository failures.
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, opts Options) (*model.Analysis, error) {
	dom, err := domain.Normalize(rawURL)
	if err != nil {
		return &model.Analysis{URL: rawURL, Error: err.Error()}, nil
	}

	analysis, err := p.AnalyzeDomain(ctx, dom, opts)
	if err != nil {
		return nil, err
	}
	analysis.URL = rawURL
	return analysis, nil
}

// AnalyzeDomain analyzes an already-normalized domain.
func (p *Pipeline) AnalyzeDomain(ctx context.Context, dom string, opts Options) (*model.Analysis, error) {
	analysis := &model.Analysis{URL: dom, Domain: dom}

	src, err := p.reader.Lookup(ctx, dom)
	if errors.Is(err, model.ErrSourceNotFound) {
		analysis.Error = fmt.Sprintf("source not found: %s", dom)
		return analysis, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", dom, err)
	}

	analysis.SourceFound = true
	analysis.Source = src
	scoring := p.scorer.Score(src, opts.Context)
	analysis.Scoring = &scoring

	if opts.IncludeCounternarratives {
		counters, err := p.selector.FindFor(ctx, src, counter.Options{
			MinCredibility: opts.MinCredibility,
			Limit:          opts.Limit,
			PreferredLeans: opts.PreferredLeans,
			ClaimType:      opts.Context.ClaimType,
		})
		if err != nil {
			return nil, err
		}
		analysis.Counternarratives = counters
	}

	return analysis, nil
}

// AnalyzeBatch analyzes every URL concurrently and returns one Analysis
// per input, in input order: out[i] always corresponds to urls[i].
// Failures of any kind are reported in-band so one bad URL never aborts
// the rest of the batch.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, urls []string, opts Options) []*model.Analysis {
	if len(urls) == 0 {
		return nil
	}

	jobs := make([]worker.Job, len(urls))
	for i, u := range urls {
		jobs[i] = &analyzeJob{index: i, url: u, pipeline: p, opts: opts}
	}

	pool := worker.NewPool(p.workers)
	results := pool.Run(ctx, jobs)

	out := make([]*model.Analysis, len(urls))
	for _, r := range results {
		ar := r.(*analyzeResult)
		out[ar.index] = ar.analysis
	}
	// Jobs dropped by cancellation produce no result; keep the output
	// total with one entry per input.
	for i, a := range out {
		if a == nil {
			out[i] = &model.Analysis{URL: urls[i], Error: "analysis cancelled"}
		}
	}
	return out
}

// analyzeJob carries one URL through the pipeline, remembering its input
// position so batch output can be reassembled in order.
type analyzeJob struct {
	index    int
	url      string
	pipeline *Pipeline
	opts     Options
}

func (j *analyzeJob) Execute(ctx context.Context) worker.Result {
	analysis, err := j.pipeline.AnalyzeURL(ctx, j.url, j.opts)
	if err != nil {
		analysis = &model.Analysis{URL: j.url, Error: err.Error()}
	}
	return &analyzeResult{index: j.index, analysis: analysis}
}

type analyzeResult struct {
	index    int
	analysis *model.Analysis
}

// Err always reports nil: batch analysis keeps failures in-band on the
// Analysis so the output stays one entry per input.
func (r *analyzeResult) Err() error { return nil }

// BatchSummary counts batch outcomes. A result is successful when its
// source was found and no error was recorded.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Summarize tallies a batch result list.
func Summarize(results []*model.Analysis) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, a := range results {
		if a != nil && a.SourceFound && a.Error == "" {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return summary
}
