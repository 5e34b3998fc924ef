package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"mizan/internal"
	"mizan/internal/storage"
	"mizan/internal/util"
)

// uncategorized labels products without a category slug in the summary.
const uncategorized = "other"

// LastRunKey is the metadata key holding the time of the last stored cleanup.
const LastRunKey = "cleanup.last_run"

// RunStats counts products after each stage of one run.
type RunStats struct {
	Input     int            `json:"input"`
	Malformed int            `json:"malformed"`
	Complete  int            `json:"complete"`
	Unique    int            `json:"unique"`
	Replaced  int            `json:"replaced"`
	Final     int            `json:"final"`
	Rejected  map[string]int `json:"rejected"`
}

type CategoryCount struct {
	CategorySlug string `json:"category_slug"`
	Count        int    `json:"count"`
}

type Result struct {
	Collection internal.Collection
	Stats      RunStats
	Categories []CategoryCount
}

// runState holds everything one run remembers between products. It is created
// per Run and never shared.
type runState struct {
	dedupe *Deduplicator
	slugs  *util.SlugSet
}

func newRunState() *runState {
	return &runState{dedupe: NewDeduplicator(), slugs: util.NewSlugSet()}
}

// Cleaner runs the cleanup stages over a whole collection: decode, clean
// names, drop incomplete products, dedupe, assign slugs.
type Cleaner struct {
	logger *zap.Logger
}

func NewCleaner(logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{logger: logger}
}

func (c *Cleaner) Run(raw internal.RawCollection) Result {
	stats := RunStats{Input: len(raw.Products), Rejected: map[string]int{}}

	products := c.decode(raw.Products, &stats)
	for i := range products {
		products[i] = CleanName(products[i])
	}

	complete := make([]internal.Product, 0, len(products))
	for _, p := range products {
		verdict := Validate(p)
		if !verdict.Complete {
			stats.Rejected[verdict.Reason]++
			c.logger.Debug("dropping incomplete product", zap.String("name", p.Name), zap.String("reason", verdict.Reason))
			continue
		}
		complete = append(complete, p)
	}
	stats.Complete = len(complete)

	state := newRunState()
	for _, p := range complete {
		if state.dedupe.Add(p) == DedupeReplaced {
			stats.Replaced++
		}
	}
	unique := state.dedupe.Products()
	stats.Unique = len(unique)

	final := AssignSlugs(unique, state.slugs)
	stats.Final = len(final)

	meta := make(map[string]json.RawMessage, len(raw.Meta))
	for k, v := range raw.Meta {
		meta[k] = v
	}

	c.logger.Info("cleanup run done",
		zap.Int("input", stats.Input),
		zap.Int("malformed", stats.Malformed),
		zap.Int("complete", stats.Complete),
		zap.Int("unique", stats.Unique),
		zap.Int("replaced", stats.Replaced),
		zap.Int("final", stats.Final),
	)

	return Result{
		Collection: internal.Collection{Meta: meta, Products: final},
		Stats:      stats,
		Categories: SummarizeCategories(final),
	}
}

func (c *Cleaner) decode(raws []json.RawMessage, stats *RunStats) []internal.Product {
	out := make([]internal.Product, 0, len(raws))
	for i, raw := range raws {
		var p internal.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			stats.Malformed++
			c.logger.Warn("skipping malformed record", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

// SummarizeCategories counts products per category slug, largest first; equal
// counts keep the order in which the categories first appeared.
func SummarizeCategories(products []internal.Product) []CategoryCount {
	index := map[string]int{}
	out := []CategoryCount{}
	for _, p := range products {
		slug := p.CategorySlug
		if slug == "" {
			slug = uncategorized
		}
		i, ok := index[slug]
		if !ok {
			i = len(out)
			index[slug] = i
			out = append(out, CategoryCount{CategorySlug: slug})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CleanupService runs the cleaner against files and records the outcome.
type CleanupService struct {
	db      *storage.DB
	cleaner *Cleaner
	logger  *zap.Logger
}

// NewCleanupService builds a service. db may be nil, in which case no sqlite
// snapshot or run record is written.
func NewCleanupService(db *storage.DB, logger *zap.Logger) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupService{db: db, cleaner: NewCleaner(logger), logger: logger}
}

type CleanupOptions struct {
	InputPath  string
	OutputPath string
	XLSXPath   string
}

type CleanupResult struct {
	Result
	TraceID string
	Elapsed time.Duration
}

// Cleanup cleans opts.InputPath into opts.OutputPath. Output files are staged
// first and only moved into place once the snapshot is stored, so an error
// leaves the previous output untouched.
func (s *CleanupService) Cleanup(ctx context.Context, opts CleanupOptions) (CleanupResult, error) {
	start := time.Now()
	raw, err := ReadRawCollectionFile(opts.InputPath)
	if err != nil {
		return CleanupResult{}, err
	}

	result := s.cleaner.Run(raw)

	var staged []*stagedFile
	defer func() {
		for _, f := range staged {
			f.Discard()
		}
	}()

	out, err := stageCollectionFile(opts.OutputPath, result.Collection)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("write %s: %w", opts.OutputPath, err)
	}
	staged = append(staged, out)
	if opts.XLSXPath != "" {
		report, err := stageWorkbook(result.Collection.Products, result.Categories, opts.XLSXPath)
		if err != nil {
			return CleanupResult{}, fmt.Errorf("export %s: %w", opts.XLSXPath, err)
		}
		staged = append(staged, report)
	}

	res := CleanupResult{Result: result, TraceID: ulid.Make().String()}
	if s.db != nil {
		if err := s.snapshot(ctx, opts, res, start); err != nil {
			return CleanupResult{}, err
		}
	}

	for len(staged) > 0 {
		if err := staged[0].Commit(); err != nil {
			return CleanupResult{}, fmt.Errorf("commit %s: %w", staged[0].path, err)
		}
		staged = staged[1:]
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (s *CleanupService) snapshot(ctx context.Context, opts CleanupOptions, res CleanupResult, start time.Time) error {
	if err := s.db.ReplaceProducts(ctx, res.Collection.Products); err != nil {
		return fmt.Errorf("snapshot products: %w", err)
	}
	run := storage.RunRecord{
		TraceID:    res.TraceID,
		InputPath:  opts.InputPath,
		OutputPath: opts.OutputPath,
		Counts:     res.Stats,
		TotalMs:    float64(time.Since(start).Milliseconds()),
	}
	if err := s.db.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if err := s.db.SetMetadata(ctx, LastRunKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record last run: %w", err)
	}
	s.logger.Info("snapshot stored", zap.String("trace_id", res.TraceID), zap.Int("products", len(res.Collection.Products)))
	return nil
}
