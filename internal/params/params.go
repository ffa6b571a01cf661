// Package params builds the immutable parameter set describing one
// experiment run: a target language plus the searcher hyperparameters,
// rendered as the dotted key=value configuration the retrieval backend
// expects.
package params

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/searchforge/csbench/internal/errors"
)

// Parameter key namespaces. The language tag appears under all three:
// collection, benchmark, and the searcher's benchmark binding. Keeping
// them equal is the builder's core invariant.
const (
	KeyCollectionLang    = "collection.lang"
	KeyBenchmarkName     = "benchmark.name"
	KeyBenchmarkLang     = "benchmark.lang"
	KeyBenchmarkFold     = "benchmark.fold"
	KeySearcherName      = "searcher.name"
	KeySearcherK1        = "searcher.k1"
	KeySearcherB         = "searcher.b"
	KeyFBTerms           = "searcher.fbTerms"
	KeyFBDocs            = "searcher.fbDocs"
	KeyOrigQueryWeight   = "searcher.originalQueryWeight"
	KeySearcherRerank    = "searcher.rerank"
	KeySearcherHits      = "searcher.hits"
	KeySearcherBenchLang = "searcher.benchmark.lang"
	KeyOptimizeMetric    = "optimize"
	KeyIncludeTrain      = "includetrain"
)

// languageScopedKeys are the keys that must all carry the same language tag.
var languageScopedKeys = []string{
	KeyCollectionLang,
	KeyBenchmarkLang,
	KeySearcherBenchLang,
}

// recognizedMetrics are the metric names the evaluate phase can optimize.
var recognizedMetrics = map[string]bool{
	"P_1": true, "P_5": true, "P_10": true, "P_20": true,
	"judged_10": true, "judged_20": true, "judged_200": true,
	"map": true, "mrr": true,
	"ndcg_cut_5": true, "ndcg_cut_10": true, "ndcg_cut_20": true,
	"recall_100": true, "recall_1000": true, "recip_rank": true,
}

// Hyperparameters is the fixed per-sweep configuration record. It is
// supplied once at harness start and copied verbatim into every Set.
type Hyperparameters struct {
	// Searcher is the retrieval model name (e.g. "BM25RM3").
	Searcher string `yaml:"searcher"`
	// K1 and B are the BM25 term-frequency saturation and length
	// normalization parameters.
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
	// FBTerms and FBDocs control RM3 expansion: how many feedback terms
	// are drawn from how many feedback documents.
	FBTerms int `yaml:"fb_terms"`
	FBDocs  int `yaml:"fb_docs"`
	// OriginalQueryWeight is the RM3 interpolation weight on the
	// unexpanded query (0.0-1.0).
	OriginalQueryWeight float64 `yaml:"original_query_weight"`
	// Rerank enables the neural reranking stage in the backend.
	Rerank bool `yaml:"rerank"`
	// Hits is the retrieval depth per query.
	Hits int `yaml:"hits"`
	// Benchmark is the benchmark module name (e.g. "codesearchnet_corpus").
	Benchmark string `yaml:"benchmark"`
	// Fold is the held-out partition used for evaluation (e.g. "s1").
	Fold string `yaml:"fold"`
	// Optimize is the dev-set metric the train phase maximizes.
	Optimize string `yaml:"optimize"`
	// IncludeTrain also scores the training-fold predictions during
	// evaluation.
	IncludeTrain bool `yaml:"include_train"`
}

// DefaultHyperparameters returns the standard BM25+RM3 configuration for
// CodeSearchNet sweeps.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Searcher:            "BM25RM3",
		K1:                  1.0,
		B:                   0.8,
		FBTerms:             50,
		FBDocs:              2,
		OriginalQueryWeight: 0.3,
		Rerank:              false,
		Hits:                1000,
		Benchmark:           "codesearchnet_corpus",
		Fold:                "s1",
		Optimize:            "map",
		IncludeTrain:        false,
	}
}

// Validate checks the hyperparameter record once at startup. A malformed
// record fails every sweep iteration, so validation errors are fatal.
func (hp Hyperparameters) Validate() error {
	if hp.Searcher == "" {
		return errors.New(errors.ErrCodeBadHyperparam, "searcher name must not be empty", nil)
	}
	if hp.K1 <= 0 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("k1 must be positive, got %v", hp.K1), nil)
	}
	if hp.B < 0 || hp.B > 1 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("b must be in [0, 1], got %v", hp.B), nil)
	}
	if hp.FBTerms <= 0 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("fbTerms must be positive, got %d", hp.FBTerms), nil)
	}
	if hp.FBDocs <= 0 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("fbDocs must be positive, got %d", hp.FBDocs), nil)
	}
	if hp.OriginalQueryWeight < 0 || hp.OriginalQueryWeight > 1 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("originalQueryWeight must be in [0, 1], got %v", hp.OriginalQueryWeight), nil)
	}
	if hp.Hits <= 0 {
		return errors.New(errors.ErrCodeBadHyperparam,
			fmt.Sprintf("hits must be positive, got %d", hp.Hits), nil)
	}
	if hp.Benchmark == "" {
		return errors.New(errors.ErrCodeBadHyperparam, "benchmark name must not be empty", nil)
	}
	if hp.Fold == "" {
		return errors.New(errors.ErrCodeBadHyperparam, "fold must not be empty", nil)
	}
	if !recognizedMetrics[hp.Optimize] {
		return errors.New(errors.ErrCodeUnknownMetric,
			"unknown optimize metric: "+hp.Optimize, nil).
			WithSuggestion("use a trec_eval metric name such as map, mrr, or ndcg_cut_10")
	}
	return nil
}

// Set is one experiment's full configuration: an immutable mapping from
// dotted configuration key to rendered value. Construct via Build; there
// is no mutation API.
type Set struct {
	kv map[string]string
}

// Build produces the Set for one sweep iteration. It is pure: identical
// inputs yield identical Sets, and the result shares no state with the
// builder or other Sets.
func Build(lang Language, hp Hyperparameters) (Set, error) {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return Set{}, err
	}
	if err := hp.Validate(); err != nil {
		return Set{}, err
	}

	kv := map[string]string{
		KeyCollectionLang:    string(lang),
		KeyBenchmarkName:     hp.Benchmark,
		KeyBenchmarkLang:     string(lang),
		KeyBenchmarkFold:     hp.Fold,
		KeySearcherName:      hp.Searcher,
		KeySearcherK1:        formatFloat(hp.K1),
		KeySearcherB:         formatFloat(hp.B),
		KeyFBTerms:           strconv.Itoa(hp.FBTerms),
		KeyFBDocs:            strconv.Itoa(hp.FBDocs),
		KeyOrigQueryWeight:   formatFloat(hp.OriginalQueryWeight),
		KeySearcherRerank:    strconv.FormatBool(hp.Rerank),
		KeySearcherHits:      strconv.Itoa(hp.Hits),
		KeySearcherBenchLang: string(lang),
		KeyOptimizeMetric:    hp.Optimize,
		KeyIncludeTrain:      strconv.FormatBool(hp.IncludeTrain),
	}
	return Set{kv: kv}, nil
}

// Get returns the value for a key and whether it is present.
func (s Set) Get(key string) (string, bool) {
	v, ok := s.kv[key]
	return v, ok
}

// Language returns the language tag carried by the Set.
func (s Set) Language() Language {
	return Language(s.kv[KeyCollectionLang])
}

// Keys returns all keys in sorted order. Iteration order is part of the
// determinism guarantee: two Sets built from identical inputs render
// identically.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.kv))
	for k := range s.kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of parameters.
func (s Set) Len() int {
	return len(s.kv)
}

// Args renders the Set as "key=value" arguments in sorted key order,
// the form the backend CLI consumes.
func (s Set) Args() []string {
	keys := s.Keys()
	args := make([]string, len(keys))
	for i, k := range keys {
		args[i] = k + "=" + s.kv[k]
	}
	return args
}

// LanguageConsistent reports whether every language-scoped key carries
// the same tag. Build always produces consistent Sets; this exists for
// auditing and tests.
func (s Set) LanguageConsistent() bool {
	want := s.kv[KeyCollectionLang]
	for _, k := range languageScopedKeys {
		if s.kv[k] != want {
			return false
		}
	}
	return true
}

// Equal reports whether two Sets carry identical parameters.
func (s Set) Equal(other Set) bool {
	if len(s.kv) != len(other.kv) {
		return false
	}
	for k, v := range s.kv {
		if other.kv[k] != v {
			return false
		}
	}
	return true
}

// formatFloat renders floats without exponent notation and without
// trailing zeros, matching the backend's expected "1.0" style for
// whole values.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
