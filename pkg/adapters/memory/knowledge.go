package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/aretw0/waterfall/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Entry is one question and answer pair of a knowledge base.
type Entry struct {
	ID        int               `yaml:"id"`
	Questions []string          `yaml:"questions"`
	Answer    string            `yaml:"answer"`
	Source    string            `yaml:"source,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
	Prompts   []domain.Prompt   `yaml:"prompts,omitempty"`
}

type document struct {
	ID      string  `yaml:"id"`
	Entries []Entry `yaml:"entries"`
}

// KnowledgeBase implements ports.KnowledgeBase and ports.Trainer over a fixed
// set of entries. Questions are matched by word overlap.
// Safe for concurrent use.
type KnowledgeBase struct {
	id       string
	mu       sync.RWMutex
	entries  []Entry
	feedback []domain.FeedbackRecord
}

// NewKnowledgeBase validates the entries and builds a knowledge base.
func NewKnowledgeBase(id string, entries ...Entry) (*KnowledgeBase, error) {
	seen := make(map[int]bool, len(entries))
	for i, e := range entries {
		if e.ID <= 0 {
			return nil, fmt.Errorf("entry %d: id must be positive", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %d", i, e.ID)
		}
		if e.Answer == "" {
			return nil, fmt.Errorf("entry %d: answer is required", e.ID)
		}
		seen[e.ID] = true
	}
	for _, e := range entries {
		for _, p := range e.Prompts {
			if !seen[p.QnAID] {
				return nil, fmt.Errorf("entry %d: prompt %q targets unknown id %d", e.ID, p.DisplayText, p.QnAID)
			}
		}
	}
	return &KnowledgeBase{
		id:      id,
		entries: append([]Entry(nil), entries...),
	}, nil
}

// LoadKnowledgeBase reads a YAML document with an id and a list of entries.
func LoadKnowledgeBase(r io.Reader) (*KnowledgeBase, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}
	return NewKnowledgeBase(doc.ID, doc.Entries...)
}

// LoadKnowledgeBaseFile opens path and loads it with LoadKnowledgeBase.
func LoadKnowledgeBaseFile(path string) (*KnowledgeBase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kb, err := LoadKnowledgeBase(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}

// ID returns the knowledge base identifier.
func (k *KnowledgeBase) ID() string {
	return k.id
}

// Query implements ports.KnowledgeBase.
//
// An explicit QnAID returns that entry with full confidence. A previous QnA id
// in the context matches the question against that entry's prompts first.
// Results are sorted by descending score, filtered by threshold and strict
// filters, and capped at Top.
func (k *KnowledgeBase) Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	if opts.QnAID > 0 {
		if e, ok := k.find(opts.QnAID); ok {
			return []domain.QueryResult{e.result(1)}, nil
		}
		return nil, nil
	}

	if opts.Context != nil && opts.Context.PreviousQnAID > 0 {
		if prev, ok := k.find(opts.Context.PreviousQnAID); ok {
			for _, p := range prev.Prompts {
				if normalize(p.DisplayText) == normalize(question) {
					if e, ok := k.find(p.QnAID); ok {
						return []domain.QueryResult{e.result(1)}, nil
					}
				}
			}
		}
	}

	words := tokenize(question)
	var results []domain.QueryResult
	for _, e := range k.entries {
		if !matchesFilters(e.Metadata, opts.StrictFilters, opts.StrictFiltersJoinOperator) {
			continue
		}
		score := 0.0
		for _, q := range e.Questions {
			if s := similarity(words, tokenize(q)); s > score {
				score = s
			}
		}
		if score > 0 && score >= opts.ScoreThreshold {
			results = append(results, e.result(score))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if opts.Top > 0 && len(results) > opts.Top {
		results = results[:opts.Top]
	}
	return results, nil
}

// Train implements ports.Trainer. Each record adds the user's question as an
// alternative phrasing of the chosen entry.
func (k *KnowledgeBase) Train(ctx context.Context, records []domain.FeedbackRecord) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, r := range records {
		i := k.index(r.QnAID)
		if i < 0 {
			return fmt.Errorf("train: unknown qna id %d", r.QnAID)
		}
		k.feedback = append(k.feedback, r)
		if r.UserQuestion == "" || containsNormalized(k.entries[i].Questions, r.UserQuestion) {
			continue
		}
		k.entries[i].Questions = append(k.entries[i].Questions, r.UserQuestion)
	}
	return nil
}

// Feedback returns the records received by Train.
func (k *KnowledgeBase) Feedback() []domain.FeedbackRecord {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]domain.FeedbackRecord(nil), k.feedback...)
}

func (k *KnowledgeBase) index(id int) int {
	for i, e := range k.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (k *KnowledgeBase) find(id int) (Entry, bool) {
	if i := k.index(id); i >= 0 {
		return k.entries[i], true
	}
	return Entry{}, false
}

func (e Entry) result(score float64) domain.QueryResult {
	r := domain.QueryResult{
		ID:        e.ID,
		Answer:    e.Answer,
		Score:     score,
		Questions: append([]string(nil), e.Questions...),
		Source:    e.Source,
	}
	if len(e.Metadata) > 0 {
		r.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			r.Metadata[k] = v
		}
	}
	if len(e.Prompts) > 0 {
		prompts := append([]domain.Prompt(nil), e.Prompts...)
		sort.SliceStable(prompts, func(i, j int) bool {
			return prompts[i].DisplayOrder < prompts[j].DisplayOrder
		})
		r.Context = &domain.AnswerContext{Prompts: prompts}
	}
	return r
}

func matchesFilters(metadata map[string]string, filters []domain.StrictFilter, join string) bool {
	if len(filters) == 0 {
		return true
	}
	or := strings.EqualFold(join, domain.JoinOr)
	for _, f := range filters {
		v, ok := lookupFold(metadata, f.Name)
		hit := ok && strings.EqualFold(v, f.Value)
		if or && hit {
			return true
		}
		if !or && !hit {
			return false
		}
	}
	return !or
}

func lookupFold(m map[string]string, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// similarity is the Dice coefficient of two word sets. Identical phrasings score 1.
func similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	common := 0
	seen := make(map[string]bool, len(a))
	for _, w := range a {
		if set[w] && !seen[w] {
			common++
		}
		seen[w] = true
	}
	return 2 * float64(common) / float64(len(seen)+len(set))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

func containsNormalized(list []string, s string) bool {
	n := normalize(s)
	for _, v := range list {
		if normalize(v) == n {
			return true
		}
	}
	return false
}
