// Package classifier decides whether a repository is AI-related using
// weighted keyword rules over name, description and language.
package classifier

import (
	"strings"

	"github.com/devrank/devrank/internal/domain/model"
)

// Rule weights. The threshold is a fixed share of the maximum reachable sum,
// so a name hit alone classifies while a language hit alone never does.
const (
	nameWeight        = 1.0
	descriptionWeight = 0.8
	languageWeight    = 0.1
	thresholdRatio    = 0.3
)

// defaultNameTokens match against the lower-cased repo name with hyphens and
// underscores stripped from both sides.
var defaultNameTokens = []string{
	"ai",
	"ml",
	"gpt",
	"llm",
	"machine-learning",
	"deep-learning",
	"neural-network",
	"nlp",
	"chatbot",
	"computer-vision",
	"data-science",
	"tensorflow",
	"pytorch",
	"transformer",
	"diffusion",
	"langchain",
	"openai",
	"rag",
}

// defaultDescriptionPhrases match against the lower-cased description as-is.
var defaultDescriptionPhrases = []string{
	"machine learning",
	"deep learning",
	"artificial intelligence",
	"neural network",
	"natural language processing",
	"computer vision",
	"data science",
	"large language model",
	"reinforcement learning",
	"generative ai",
	"image recognition",
	"speech recognition",
	"recommendation system",
}

// defaultLanguages are languages commonly used for AI work.
var defaultLanguages = []string{"python", "jupyter notebook", "r"}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithNameTokens replaces the name token list.
func WithNameTokens(tokens []string) Option {
	return func(c *Classifier) {
		if len(tokens) > 0 {
			c.nameTokens = tokens
		}
	}
}

// WithDescriptionPhrases replaces the description phrase list.
func WithDescriptionPhrases(phrases []string) Option {
	return func(c *Classifier) {
		if len(phrases) > 0 {
			c.descriptionPhrases = phrases
		}
	}
}

// Classifier is a pure, deterministic heuristic classifier.
type Classifier struct {
	nameTokens         []string
	descriptionPhrases []string
	languages          []string
}

// New creates a Classifier with the curated default keyword lists.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		nameTokens:         defaultNameTokens,
		descriptionPhrases: defaultDescriptionPhrases,
		languages:          defaultLanguages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Detect reports whether the repository is AI-related. Nil description or
// language never fails; the corresponding rule simply cannot match.
func (c *Classifier) Detect(repo model.RepoScoreData) bool {
	var matched float64

	name := normalizeName(repo.Name)
	for _, token := range c.nameTokens {
		if strings.Contains(name, normalizeName(token)) {
			matched += nameWeight
			break
		}
	}

	if repo.Description != nil {
		desc := strings.ToLower(*repo.Description)
		for _, phrase := range c.descriptionPhrases {
			if strings.Contains(desc, phrase) {
				matched += descriptionWeight
				break
			}
		}
	}

	if repo.Language != nil {
		lang := strings.ToLower(*repo.Language)
		for _, known := range c.languages {
			if strings.Contains(lang, known) {
				matched += languageWeight
				break
			}
		}
	}

	maxWeight := nameWeight + descriptionWeight + languageWeight
	return matched >= maxWeight*thresholdRatio
}

// CountAIProjects returns how many repos classify as AI-related.
func (c *Classifier) CountAIProjects(repos []model.RepoScoreData) int {
	count := 0
	for _, repo := range repos {
		if c.Detect(repo) {
			count++
		}
	}
	return count
}

// FilterAIProjects returns the subset of repos classified as AI-related.
func (c *Classifier) FilterAIProjects(repos []model.RepoScoreData) []model.RepoScoreData {
	var out []model.RepoScoreData
	for _, repo := range repos {
		if c.Detect(repo) {
			out = append(out, repo)
		}
	}
	return out
}

// normalizeName lower-cases and strips hyphens and underscores so that
// "machine-learning" and "machine_learning" compare equal.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
