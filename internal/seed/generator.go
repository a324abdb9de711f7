// Package seed generates synthetic users and repo snapshots and drives them
// through the HTTP API for smoke testing and demos.
package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/devrank/devrank/internal/domain/model"
)

// Generation pools. A slice of the names is AI-flavored so the classifier
// has something to find.
var (
	languagePool = []string{
		"Go", "Python", "TypeScript", "JavaScript", "Rust", "Java",
		"Jupyter Notebook", "C++", "Ruby", "Kotlin",
	}
	namePool = []string{
		"todo-app", "dotfiles", "blog-engine", "url-shortener", "game-of-life",
		"llm-playground", "ml-experiments", "chatbot-kit", "vision-lab", "rag-server",
	}
	descriptionPool = []string{
		"A small weekend project",
		"Utilities I use every day",
		"Deep learning experiments on public datasets",
		"A natural language processing toolkit",
		"Static site generator",
	}
)

const (
	maxStars      = 2000
	maxForks      = 300
	maxAgeDays    = 6 * 365
	maxStaleDays  = 400
	randomDivisor = 1 << 30
)

// randomInt returns a uniform int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomFloat returns a uniform float64 in [0, 1).
func randomFloat() float64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	return float64(v.Int64()) / float64(randomDivisor)
}

// GenerateUser creates one synthetic user identity.
func GenerateUser(index int) model.User {
	id := uuid.New().String()
	return model.User{
		ID:    id,
		Name:  fmt.Sprintf("Seed User %d", index),
		Login: fmt.Sprintf("seed-user-%d", index),
		Image: fmt.Sprintf("https://avatars.example.com/%s", id),
	}
}

// GenerateRepos creates a synthetic repo snapshot of up to maxRepos entries.
func GenerateRepos(maxRepos int, now time.Time) []model.RepoScoreData {
	count := 1 + randomInt(maxRepos)
	repos := make([]model.RepoScoreData, count)
	for i := range repos {
		name := namePool[randomInt(len(namePool))]
		lang := languagePool[randomInt(len(languagePool))]
		desc := descriptionPool[randomInt(len(descriptionPool))]

		created := now.AddDate(0, 0, -randomInt(maxAgeDays)-1)
		updated := now.AddDate(0, 0, -randomInt(maxStaleDays))
		if updated.Before(created) {
			updated = created
		}
		pushed := updated

		repos[i] = model.RepoScoreData{
			RepoID:      uuid.New().String(),
			Name:        fmt.Sprintf("%s-%d", name, i),
			Description: &desc,
			Language:    &lang,
			Stars:       int(randomFloat() * maxStars),
			Forks:       int(randomFloat() * maxForks),
			CreatedAt:   created,
			UpdatedAt:   updated,
			PushedAt:    &pushed,
		}
	}
	return repos
}
