// Package generation contains the domain logic for the AI recipe
// generation pipeline: generation requests, candidate recipes and the
// bounded regeneration session.
package generation

import (
	"strings"

	"github.com/panmaat/backend/internal/domain/recipe"
)

// Request describes a single generation call to the AI provider.
type Request struct {
	Ingredients []string
	Servings    int
	Category    recipe.Category
	// Variation asks for a structurally different preparation of the
	// same ingredients instead of a fresh first proposal.
	Variation bool
}

// Candidate is an AI-proposed recipe that has not been persisted.
// It lives only inside a generation session until confirmed.
type Candidate struct {
	Title       string          `json:"title"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	CookingTime int             `json:"cooking_time"`
	Servings    int             `json:"servings"`
	Category    recipe.Category `json:"category"`
}

// Normalize coerces a loosely-shaped candidate into the domain bounds.
// The requested category always wins over what the provider returned;
// servings fall back to the requested count when missing. Over-long
// lists are truncated rather than rejected.
func (c Candidate) Normalize(req Request) (Candidate, error) {
	c.Title = strings.TrimSpace(c.Title)
	c.Ingredients = cleanList(c.Ingredients, recipe.MaxIngredients)
	c.Steps = cleanList(c.Steps, recipe.MaxSteps)

	if c.Title == "" || len(c.Ingredients) == 0 || len(c.Steps) == 0 {
		return Candidate{}, ErrIncompleteCandidate
	}

	if c.CookingTime <= 0 {
		c.CookingTime = recipe.DefaultCookingTime
	}

	if c.Servings <= 0 {
		c.Servings = req.Servings
	}
	if c.Servings <= 0 {
		c.Servings = recipe.DefaultServings
	}
	c.Category = req.Category

	return c, nil
}

// ParseIngredients splits free-form ingredient text on commas,
// trimming whitespace and dropping empty entries.
func ParseIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	return cleanList(parts, 0)
}

// CleanIngredients trims an already-split ingredient list and drops
// empty entries.
func CleanIngredients(items []string) []string {
	return cleanList(items, 0)
}

// cleanList trims entries, drops empties and truncates to limit when
// limit is positive.
func cleanList(items []string, limit int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
