package openai

import (
	"fmt"
	"strings"

	"github.com/panmaat/backend/internal/domain/generation"
)

// systemPrompt pins the model to the recipe contract. The reply must be
// bare JSON so the parser can hold the provider to a fixed shape.
const systemPrompt = `You are a practical home cook. You create simple, realistic recipes from the ingredients a user has at hand, with common pantry staples allowed.

CRITICAL: Respond with ONLY a valid JSON object in exactly this format. No explanatory text, no markdown, no code fences.

{
  "title": "Recipe name",
  "ingredients": ["ingredient with amount", "..."],
  "steps": ["Short imperative step", "..."],
  "cooking_time": 25,
  "servings": 2,
  "category": "Diner"
}

Rules:
- At most 8 ingredients and at most 10 steps.
- cooking_time is the realistic total time in minutes, as a number.
- Steps are short and concrete, one action each.
- The recipe must actually use the listed ingredients.`

// imagePromptTemplate describes the dish photo. The prompt is fixed
// apart from the dish title so output stays uniform across recipes.
const imagePromptTemplate = `A photorealistic photo of the dish "%s", plated on a neutral plate. Show only the named dish: no extra ingredients, no garnish that is not part of the dish, no side dishes, no text. Soft natural light, square framing.`

// buildUserPrompt renders one generation request into the user message.
func buildUserPrompt(req generation.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a recipe using these ingredients: %s.\n", strings.Join(req.Ingredients, ", "))
	fmt.Fprintf(&b, "Servings: %d.\n", req.Servings)
	fmt.Fprintf(&b, "Category: %s.\n", req.Category)

	if req.Variation {
		b.WriteString("\nThe user rejected an earlier proposal for these exact ingredients. ")
		b.WriteString("Propose a structurally different preparation: a different cooking technique or different equipment, not a reworded version of a previous idea.")
	}

	return b.String()
}
