package flashgen

import "github.com/mkale/sparky/internal/llm"

// FlashcardSchema defines the JSON schema for flashcard generation responses.
var FlashcardSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "A set of study flashcards about a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type":        "array",
				"description": "An array of flashcards.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "The front side of the flashcard (e.g., a term or question).",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The back side of the flashcard (e.g., a definition or answer).",
						},
					},
					"required": []any{"front", "back"},
				},
			},
		},
		"required": []any{"flashcards"},
	},
}
