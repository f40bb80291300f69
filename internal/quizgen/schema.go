package quizgen

import "github.com/mkale/sparky/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A short multiple-choice quiz about a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "An array of quiz questions.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The quiz question.",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "An array of possible answers.",
							"items": map[string]any{
								"type": "string",
							},
						},
						"correctAnswerIndex": map[string]any{
							"type":        "integer",
							"description": "The 0-based index of the correct answer in the 'options' array.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A brief explanation of why the correct answer is right.",
						},
					},
					"required": []any{"question", "options", "correctAnswerIndex", "explanation"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
