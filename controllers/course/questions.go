package controllers

import (
	"encoding/json"
	"fmt"
	"strings"

	courseModels "github.com/Ix1ax/upme-platform/models/course"
)

type rawOption struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Correct bool   `json:"correct"`
}

type rawQuestion struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Multiple *bool       `json:"multiple"`
	Options  []rawOption `json:"options"`
}

// normalizeQuestions validates raw authored questions and produces the
// canonical form persisted on the test. All shape errors are caught here;
// grading works on the canonical form without re-validating.
func normalizeQuestions(raw json.RawMessage) ([]courseModels.Question, error) {
	if len(raw) == 0 {
		return nil, errValidation("Questions array is required!")
	}

	var questions []rawQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, errValidation("Questions must be an array!")
	}
	if len(questions) == 0 {
		return nil, errValidation("At least one question is required!")
	}

	normalized := make([]courseModels.Question, 0, len(questions))
	questionIDs := make(map[string]bool, len(questions))

	for _, q := range questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return nil, errValidation("Every question must have an id!")
		}
		if questionIDs[id] {
			return nil, errValidation(fmt.Sprintf("Question id %q is duplicated!", id))
		}
		questionIDs[id] = true

		if len(q.Options) == 0 {
			return nil, errValidation(fmt.Sprintf("Question %q must have at least one option!", id))
		}

		optionKeys := make(map[string]bool, len(q.Options))
		options := make([]courseModels.Option, 0, len(q.Options))
		correctCount := 0
		for _, opt := range q.Options {
			key := strings.TrimSpace(opt.Key)
			if key == "" {
				return nil, errValidation(fmt.Sprintf("Every option of question %q must have a key!", id))
			}
			if optionKeys[key] {
				return nil, errValidation(fmt.Sprintf("Option key %q is duplicated in question %q!", key, id))
			}
			optionKeys[key] = true

			if opt.Correct {
				correctCount++
			}
			options = append(options, courseModels.Option{Key: key, Label: opt.Label, Correct: opt.Correct})
		}

		if correctCount == 0 {
			return nil, errValidation(fmt.Sprintf("Question %q must have at least one correct option!", id))
		}

		// Multiple-answer flag is inferred from the answer key unless the
		// author set it explicitly.
		multiple := correctCount > 1
		if q.Multiple != nil {
			multiple = *q.Multiple
		}

		normalized = append(normalized, courseModels.Question{
			ID:       id,
			Title:    q.Title,
			Multiple: multiple,
			Options:  options,
		})
	}

	return normalized, nil
}

// sanitizeQuestions strips the correct flags for the learner-facing view.
func sanitizeQuestions(questions []courseModels.Question) []courseModels.StudentQuestion {
	sanitized := make([]courseModels.StudentQuestion, 0, len(questions))
	for _, q := range questions {
		options := make([]courseModels.StudentOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, courseModels.StudentOption{Key: opt.Key, Label: opt.Label})
		}
		sanitized = append(sanitized, courseModels.StudentQuestion{
			ID:       q.ID,
			Title:    q.Title,
			Multiple: q.Multiple,
			Options:  options,
		})
	}
	return sanitized
}

// resolvePassingScore clamps the authored passing score into [0, total] and
// defaults to "all questions" when the author did not provide one.
func resolvePassingScore(provided *int, totalQuestions int) int {
	if provided == nil {
		return totalQuestions
	}
	if *provided < 0 {
		return 0
	}
	if *provided > totalQuestions {
		return totalQuestions
	}
	return *provided
}
