package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuestions(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "q1", "title": "Pick one", "options": [
			{"key": "a", "label": "A", "correct": true},
			{"key": "b", "label": "B"}
		]},
		{"id": "q2", "title": "Pick two", "options": [
			{"key": "a", "label": "A", "correct": true},
			{"key": "b", "label": "B", "correct": true},
			{"key": "c", "label": "C"}
		]}
	]`)

	questions, err := normalizeQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.False(t, questions[0].Multiple, "single correct option infers single-answer")
	assert.True(t, questions[1].Multiple, "two correct options infer multi-answer")
	assert.Len(t, questions[1].Options, 3)
}

func TestNormalizeQuestionsExplicitMultipleWins(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "q1", "title": "One correct but multi anyway", "multiple": true, "options": [
			{"key": "a", "label": "A", "correct": true},
			{"key": "b", "label": "B"}
		]}
	]`)

	questions, err := normalizeQuestions(raw)
	require.NoError(t, err)
	assert.True(t, questions[0].Multiple)
}

func TestNormalizeQuestionsTrimsIDsAndKeys(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "  q1  ", "title": "t", "options": [
			{"key": " a ", "label": "A", "correct": true}
		]}
	]`)

	questions, err := normalizeQuestions(raw)
	require.NoError(t, err)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "a", questions[0].Options[0].Key)
}

func TestNormalizeQuestionsRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty array", `[]`},
		{"not an array", `{"id": "q1"}`},
		{"blank id", `[{"id": "  ", "options": [{"key": "a", "correct": true}]}]`},
		{"duplicate id", `[
			{"id": "q1", "options": [{"key": "a", "correct": true}]},
			{"id": "q1", "options": [{"key": "a", "correct": true}]}
		]`},
		{"no options", `[{"id": "q1", "options": []}]`},
		{"blank option key", `[{"id": "q1", "options": [{"key": "", "correct": true}]}]`},
		{"duplicate option key", `[{"id": "q1", "options": [
			{"key": "a", "correct": true},
			{"key": "a"}
		]}]`},
		{"no correct option", `[{"id": "q1", "options": [{"key": "a"}, {"key": "b"}]}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeQuestions(json.RawMessage(tc.raw))
			assert.Equal(t, "VALIDATION_FAILED", appErrCode(t, err))
		})
	}
}

func TestSanitizeQuestionsStripsAnswerKey(t *testing.T) {
	raw := json.RawMessage(`[
		{"id": "q1", "title": "t", "options": [
			{"key": "a", "label": "A", "correct": true},
			{"key": "b", "label": "B"}
		]}
	]`)
	questions, err := normalizeQuestions(raw)
	require.NoError(t, err)

	sanitized := sanitizeQuestions(questions)
	require.Len(t, sanitized, 1)
	assert.Equal(t, "q1", sanitized[0].ID)
	require.Len(t, sanitized[0].Options, 2)

	encoded, err := json.Marshal(sanitized)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "correct")
}

func TestResolvePassingScore(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	assert.Equal(t, 5, resolvePassingScore(nil, 5), "default is all questions")
	assert.Equal(t, 3, resolvePassingScore(intPtr(3), 5))
	assert.Equal(t, 0, resolvePassingScore(intPtr(-2), 5), "negative clamps to zero")
	assert.Equal(t, 5, resolvePassingScore(intPtr(9), 5), "overshoot clamps to total")
	assert.Equal(t, 0, resolvePassingScore(intPtr(0), 5), "explicit zero is allowed")
}
