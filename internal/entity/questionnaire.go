package entity

import "encoding/json"

// Questionnaire is the questionnaire definition as served by the backend.
// The funnel never interprets it.
type Questionnaire = json.RawMessage

// AnswerState maps a question id to the selected answer ids.
type AnswerState map[int64][]int64

// ReferenceData carries the option lists of the company profile form.
type ReferenceData struct {
	Industries   []string `json:"industries"`
	CompanySizes []string `json:"company_sizes"`
}
