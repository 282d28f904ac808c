package model

// Emotion is the structured reply of the emotion analysis feature.
type Emotion struct {
	Emotion           string `json:"emotion"`
	Confidence        string `json:"confidence"`
	Evidence          string `json:"evidence"`
	StressLevel       string `json:"stress_level"`
	DecisionReadiness string `json:"decision_readiness"`
	ConfidenceTrend   string `json:"confidence_trend"`
}

// WhatIf is the two-path decision view.
type WhatIf struct {
	Introduction     string `json:"introduction"`
	PathNow          string `json:"path_now"`
	PathWait         string `json:"path_wait"`
	Closing          string `json:"closing"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// Answer is the reply of the general assistant.
type Answer struct {
	Answer string `json:"answer"`
	Note   string `json:"note,omitempty"`
}
