package dto

type AskTwinRequest struct {
	Doubt    string `json:"doubt"`
	Context  string `json:"context"`
	Language string `json:"language" binding:"max=64"`
}

type AnalyzeEmotionRequest struct {
	Text     string `json:"text"`
	Language string `json:"language" binding:"max=64"`
}

// WhatIfRequest accepts the stress level under both its camelCase and
// snake_case spellings.
type WhatIfRequest struct {
	Decision         string `json:"decision"`
	Context          string `json:"context"`
	Language         string `json:"language" binding:"max=64"`
	StressLevel      string `json:"stressLevel"`
	StressLevelSnake string `json:"stress_level"`
}

func (r WhatIfRequest) Stress() string {
	if r.StressLevel != "" {
		return r.StressLevel
	}
	if r.StressLevelSnake != "" {
		return r.StressLevelSnake
	}
	return "Low"
}

type CropImageResponse struct {
	Success  bool           `json:"success"`
	Analysis map[string]any `json:"analysis"`
	Note     string         `json:"note"`
}
