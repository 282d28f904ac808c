package prompt

import (
	"fmt"
	"strings"
)

// HighStressInstruction is appended to the what-if user prompt when the
// farmer reports high stress.
const HighStressInstruction = "\n\nIMPORTANT: The farmer is experiencing high stress. Keep your response VERY SHORT and EXTRA CALM. Use simple, reassuring language."

// CropUserPrompt accompanies the image in a crop analysis request.
const CropUserPrompt = "Analyze this crop image and provide a detailed diagnosis."

// Ask renders the general assistant user prompt.
func Ask(doubt, context string) string {
	return fmt.Sprintf("Context: %s\nFarmer doubt: %s", context, doubt)
}

// Emotion renders the emotion analysis user prompt.
func Emotion(text string) string {
	return fmt.Sprintf(`Analyze the emotional state of this farmer's text. Be honest and evidence-based. Only identify emotions when there is clear evidence.

Farmer's text: "%s"

Provide your analysis in JSON format following the specified structure.`, text)
}

// WhatIf renders the what-if user prompt. A "High" stress level (any case)
// adds HighStressInstruction.
func WhatIf(decision, context, stressLevel string) string {
	extra := ""
	if strings.EqualFold(strings.TrimSpace(stressLevel), "high") {
		extra = HighStressInstruction
	}
	return fmt.Sprintf(`The farmer wants to: %s

Context and real data available:
%s

Farmer's stress level: %s

Generate a What-If Future View showing two possible paths. Use ONLY the real data provided above. If data is insufficient, provide qualitative explanations instead of making up numbers.%s

Provide your response in JSON format following the specified structure.`, decision, context, stressLevel, extra)
}
