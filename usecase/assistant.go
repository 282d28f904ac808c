package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"farmertwin/logging"
	"farmertwin/model"
	"farmertwin/prompt"
	"farmertwin/services"
	"farmertwin/utils"
)

const (
	askTemperature     = 0.4
	emotionTemperature = 0.3
	whatIfTemperature  = 0.4
	cropTemperature    = 0.3
	cropMaxTokens      = 1000

	offlineNote = "AI service temporarily unavailable - showing general guidance"
)

var offlineAnswers = []string{
	"I understand you're facing a challenge. Please consider consulting with local agricultural experts for personalized advice.",
	"Your concern is noted. For the best results, I recommend speaking with experienced farmers in your area.",
	"Thank you for sharing your farming question. While I can't provide specific advice right now, please consider reaching out to agricultural extension services.",
	"I appreciate you bringing this up. For accurate farming guidance, please consult with agricultural professionals or extension services in your region.",
}

// Shown when the model call fails, by language.
var apologyAnswers = map[string]string{
	prompt.English: "Sorry, I could not reach the farming assistant right now. Please try again in a little while, or ask a local agricultural expert.",
	prompt.Hindi:   "क्षमा करें, अभी सहायक से संपर्क नहीं हो पाया। कृपया थोड़ी देर बाद फिर से प्रयास करें या किसी स्थानीय कृषि विशेषज्ञ से पूछें।",
	prompt.Spanish: "Lo siento, no pude contactar al asistente en este momento. Inténtelo de nuevo más tarde o consulte a un experto agrícola local.",
	prompt.French:  "Désolé, l'assistant n'est pas joignable pour le moment. Réessayez un peu plus tard ou demandez à un expert agricole local.",
	prompt.Tamil:   "மன்னிக்கவும், இப்போது உதவியாளரை தொடர்பு கொள்ள முடியவில்லை. சிறிது நேரம் கழித்து மீண்டும் முயற்சிக்கவும் அல்லது உள்ளூர் விவசாய நிபுணரிடம் கேளுங்கள்.",
}

// Emotion labels accepted from the model, English and Tamil.
var validEmotions = map[string]bool{
	"Happy": true, "Calm": true, "Sad": true, "Angry": true,
	"Stressed": true, "Neutral": true, "Unclear": true,
	"மகிழ்ச்சி": true, "அமைதி": true, "வருத்தம்": true, "கோபம்": true,
	"மன அழுத்தம்": true, "நடுநிலை": true, "தெளிவற்ற": true,
}

// AssistantService fronts the language model. A nil AI runs every feature
// in offline mode.
type AssistantService struct {
	AI    services.Completer
	Model string
	Log   logging.Logger
	pick  func(n int) int
}

func NewAssistantService(ai services.Completer, modelName string, log logging.Logger) *AssistantService {
	return &AssistantService{
		AI:    ai,
		Model: modelName,
		Log:   log,
		pick:  rand.IntN,
	}
}

func (s *AssistantService) Online() bool {
	return s.AI != nil
}

// Ask answers a free-form farming question. Model failures are never
// surfaced; the caller gets an apology with a note instead.
func (s *AssistantService) Ask(ctx context.Context, doubt, contextText, language string) (*model.Answer, error) {
	if strings.TrimSpace(doubt) == "" {
		return nil, fmt.Errorf("No doubt provided: %w", utils.ErrValidation)
	}
	lang := prompt.NormalizeLanguage(language)

	if !s.Online() {
		return &model.Answer{
			Answer: offlineAnswers[s.pick(len(offlineAnswers))],
			Note:   offlineNote,
		}, nil
	}

	answer, err := s.AI.Complete(ctx, services.ChatRequest{
		System:      prompt.Compose(prompt.FeatureGeneral, lang),
		User:        prompt.Ask(doubt, contextText),
		Temperature: askTemperature,
	})
	if err != nil || answer == "" {
		s.Log.Warn(ctx, "ask-twin completion failed", "error", err)
		utils.TrackError("assistant", "ask_fallback")
		return &model.Answer{Answer: apologyAnswers[lang], Note: offlineNote}, nil
	}

	return &model.Answer{Answer: answer}, nil
}

// AnalyzeEmotion classifies the farmer's text. The payload always has the
// same fields whatever the language or model outcome.
func (s *AssistantService) AnalyzeEmotion(ctx context.Context, text, language string) (*model.Emotion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("No text provided: %w", utils.ErrValidation)
	}
	lang := prompt.NormalizeLanguage(language)
	tamil := lang == prompt.Tamil

	if !s.Online() {
		return &model.Emotion{
			Emotion:           localized(tamil, "Neutral", "நடுநிலை"),
			Confidence:        "Low",
			Evidence:          localized(tamil, "AI service temporarily unavailable", "AI சேவை தற்காலிகமாக கிடைக்கவில்லை"),
			StressLevel:       "Unclear",
			DecisionReadiness: "Stable",
			ConfidenceTrend:   "Stable",
		}, nil
	}

	unable := &model.Emotion{
		Emotion:           localized(tamil, "Neutral", "நடுநிலை"),
		Confidence:        "Low",
		Evidence:          localized(tamil, "Unable to analyze", "பகுப்பாய்வு செய்ய முடியவில்லை"),
		StressLevel:       "Unclear",
		DecisionReadiness: "Unclear",
		ConfidenceTrend:   "Unclear",
	}

	reply, err := s.AI.Complete(ctx, services.ChatRequest{
		System:      prompt.Compose(prompt.FeatureEmotion, lang),
		User:        prompt.Emotion(text),
		Temperature: emotionTemperature,
		JSON:        true,
	})
	if err != nil {
		s.Log.Warn(ctx, "emotion completion failed", "error", err)
		utils.TrackError("assistant", "emotion_fallback")
		return unable, nil
	}

	fields, err := decodeObject(reply)
	if err != nil {
		s.Log.Warn(ctx, "emotion reply was not JSON", "error", err)
		utils.TrackError("assistant", "emotion_malformed")
		return unable, nil
	}

	emotion := &model.Emotion{
		Emotion:           fields["emotion"],
		Confidence:        fields["confidence"],
		Evidence:          fields["evidence"],
		StressLevel:       orDefault(fields["stress_level"], "Unclear"),
		DecisionReadiness: orDefault(fields["decision_readiness"], "Unclear"),
		ConfidenceTrend:   orDefault(fields["confidence_trend"], "Unclear"),
	}
	if !validEmotions[emotion.Emotion] {
		emotion.Emotion = localized(tamil, "Neutral", "நடுநிலை")
		emotion.Confidence = "Low"
		emotion.Evidence = localized(tamil, "No clear evidence", "தெளிவான சான்று இல்லை")
	}
	if emotion.Confidence == "" {
		emotion.Confidence = "Low"
	}

	return emotion, nil
}

// WhatIf builds the act-now / wait-a-little view of a decision.
func (s *AssistantService) WhatIf(ctx context.Context, decision, contextText, language, stressLevel string) (*model.WhatIf, error) {
	if strings.TrimSpace(decision) == "" {
		return nil, fmt.Errorf("No decision provided: %w", utils.ErrValidation)
	}
	lang := prompt.NormalizeLanguage(language)
	tamil := lang == prompt.Tamil
	if stressLevel == "" {
		stressLevel = "Low"
	}

	if !s.Online() {
		if tamil {
			return &model.WhatIf{
				Introduction:     "AI சேவை தற்காலிகமாக கிடைக்கவில்லை.",
				PathNow:          "உங்கள் முடிவை உள்ளூர் விவசாய நிபுணர்களுடன் கலந்தாலோசிக்கவும்.",
				PathWait:         "அனுபவம் வாய்ந்த விவசாயிகளிடம் ஆலோசனை பெறவும்.",
				Closing:          "உங்கள் முடிவு உங்கள் கையில் உள்ளது.",
				DetectedLanguage: prompt.Tamil,
			}, nil
		}
		return &model.WhatIf{
			Introduction:     "AI service is temporarily unavailable.",
			PathNow:          "Please consult with local agricultural experts about your decision.",
			PathWait:         "Consider seeking advice from experienced farmers in your area.",
			Closing:          "The decision is yours to make.",
			DetectedLanguage: prompt.English,
		}, nil
	}

	apology := whatIfApology(tamil)

	reply, err := s.AI.Complete(ctx, services.ChatRequest{
		System:      prompt.Compose(prompt.FeatureWhatIf, lang),
		User:        prompt.WhatIf(decision, contextText, stressLevel),
		Temperature: whatIfTemperature,
		JSON:        true,
	})
	if err != nil {
		s.Log.Warn(ctx, "what-if completion failed", "error", err)
		utils.TrackError("assistant", "whatif_fallback")
		return apology, nil
	}

	fields, err := decodeObject(reply)
	if err != nil {
		s.Log.Warn(ctx, "what-if reply was not JSON", "error", err)
		utils.TrackError("assistant", "whatif_malformed")
		return apology, nil
	}

	missing := localized(tamil, "Information not available", "தகவல் கிடைக்கவில்லை")
	return &model.WhatIf{
		Introduction:     orDefault(fields["introduction"], missing),
		PathNow:          orDefault(fields["path_now"], missing),
		PathWait:         orDefault(fields["path_wait"], missing),
		Closing:          orDefault(fields["closing"], missing),
		DetectedLanguage: lang,
	}, nil
}

func whatIfApology(tamil bool) *model.WhatIf {
	if tamil {
		return &model.WhatIf{
			Introduction:     "மன்னிக்கவும், பதிலை உருவாக்க முடியவில்லை.",
			PathNow:          "உங்கள் முடிவை கவனமாக யோசியுங்கள்.",
			PathWait:         "அவசரப்படாமல் சிந்தியுங்கள்.",
			Closing:          "உங்கள் முடிவு முக்கியமானது.",
			DetectedLanguage: prompt.Tamil,
		}
	}
	return &model.WhatIf{
		Introduction:     "Sorry, unable to generate response.",
		PathNow:          "Please think carefully about your decision.",
		PathWait:         "Take your time to consider.",
		Closing:          "Your decision matters.",
		DetectedLanguage: prompt.English,
	}
}

// AnalyzeCropImage asks the vision model for a diagnosis of a crop photo.
// Unlike the text features, upstream errors are returned: quota exhaustion
// wraps utils.ErrQuotaExceeded, anything else utils.ErrUpstream.
func (s *AssistantService) AnalyzeCropImage(ctx context.Context, image []byte, mimeType, language string) (map[string]any, string, error) {
	if len(image) == 0 {
		return nil, "", fmt.Errorf("No image provided: %w", utils.ErrValidation)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	if !s.Online() {
		return map[string]any{
			"disease_name":     "Analysis unavailable",
			"visual_symptoms":  "The image could not be analyzed because the AI service is not configured.",
			"severity":         "Unknown",
			"confidence_level": "Low",
			"treatment":        "Please show the affected plant to a local agricultural extension officer.",
			"prevention":       "Inspect crops regularly and remove affected leaves early.",
			"explanation":      "AI service temporarily unavailable.",
			"offline":          true,
		}, offlineNote, nil
	}

	reply, err := s.AI.Complete(ctx, services.ChatRequest{
		System:       prompt.Compose(prompt.FeatureCrop, prompt.NormalizeLanguage(language)),
		User:         prompt.CropUserPrompt,
		Temperature:  cropTemperature,
		MaxTokens:    cropMaxTokens,
		ImageDataURL: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		s.Log.Error(ctx, "crop image analysis failed", "error", err)
		if errors.Is(err, utils.ErrQuotaExceeded) {
			utils.TrackError("assistant", "crop_quota")
		} else {
			utils.TrackError("assistant", "crop_upstream")
		}
		return nil, "", err
	}

	return ParseCropAnalysis(reply), fmt.Sprintf("AI analysis generated by %s.", s.Model), nil
}

// ParseCropAnalysis decodes the model's reply, tolerating markdown code
// fences. Replies that are not a JSON object are wrapped as free text.
func ParseCropAnalysis(reply string) map[string]any {
	body := StripCodeFences(reply)

	var analysis map[string]any
	if err := json.Unmarshal([]byte(body), &analysis); err == nil && analysis != nil {
		return analysis
	}

	return map[string]any{
		"disease_name":     "Analysis Complete",
		"visual_symptoms":  reply,
		"severity":         "See analysis",
		"confidence_level": "High",
		"treatment":        "See detailed analysis",
		"prevention":       "See detailed analysis",
		"explanation":      reply,
	}
}

// StripCodeFences returns the contents of the first ``` block in s, or s
// itself when there is none.
func StripCodeFences(s string) string {
	const fence = "```"
	start := strings.Index(s, fence)
	if start < 0 {
		return strings.TrimSpace(s)
	}
	rest := s[start+len(fence):]
	// Drop a language tag such as "json".
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
		rest = rest[nl+1:]
	} else {
		rest = strings.TrimPrefix(rest, "json")
	}
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// decodeObject parses a JSON object and flattens its values to strings.
func decodeObject(reply string) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFences(reply)), &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("reply is not a JSON object")
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = strings.TrimSpace(s)
			continue
		}
		if string(v) != "null" {
			out[k] = string(v)
		}
	}
	return out, nil
}

func localized(tamil bool, en, ta string) string {
	if tamil {
		return ta
	}
	return en
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
