// Package prompt builds the system and user prompts sent to the language
// model. Everything here is a pure function of its inputs.
package prompt

import "strings"

type Feature string

const (
	FeatureGeneral Feature = "general"
	FeatureEmotion Feature = "emotion"
	FeatureWhatIf  Feature = "whatif"
	FeatureCrop    Feature = "crop"
)

// Supported response languages.
const (
	English = "en"
	Hindi   = "hi"
	Spanish = "es"
	French  = "fr"
	Tamil   = "ta"
)

var supported = map[string]bool{
	English: true,
	Hindi:   true,
	Spanish: true,
	French:  true,
	Tamil:   true,
}

// NormalizeLanguage lower-cases lang and maps anything unsupported to English.
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if supported[lang] {
		return lang
	}
	return English
}

// IsSupported reports whether lang has its own overlay.
func IsSupported(lang string) bool {
	return supported[strings.ToLower(strings.TrimSpace(lang))]
}

// Compose returns the system prompt for feature in language. Unknown
// languages get the English prompt; an unknown feature gets the general one.
func Compose(feature Feature, language string) string {
	base, ok := bases[feature]
	if !ok {
		feature = FeatureGeneral
		base = bases[FeatureGeneral]
	}
	return base + overlays[feature][NormalizeLanguage(language)]
}
