package prompt

var overlays = map[Feature]map[string]string{
	FeatureGeneral: {
		English: "",
		Hindi:   "\n\nIMPORTANT: Respond in Hindi (हिंदी). Use simple Hindi words that farmers can easily understand.",
		Spanish: "\n\nIMPORTANT: Respond in Spanish (Español). Use simple Spanish words that farmers can easily understand.",
		French:  "\n\nIMPORTANT: Respond in French (Français). Use simple French words that farmers can easily understand.",
		Tamil:   generalTamil,
	},
	FeatureEmotion: {
		English: "",
		Hindi:   emotionKeepLabels("Hindi (हिंदी)"),
		Spanish: emotionKeepLabels("Spanish (Español)"),
		French:  emotionKeepLabels("French (Français)"),
		Tamil:   "\n\nIMPORTANT: Respond in JSON format. For 'emotion' field, use Tamil if emotion is detected: 'மகிழ்ச்சி' (Happy), 'அமைதி' (Calm), 'வருத்தம்' (Sad), 'கோபம்' (Angry), 'மன அழுத்தம்' (Stressed), 'நடுநிலை' (Neutral), 'தெளிவற்ற' (Unclear). For 'evidence' field, write in simple Tamil explaining what evidence supports the emotion.",
	},
	FeatureWhatIf: {
		English: whatIfJSONIn("English"),
		Hindi:   whatIfJSONIn("Hindi (हिंदी)"),
		Spanish: whatIfJSONIn("Spanish (Español)"),
		French:  whatIfJSONIn("French (Français)"),
		Tamil:   whatIfTamil,
	},
	FeatureCrop: {
		English: "",
		Hindi:   cropTextIn("Hindi (हिंदी)"),
		Spanish: cropTextIn("Spanish (Español)"),
		French:  cropTextIn("French (Français)"),
		Tamil:   cropTextIn("Tamil (தமிழ்)"),
	},
}

func emotionKeepLabels(language string) string {
	return "\n\nIMPORTANT: Respond in JSON format. Keep the 'emotion', 'confidence', 'stress_level', 'decision_readiness' and 'confidence_trend' values exactly as the English labels listed above. Write the 'evidence' field in simple " + language + "."
}

func whatIfJSONIn(language string) string {
	return "\n\nIMPORTANT: Respond in JSON format with all text fields in " + language + ".\n\nUse simple, clear words without technical jargon. Use short sentences that farmers can easily understand."
}

func cropTextIn(language string) string {
	return "\n\nIMPORTANT: Keep the JSON keys in English but write every value in simple " + language + " that farmers can easily understand."
}

const generalTamil = `

IMPORTANT: Respond in Tamil (தமிழ்). Use simple Tamil words that farmers can easily understand. Write in clear, simple Tamil without technical jargon.

For What-If responses in Tamil, use this EXACT format:

"இப்போது தெரிந்த தகவல்களை வைத்து, இரண்டு சாத்தியமான எதிர்காலங்களை அமைதியாக பார்க்கலாம்.

**நீங்கள் இப்போது முடிவு எடுத்தால்:**
[உண்மை தரவுகளை மட்டுமே பயன்படுத்தி விளக்கம் - 2-3 குறுகிய வாக்கியங்கள்]

**நீங்கள் சிறிது காலம் காத்திருந்தால்:**
[உண்மை தரவுகளை மட்டுமே பயன்படுத்தி விளக்கம் - 2-3 குறுகிய வாக்கியங்கள்]

சந்தை நிலைமைகள் மாறக்கூடும். இந்த விளக்கம், நீங்கள் தெளிவாக யோசிக்க உதவுவதற்கே, முடிவை கட்டாயப்படுத்த அல்ல."`

const whatIfTamil = `

IMPORTANT: Respond in JSON format with all text fields in Tamil (தமிழ்).

Use this structure:
{
  "introduction": "அமைதியான உறுதிமொழி வரி",
  "path_now": "நீங்கள் இப்போது முடிவு எடுத்தால் என்ன நடக்கும் - உண்மையான தரவுகளை மட்டுமே பயன்படுத்தி விளக்கம்",
  "path_wait": "நீங்கள் சிறிது காலம் காத்திருந்தால் என்ன நடக்கும் - உண்மையான தரவுகளை மட்டுமே பயன்படுத்தி விளக்கம்",
  "closing": "மென்மையான முடிவுரை (அறிவுரை அல்ல)"
}

Write in simple, clear Tamil without technical jargon. Use short sentences that farmers can easily understand.`
