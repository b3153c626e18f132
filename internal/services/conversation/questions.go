package conversation

import (
	"scheme-assistant/internal/models"
)

// Guided question templates per profile field and language. English is the
// fallback for any unsupported language tag.
var questions = map[string]map[string]string{
	models.FieldAge: {
		"en": "How old are you?",
		"hi": "आपकी उम्र क्या है?",
	},
	models.FieldState: {
		"en": "Which state do you live in?",
		"hi": "आप किस राज्य में रहते हैं?",
	},
	models.FieldEducationLevel: {
		"en": "What is your highest education level? (e.g., 10th pass, 12th pass, graduate, postgraduate)",
		"hi": "आपकी उच्चतम शिक्षा स्तर क्या है? (जैसे, 10वीं पास, 12वीं पास, स्नातक, स्नातकोत्तर)",
	},
	models.FieldIncomeRange: {
		"en": "What is your annual household income range? (e.g., below 1 lakh, 1-3 lakh, 3-5 lakh, above 5 lakh)",
		"hi": "आपकी वार्षिक घरेलू आय सीमा क्या है? (जैसे, 1 लाख से कम, 1-3 लाख, 3-5 लाख, 5 लाख से अधिक)",
	},
	models.FieldCategory: {
		"en": "What is your social category? (General, SC, ST, OBC)",
		"hi": "आपकी सामाजिक श्रेणी क्या है? (सामान्य, अनुसूचित जाति, अनुसूचित जनजाति, अन्य पिछड़ा वर्ग)",
	},
	models.FieldGender: {
		"en": "What is your gender? (male, female, other)",
		"hi": "आपका लिंग क्या है? (पुरुष, महिला, अन्य)",
	},
	models.FieldOccupation: {
		"en": "What is your occupation? (e.g., student, farmer, self-employed, unemployed)",
		"hi": "आपका व्यवसाय क्या है? (जैसे, छात्र, किसान, स्व-रोजगार, बेरोजगार)",
	},
}

var greetings = map[string]string{
	"en": "Hello! I'm your assistant for discovering government welfare schemes. I'll ask you a few questions to understand your needs and find schemes you're eligible for. Let's get started!",
	"hi": "नमस्ते! मैं सरकारी कल्याण योजनाओं की खोज के लिए आपका सहायक हूं। मैं आपकी आवश्यकताओं को समझने और आपके लिए उपयुक्त योजनाओं को खोजने के लिए कुछ प्रश्न पूछूंगा। चलिए शुरू करते हैं!",
}

// Question returns the guided question for a field in the requested
// language, falling back to English.
func Question(field, language string) string {
	byLang, ok := questions[field]
	if !ok {
		return ""
	}
	if q, ok := byLang[language]; ok {
		return q
	}
	return byLang["en"]
}

// Greeting returns the greeting message in the requested language,
// falling back to English.
func Greeting(language string) string {
	if g, ok := greetings[language]; ok {
		return g
	}
	return greetings["en"]
}
