package safety

const crisisResources = "If you are thinking about harming yourself, please reach out now: call or text 988 (Suicide & Crisis Lifeline) or text HOME to 741741 (Crisis Text Line). If you are in immediate danger, call 911."

const (
	emergencyResponse = "This sounds like a medical emergency. Call 911 (or your local emergency number) right now. " +
		"Stay on the line and follow the dispatcher's instructions. Do not drive yourself to the hospital. " +
		"If someone is with you, ask them to stay with you and unlock the door for emergency responders. " +
		"Your emergency contacts are being notified."

	emptyMessageResponse = "I didn't catch that. Please type your question and I'll do my best to help."

	harmfulContentResponse = "I can't help with that. " + crisisResources + " You don't have to go through this alone."

	diagnosisResponse = "I'm not able to diagnose medical conditions. Only a qualified healthcare provider who can examine you should make a diagnosis. " +
		"I can share general health information or help you prepare questions for your doctor. " +
		"If your symptoms are severe or getting worse, please contact a healthcare provider."

	medicationResponse = "I can't give advice about which medication to take or how much. Medication choices and dosages depend on your health history and should come from your doctor or pharmacist. " +
		"Please check your prescription label or contact your pharmacist or doctor. If you think you have taken too much of something, call Poison Control at 1-800-222-1222 or 911."
)

// SafeFallbackResponse replaces a model reply that failed ValidateAIResponse.
const SafeFallbackResponse = "I'm not able to provide a diagnosis or specific medication instructions. " +
	"For guidance about your situation, please talk with a doctor, pharmacist, or other qualified healthcare provider. " +
	"I'm happy to share general health and wellness information."
