package risk

const (
	stepCallEmergency  = "Call emergency services (911) immediately"
	stepDoNotDrive     = "Do not drive yourself to the hospital"
	stepSeekCareToday  = "Seek medical attention today"
	stepUrgentCare     = "Visit an urgent care clinic or contact your doctor"
	stepMonitorWorse   = "Monitor your symptoms closely and seek emergency care if they get worse"
	stepMonitor        = "Monitor your symptoms over the next 24-48 hours"
	stepSchedule       = "Schedule an appointment with your doctor if symptoms persist"
	stepRest           = "Get plenty of rest and stay hydrated"
	stepHealthyHabits  = "Continue maintaining healthy habits"
	stepKeepLogging    = "Keep logging your symptoms to track any changes"
	adviceEmergency    = "This may be a medical emergency. Call emergency services or go to the nearest emergency room now."
	adviceHigh         = "Your symptoms need prompt medical attention. Contact a healthcare provider today."
	adviceMedium       = "Consider scheduling an appointment with your healthcare provider if symptoms persist or worsen."
	adviceLow          = "Your symptoms appear mild. Continue to monitor and consult a healthcare provider if anything changes."
	adviceUnknownLevel = adviceLow
)

// assembleNextSteps wraps the rule-specific steps with the level's standard guidance.
func assembleNextSteps(level Level, ruleSteps []string) []string {
	steps := make([]string, 0, len(ruleSteps)+3)
	switch level {
	case LevelEmergency:
		steps = append(steps, stepCallEmergency)
		steps = append(steps, ruleSteps...)
		steps = append(steps, stepDoNotDrive)
	case LevelHigh:
		steps = append(steps, stepSeekCareToday)
		steps = append(steps, ruleSteps...)
		steps = append(steps, stepUrgentCare, stepMonitorWorse)
	case LevelMedium:
		steps = append(steps, ruleSteps...)
		steps = append(steps, stepMonitor, stepSchedule, stepRest)
	default:
		steps = append(steps, ruleSteps...)
		steps = append(steps, stepHealthyHabits, stepKeepLogging)
	}
	return steps
}

// ConsultAdvice returns the fixed summary sentence for a level.
func ConsultAdvice(level Level) string {
	switch level {
	case LevelEmergency:
		return adviceEmergency
	case LevelHigh:
		return adviceHigh
	case LevelMedium:
		return adviceMedium
	case LevelLow:
		return adviceLow
	default:
		return adviceUnknownLevel
	}
}
