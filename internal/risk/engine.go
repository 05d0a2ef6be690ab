package risk

// Rule is one independent evaluator. Apply may raise the level and append
// reasons, next steps and red flags; it must never lower the level.
type Rule struct {
	Name  string
	Apply func(e *evaluation)
}

// evaluation is the accumulator threaded through every rule.
type evaluation struct {
	log     HealthLogInput
	profile *UserProfile

	level     Level
	reasons   []string
	nextSteps []string
	redFlags  []string
}

func (e *evaluation) raise(to Level) {
	e.level = Max(e.level, to)
}

func (e *evaluation) reason(r string)   { e.reasons = append(e.reasons, r) }
func (e *evaluation) step(s string)     { e.nextSteps = append(e.nextSteps, s) }
func (e *evaluation) redFlag(f string)  { e.redFlags = append(e.redFlags, f) }
func (e *evaluation) hasSymptoms() bool { return len(e.log.Symptoms.Items) > 0 }

// Engine folds an ordered rule list over a health log.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine from rules. With no rules it uses DefaultRules.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Engine{rules: cp}
}

// DefaultRules returns the production rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "symptom_keywords", Apply: symptomKeywordRule},
		{Name: "symptom_severity", Apply: severityRule},
		{Name: "symptom_duration", Apply: durationRule},
		{Name: "temperature", Apply: temperatureRule},
		{Name: "heart_rate", Apply: heartRateRule},
		{Name: "blood_pressure", Apply: bloodPressureRule},
		{Name: "oxygen_saturation", Apply: spO2Rule},
		{Name: "lifestyle", Apply: lifestyleRule},
		{Name: "chronic_conditions", Apply: chronicConditionRule},
		{Name: "age", Apply: ageRule},
		{Name: "symptom_combinations", Apply: combinationRule},
	}
}

// Assess evaluates the log. It is deterministic and never panics on a
// well-typed input; profile may be nil.
func (en *Engine) Assess(log HealthLogInput, profile *UserProfile) Assessment {
	e := &evaluation{
		log:     log,
		profile: profile,
		level:   LevelLow,
	}
	for _, r := range en.rules {
		if r.Apply != nil {
			r.Apply(e)
		}
	}

	if len(e.reasons) == 0 {
		e.reason("No significant health concerns detected")
	}

	return Assessment{
		RiskLevel:     e.level,
		Reasons:       e.reasons,
		NextSteps:     assembleNextSteps(e.level, e.nextSteps),
		RedFlags:      nonNil(e.redFlags),
		ConsultAdvice: ConsultAdvice(e.level),
		RuleVersion:   RuleVersion,
	}
}

var defaultEngine = NewEngine()

// Assess evaluates the log with the default rule set.
func Assess(log HealthLogInput, profile *UserProfile) Assessment {
	return defaultEngine.Assess(log, profile)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
