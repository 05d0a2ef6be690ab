package safety

import (
	"regexp"
	"strings"
)

// cant matches the negated-ability forms users type, with or without the apostrophe.
const cant = `(?:can'?t|cannot|can\s+not|unable\s+to)`

// breathingDifficulty needs a difficulty word; "my breathing is fine" must not pair with chest pain.
const breathingDifficulty = `(?:short(?:ness)?\s+of\s+breath|breathless|(?:difficulty|trouble|struggling)\s+(?:to\s+)?breath(?:e|ing)?\b|` + cant + `\s+breathe?\b)`

// emergencyPatterns decide whether a message escalates at all.
var emergencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)chest\s+pain.*` + breathingDifficulty),
	regexp.MustCompile(`(?is)` + breathingDifficulty + `.*chest\s+pain`),
	regexp.MustCompile(`(?i)heart\s+attack`),
	regexp.MustCompile(`(?i)` + cant + `\s+breathe?\b|(difficulty|trouble|struggling)\s+(to\s+)?breath(e|ing)?\b`),
	regexp.MustCompile(`(?i)face\s+(is\s+)?droop|drooping\s+(face|mouth)|arm\s+(is\s+)?(weak|numb)|arm\s+weakness|weak(ness)?\s+in\s+(my\s+)?(arm|leg)|slurred\s+speech|speech\s+(difficulty|problems?)|(difficulty|trouble)\s+(speaking|talking)|` + cant + `\s+(speak|talk)\b|sudden\s+(numbness|confusion|weakness)|having\s+a\s+stroke|stroke\s+symptoms`),
	regexp.MustCompile(`(?i)anaphyla(xis|ctic)|throat\s+(is\s+)?(closing|swelling|tightening)|` + cant + `\s+swallow|severe\s+allergic\s+reaction|tongue\s+(is\s+)?swelling`),
	regexp.MustCompile(`(?i)suicid(e|al)|kill(ing)?\s+myself|end\s+my\s+(own\s+)?life|take\s+my\s+own\s+life|end\s+it\s+all|want\s+to\s+die|self[\s-]?harm|(want|going|plan(ning)?)\s+to\s+(hurt|harm)\s+myself|cutting\s+myself`),
	regexp.MustCompile(`(?i)overdos(e|ed|ing)|took\s+too\s+many\s+(pills|tablets)|poison(ed|ing)\b|(swallowed|drank|ate)\s+(poison|bleach)|severe(ly)?\s+bleeding|bleeding\s+(heavily|a\s+lot|won'?t\s+stop|will\s+not\s+stop)|unconscious|unresponsive|passed\s+out|seizure|convuls(ion|ions|ing)`),
	regexp.MustCompile(`(?i)worst\s+(pain|headache)\s+(of\s+my\s+life|i'?ve\s+ever|ever)|excruciating`),
}

// contextPattern refines an escalated message into a typed context.
// Table order is the type priority: the first match sets Type.
type contextPattern struct {
	re       *regexp.Regexp
	kind     EmergencyType
	severity EmergencySeverity
	keyword  string
}

var contextPatterns = []contextPattern{
	{regexp.MustCompile(`(?i)heart\s+attack`), EmergencyCardiac, SeverityCritical, "heart attack"},
	{regexp.MustCompile(`(?i)chest\s+pain`), EmergencyCardiac, SeverityCritical, "chest pain"},

	{regexp.MustCompile(`(?i)face\s+(is\s+)?droop|drooping\s+(face|mouth)`), EmergencyStroke, SeverityCritical, "face drooping"},
	{regexp.MustCompile(`(?i)arm\s+(is\s+)?(weak|numb)|arm\s+weakness|weak(ness)?\s+in\s+(my\s+)?(arm|leg)`), EmergencyStroke, SeverityCritical, "arm weakness"},
	{regexp.MustCompile(`(?i)slurred\s+speech|speech\s+(difficulty|problems?)|(difficulty|trouble)\s+(speaking|talking)|` + cant + `\s+(speak|talk)\b`), EmergencyStroke, SeverityCritical, "speech difficulty"},
	{regexp.MustCompile(`(?i)sudden\s+(numbness|weakness)`), EmergencyStroke, SeverityCritical, "sudden numbness"},
	{regexp.MustCompile(`(?i)sudden\s+confusion`), EmergencyStroke, SeverityCritical, "sudden confusion"},
	{regexp.MustCompile(`(?i)having\s+a\s+stroke|stroke\s+symptoms`), EmergencyStroke, SeverityCritical, "stroke"},

	{regexp.MustCompile(`(?i)anaphyla(xis|ctic)|severe\s+allergic\s+reaction`), EmergencyAllergic, SeverityCritical, "anaphylaxis"},
	{regexp.MustCompile(`(?i)throat\s+(is\s+)?(closing|swelling|tightening)`), EmergencyAllergic, SeverityCritical, "throat closing"},
	{regexp.MustCompile(`(?i)` + cant + `\s+swallow`), EmergencyAllergic, SeverityUrgent, "can't swallow"},
	{regexp.MustCompile(`(?i)tongue\s+(is\s+)?swelling`), EmergencyAllergic, SeverityUrgent, "tongue swelling"},

	{regexp.MustCompile(`(?i)` + cant + `\s+breathe?\b`), EmergencyBreathing, SeverityCritical, "can't breathe"},
	{regexp.MustCompile(`(?i)(difficulty|trouble|struggling)\s+(to\s+)?breath(e|ing)?\b`), EmergencyBreathing, SeverityUrgent, "difficulty breathing"},

	{regexp.MustCompile(`(?i)suicid(e|al)|kill(ing)?\s+myself|end\s+my\s+(own\s+)?life|take\s+my\s+own\s+life|end\s+it\s+all|want\s+to\s+die`), EmergencyMentalHealth, SeverityCritical, "suicidal ideation"},
	{regexp.MustCompile(`(?i)self[\s-]?harm|(want|going|plan(ning)?)\s+to\s+(hurt|harm)\s+myself|cutting\s+myself`), EmergencyMentalHealth, SeverityCritical, "self-harm"},

	{regexp.MustCompile(`(?i)overdos(e|ed|ing)|took\s+too\s+many\s+(pills|tablets)`), EmergencyGeneral, SeverityCritical, "overdose"},
	{regexp.MustCompile(`(?i)poison(ed|ing)\b|(swallowed|drank|ate)\s+(poison|bleach)`), EmergencyGeneral, SeverityUrgent, "poisoning"},
	{regexp.MustCompile(`(?i)severe(ly)?\s+bleeding|bleeding\s+(heavily|a\s+lot|won'?t\s+stop|will\s+not\s+stop)`), EmergencyGeneral, SeverityCritical, "severe bleeding"},
	{regexp.MustCompile(`(?i)unconscious|unresponsive|passed\s+out`), EmergencyGeneral, SeverityCritical, "unconscious"},
	{regexp.MustCompile(`(?i)seizure|convuls(ion|ions|ing)`), EmergencyGeneral, SeverityUrgent, "seizure"},
	{regexp.MustCompile(`(?i)worst\s+(pain|headache)\s+(of\s+my\s+life|i'?ve\s+ever|ever)|excruciating`), EmergencyGeneral, SeverityUrgent, "severe pain"},
}

var harmfulPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how\s+(to|do\s+i|can\s+i|would\s+i|could\s+i)\s+(harm|hurt|injure|kill|poison)\b`),
	regexp.MustCompile(`(?i)ways\s+to\s+(die|kill|harm|hurt)\b`),
	regexp.MustCompile(`(?i)painless\s+(death|way\s+to\s+die|suicide)`),
	regexp.MustCompile(`(?i)lethal\s+dose`),
	regexp.MustCompile(`(?i)how\s+many\s+\w+(\s+\w+)?\s+(would|will|does\s+it\s+take\s+to|to)\s+(kill|die)\b`),
}

var diagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)what\s+(disease|illness|condition|infection|disorder|sickness)\s+(do|might|could|would|did)\s+i\s+have`),
	regexp.MustCompile(`(?i)what\s+is\s+wrong\s+with\s+me|what'?s\s+wrong\s+with\s+me`),
	regexp.MustCompile(`(?i)\bdiagnose\s+(me|my|this)\b|can\s+you\s+diagnose`),
	regexp.MustCompile(`(?i)do\s+i\s+have\s+(an?\s+|the\s+)?(cancer|diabetes|covid(-?19)?|hiv|aids|tumou?r|heart\s+disease|infection|dementia|alzheimer'?s|lupus|multiple\s+sclerosis|leukemia|pneumonia|flu|strep|depression|adhd|autism|std|sti)\b`),
	regexp.MustCompile(`(?i)am\s+i\s+dying`),
	regexp.MustCompile(`(?i)what'?s\s+my\s+diagnosis|what\s+is\s+my\s+diagnosis`),
	regexp.MustCompile(`(?i)is\s+(it|this)\s+(cancer|a\s+tumou?r)\b`),
}

var medicationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdosage\b|\bdosing\b`),
	regexp.MustCompile(`(?i)how\s+(much|many)\s+(of\s+)?(my\s+|the\s+)?(medicine|medication|meds|mg|milligrams|pills|tablets|capsules|doses|ibuprofen|tylenol|acetaminophen|paracetamol|aspirin|advil|insulin|antibiotics?)\b`),
	regexp.MustCompile(`(?i)what\s+(dose|amount)\b`),
	regexp.MustCompile(`(?i)prescribe\s+(me|something)`),
	regexp.MustCompile(`(?i)can\s+i\s+take\s+\d+(\.\d+)?\s*(mg|milligrams|ml|pills|tablets|capsules)\b`),
	regexp.MustCompile(`(?i)(increase|double|stop|start|reduce|lower|skip|quit|change)\s+(taking\s+)?(my\s+)?(medication|medicine|meds|dose|insulin|pills|antidepressants?|antibiotics?|prescription)`),
	regexp.MustCompile(`(?i)(what|which)\s+(medicine|medication|drug|antibiotic|pill|painkiller)s?\s+(should|can|do)\s+i\s+(take|use)`),
	regexp.MustCompile(`(?i)should\s+i\s+take\s+(an?\s+)?(antibiotic|medicine|medication|painkiller|ibuprofen|aspirin|tylenol)`),
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "`", "'", "ʼ", "'")

// normalize folds typographic apostrophes so "can’t" matches like "can't".
func normalize(message string) string {
	return apostropheReplacer.Replace(message)
}

func matchAny(patterns []*regexp.Regexp, message string) bool {
	for _, re := range patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}
