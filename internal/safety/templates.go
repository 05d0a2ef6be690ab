package safety

import "regexp"

// emergencyTemplate pairs a keyword set with its first-aid guidance.
type emergencyTemplate struct {
	kind EmergencyType
	re   *regexp.Regexp
	text string
}

// emergencyTemplates is scanned top to bottom; the first hit wins.
var emergencyTemplates = []emergencyTemplate{
	{EmergencyCardiac, regexp.MustCompile(`(?is)chest.*pain|pain.*chest|heart\s+attack`), cardiacTemplate},
	{EmergencyStroke, regexp.MustCompile(`(?i)\bstroke\b|face\s+(is\s+)?droop|drooping\s+(face|mouth)|arm\s+(is\s+)?(weak|numb)|arm\s+weakness|slurred\s+speech|speech\s+(difficulty|problems?)|(difficulty|trouble)\s+(speaking|talking)|sudden\s+(numbness|confusion)`), strokeTemplate},
	{EmergencyAllergic, regexp.MustCompile(`(?i)anaphyla(xis|ctic)|allergic|throat\s+(is\s+)?(closing|swelling|tightening)|` + cant + `\s+swallow|tongue\s+(is\s+)?swelling`), allergicTemplate},
	{EmergencyBreathing, regexp.MustCompile(`(?i)` + cant + `\s+breathe?\b|(difficulty|trouble|struggling)\s+(to\s+)?breath(e|ing)?\b`), breathingTemplate},
	{EmergencyMentalHealth, regexp.MustCompile(`(?i)suicid(e|al)|kill(ing)?\s+myself|end\s+my\s+(own\s+)?life|take\s+my\s+own\s+life|end\s+it\s+all|want\s+to\s+die|self[\s-]?harm|(hurt|harm)(ing)?\s+myself|cutting\s+myself`), mentalHealthTemplate},
}

// SelectEmergencyTemplate returns the template category and text for an
// escalated message. Messages matching no category get the generic template.
func SelectEmergencyTemplate(message string) (EmergencyType, string) {
	normalized := normalize(message)
	for _, t := range emergencyTemplates {
		if t.re.MatchString(normalized) {
			return t.kind, t.text
		}
	}
	return EmergencyGeneral, genericEmergencyTemplate
}

// GetEmergencyResponse returns the long-form first-aid message shown in
// place of a model reply when a message escalates.
func GetEmergencyResponse(message string) string {
	_, text := SelectEmergencyTemplate(message)
	return text
}

const cardiacTemplate = `🚨 POSSIBLE HEART ATTACK: CALL 911 NOW

Chest pain, especially with shortness of breath, sweating, nausea, or pain spreading to the arm, jaw, or back, can be a heart attack.

While you wait for help:
1. Call 911 immediately. Do not drive yourself.
2. Stop all activity and sit or lie down in a comfortable position.
3. If you are not allergic and have not been told to avoid it, chew one regular 325 mg aspirin.
4. Loosen tight clothing.
5. If you have prescribed nitroglycerin, take it as directed.
6. Unlock your door so responders can get in.
7. If the person becomes unresponsive and is not breathing normally, start CPR.

Your emergency contacts are being notified.`

const strokeTemplate = `🚨 POSSIBLE STROKE: CALL 911 NOW

Remember BE FAST:
- Balance: sudden loss of balance or coordination
- Eyes: sudden vision changes
- Face: one side of the face drooping
- Arms: weakness or numbness in one arm
- Speech: slurred or strange speech
- Time: call 911 immediately

While you wait for help:
1. Note the time symptoms started. Doctors will need it.
2. Do not give food, drink, or medication.
3. Lie the person on their side with the head slightly raised.
4. Stay with them and keep them calm.

Every minute matters. Your emergency contacts are being notified.`

const allergicTemplate = `🚨 SEVERE ALLERGIC REACTION: CALL 911 NOW

Throat tightness, trouble swallowing, swelling of the lips or tongue, or hives with difficulty breathing can be anaphylaxis.

While you wait for help:
1. If an epinephrine auto-injector (EpiPen) is available, use it now in the outer thigh.
2. Call 911 even if symptoms improve after epinephrine.
3. Lie down with legs raised unless breathing is easier sitting up.
4. A second dose may be given after 5 to 15 minutes if symptoms do not improve.
5. Remove the trigger if you know what it is.

Your emergency contacts are being notified.`

const breathingTemplate = `🚨 BREATHING EMERGENCY: CALL 911 NOW

Severe difficulty breathing needs immediate medical care.

While you wait for help:
1. Call 911 right away.
2. Sit upright, leaning slightly forward. Do not lie flat.
3. If you have a prescribed rescue inhaler, use it as directed.
4. Loosen tight clothing around the neck and chest.
5. Try to stay calm and take slow breaths.
6. If lips or fingertips turn blue, tell the dispatcher.

Your emergency contacts are being notified.`

const mentalHealthTemplate = `💙 YOU ARE NOT ALONE. HELP IS AVAILABLE RIGHT NOW

If you are thinking about suicide or hurting yourself, please reach out now:
- Call or text 988 (Suicide & Crisis Lifeline), available 24/7
- Text HOME to 741741 (Crisis Text Line)
- Call 911 if you are in immediate danger

Right now:
1. Move away from anything you could use to hurt yourself.
2. Reach out to someone you trust and let them know how you feel.
3. Stay somewhere safe with other people around if you can.

Your feelings matter, and people want to help. Your emergency contacts are being notified.`

const genericEmergencyTemplate = `🚨 MEDICAL EMERGENCY: CALL 911 NOW

Your message describes symptoms that may need immediate medical attention.

While you wait for help:
1. Call 911 or your local emergency number.
2. Stay on the line and follow the dispatcher's instructions.
3. Do not drive yourself to the hospital.
4. If there is heavy bleeding, apply firm pressure with a clean cloth.
5. If someone is having a seizure, clear the area around them and do not put anything in their mouth.
6. If poisoning or overdose is suspected, call Poison Control at 1-800-222-1222 as well.

Your emergency contacts are being notified.`
