package content

import (
	"log/slog"

	"github.com/StillwaterLabs/SteadyPath/internal/models"
)

type techniqueKey struct {
	scenario models.ScenarioID
	topic    string
}

// Library is the built-in static content source. Lookups fall back from
// specific to general entries and finally to a generic supportive string,
// so a lookup never comes back without something usable.
type Library struct {
	techniques   map[techniqueKey]string
	education    map[techniqueKey]string
	reassurance  map[models.ScenarioID]map[models.Intensity]string
	crisisExtras []models.CrisisResource
}

// NewLibrary creates the built-in content library.
func NewLibrary() *Library {
	slog.Debug("Creating content library")
	return &Library{
		techniques:   defaultTechniques(),
		education:    defaultEducation(),
		reassurance:  defaultReassurance(),
		crisisExtras: defaultCrisisExtras(),
	}
}

// Technique returns a technique for the scenario, preferring a topic-specific
// entry, then the scenario default, then a generic grounding exercise.
func (l *Library) Technique(scenario models.ScenarioID, intensity models.Intensity, topic string) string {
	if topic != "" {
		if s, ok := l.techniques[techniqueKey{scenario, topic}]; ok {
			return s
		}
	}
	if s, ok := l.techniques[techniqueKey{scenario, ""}]; ok {
		return s
	}
	slog.Debug("Library technique fallback", "scenario", scenario, "topic", topic, "intensity", intensity)
	return "Take a slow breath in for 4 counts, hold for 4, and release for 6. Repeat a few times and notice your body settle."
}

// Education returns psychoeducation content for the scenario and topic.
func (l *Library) Education(scenario models.ScenarioID, topic string) string {
	if topic != "" {
		if s, ok := l.education[techniqueKey{scenario, topic}]; ok {
			return s
		}
	}
	if s, ok := l.education[techniqueKey{scenario, ""}]; ok {
		return s
	}
	slog.Debug("Library education fallback", "scenario", scenario, "topic", topic)
	return "Anxiety is your body's alarm system responding to a perceived threat. The sensations are uncomfortable but not dangerous, and they pass."
}

// Reassurance returns a supportive statement scaled by confidence.
func (l *Library) Reassurance(scenario models.ScenarioID, confidence float64) string {
	bucket := reassuranceBucket(confidence)
	if tiers, ok := l.reassurance[scenario]; ok {
		if s, ok := tiers[bucket]; ok {
			return s
		}
		if s, ok := tiers[models.IntensityMedium]; ok {
			return s
		}
	}
	slog.Debug("Library reassurance fallback", "scenario", scenario, "confidence", confidence)
	return "What you're feeling right now is real, and it makes sense. You're not alone in this."
}

// CrisisSupport returns the library's additional crisis resources.
func (l *Library) CrisisSupport() []models.CrisisResource {
	return l.crisisExtras
}

func defaultTechniques() map[techniqueKey]string {
	return map[techniqueKey]string{
		{models.ScenarioPanic, "breathing"}:  "4-7-8 breathing: breathe in through your nose for 4 counts, hold for 7, exhale slowly through your mouth for 8. This activates your body's calming response.",
		{models.ScenarioPanic, "grounding"}:  "5-4-3-2-1 grounding: name 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell, and 1 you can taste.",
		{models.ScenarioPanic, "relaxation"}: "Progressive muscle relaxation: starting with your feet, tense each muscle group for 5 seconds, then release. Work your way up to your shoulders and jaw.",
		{models.ScenarioPanic, ""}:           "Place one hand on your chest and one on your belly. Breathe so only the lower hand moves, slow and steady.",

		{models.ScenarioSleep, "thought_stopping"}: "When a worried thought arrives, picture a stop sign and say 'stop' to yourself. Then redirect your attention to slow counting of your breaths.",
		{models.ScenarioSleep, "body_scan"}:        "Body scan: close your eyes and move your attention slowly from your toes to your head, releasing tension at each area you visit.",
		{models.ScenarioSleep, "sleep_hygiene"}:    "Check your sleep environment: dim or block light, cool the room if you can, and put screens out of reach.",
		{models.ScenarioSleep, ""}:                 "Try slow belly breathing with a longer exhale than inhale. A longer out-breath signals your nervous system it is safe to rest.",

		{models.ScenarioPreEvent, "preparation"}:    "Write down three concrete things you can do to prepare. Small, specific actions shrink the unknown and build confidence.",
		{models.ScenarioPreEvent, "visualization"}:  "Close your eyes and walk through the event going well: arriving calm, handling each moment, finishing steady. Make the picture vivid.",
		{models.ScenarioPreEvent, "affirmations"}:   "Pick a statement that is true and steadying: 'I have prepared for this.' 'I can handle discomfort.' 'One moment at a time.'",
		{models.ScenarioPreEvent, "self_compassion"}: "Plan one kind thing for yourself after the event, whatever the outcome. Recovery time is part of performing well.",
		{models.ScenarioPreEvent, ""}:               "Break the event into the first small step only, and rehearse just that step in your mind.",

		{models.ScenarioIsolation, "self_compassion"}:    "Place a hand over your heart and say: 'This is a moment of loneliness. Loneliness is part of being human. May I be kind to myself right now.'",
		{models.ScenarioIsolation, "connection_mapping"}: "List any person, group, or place connected to you, however distant: an old friend, an online community, a neighbor, a helpline.",
		{models.ScenarioIsolation, "small_steps"}:        "Connection rebuilds in small steps: a text message, a comment online, a walk where people are. Choose the smallest one that feels possible.",
		{models.ScenarioIsolation, "self_care"}:          "Pick one nurturing act for today: a warm drink, a shower, music you love, stepping outside for daylight.",
		{models.ScenarioIsolation, ""}:                   "Write down one sentence you would say to a friend feeling what you feel, then read it to yourself.",

		{models.ScenarioUncertainty, "problem_solving"}:       "Divide your worry into two lists: things you can act on, and things you cannot control. Pick one action from the first list.",
		{models.ScenarioUncertainty, "worry_time"}:            "Scheduled worry time: set aside 15 minutes later today for worrying on purpose. When worries arrive before then, note them down and postpone them to that slot.",
		{models.ScenarioUncertainty, "uncertainty_tolerance"}: "Try saying: 'I don't know how this will turn out, and I can handle not knowing for now.' Sit with the discomfort for one minute.",
		{models.ScenarioUncertainty, "present_moment"}:        "Anchor in now: feel your feet on the floor, notice your breathing, name three things you can see in this room.",
		{models.ScenarioUncertainty, ""}:                      "Ask yourself: is there anything I can do about this in the next hour? If not, gently park it and return to the present.",

		{models.ScenarioDecisionMaking, "framework"}:   "Decision framework: list your options, name the top two values this decision touches, and score each option against those values. Numbers are allowed to be rough.",
		{models.ScenarioDecisionMaking, "good_enough"}: "The good-enough principle: instead of the best possible choice, look for one that meets your needs and honors your values. Good enough, chosen now, usually beats perfect, chosen never.",
		{models.ScenarioDecisionMaking, ""}:            "Flip a coin, and while it is in the air notice which side you hope for. That pull is information about what you want.",

		{models.ScenarioPhysicalTriggers, "body_awareness"}:             "Body check-in: scan from head to toe and name what you notice without judging it. Tight jaw? Shallow breath? Just observe.",
		{models.ScenarioPhysicalTriggers, "environmental_modification"}: "Quick environment changes: step away from noise, loosen tight clothing, get water, dim harsh light, sit down if you're lightheaded.",
		{models.ScenarioPhysicalTriggers, "somatic_grounding"}:          "Somatic grounding: press your feet firmly into the floor, push your palms together for 5 seconds, or hold something cool and focus on the sensation.",
		{models.ScenarioPhysicalTriggers, "trigger_prevention"}:         "Trigger planning: note your top two triggers and one buffer for each, like capping caffeine before noon or carrying earplugs for loud spaces.",
		{models.ScenarioPhysicalTriggers, ""}:                           "Slow your breathing and relax your shoulders away from your ears. Physical softening tells your nervous system the alarm can stand down.",

		{models.ScenarioGeneralAnxiety, ""}: "Box breathing: in for 4, hold for 4, out for 4, hold for 4. Trace a square with your finger as you go.",
	}
}

func defaultEducation() map[techniqueKey]string {
	return map[techniqueKey]string{
		{models.ScenarioPanic, ""}: "Panic attacks are intense but temporary. They typically peak within 10 minutes, and while the sensations feel dangerous, they are your body's alarm system misfiring, not a medical emergency.",

		{models.ScenarioSleep, "sleep anxiety cycle"}: "Anxiety and sleeplessness feed each other: worry raises arousal, arousal prevents sleep, and lying awake gives worry more room. Breaking any link in that loop, even slightly, weakens the whole cycle.",
		{models.ScenarioSleep, "20 minute rule"}:      "The 20-minute rule: if you've been awake in bed for about 20 minutes, get up and do something quiet and unstimulating in low light. Return to bed when drowsy. This keeps your brain from pairing bed with frustration.",
		{models.ScenarioSleep, ""}:                    "Sleep pressure builds naturally the longer you're awake. You cannot force sleep, but you can remove the obstacles and let it arrive.",

		{models.ScenarioPreEvent, "anxiety normalization"}: "Pre-event nerves are your body mobilizing energy, the same physiology as excitement. Performers and athletes feel it before they do their best work. The goal isn't zero anxiety; it's anxiety that works for you.",
		{models.ScenarioPreEvent, ""}:                      "Anticipatory anxiety is usually worse than the event itself, because imagination has no time limits and reality does.",

		{models.ScenarioIsolation, "loneliness understanding"}: "Loneliness is a signal, like hunger, telling you a need for connection exists. It is extremely common and says nothing about your worth. It responds well to small, repeated steps toward contact.",
		{models.ScenarioIsolation, ""}:                         "Feeling alone and being alone are different things, and both can be changed in small increments.",

		{models.ScenarioUncertainty, "uncertainty normalization"}: "Brains treat uncertainty as a threat, which is why not knowing can feel worse than bad news. Tolerance for uncertainty is a skill that grows with practice, not a personality trait you either have or lack.",
		{models.ScenarioUncertainty, ""}:                          "Worry feels productive because it's mental activity, but only actions change outcomes. Separating solvable concerns from unanswerable ones frees real energy.",

		{models.ScenarioDecisionMaking, "values clarification"}:  "Decisions get easier when you know what they are for. Naming the one or two values a choice touches, like security, growth, or connection, turns a fog of options into a comparison you can actually make.",
		{models.ScenarioDecisionMaking, "decision time limits"}:  "Open-ended decisions invite endless analysis. Setting a deadline, even an arbitrary one, creates closure: you gather what you can by that point and choose with what you have.",
		{models.ScenarioDecisionMaking, ""}:                      "Most decisions are reversible or adjustable. Treating a choice as an experiment, not a verdict, lowers the stakes your anxiety is reacting to.",

		{models.ScenarioPhysicalTriggers, "sensation differentiation"}: "Physical sensations come in two kinds here: direct effects of a trigger (caffeine jitters, fatigue, sensory overload) and anxiety's response to those sensations. The first kind fades as the trigger fades; the second responds to calming techniques.",
		{models.ScenarioPhysicalTriggers, ""}:                          "Bodies have real limits: too little sleep, too much caffeine, or overstimulating environments lower the threshold where anxiety starts. Managing inputs is managing anxiety.",

		{models.ScenarioGeneralAnxiety, ""}: "General anxiety doesn't need a specific trigger to be real. It is common, well understood, and responds to the same evidence-based tools: breathing, grounding, and gradually facing what you avoid.",
	}
}

func defaultReassurance() map[models.ScenarioID]map[models.Intensity]string {
	return map[models.ScenarioID]map[models.Intensity]string{
		models.ScenarioPanic: {
			models.IntensityHigh:   "You're experiencing something very intense right now, and you reached out. That took strength. You are safe, and this will pass.",
			models.IntensityMedium: "Panic is frightening, but it cannot harm you. Your body knows how to come back down, and we'll help it along.",
			models.IntensityLow:    "You've just worked through some powerful techniques. Notice any small shift in your body.",
		},
		models.ScenarioSleep: {
			models.IntensityHigh:   "Lying awake while your mind races is exhausting and lonely. You're doing the right thing by trying a different approach instead of fighting it.",
			models.IntensityMedium: "Sleepless nights happen to everyone, and they don't ruin the next day as much as the 3am mind insists they will.",
			models.IntensityLow:    "Rest is still rest, even before sleep arrives. Your body benefits from calm lying down.",
		},
		models.ScenarioPreEvent: {
			models.IntensityHigh:   "Feeling this worked up before something important is completely human. The anxiety means you care about doing well.",
			models.IntensityMedium: "Pre-event nerves are normal and temporary. You have handled hard moments before.",
			models.IntensityLow:    "You've done solid preparation work here. Trust it.",
		},
		models.ScenarioIsolation: {
			models.IntensityHigh:   "Feeling deeply alone is one of the most painful human experiences, and you're not weak or broken for feeling it. Reaching out here was already a step toward connection.",
			models.IntensityMedium: "Loneliness is far more common than it looks from the inside. Many people feel exactly this and don't say so.",
			models.IntensityLow:    "Every small step toward connection counts, including this conversation.",
		},
		models.ScenarioUncertainty: {
			models.IntensityHigh:   "Not knowing what's coming can feel unbearable. Your mind is trying to protect you by rehearsing every outcome, and that's exhausting.",
			models.IntensityMedium: "Uncertainty is uncomfortable for everyone. You're not overreacting by finding it hard.",
			models.IntensityLow:    "You've faced unknown situations before and found your way through them.",
		},
		models.ScenarioDecisionMaking: {
			models.IntensityHigh:   "The pressure to choose perfectly is often what makes a decision feel impossible. There's rarely one right answer, just different workable paths.",
			models.IntensityMedium: "Struggling with a decision usually means you care about the outcome. That's not a flaw.",
			models.IntensityLow:    "You have made many decisions in your life, including hard ones. That capability is still there.",
		},
		models.ScenarioPhysicalTriggers: {
			models.IntensityHigh:   "Your body is reacting strongly to something real in your environment or physiology. These sensations are uncomfortable but explainable, and they will ease.",
			models.IntensityMedium: "Physical triggers like caffeine, fatigue, and noise genuinely affect anxiety. Noticing the connection is the hardest part, and you've done it.",
			models.IntensityLow:    "Small adjustments to your environment and inputs add up. You're learning your body's signals.",
		},
		models.ScenarioGeneralAnxiety: {
			models.IntensityHigh:   "I'm here for you. Whatever you're feeling right now is valid, and you don't have to manage it alone.",
			models.IntensityMedium: "Thank you for sharing that. Anxiety without an obvious cause is still real anxiety, and it's workable.",
			models.IntensityLow:    "You're taking steps to care for yourself, and every small improvement counts.",
		},
	}
}

func defaultCrisisExtras() []models.CrisisResource {
	return []models.CrisisResource{
		{Name: "National Alliance on Mental Illness", Contact: "Text NAMI to 741741", Availability: "Mental health support and resources"},
	}
}
