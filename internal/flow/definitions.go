package flow

import "github.com/StillwaterLabs/SteadyPath/internal/models"

// The definitions below encode each scenario's clinical step sequence as
// ordered branch rules. Rules are matched against lowercased input on word
// boundaries; every rule list ends in a default rule with no indicators.

func genericRatingStep() Step {
	return Step{
		Spec: StepSpec{Intervention: "effectiveness_review", Kind: models.StepEffectivenessCheck, RequiresInput: true},
		Rating: &RatingCheck{
			Bands: []RatingBand{
				{Min: 7, Max: 10, Template: "Thank you. A {rating}/10 suggests this session genuinely helped. These skills strengthen each time you practice them."},
				{Min: 4, Max: 6, Template: "A {rating}/10 is meaningful progress. Each time you practice, these techniques get a little more effective."},
				{Min: 1, Max: 3, Template: "A {rating}/10 means this was a hard session, and that's okay. Not every technique fits every moment. Reaching out at all matters."},
			},
			Reprompt: "Before we finish: on a scale of 1-10, how much did this session help?",
		},
	}
}

func panicDefinition() *Definition {
	return &Definition{
		Name:              "Acute Anxiety Support",
		Scenario:          models.ScenarioPanic,
		DefaultIntensity:  models.IntensityHigh,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "safety_assessment", Kind: models.StepReassurance, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators:    []string{"no", "not safe", "danger"},
						Template:      "{content}\n\nYour safety is the priority. Please consider calling emergency services (911) or going to your nearest emergency room. We can continue with grounding techniques while you decide.",
						Content:       ContentRequest{Kind: ContentReassurance, Confidence: 0.7},
						Advance:       true,
						SafetyConcern: true,
					},
					{
						Template: "{content}\n\nAre you in a safe location?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.7},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "psychoeducation", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "4_7_8_breathing", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"can't", "difficult", "not working"},
						Template:   "That's okay, breathing techniques take practice. Just breathe as slowly and deeply as you comfortably can. Even slowing down a little helps.",
						Advance:    false,
						Signals:    map[string]bool{"technique_adaptation": true},
					},
					{
						Template: "Let's use a powerful technique for panic:\n\n{content}\n\nType 'done' when you've completed a few rounds.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "breathing", Intensity: models.IntensityHigh},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "5_4_3_2_1_grounding", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"see", "hear", "touch", "smell", "taste"},
						Template:   "Excellent work engaging your senses. Grounding like this pulls your attention out of the panic spiral and back into the room around you.",
						Advance:    true,
						Signals:    map[string]bool{"grounding_engaged": true},
					},
					{
						Template: "Let's ground you in the moment:\n\n{content}\n\nStart with the 5 things you can see and work through the list.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "grounding", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "progressive_muscle_relaxation", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nNotice the contrast between tension and relaxation. Type 'done' when finished.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "relaxation", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "clinical_reassurance", Kind: models.StepReassurance, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nYou've just used several evidence-based techniques. Panic attacks, while frightening, are temporary. Your symptoms will continue to decrease as your nervous system calms.",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.4},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "effectiveness_assessment", Kind: models.StepEffectivenessCheck, RequiresInput: true},
				Rating: &RatingCheck{
					Bands: []RatingBand{
						{Min: 1, Max: 3, Template: "Excellent! Your anxiety has decreased significantly to {rating}/10. The techniques worked well for you."},
						{Min: 4, Max: 6, Template: "Good progress, you're down to {rating}/10. These skills keep getting more effective with practice."},
						{Min: 7, Max: 10, Template: "You're still experiencing high anxiety at {rating}/10. That's normal, recovery isn't always linear. Consider repeating the breathing technique, and reach out for support if it stays intense."},
					},
					Reprompt: "On a scale of 1-10, how is your anxiety now compared to when we started?",
				},
			},
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "4-7-8 breathing", Description: "Daily practice makes this faster to deploy during panic."},
			{Type: "technique", Title: "5-4-3-2-1 grounding", Description: "Useful anywhere, no equipment needed."},
			{Type: "education", Title: "Understanding panic attacks", Description: "Knowing the physiology reduces fear of the symptoms."},
			{Type: "support", Title: "Professional help", Description: "If panic attacks recur, a therapist trained in CBT can help significantly."},
		},
	}
}

func sleepDefinition() *Definition {
	return &Definition{
		Name:              "Nighttime Sleep Support",
		Scenario:          models.ScenarioSleep,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "sleep_assessment", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"hours", "minutes", "long time"},
						Template:   "{content}\n\nIt sounds like you've been struggling for a while. Let's work on some techniques to help calm your mind and body for sleep.",
						Content:    ContentRequest{Kind: ContentReassurance, Confidence: 0.6},
						Advance:    true,
						Signals:    map[string]bool{"sleep_duration_noted": true},
					},
					{
						Template: "{content}\n\nWhat time is it for you right now, and how long have you been trying to sleep?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.6},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "sleep_psychoeducation", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "sleep anxiety cycle"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "cognitive_restructuring", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"difficult", "not working"},
						Template:   "That's okay. Instead of stopping the thoughts, try observing them like clouds passing. Acknowledge each worry, then let it drift on without following it.",
						Advance:    false,
						Signals:    map[string]bool{"technique_adaptation": true},
					},
					{
						Template: "Racing thoughts are common at bedtime. Let's use a technique to quiet your mind:\n\n{content}\n\nTry this now with any current worrying thoughts. Reply 'done' when ready.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "thought_stopping", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "body_scan_relaxation", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"done", "finished"},
						Template:   "Excellent. Body scanning helps signal to your nervous system that it's safe to relax and rest.",
						Advance:    true,
						Signals:    map[string]bool{"relaxation_noted": true},
					},
					{
						Template: "Now let's prepare your body for sleep:\n\n{content}\n\nSpend 10-15 seconds on each area. Take your time.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "body_scan", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "sleep_hygiene", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "Quick sleep environment check:\n\n{content}\n\nMake any quick adjustments you can right now.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "sleep_hygiene", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "20_minute_rule", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "20 minute rule"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "sleepiness_check", Kind: models.StepEffectivenessCheck, RequiresInput: true},
				Rating: &RatingCheck{
					Bands: []RatingBand{
						{Min: 6, Max: 10, Template: "Good, a sleepiness level of {rating}/10 suggests the techniques are helping. Try to sleep now while you're feeling drowsy."},
						{Min: 3, Max: 5, Template: "You're at {rating}/10 for sleepiness. Consider some gentle reading or calm music for 15-20 minutes before trying to sleep again."},
						{Min: 1, Max: 2, Template: "At {rating}/10 you're still quite alert. The 20-minute rule applies here: get up and do a quiet activity until you feel more drowsy."},
					},
					Reprompt: "How are you feeling now? Rate your current sleepiness 1-10 (1 = wide awake, 10 = very drowsy).",
				},
			},
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Body scan relaxation", Description: "A nightly wind-down habit that pairs well with a fixed bedtime."},
			{Type: "education", Title: "The 20-minute rule", Description: "Keeps your brain from pairing bed with frustration."},
			{Type: "support", Title: "Sleep specialist", Description: "Persistent insomnia responds well to CBT-I with a trained provider."},
		},
	}
}

func preEventDefinition() *Definition {
	return &Definition{
		Name:              "Pre-Event Confidence Support",
		Scenario:          models.ScenarioPreEvent,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "event_assessment", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nTell me briefly: what event is causing you anxiety, and when is it happening?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.6},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "anxiety_normalization", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "anxiety normalization"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "preparation_checklist", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"practice", "prepare", "study", "rehearse", "plan", "ready"},
						Template:   "Excellent! Those are concrete steps, and concrete preparation is the most reliable antidote to anticipatory anxiety.",
						Advance:    true,
						Signals:    map[string]bool{"preparation_identified": true},
					},
					{
						Template: "Let's build your confidence through preparation:\n\n{content}\n\nShare what comes to mind. Even small steps count.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "preparation", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "visualization", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"done", "finished"},
						Template:   "Great job with the visualization! Mental rehearsal builds the same confidence pathways as real practice.",
						Advance:    true,
						Signals:    map[string]bool{"visualization_completed": true},
					},
					{
						Template: "Let's use positive visualization:\n\n{content}\n\nSpend 2-3 minutes on this mental rehearsal. Reply 'done' when finished.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "visualization", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "confidence_affirmations", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"capable", "prepared", "can do", "strong", "ready", "confident"},
						Template:   "I can hear the strength in your words! Hold onto that statement. Repeat it whenever the anxiety rises before the event.",
						Advance:    true,
						Signals:    map[string]bool{"affirmations_resonated": true},
					},
					{
						Template: "Let's build some positive self-statements:\n\n{content}\n\nWhich of these resonates with you, or do you have your own empowering statement?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "affirmations", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "post_event_planning", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "Finally, let's plan for after the event:\n\n{content}\n\nWhat's one nice thing you can do for yourself after the event?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "self_compassion", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Visualization", Description: "Rehearse the event going well once a day until it happens."},
			{Type: "technique", Title: "Preparation checklist", Description: "Concrete steps shrink the unknown."},
			{Type: "education", Title: "Performance anxiety", Description: "Nerves are mobilized energy, not a malfunction."},
		},
	}
}

func isolationDefinition() *Definition {
	return &Definition{
		Name:              "Connection and Support",
		Scenario:          models.ScenarioIsolation,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "loneliness_validation", Kind: models.StepReassurance, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nCan you tell me a bit about what's making you feel most alone right now?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.7},
						Advance:  true,
					},
				},
			},
			{
				// Risk disclosures hold the step with resources instead of
				// tearing the flow down; outright crisis language is caught
				// by the global screen before these rules run.
				Spec: StepSpec{Intervention: "safety_assessment", Kind: models.StepSafetyCheck, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators:             []string{"yes", "sometimes", "thoughts of hurting"},
						Template:               "I'm very concerned about your safety. Please reach out for immediate help. Your life has value, and there are people who want to help. Can you reach out to one of these resources right now?",
						Advance:                false,
						SafetyFlag:             "self_harm_risk_identified",
						IncludeCrisisResources: true,
					},
					{
						Template: "Thank you for letting me know. I'm glad you're reaching out for support instead of dealing with this alone. Sometimes when people feel very isolated, difficult thoughts can come up. Have you had any thoughts of hurting yourself?",
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "loneliness_psychoeducation", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "loneliness understanding"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "self_compassion_exercise", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"good", "better", "helpful", "calming"},
						Template:   "I'm glad that felt helpful. Self-compassion is a skill, and you just practiced it. The kindness you'd offer a friend belongs to you too.",
						Advance:    true,
						Signals:    map[string]bool{"technique_success": true},
					},
					{
						Indicators: []string{"weird", "hard", "difficult", "fake"},
						Template:   "It can feel strange at first. Many people aren't used to being kind to themselves. That's okay, even trying is an act of self-compassion.",
						Advance:    true,
						Signals:    map[string]bool{"normalize_difficulty": true},
					},
					{
						Template: "Let's practice self-compassion:\n\n{content}\n\nHow does that feel?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "self_compassion", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "connection_inventory", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"no", "nobody", "no one", "can't"},
						Template:   "That feeling of having no one is part of how isolation distorts things. Connections can also be looser than close friends: an online community, a helpline, a familiar face at a shop. Let's map what exists:\n\n{content}",
						Content:    ContentRequest{Kind: ContentTechnique, Topic: "connection_mapping", Intensity: models.IntensityMedium},
						Advance:    true,
						Signals:    map[string]bool{"alternative_connections": true},
					},
					{
						Template: "That's wonderful that you could think of a possibility. Even having that awareness is the beginning of reconnection.",
						Advance:  true,
						Signals:  map[string]bool{"connection_identified": true},
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "small_connection_step", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nWhat feels like the smallest, most manageable step you could take today?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "small_steps", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "self_care_planning", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "While you're working on building connections, it's important to care for yourself:\n\n{content}\n\nWhat's one nurturing thing you can do for yourself today?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "self_care", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Self-compassion break", Description: "A hand over the heart and a kind sentence, any time loneliness spikes."},
			{Type: "technique", Title: "Small connection steps", Description: "One text, one comment, one walk where people are."},
			{Type: "support", Title: "Peer support communities", Description: "Moderated online groups reduce isolation between sessions."},
		},
	}
}

func uncertaintyDefinition() *Definition {
	return &Definition{
		Name:              "Managing Uncertainty",
		Scenario:          models.ScenarioUncertainty,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "uncertainty_assessment", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nWhat specific situation or outcome are you most worried about not knowing?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.7},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "uncertainty_normalization", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "uncertainty normalization"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "worry_vs_problem_solving", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"can", "could", "action", "step", "do something"},
						Template:   "Good, it sounds like there's something actionable here. Taking even one small step on the controllable part converts worry energy into progress:\n\n{content}",
						Content:    ContentRequest{Kind: ContentTechnique, Topic: "problem_solving", Intensity: models.IntensityMedium},
						Advance:    true,
						Signals:    map[string]bool{"problem_solving_mode": true},
					},
					{
						Template: "It sounds like this worry sits mostly outside your control. That's important to know, because worry and problem-solving need different tools. Let's sort it:\n\n{content}",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "problem_solving", Intensity: models.IntensityMedium},
						Advance:  true,
						Signals:  map[string]bool{"worry_category": true},
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "worry_time_technique", Kind: models.StepTechnique, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "For worries we can't act on right now:\n\n{content}",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "worry_time", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "uncertainty_tolerance", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"hard", "difficult", "uncomfortable", "scary"},
						Template:   "Yes, sitting with not-knowing is genuinely uncomfortable. The discomfort you're feeling right now is the skill being built. It gets more bearable with each practice.",
						Advance:    true,
						Signals:    map[string]bool{"validate_difficulty": true},
					},
					{
						Indicators: []string{"okay", "better", "calming", "helpful"},
						Template:   "That's a real shift. Being able to say 'I don't know and I can handle it' loosens uncertainty's grip a little each time.",
						Advance:    true,
						Signals:    map[string]bool{"technique_success": true},
					},
					{
						Template: "Let's practice uncertainty tolerance:\n\n{content}\n\nTry saying this phrase. How does it feel?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "uncertainty_tolerance", Intensity: models.IntensityHigh},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "present_moment_grounding", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"breathing", "sitting", "see", "hear", "feel", "notice"},
						Template:   "Excellent! You're anchoring yourself in the present moment, which is the one place uncertainty can't reach.",
						Advance:    true,
						Signals:    map[string]bool{"grounding_success": true},
					},
					{
						Template: "Uncertainty anxiety pulls us into the future. Let's anchor in the present:\n\n{content}\n\nShare what you notice in this moment.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "present_moment", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "coping_confidence", Kind: models.StepReassurance, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nThink about other times you've faced uncertainty in your life. You've handled unknown situations before, even when they felt overwhelming at the time. What strengths did you use then that you still have now?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.3},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Scheduled worry time", Description: "Contain worry to a 15-minute daily slot."},
			{Type: "technique", Title: "Control sorting", Description: "Two lists: act on what you can, release what you can't."},
			{Type: "education", Title: "Uncertainty tolerance", Description: "A trainable skill, not a fixed trait."},
		},
	}
}

func decisionMakingDefinition() *Definition {
	return &Definition{
		Name:              "Decision Support",
		Scenario:          models.ScenarioDecisionMaking,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "decision_assessment", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nWhat decision are you struggling with right now?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.5},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "perfectionism_check", Kind: models.StepReassurance, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"perfect", "right choice", "best", "wrong", "mess up", "regret"},
						Template:   "{content}\n\nThe pressure to choose perfectly is often what makes decisions feel impossible. Let's work on making a 'good enough' choice instead.",
						Content:    ContentRequest{Kind: ContentReassurance, Confidence: 0.8},
						Advance:    true,
						Signals:    map[string]bool{"perfectionism_identified": true},
					},
					{
						Template: "Thanks for sharing how you're feeling about this decision. Let's move forward and look at your options.",
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "decision_framework", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"or", "either", "option", "options", "choice", "could"},
						Template:   "Good, you have multiple possibilities, which is a strength even when it feels overwhelming.\n\nHere's a decision framework to guide you:\n\n{content}\n\nNow, what matters most to you in making this choice?",
						Content:    ContentRequest{Kind: ContentTechnique, Topic: "framework", Intensity: models.IntensityMedium},
						Advance:    true,
						Signals:    map[string]bool{"options_identified": true},
					},
					{
						Template: "Let's clarify your options first.\n\n{content}\n\nList 2-3 main possibilities you're considering.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "framework", Intensity: models.IntensityMedium},
						Advance:  false,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "values_clarification", Kind: models.StepEducation, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nWhat feels most important to you in this decision?",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "values clarification"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "good_enough_principle", Kind: models.StepTechnique, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "Consider this principle:\n\n{content}\n\nInstead of seeking the perfect option, look for one that is good enough for your values and needs.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "good_enough", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "time_limit_technique", Kind: models.StepEducation, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"day", "week", "month", "tomorrow", "soon", "deadline", "friday", "weekend"},
						Template:   "{content}\n\nThat sounds like a workable timeframe. A deadline creates closure: you gather what you can by then and choose with what you have.",
						Content:    ContentRequest{Kind: ContentEducation, Topic: "decision time limits"},
						Advance:    true,
						Signals:    map[string]bool{"deadline_set": true},
					},
					{
						Template: "{content}\n\nTo help with decision paralysis, try picking a specific date or event by which you'll decide. When would feel right?",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "decision time limits"},
						Advance:  false,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "decision_confidence", Kind: models.StepReassurance, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nRemember: you've made many decisions in your life, including difficult ones. What qualities or strategies have helped you make good decisions in the past?",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.4},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Values-first framework", Description: "Score options against the two values the decision touches."},
			{Type: "technique", Title: "Decision deadlines", Description: "A date on the calendar ends the analysis loop."},
			{Type: "education", Title: "Good enough beats perfect", Description: "Most choices are experiments, not verdicts."},
		},
	}
}

func physicalTriggersDefinition() *Definition {
	return &Definition{
		Name:              "Physical Trigger Management",
		Scenario:          models.ScenarioPhysicalTriggers,
		DefaultIntensity:  models.IntensityMedium,
		UsesContentSource: true,
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "trigger_assessment", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"caffeine", "coffee", "tired", "crowd", "crowds", "crowded", "noise", "noisy", "light", "lights", "heat", "cold", "hungry"},
						Template:   "{content}\n\nYou've named some common anxiety triggers, and you're definitely not alone in this experience.",
						Content:    ContentRequest{Kind: ContentReassurance, Confidence: 0.6},
						Advance:    true,
						Signals:    map[string]bool{"triggers_identified": true},
					},
					{
						Template: "{content}\n\nWhat specific physical experiences or environments tend to make your anxiety worse? (Examples: caffeine, crowds, bright lights, fatigue)",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.6},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "trigger_validation", Kind: models.StepReassurance, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.5},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "body_awareness", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"tight", "tense", "shallow", "fast", "racing", "stomach", "shoulders", "jaw"},
						Template:   "Good awareness! Noticing these physical sensations is the first step in managing them. Your body is giving you information about your stress level.",
						Advance:    true,
						Signals:    map[string]bool{"body_awareness_success": true},
					},
					{
						Template: "Let's increase your body awareness:\n\n{content}\n\nJust observe without trying to change anything.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "body_awareness", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "trigger_differentiation", Kind: models.StepEducation, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nWhich kind do your current physical sensations feel like?",
						Content:  ContentRequest{Kind: ContentEducation, Topic: "sensation differentiation"},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "immediate_modifications", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"yes", "can", "will", "need"},
						Template:   "Excellent! Making these immediate adjustments can often provide quick relief. Even small environmental changes have a real impact on how you feel.",
						Advance:    true,
						Signals:    map[string]bool{"modifications_accepted": true},
					},
					{
						Template: "Let's identify immediate changes you can make:\n\n{content}\n\nWhat feels most needed right now?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "environmental_modification", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "grounding_through_body", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Indicators: []string{"better", "calmer", "helped", "good"},
						Template:   "That's wonderful! Physical grounding works because it gives your nervous system concrete, safe sensations to focus on instead of anxiety symptoms.",
						Advance:    true,
						Signals:    map[string]bool{"grounding_success": true},
					},
					{
						Template: "Let's use your body for grounding:\n\n{content}\n\nTry one of these and notice how it affects your anxiety.",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "somatic_grounding", Intensity: models.IntensityMedium},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "trigger_prevention", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "For future trigger management:\n\n{content}\n\nWhat feels like the most helpful prevention strategy for you?",
						Content:  ContentRequest{Kind: ContentTechnique, Topic: "trigger_prevention", Intensity: models.IntensityLow},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Body check-ins", Description: "A head-to-toe scan a few times a day catches tension early."},
			{Type: "technique", Title: "Trigger buffers", Description: "One buffer per trigger, planned in advance."},
			{Type: "education", Title: "Physiology and anxiety", Description: "Caffeine, sleep, and sensory load set your anxiety threshold."},
		},
	}
}

func generalAnxietyDefinition() *Definition {
	return &Definition{
		Name:              "General Anxiety Support",
		Scenario:          models.ScenarioGeneralAnxiety,
		DefaultIntensity:  models.IntensityVariable,
		UsesContentSource: true,
		Opening:           "{content}\n\nI'm here for you. How are you feeling right now? You can tell me as much or as little as you want.",
		OpeningContent:    ContentRequest{Kind: ContentReassurance, Confidence: 0.7},
		Steps: []Step{
			{
				Spec: StepSpec{Intervention: "emotion_check_in", Kind: models.StepAssessment, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nThanks for sharing. Let's talk a bit about general anxiety and how it can affect you.",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.5},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "psychoeducation_general", Kind: models.StepEducation, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}",
						Content:  ContentRequest{Kind: ContentEducation},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "coping_options", Kind: models.StepTechnique, RequiresInput: true},
				Rules: []BranchRule{
					{
						Template: "Here's a simple grounding technique you can try:\n\n{content}\n\nWould you like to give it a try now?",
						Content:  ContentRequest{Kind: ContentTechnique},
						Advance:  true,
					},
				},
			},
			{
				Spec: StepSpec{Intervention: "reflection", Kind: models.StepReassurance, RequiresInput: false},
				Rules: []BranchRule{
					{
						Template: "{content}\n\nRemember, you're not alone in this. Every improvement counts, no matter how small.",
						Content:  ContentRequest{Kind: ContentReassurance, Confidence: 0.3},
						Advance:  true,
					},
				},
			},
			genericRatingStep(),
		},
		Resources: []models.FollowUpResource{
			{Type: "technique", Title: "Box breathing", Description: "Four counts per side, any time, anywhere."},
			{Type: "support", Title: "Talking to someone", Description: "Anxiety responds well to professional support; reaching out early helps."},
		},
	}
}
