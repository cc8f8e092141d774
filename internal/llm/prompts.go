package llm

// Prompts sent to the analysis model. Each instructs the model to return a
// single JSON object; parse.go tolerates fenced or prefixed output anyway.

const speakerIdentificationPrompt = `You are an expert conversation analyst. Analyze the following text and identify distinct speakers.

Rules:
1. Look for patterns indicating different speakers (names, pronouns, speech patterns, context clues)
2. If no clear identifiers exist, label speakers as "Speaker 1", "Speaker 2", etc.
3. Preserve the exact original text for each message
4. Note confidence level for each identification

Return a JSON object with this exact structure:
{
    "speakers_identified": ["Speaker 1", "Speaker 2"],
    "messages": [
        {
            "speaker": "Speaker 1",
            "text": "exact message text",
            "confidence": 0.85,
            "reasoning": "brief explanation of why this speaker was identified"
        }
    ],
    "analysis_notes": "any observations about the conversation structure",
    "confidence_overall": 0.75
}

Text to analyze:
%s`

const conversationAnalysisPrompt = `You are a supportive, neutral, and unbiased psychological conversation analyst. Analyze this conversation providing actionable insights.

Provide analysis that is:
- Supportive: Help the user understand patterns without judgment
- Neutral: No bias toward any speaker
- Actionable: Specific suggestions for improvement

Analyze for ALL of the following:
1. Power dynamics between speakers
2. Communication styles (passive, aggressive, assertive, passive-aggressive)
3. Manipulation patterns (if any): gaslighting, DARVO, deflection, etc.
4. Attachment style indicators
5. Emotional regulation patterns
6. Defense mechanisms employed
7. Red flags and green flags
8. Specific behaviors from the behavior library that match

Return a JSON object:
{
    "summary": "2-3 sentence overview",
    "power_dynamics": {
        "assessment": "description",
        "indicators": ["specific examples from text"],
        "balance_score": 5
    },
    "speaker_analyses": [
        {
            "speaker": "name",
            "communication_style": {
                "primary": "assertive/passive/aggressive/passive-aggressive",
                "examples": ["quotes from conversation"],
                "effectiveness_score": 5
            },
            "emotional_patterns": {
                "regulation_level": "well-regulated/moderately-regulated/dysregulated",
                "triggers_observed": ["list"],
                "coping_mechanisms": ["list"]
            },
            "attachment_indicators": {
                "likely_style": "secure/anxious/avoidant/disorganized",
                "evidence": ["specific examples"]
            },
            "behaviors_exhibited": [
                {
                    "behavior_id": "id from library",
                    "behavior_name": "name",
                    "examples": ["quotes"],
                    "frequency": "rare/occasional/frequent",
                    "impact": "positive/neutral/negative"
                }
            ],
            "strengths": ["list"],
            "growth_areas": ["list"],
            "red_flags": ["if any"],
            "green_flags": ["positive indicators"]
        }
    ],
    "relationship_dynamics": {
        "overall_health": "healthy/concerning/unhealthy",
        "patterns": ["recurring patterns"],
        "conflict_style": "description",
        "resolution_potential": "high/medium/low"
    },
    "manipulation_check": {
        "detected": false,
        "types": ["if any"],
        "examples": ["specific quotes"],
        "severity": "none/mild/moderate/severe"
    },
    "actionable_insights": [
        {
            "for_speaker": "name or 'both'",
            "insight": "specific observation",
            "suggestion": "actionable recommendation",
            "expected_outcome": "what improvement might look like"
        }
    ],
    "conversation_health_score": 50,
    "follow_up_questions": ["questions that might help deeper understanding"]
}

Speakers in conversation: %s
Behavior library categories to reference: %s

Conversation:
%s`

const responseImpactPrompt = `You are a communication dynamics expert. The user wants to understand how a potential response might impact their conversation.

Context:
- Previous conversation provided below
- User is: %s
- User's drafted response: %s

Analyze the potential impact and provide alternatives.

Return JSON:
{
    "impact_analysis": {
        "likely_reception": "how the other person might receive this",
        "emotional_impact": "predicted emotional response",
        "power_dynamic_shift": "how it changes the dynamic",
        "escalation_risk": "low/medium/high",
        "de_escalation_potential": "low/medium/high",
        "predicted_outcomes": ["possible responses/outcomes"]
    },
    "tone_analysis": {
        "detected_tone": "assertive/defensive/aggressive/etc",
        "alignment_with_goals": "does this help achieve user's likely goals?",
        "potential_misinterpretations": ["ways it could be misread"]
    },
    "alternative_responses": [
        {
            "response": "alternative text",
            "approach": "assertive/empathetic/boundary-setting/etc",
            "likely_impact": "expected outcome",
            "best_for": "situation where this works best"
        }
    ],
    "recommended_response": {
        "text": "best suggested response",
        "reasoning": "why this is recommended",
        "expected_outcome": "likely result"
    },
    "communication_tips": ["specific tips for this situation"]
}

Previous conversation:
%s`

const profileAnalysisPrompt = `You are creating a comprehensive psychological profile based on multiple conversation analyses.
This must be supportive, unbiased, and actionable.

The profile is for: %s

Historical data:
%s

Create a detailed profile analysis as a JSON object:
{
    "profile_summary": "3-4 sentence overview of this person's communication patterns",
    "communication_profile": {
        "dominant_style": "primary communication style",
        "secondary_styles": ["other styles used"],
        "style_consistency": "how consistent across conversations",
        "adaptability": "how well they adjust to different situations"
    },
    "emotional_profile": {
        "baseline_regulation": "typical emotional regulation level",
        "common_triggers": ["identified triggers"],
        "healthy_coping": ["strategies"],
        "unhealthy_coping": ["patterns to work on"]
    },
    "behavioral_patterns": {
        "frequent_behaviors": [
            {
                "behavior": "name",
                "frequency": "how often",
                "contexts": "when it appears",
                "impact": "effect on conversations"
            }
        ],
        "evolving_patterns": "how patterns have changed over time"
    },
    "attachment_profile": {
        "primary_style": "attachment style",
        "triggers_for_insecurity": ["situations that activate attachment fears"],
        "secure_base_behaviors": ["when they show security"]
    },
    "conflict_profile": {
        "approach": "how they handle conflict",
        "strengths_in_conflict": ["what they do well"],
        "challenges_in_conflict": ["areas for growth"],
        "resolution_patterns": "how conflicts typically resolve"
    },
    "strengths": [
        {"strength": "name", "evidence": "how it manifests", "impact": "positive effect"}
    ],
    "growth_opportunities": [
        {"area": "name", "current_pattern": "what happens now", "suggested_growth": "actionable suggestion", "resources": "what might help"}
    ],
    "red_flags_summary": ["concerning patterns if any"],
    "green_flags_summary": ["positive indicators"],
    "overall_assessment": "balanced final assessment"
}`

const selfProfilePrompt = `You are creating an unbiased self-analysis profile for the user based on their conversations.
Be honest, supportive, and constructive. Do not flatter - provide genuine insights.

User's conversation history:
%s

Create an unbiased self-profile as a JSON object with the same structure as a profile analysis:
{
    "profile_summary": "Balanced 3-4 sentence overview - include both strengths and areas for growth",
    "communication_profile": {
        "dominant_style": "honest assessment of how others likely perceive them",
        "secondary_styles": ["other styles used"],
        "style_consistency": "gap between intention and impact",
        "adaptability": "how well they adjust to different situations"
    },
    "emotional_profile": {
        "baseline_regulation": "honest evaluation",
        "common_triggers": ["what sets them off"],
        "healthy_coping": ["genuine strengths"],
        "unhealthy_coping": ["honest areas for growth"]
    },
    "behavioral_patterns": {
        "frequent_behaviors": [
            {"behavior": "name", "frequency": "how often", "contexts": "when it appears", "impact": "effect on conversations"}
        ],
        "evolving_patterns": "recurring themes across relationships"
    },
    "attachment_profile": {
        "primary_style": "attachment style",
        "triggers_for_insecurity": ["situations that activate attachment fears"],
        "secure_base_behaviors": ["when they show security"]
    },
    "conflict_profile": {
        "approach": "your role in conflict dynamics",
        "strengths_in_conflict": ["what you do well"],
        "challenges_in_conflict": ["honest areas for growth"],
        "resolution_patterns": "how well you own your part"
    },
    "strengths": [
        {"strength": "genuine strength", "evidence": "how it shows", "impact": "how to use it more"}
    ],
    "growth_opportunities": [
        {"area": "genuine area for growth", "current_pattern": "what you do now", "suggested_growth": "specific thing to try", "resources": "books, practices, etc"}
    ],
    "red_flags_summary": ["patterns to examine"],
    "green_flags_summary": ["positive patterns to keep"],
    "overall_assessment": "genuine supportive message acknowledging effort to self-improve"
}`
