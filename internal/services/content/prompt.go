package content

import "fmt"

const systemPrompt = "You are a brand strategist who writes concise, specific brand guidelines. You respond with valid JSON only."

// buildPrompt asks for the full narrative content schema in one shot.
// The response must be a single JSON object; parseResponse tolerates
// markdown fences around it.
func buildPrompt(companyName, sample string) string {
	return fmt.Sprintf(`Analyze this website content for %s and generate brand guidelines content.

WEBSITE CONTENT:
%s

Based on the content above, generate brand guidelines in JSON format. Be specific to this company based on what you learned from their website. Do not be generic.

Generate the following JSON structure:
{
    "tagline": "Short memorable tagline (max 10 words)",
    "positioning_headline": "Bold positioning statement that captures what makes this company unique",
    "positioning_description": "2-3 sentences expanding on the positioning",
    "mission": "Mission statement (1-2 sentences)",
    "mission_description": "Paragraph explaining the mission in more detail",
    "vision": "Vision statement (1-2 sentences)",
    "vision_description": "Paragraph explaining the vision in more detail",
    "pillars": [
        {"title": "First Pillar Name", "description": "1-2 sentence description of this pillar"},
        {"title": "Second Pillar Name", "description": "1-2 sentence description of this pillar"},
        {"title": "Third Pillar Name", "description": "1-2 sentence description of this pillar"}
    ],
    "traits": [
        {"name": "First Trait", "description": "1-2 sentence description of this personality trait"},
        {"name": "Second Trait", "description": "1-2 sentence description of this personality trait"},
        {"name": "Third Trait", "description": "1-2 sentence description of this personality trait"},
        {"name": "Fourth Trait", "description": "1-2 sentence description of this personality trait"}
    ],
    "promise": "Brand promise statement",
    "promise_description": "Paragraph explaining what this promise means to customers",
    "voice_guidelines": [
        {
            "is_trait": "Voice characteristic (e.g., Confident)",
            "is_example": "Example copy demonstrating this characteristic",
            "is_not_trait": "Opposite to avoid (e.g., Arrogant)",
            "is_not_example": "Example of what to avoid"
        },
        {
            "is_trait": "Another voice characteristic",
            "is_example": "Example copy",
            "is_not_trait": "Opposite to avoid",
            "is_not_example": "Example of what to avoid"
        },
        {
            "is_trait": "Third voice characteristic",
            "is_example": "Example copy",
            "is_not_trait": "Opposite to avoid",
            "is_not_example": "Example of what to avoid"
        }
    ],
    "boilerplate_short": "Company boilerplate sentence for short press mentions",
    "boilerplate_long": "Company boilerplate paragraph for press releases (2-3 sentences)",
    "photo_style": "Description of photography style that would fit this brand (2-3 sentences)"
}

Return ONLY valid JSON, no additional text or explanation.`, companyName, sample)
}

// correctiveInstruction is appended to the prompt on retry attempts so
// the model sees why its previous answer was rejected
func correctiveInstruction(reason error) string {
	return fmt.Sprintf(`

IMPORTANT: Your previous response was rejected: %v.
Respond with ONLY a single valid JSON object exactly matching the structure above, with exactly 3 pillars, 4 traits and 3 voice_guidelines. No prose, no markdown fences, no explanation.`, reason)
}
