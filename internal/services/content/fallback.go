package content

import (
	"fmt"

	"github.com/ternarybob/brandforge/internal/models"
)

// fallbackContent is deterministic templated content used when no
// provider is configured or generation keeps failing validation. It
// satisfies the same schema as generated content.
func fallbackContent(companyName string) models.BrandContent {
	return models.BrandContent{
		CompanyName:            companyName,
		Tagline:                fmt.Sprintf("%s, made simple.", companyName),
		PositioningHeadline:    fmt.Sprintf("%s delivers what its customers rely on", companyName),
		PositioningDescription: fmt.Sprintf("%s focuses on doing the essentials exceptionally well. Its offering is built around clarity, reliability and respect for its customers' time.", companyName),
		Mission:                fmt.Sprintf("To serve %s customers with dependable products and honest service.", companyName),
		MissionDescription:     fmt.Sprintf("%s exists to make its customers' work easier. Every decision starts from what customers actually need, not from what is easiest to deliver.", companyName),
		Vision:                 "To be the name customers trust first in its field.",
		VisionDescription:      fmt.Sprintf("%s aims to grow by earning trust: consistent quality, transparent communication and long-term relationships over short-term wins.", companyName),
		Pillars: []models.BrandPillar{
			{Title: "Quality", Description: "Every product and interaction meets a consistent, dependable standard."},
			{Title: "Clarity", Description: "Plain language and straightforward offers, with no fine-print surprises."},
			{Title: "Service", Description: "Customers reach people who can help, and problems get fixed."},
		},
		Traits: []models.PersonalityTrait{
			{Name: "Dependable", Description: "Does what it says, on time, every time."},
			{Name: "Straightforward", Description: "Says things plainly and avoids jargon."},
			{Name: "Attentive", Description: "Listens first and tailors the answer to the person asking."},
			{Name: "Steady", Description: "Calm and consistent, even when things go wrong."},
		},
		Promise:            fmt.Sprintf("%s keeps its word.", companyName),
		PromiseDescription: "Customers can expect the same standard on the hundredth order as on the first. When something slips, it gets acknowledged and fixed.",
		VoiceGuidelines: []models.VoiceGuideline{
			{
				IsTrait: "Clear", IsExample: "Here is exactly what you get and what it costs.",
				IsNotTrait: "Vague", IsNotExample: "Our solutions leverage synergies to deliver value.",
			},
			{
				IsTrait: "Confident", IsExample: "We have done this for years and we stand behind it.",
				IsNotTrait: "Boastful", IsNotExample: "We are the undisputed number one, nobody else comes close.",
			},
			{
				IsTrait: "Warm", IsExample: "Thanks for getting in touch. We will sort this out together.",
				IsNotTrait: "Overfamiliar", IsNotExample: "Hey bestie!! You are going to LOVE this!!!",
			},
		},
		BoilerplateShort: fmt.Sprintf("%s provides dependable products and services to its customers.", companyName),
		BoilerplateLong:  fmt.Sprintf("%s is a company focused on dependable products and straightforward service. It builds long-term customer relationships through consistent quality and honest communication.", companyName),
		PhotoStyle:       "Natural light, real people and real workplaces. Candid over staged, with an honest, unpolished warmth.",
		Fallback:         true,
	}
}
