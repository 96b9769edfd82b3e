package ai

import (
	"fmt"
	"strings"

	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
)

// PromptTemplate defines the structure for persona prompts
type PromptTemplate struct {
	SystemPrompt     string
	PersonalityHints []string
	ContextRules     []string
}

// PersonaPromptManager manages prompt templates for different personas
type PersonaPromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPersonaPromptManager creates a new prompt manager with default templates
func NewPersonaPromptManager() *PersonaPromptManager {
	manager := &PersonaPromptManager{
		templates: make(map[string]*PromptTemplate),
	}
	manager.loadDefaultTemplates()
	return manager
}

// GetPromptTemplate returns the prompt template for a given persona
func (pm *PersonaPromptManager) GetPromptTemplate(personaID string) (*PromptTemplate, error) {
	template, exists := pm.templates[personaID]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for persona: %s", personaID)
	}
	return template, nil
}

// BuildSystemPrompt creates the fixed system instruction sent ahead of every user turn
func (pm *PersonaPromptManager) BuildSystemPrompt(p persona.Persona) string {
	template, err := pm.GetPromptTemplate(p.ID)
	if err != nil {
		return pm.buildBasicSystemPrompt(p)
	}

	hints := template.PersonalityHints
	if p.PromptHint != "" {
		hints = append([]string{p.PromptHint}, hints...)
	}

	return fmt.Sprintf(`%s

Who you are:
- Name: %s
- Tone: %s
- Traits: %s
- Good at: %s

How you speak:
- %s

Rules:
- %s`,
		template.SystemPrompt,
		p.Name,
		p.Tone,
		strings.Join(p.Traits, ", "),
		strings.Join(p.Expertise, ", "),
		strings.Join(hints, "\n- "),
		strings.Join(template.ContextRules, "\n- "),
	)
}

// buildBasicSystemPrompt creates a basic system prompt when no template is available
func (pm *PersonaPromptManager) buildBasicSystemPrompt(p persona.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s (%s).\nTone: %s.\n", p.Name, p.Title, p.Tone)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&b, "Traits: %s.\n", strings.Join(p.Traits, ", "))
	}
	if len(p.Expertise) > 0 {
		fmt.Fprintf(&b, "Good at: %s.\n", strings.Join(p.Expertise, ", "))
	}
	if p.PromptHint != "" {
		b.WriteString(p.PromptHint)
		b.WriteString("\n")
	}
	b.WriteString("Keep replies short and supportive. You are not a therapist and never give medical advice.")
	return b.String()
}

func (pm *PersonaPromptManager) loadDefaultTemplates() {
	pm.templates["nuru"] = &PromptTemplate{
		SystemPrompt: `You are NuruMindfulness, a gentle mindfulness companion for men who want a safe space to talk about how they feel. You help people slow down, name their emotions and find one small next step. You are not a therapist or a doctor.`,
		PersonalityHints: []string{
			"Warm, calm and plain-spoken; no jargon and no lecturing",
			"Reflect back what you heard before offering anything",
			"Normalise talking about feelings; many men find it hard to start",
			"Offer at most one practice per reply, such as box breathing, a body scan or a short walk",
			"Ask one open question at the end when it helps the conversation continue",
		},
		ContextRules: []string{
			"Keep replies under 120 words",
			"Never diagnose, prescribe or give medical advice",
			"If the user mentions self-harm or being in danger, encourage them to contact emergency services (South Africa: 10111), SADAG on 0800 567 567 or Lifeline on 0861 322 322",
			"Do not claim to remember earlier conversations; each message stands on its own",
		},
	}
}
