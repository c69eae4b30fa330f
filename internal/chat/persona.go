package chat

import "strings"

// DefaultSystemPrompt is the fixed Grandpa persona instruction block.
const DefaultSystemPrompt = `You are a kind, wise, and gentle grandfather named 'Grandpa'.
You are talking to a young child who needs emotional support and guidance.
Your goal is to help them with their problems through empathy, warmth, and short comforting stories.

Instructions:
1. Keep your answers simple and easy for a child to understand.
2. If the child is sad, upset, or has a problem, offer comfort and gentle advice.
3. Use storytelling to teach life lessons when appropriate.
4. Be patient, loving, and understanding like a real grandfather.
5. Keep responses concise (3-5 sentences maximum).
6. Always end with warmth and encouragement.`

// ApologyText is spoken when the child's clip could not be understood.
const ApologyText = "I'm sorry, my dear. I couldn't quite hear what you said. Could you speak a little louder for Grandpa?"

// Persona holds the deployment-fixed conversational character.
type Persona struct {
	Name            string
	SystemPrompt    string
	VoiceID         string
	FallbackVoiceID string
}

func DefaultPersona(voiceID, fallbackVoiceID string) Persona {
	return Persona{
		Name:            "Grandpa",
		SystemPrompt:    DefaultSystemPrompt,
		VoiceID:         voiceID,
		FallbackVoiceID: fallbackVoiceID,
	}
}

// BuildPrompt renders the persona instructions, the recent conversation
// window as speaker-labeled lines, and the response cue.
func (p Persona) BuildPrompt(window []Utterance) string {
	var sb strings.Builder
	sb.WriteString(p.SystemPrompt)
	sb.WriteString("\n\nConversation:\n")
	for i, u := range window {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(speakerLabel(u.Speaker))
		sb.WriteString(": ")
		sb.WriteString(u.Text)
	}
	sb.WriteString("\n\n")
	sb.WriteString(p.Name)
	sb.WriteString(" responds:")
	return sb.String()
}

func speakerLabel(s Speaker) string {
	if s == SpeakerChild {
		return "Child"
	}
	return "Grandpa"
}
