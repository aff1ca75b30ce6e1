package chat

// PromptKind selects which page a set of suggested prompts belongs to
type PromptKind string

const (
	PromptsGeneral PromptKind = "general"
	PromptsTeam    PromptKind = "team"
	PromptsPlayer  PromptKind = "player"
)

var suggestedPrompts = map[PromptKind][]string{
	PromptsGeneral: {
		"Who are the biggest winners this week?",
		"Show me the top guards in the portal",
		"Which teams improved the most?",
		"What positions are most active right now?",
		"Compare SEC and Big Ten portal activity",
		"Who are the highest-rated available players?",
	},
	PromptsTeam: {
		"How will this affect their starting lineup?",
		"Did they improve from last season?",
		"Who replaces their top scorer?",
		"What are the biggest needs remaining?",
	},
	PromptsPlayer: {
		"What are their biggest strengths?",
		"How will they fit in the new system?",
		"Compare them to current roster players",
		"What's their projected impact?",
	},
}

// SuggestedPrompts returns a fresh copy of the prompts for kind.
// Unknown kinds get an empty list.
func SuggestedPrompts(kind PromptKind) []string {
	prompts := suggestedPrompts[kind]
	out := make([]string, len(prompts))
	copy(out, prompts)
	return out
}
