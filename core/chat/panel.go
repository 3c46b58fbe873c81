package chat

// Panel texts, kept as the product shipped them.
const (
	Greeting       = "How can I help you today?"
	FallbackAnswer = "This information is not available in the notes."
)

// Panel is the doubt-clarification transcript for one mounted chat instance.
// Opening it with a new question context re-titles it but keeps the
// transcript; only an explicit Reset starts over.
type Panel struct {
	Title        string `json:"title"`
	AssignmentID string `json:"assignment_id"`
	QuestionID   string `json:"question_id"`

	messages []Message
	pending  bool
}

func NewPanel() *Panel {
	p := &Panel{}
	p.seed()
	return p
}

func (p *Panel) seed() {
	p.messages = []Message{{Text: Greeting, IsBot: true}}
}

// Open re-contextualizes the panel for a different question.
func (p *Panel) Open(title, assignmentID, questionID string) {
	p.Title = title
	p.AssignmentID = assignmentID
	p.QuestionID = questionID
}

// Reset discards the transcript and starts a fresh one with the greeting.
func (p *Panel) Reset() {
	p.seed()
	p.pending = false
}

func (p *Panel) Pending() bool { return p.pending }

// Messages returns a detached snapshot of the transcript, oldest first.
func (p *Panel) Messages() []Message {
	msgs := make([]Message, len(p.messages))
	copy(msgs, p.messages)
	return msgs
}

func (p *Panel) append(text string, isBot bool) {
	p.messages = append(p.messages, Message{Text: text, IsBot: isBot})
}
