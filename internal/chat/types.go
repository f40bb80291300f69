package chat

// Role is the message sender role within a session.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Difficulty selects the tutor's teaching register for a session.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyExpert       Difficulty = "Expert"
)

// Difficulties lists all difficulty levels in display order.
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyExpert,
}

// Feedback is the learner's reaction to a model message.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// Part is one content part of a message: either text or inline binary
// data (an attached file). Exactly one variant is populated.
type Part struct {
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BinaryPart builds an inline binary content part.
func BinaryPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsText reports whether the part carries text content.
func (p Part) IsText() bool {
	return p.MIMEType == ""
}

// QuizQuestion is a single generated multiple-choice question.
// Immutable once generated.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// Flashcard is a generated front/back study card. Flashcards are not part
// of session history; they live as ephemeral view state on the orchestrator.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ChatMessage is one turn of a conversation. After being appended, only
// Parts (during streaming) and Feedback mutate in place.
type ChatMessage struct {
	Role     Role           `json:"role"`
	Parts    []Part         `json:"parts"`
	Quiz     []QuizQuestion `json:"quiz,omitempty"`
	Feedback Feedback       `json:"feedback,omitempty"`
}

// Text concatenates the message's text-bearing parts in order,
// ignoring binary parts.
func (m ChatMessage) Text() string {
	var s string
	for _, p := range m.Parts {
		if p.IsText() {
			s += p.Text
		}
	}
	return s
}
