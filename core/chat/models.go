package chat

import "context"

// QueryTypeChat marks a doubt query as a chat-type question.
const QueryTypeChat = "chat"

// Message is one transcript entry. The transcript is append-only, oldest
// first; messages are never edited or removed.
type Message struct {
	Text  string `json:"text"`
	IsBot bool   `json:"is_bot"`
}

// DoubtQuery is the ask-doubt request payload, as the LMS expects it.
type DoubtQuery struct {
	Question     string `json:"question"`
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	QuestionID   string `json:"question_id"`
	QueryType    string `json:"query_type"`
	QueryQ       string `json:"query_q"`
}

// Doubter answers one doubt at a time. An empty answer with a nil error means
// the LMS had nothing; callers substitute the fallback text.
type Doubter interface {
	AskDoubt(ctx context.Context, q DoubtQuery) (answer string, err error)
}
