package models

import "time"

type QuizSet struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"courseId"`
	TopicID   string     `json:"topicId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type QuizSubmission struct {
	QuizSetID string            `json:"quizSetId"`
	Answers   map[string]string `json:"answers"`
}

type QuizResult struct {
	QuizSetID   string    `json:"quizSetId"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type QuizReviewItem struct {
	QuestionID    string `json:"questionId"`
	Prompt        string `json:"prompt"`
	GivenAnswer   string `json:"givenAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// QuizSetDraft is what an instructor composes; validation and persistence
// happen upstream.
type QuizSetDraft struct {
	CourseID  string          `json:"courseId"`
	TopicID   string          `json:"topicId"`
	Title     string          `json:"title"`
	Questions []QuestionDraft `json:"questions"`
}

type QuestionDraft struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}
