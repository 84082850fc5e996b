package models

import "time"

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TopicCount  int    `json:"topicCount"`
	HasDocument bool   `json:"hasDocument"`
}

type Topic struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	QuizSets []QuizSetRef `json:"quizSets"`
}

type QuizSetRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"userName"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type Feedback struct {
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// PerformanceSummary is generated server-side; the portal only displays it.
type PerformanceSummary struct {
	UserID      string    `json:"userId"`
	Summary     string    `json:"summary"`
	Strengths   []string  `json:"strengths"`
	FocusAreas  []string  `json:"focusAreas"`
	GeneratedAt time.Time `json:"generatedAt"`
}
