package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"trainhub/portal/internal/config"
	"trainhub/portal/internal/ids"
	"trainhub/portal/internal/models"
)

// Error carries a non-2xx upstream response through to the caller.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Client is the portal's view of the LMS REST API. Every call carries the
// session's bearer token and a correlation id; all business rules (scoring,
// OTP validation, summary generation) live behind these endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg config.UpstreamConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// RequestOTP asks the upstream to issue a one-time login code for username.
func (c *Client) RequestOTP(ctx context.Context, username string) error {
	in := map[string]string{"userName": username}
	return c.do(ctx, "", http.MethodPost, "/api/v1/auth/otp", in, nil)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges username+OTP for an access token and the user profile.
func (c *Client) Login(ctx context.Context, username, otp string) (LoginResult, error) {
	in := map[string]string{"userName": username, "otp": otp}
	var out LoginResult
	if err := c.do(ctx, "", http.MethodPost, "/api/v1/auth/login", in, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	var out models.User
	err := c.do(ctx, token, http.MethodGet, "/api/v1/users/me", nil, &out)
	return out, err
}

func (c *Client) Courses(ctx context.Context, token string) ([]models.Course, error) {
	var out []models.Course
	err := c.do(ctx, token, http.MethodGet, "/api/v1/courses", nil, &out)
	return out, err
}

func (c *Client) CourseTopics(ctx context.Context, token, courseID string) ([]models.Topic, error) {
	var out []models.Topic
	err := c.do(ctx, token, http.MethodGet, "/api/v1/courses/"+courseID+"/topics", nil, &out)
	return out, err
}

func (c *Client) QuizSet(ctx context.Context, token, quizSetID string) (models.QuizSet, error) {
	var out models.QuizSet
	err := c.do(ctx, token, http.MethodGet, "/api/v1/quiz-sets/"+quizSetID, nil, &out)
	return out, err
}

func (c *Client) SubmitQuiz(ctx context.Context, token string, sub models.QuizSubmission) (models.QuizResult, error) {
	var out models.QuizResult
	err := c.do(ctx, token, http.MethodPost, "/api/v1/quiz-sets/"+sub.QuizSetID+"/submissions", sub, &out)
	return out, err
}

func (c *Client) QuizReview(ctx context.Context, token, quizSetID string) ([]models.QuizReviewItem, error) {
	var out []models.QuizReviewItem
	err := c.do(ctx, token, http.MethodGet, "/api/v1/quiz-sets/"+quizSetID+"/review", nil, &out)
	return out, err
}

// CreateQuizSet submits an instructor-composed quiz set. Validation of the
// draft happens upstream.
func (c *Client) CreateQuizSet(ctx context.Context, token string, draft models.QuizSetDraft) (models.QuizSet, error) {
	var out models.QuizSet
	err := c.do(ctx, token, http.MethodPost, "/api/v1/quiz-sets", draft, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, token string) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	err := c.do(ctx, token, http.MethodGet, "/api/v1/leaderboard", nil, &out)
	return out, err
}

func (c *Client) SubmitFeedback(ctx context.Context, token string, fb models.Feedback) error {
	return c.do(ctx, token, http.MethodPost, "/api/v1/feedback", fb, nil)
}

// PerformanceSummary fetches the AI-generated summary for display. The
// portal never generates or post-processes it.
func (c *Client) PerformanceSummary(ctx context.Context, token, userID string) (models.PerformanceSummary, error) {
	var out models.PerformanceSummary
	err := c.do(ctx, token, http.MethodGet, "/api/v1/users/"+userID+"/performance-summary", nil, &out)
	return out, err
}

// DownloadCourseDocument fetches the raw course PDF.
func (c *Client) DownloadCourseDocument(ctx context.Context, token, courseID string) ([]byte, error) {
	req, err := c.newRequest(ctx, token, http.MethodGet, "/api/v1/courses/"+courseID+"/document", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, token, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, token, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, token, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Client-Request-Id", ids.New())
	return req, nil
}

func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &Error{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}
