package models

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type AnalyticsEventRequest struct {
	EventType string `json:"event_type" binding:"required"`
	AppName   string `json:"app_name"`
	Details   string `json:"details"`
}

type AskRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

type UploadResponse struct {
	Status             string `json:"status"`
	SessionID          string `json:"session_id"`
	QuestionsRemaining int    `json:"questions_remaining"`
	AutoSummary        string `json:"auto_summary,omitempty"`
}

type AskResponse struct {
	Status             string `json:"status"`
	Answer             string `json:"answer"`
	QuestionsRemaining int    `json:"questions_remaining"`
	QuestionsAsked     int    `json:"questions_asked"`
}

type SessionInfoResponse struct {
	Status             string `json:"status"`
	Filename           string `json:"filename"`
	QuestionsAsked     int    `json:"questions_asked"`
	QuestionsRemaining int    `json:"questions_remaining"`
	CreatedAt          string `json:"created_at"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type HealthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	Uptime         string            `json:"uptime"`
	ActiveSessions int               `json:"active_sessions"`
	Features       map[string]string `json:"features"`
}
