package dto

import "time"

type SharePrivateRequest struct {
	UserID string `json:"user_id"`
}

type ShareEmailRequest struct {
	Email string `json:"email"`
}

type ShareLinkResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
