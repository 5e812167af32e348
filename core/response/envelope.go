package response

import (
	"encoding/json"
	"fmt"
)

// InstantResponse represents a parsed instant-answer response. The service
// wraps the reply candidate in a message field.
type InstantResponse struct {
	Message Reply `json:"message"`
}

// Content returns the reply text.
func (r *InstantResponse) Content() string {
	return r.Message.Text
}

// ParseInstant parses a JSON instant-answer response body into an
// InstantResponse.
func ParseInstant(body []byte) (*InstantResponse, error) {
	var response InstantResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse instant response: %w", err)
	}
	return &response, nil
}

// CheckResponse represents a parsed answer-checking response. Unlike the
// instant endpoint, the message here is an evaluation of the student's
// answer and is usually structured.
type CheckResponse struct {
	Message Reply `json:"message"`
}

// Content returns the evaluation text.
func (r *CheckResponse) Content() string {
	return r.Message.Text
}

// ParseCheck parses a JSON answer-checking response body into a
// CheckResponse.
func ParseCheck(body []byte) (*CheckResponse, error) {
	var response CheckResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse check response: %w", err)
	}
	return &response, nil
}
