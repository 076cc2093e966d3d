// Package media defines the video rendering contract and the stages that
// drive a render job to a local file: submission, the bounded poll loop and
// the streaming download.
package media

import (
	"context"
	"fmt"
	"strings"
)

// Render job states as reported by a VideoOperationChecker.
const (
	StatusSubmitted  = "submitted"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Default output settings for rendered videos.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// VideoGenerator submits render jobs to a video service.
type VideoGenerator interface {
	// GenerateVideo submits a render job and returns its identifier. It does
	// not wait for the job to finish.
	GenerateVideo(ctx context.Context, req *VideoGenerationRequest) (*VideoGenerationResponse, error)

	// ProviderName returns the name of the provider
	ProviderName() string
}

// VideoOperationChecker provides an interface for checking video generation status
type VideoOperationChecker interface {
	// CheckVideoOperation checks the status of a video generation operation
	CheckVideoOperation(ctx context.Context, operationID string) (*OperationStatus, error)
}

// VideoService is a provider that can both submit and check render jobs.
type VideoService interface {
	VideoGenerator
	VideoOperationChecker
}

// VideoGenerationRequest represents a request to render a presenter video
type VideoGenerationRequest struct {
	// Script is the spoken text, including bracketed stage directions
	Script string `json:"script"`

	// AvatarID selects the on-screen presenter
	AvatarID string `json:"avatar_id,omitempty"`

	// VoiceID selects the voice reading the script
	VoiceID string `json:"voice_id,omitempty"`

	// Width of the rendered video in pixels
	Width int `json:"width,omitempty"`

	// Height of the rendered video in pixels
	Height int `json:"height,omitempty"`

	// Test asks the service for a watermarked test render
	Test bool `json:"test"`

	// Caption asks the service to burn in captions
	Caption bool `json:"caption"`
}

// VideoGenerationResponse represents the response from a render submission
type VideoGenerationResponse struct {
	// OperationID identifies the render job for status checks
	OperationID string `json:"operation_id"`

	// Status is the job state at submission time
	Status string `json:"status,omitempty"`
}

// OperationStatus represents the status of a render job
type OperationStatus struct {
	// ID of the operation
	ID string `json:"id"`

	// Status of the operation (submitted, processing, completed, failed)
	Status string `json:"status"`

	// Progress percentage (0-100), when the service reports it
	Progress int `json:"progress,omitempty"`

	// VideoURL is the remote asset location once completed
	VideoURL string `json:"video_url,omitempty"`

	// Error message if the operation failed
	Error string `json:"error,omitempty"`
}

// IsTerminal reports whether the job has finished, successfully or not.
func (s *OperationStatus) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// ValidateVideoGenerationRequest validates a video generation request
func ValidateVideoGenerationRequest(req *VideoGenerationRequest) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if strings.TrimSpace(req.Script) == "" {
		return fmt.Errorf("script is required and cannot be empty")
	}
	if req.Width < 0 || req.Height < 0 {
		return fmt.Errorf("dimensions cannot be negative")
	}
	if (req.Width == 0) != (req.Height == 0) {
		return fmt.Errorf("width and height must be set together")
	}
	return nil
}
