package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// SubmitGrievanceRequest payload.
type SubmitGrievanceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Attachments []string `json:"attachments,omitempty"`
}

// StatusChangeRequest payload for admin transitions. The comment, when
// present, is delivered alongside the status change as one update.
type StatusChangeRequest struct {
	Comment string `json:"comment,omitempty"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// PriorityRequest payload for manual escalation.
type PriorityRequest struct {
	Priority domain.GrievancePriority `json:"priority"`
}

// RemoveGrievanceRequest payload.
type RemoveGrievanceRequest struct {
	Reason string `json:"reason"`
}

// GrievanceSummary response for list endpoints.
type GrievanceSummary struct {
	ID            string                   `json:"id"`
	SubmitterID   string                   `json:"submitter_id"`
	SubmitterName string                   `json:"submitter_name"`
	Title         string                   `json:"title"`
	Status        domain.GrievanceStatus   `json:"status"`
	Priority      domain.GrievancePriority `json:"priority"`
	AssignedTo    string                   `json:"assigned_to,omitempty"`
	AssignedName  string                   `json:"assigned_name,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	LastUpdated   time.Time                `json:"last_updated"`
}

// GrievanceDetail response with the full comment log and timeline.
type GrievanceDetail struct {
	GrievanceSummary
	Description  string                 `json:"description"`
	MatchedTerms []string               `json:"matched_terms,omitempty"`
	Attachments  []string               `json:"attachments,omitempty"`
	Comments     []domain.Comment       `json:"comments"`
	Timeline     []domain.TimelineEntry `json:"timeline"`
}

// NewGrievanceSummary maps the domain aggregate to its list shape.
func NewGrievanceSummary(g *domain.Grievance) GrievanceSummary {
	return GrievanceSummary{
		ID:            g.ID,
		SubmitterID:   g.SubmitterID,
		SubmitterName: g.SubmitterName,
		Title:         g.Title,
		Status:        g.Status,
		Priority:      g.Priority,
		AssignedTo:    g.AssignedTo,
		AssignedName:  g.AssignedName,
		CreatedAt:     g.CreatedAt,
		LastUpdated:   g.LastUpdated,
	}
}

// NewGrievanceDetail maps the domain aggregate to its detail shape.
func NewGrievanceDetail(g *domain.Grievance) GrievanceDetail {
	comments := g.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	timeline := g.Timeline
	if timeline == nil {
		timeline = []domain.TimelineEntry{}
	}
	return GrievanceDetail{
		GrievanceSummary: NewGrievanceSummary(g),
		Description:      g.Description,
		MatchedTerms:     g.MatchedTerms,
		Attachments:      g.Attachments,
		Comments:         comments,
		Timeline:         timeline,
	}
}
