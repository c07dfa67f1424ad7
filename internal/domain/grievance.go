package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	GrievanceStatusPending    GrievanceStatus = "pending"
	GrievanceStatusInProgress GrievanceStatus = "in-progress"
	GrievanceStatusResolved   GrievanceStatus = "resolved"
)

// GrievancePriority enumerates urgency tiers.
type GrievancePriority string

const (
	PriorityNormal GrievancePriority = "normal"
	PriorityHigh   GrievancePriority = "high"
	PriorityUrgent GrievancePriority = "urgent"
)

// Rank orders priorities so that escalation checks can compare tiers.
func (p GrievancePriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 2
	case PriorityHigh:
		return 1
	default:
		return 0
	}
}

// TimelineKind tags timeline entries.
type TimelineKind string

const (
	TimelineSubmitted   TimelineKind = "submitted"
	TimelineStatus      TimelineKind = "status"
	TimelineComment     TimelineKind = "comment"
	TimelineAssigned    TimelineKind = "assigned"
	TimelineResubmitted TimelineKind = "resubmitted"
)

// Comment is an entry in a grievance's append-only comment log.
type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
}

// TimelineEntry records a lifecycle event on a grievance.
type TimelineEntry struct {
	Date        time.Time    `json:"date"`
	Kind        TimelineKind `json:"kind"`
	Description string       `json:"description"`
}

// Grievance is the aggregate for citizen complaints.
type Grievance struct {
	ID            string            `json:"id"`
	SubmitterID   string            `json:"submitterId"`
	SubmitterName string            `json:"submitterName"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        GrievanceStatus   `json:"status"`
	Priority      GrievancePriority `json:"priority"`
	MatchedTerms  []string          `json:"matchedTerms,omitempty"`
	Attachments   []string          `json:"attachments,omitempty"`
	AssignedTo    string            `json:"assignedTo,omitempty"`
	AssignedName  string            `json:"assignedName,omitempty"`
	Comments      []Comment         `json:"comments,omitempty"`
	Timeline      []TimelineEntry   `json:"timeline,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}
