package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/grievance-service/internal/classifier"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// GrievanceService coordinates the grievance lifecycle.
type GrievanceService struct {
	grievances repository.GrievanceRepository
	users      repository.UserRepository
	credits    *CreditService
	classifier *classifier.Classifier
	dispatcher events.Dispatcher
}

// GrievanceDependencies bundles collaborators for the grievance service.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	UserRepo      repository.UserRepository
	Credits       *CreditService
	Classifier    *classifier.Classifier
	Dispatcher    events.Dispatcher
}

// SubmitInput describes a citizen's submission payload. Attachment URLs come
// from the external upload collaborator; the engine stores them opaquely.
type SubmitInput struct {
	Title       string
	Description string
	Attachments []string
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	return &GrievanceService{
		grievances: deps.GrievanceRepo,
		users:      deps.UserRepo,
		credits:    deps.Credits,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
	}
}

// Status transitions admins may apply. Priority is handled separately and
// only ever escalates.
var allowedTransitions = map[domain.GrievanceStatus][]domain.GrievanceStatus{
	domain.GrievanceStatusPending:    {domain.GrievanceStatusInProgress, domain.GrievanceStatusResolved},
	domain.GrievanceStatusInProgress: {domain.GrievanceStatusResolved},
	domain.GrievanceStatusResolved:   {},
}

func isValidTransition(current, next domain.GrievanceStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Submit files a new grievance: priority from the classifier, one credit
// consumed, status pending. Creation is silent; no notification is produced.
func (s *GrievanceService) Submit(ctx context.Context, userID string, input SubmitInput) (*domain.Grievance, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "user", map[string]any{"user_id": userID})
	}
	if user.Blocked() {
		return nil, apperrors.NewForbidden("account is blocked")
	}

	priority, matched := s.classifier.Detect(title + " " + description)

	// Consume after validation, before the record write: a failed write costs
	// the user a credit, a known weak-consistency limitation of the store.
	if _, err := s.credits.Consume(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	grievance := &domain.Grievance{
		SubmitterID:   user.ID,
		SubmitterName: user.Name,
		Title:         title,
		Description:   description,
		Status:        domain.GrievanceStatusPending,
		Priority:      priority,
		MatchedTerms:  matched,
		Attachments:   input.Attachments,
		Timeline: []domain.TimelineEntry{{
			Date:        now,
			Kind:        domain.TimelineSubmitted,
			Description: "Grievance submitted.",
		}},
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.grievances.Create(ctx, grievance); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventGrievanceCreated,
		Actor: actorOf(user),
		Payload: events.GrievanceCreatedPayload{
			GrievanceID: grievance.ID,
			SubmitterID: user.ID,
			Priority:    priority,
			Title:       title,
		},
	})
	return grievance, nil
}

// StartProcessing moves a pending grievance to in-progress, optionally
// assigning the acting admin and appending a comment. The comment and status
// land in one merged update so the submitter sees a single change.
func (s *GrievanceService) StartProcessing(ctx context.Context, grievanceID string, admin *domain.User, comment string) (*domain.Grievance, error) {
	return s.transition(ctx, grievanceID, domain.GrievanceStatusInProgress, admin, comment, true)
}

// Resolve completes a grievance. The pending to resolved shortcut is allowed
// as an administrative fast path.
func (s *GrievanceService) Resolve(ctx context.Context, grievanceID string, admin *domain.User, comment string) (*domain.Grievance, error) {
	return s.transition(ctx, grievanceID, domain.GrievanceStatusResolved, admin, comment, false)
}

func (s *GrievanceService) transition(ctx context.Context, grievanceID string, next domain.GrievanceStatus, admin *domain.User, comment string, assign bool) (*domain.Grievance, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if !isValidTransition(grievance.Status, next) {
		return nil, apperrors.NewValidationError("invalid status transition",
			map[string]any{"from": grievance.Status, "to": next})
	}

	now := time.Now()
	previous := grievance.Status
	grievance.Status = next
	grievance.LastUpdated = now
	fields := map[string]any{
		"status":      next,
		"lastUpdated": now,
	}
	if assign {
		grievance.AssignedTo = admin.ID
		grievance.AssignedName = admin.Name
		fields["assignedTo"] = admin.ID
		fields["assignedName"] = admin.Name
	}
	if comment = strings.TrimSpace(comment); comment != "" {
		grievance.Comments = append(grievance.Comments, domain.Comment{
			ID:         uuid.NewString(),
			AuthorID:   admin.ID,
			AuthorName: admin.Name,
			Text:       comment,
			Date:       now,
		})
		fields["comments"] = grievance.Comments
	}
	grievance.Timeline = append(grievance.Timeline, domain.TimelineEntry{
		Date:        now,
		Kind:        domain.TimelineStatus,
		Description: "Status changed to " + string(next) + ".",
	})
	fields["timeline"] = grievance.Timeline

	if err := s.grievances.Merge(ctx, grievance.ID, fields); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventStatusChanged,
		Actor: actorOf(admin),
		Payload: events.StatusChangedPayload{
			GrievanceID: grievance.ID,
			SubmitterID: grievance.SubmitterID,
			OldStatus:   previous,
			NewStatus:   next,
			Comment:     comment,
		},
	})
	return grievance, nil
}

// AddComment appends to the comment log without touching status.
func (s *GrievanceService) AddComment(ctx context.Context, grievanceID string, author *domain.User, text string) (*domain.Grievance, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	if author == nil {
		return nil, apperrors.NewUnauthorized("author required")
	}
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if !author.IsAdmin && grievance.SubmitterID != author.ID {
		return nil, apperrors.NewForbidden("access denied")
	}

	now := time.Now()
	grievance.Comments = append(grievance.Comments, domain.Comment{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		Date:       now,
	})
	grievance.Timeline = append(grievance.Timeline, domain.TimelineEntry{
		Date:        now,
		Kind:        domain.TimelineComment,
		Description: author.Name + ": " + stringPreview(text, 120),
	})
	grievance.LastUpdated = now
	if err := s.grievances.Merge(ctx, grievance.ID, map[string]any{
		"comments":    grievance.Comments,
		"timeline":    grievance.Timeline,
		"lastUpdated": now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventCommentAdded,
		Actor: actorOf(author),
		Payload: events.CommentAddedPayload{
			GrievanceID: grievance.ID,
			SubmitterID: grievance.SubmitterID,
			AuthorID:    author.ID,
			AuthorName:  author.Name,
			Preview:     stringPreview(text, 120),
		},
	})
	return grievance, nil
}

// Assign hands a grievance to an admin. Assignment forces in-progress as a
// documented side effect of this transition, whatever the current status.
func (s *GrievanceService) Assign(ctx context.Context, grievanceID string, admin *domain.User) (*domain.Grievance, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}

	now := time.Now()
	grievance.AssignedTo = admin.ID
	grievance.AssignedName = admin.Name
	grievance.Status = domain.GrievanceStatusInProgress
	grievance.Timeline = append(grievance.Timeline, domain.TimelineEntry{
		Date:        now,
		Kind:        domain.TimelineAssigned,
		Description: "Assigned to " + admin.Name + ".",
	})
	grievance.LastUpdated = now
	if err := s.grievances.Merge(ctx, grievance.ID, map[string]any{
		"assignedTo":   admin.ID,
		"assignedName": admin.Name,
		"status":       domain.GrievanceStatusInProgress,
		"timeline":     grievance.Timeline,
		"lastUpdated":  now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventGrievanceAssigned,
		Actor: actorOf(admin),
		Payload: events.GrievanceAssignedPayload{
			GrievanceID:  grievance.ID,
			SubmitterID:  grievance.SubmitterID,
			AssignedTo:   admin.ID,
			AssignedName: admin.Name,
		},
	})
	return grievance, nil
}

// Resubmit escalates a languishing grievance to urgent and alerts the admin
// pool. Deliberately inert when the grievance is resolved or already urgent:
// callers gate the affordance, the engine just declines quietly.
func (s *GrievanceService) Resubmit(ctx context.Context, grievanceID, userID string) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if grievance.SubmitterID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if grievance.Status == domain.GrievanceStatusResolved || grievance.Priority == domain.PriorityUrgent {
		return grievance, nil
	}

	now := time.Now()
	grievance.Priority = domain.PriorityUrgent
	grievance.Timeline = append(grievance.Timeline, domain.TimelineEntry{
		Date:        now,
		Kind:        domain.TimelineResubmitted,
		Description: "Grievance resubmitted for urgent attention.",
	})
	grievance.LastUpdated = now
	if err := s.grievances.Merge(ctx, grievance.ID, map[string]any{
		"priority":    domain.PriorityUrgent,
		"timeline":    grievance.Timeline,
		"lastUpdated": now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventGrievanceResubmitted,
		Actor: events.Actor{UserID: userID},
		Payload: events.GrievanceResubmittedPayload{
			GrievanceID:   grievance.ID,
			SubmitterID:   grievance.SubmitterID,
			SubmitterName: grievance.SubmitterName,
			Title:         grievance.Title,
		},
	})
	return grievance, nil
}

// EscalatePriority lets an admin raise the tier manually. Priority never
// regresses; a lower or equal tier is rejected.
func (s *GrievanceService) EscalatePriority(ctx context.Context, grievanceID string, priority domain.GrievancePriority, admin *domain.User) (*domain.Grievance, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if priority.Rank() <= grievance.Priority.Rank() {
		return nil, apperrors.NewValidationError("priority only escalates",
			map[string]any{"current": grievance.Priority, "requested": priority})
	}

	now := time.Now()
	grievance.Priority = priority
	grievance.LastUpdated = now
	if err := s.grievances.Merge(ctx, grievance.ID, map[string]any{
		"priority":    priority,
		"lastUpdated": now,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}
	return grievance, nil
}

// Remove is the destructive administrative override outside the status graph.
func (s *GrievanceService) Remove(ctx context.Context, grievanceID string, admin *domain.User, reason string) error {
	if err := requireAdmin(admin); err != nil {
		return err
	}
	reason = normalizeReason(reason)
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if err := s.grievances.Delete(ctx, grievance.ID); err != nil {
		return apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  events.EventGrievanceRemoved,
		Actor: actorOf(admin),
		Payload: events.GrievanceRemovedPayload{
			GrievanceID: grievance.ID,
			SubmitterID: grievance.SubmitterID,
			Reason:      reason,
		},
	})
	return nil
}

// Get fetches one grievance, enforcing ownership for non-admins.
func (s *GrievanceService) Get(ctx context.Context, grievanceID string, actor *domain.User) (*domain.Grievance, error) {
	grievance, err := s.grievances.GetByID(ctx, grievanceID)
	if err != nil {
		return nil, mapStoreErr(err, "grievance", map[string]any{"grievance_id": grievanceID})
	}
	if actor != nil && !actor.IsAdmin && grievance.SubmitterID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return grievance, nil
}

// ListForUser returns a submitter's grievances in creation order.
func (s *GrievanceService) ListForUser(ctx context.Context, userID string) ([]domain.Grievance, error) {
	return s.grievances.ListByUser(ctx, userID)
}

// ListAll returns every grievance, optionally filtered by status.
func (s *GrievanceService) ListAll(ctx context.Context, status domain.GrievanceStatus) ([]domain.Grievance, error) {
	if status == "" {
		return s.grievances.ListAll(ctx)
	}
	return s.grievances.ListByStatus(ctx, status)
}
