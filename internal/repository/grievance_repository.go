package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/store"
)

const grievancesPath = "grievances"

// GrievanceRepository encapsulates grievance persistence.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	// Merge applies a partial update. Callers combine the status change,
	// comment append, and timestamp of one logical operation into a single
	// merge so readers never observe them separately.
	Merge(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Grievance, error)
	ListByStatus(ctx context.Context, status domain.GrievanceStatus) ([]domain.Grievance, error)
	ListAll(ctx context.Context) ([]domain.Grievance, error)
}

type grievanceRepository struct {
	gw store.Gateway
}

// NewGrievanceRepository instantiates repository.
func NewGrievanceRepository(gw store.Gateway) GrievanceRepository {
	return &grievanceRepository{gw: gw}
}

func (r *grievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	key, err := r.gw.Append(ctx, grievancesPath, grievance)
	if err != nil {
		return err
	}
	grievance.ID = key
	return r.gw.Write(ctx, grievancesPath+"/"+key, grievance)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	var grievance domain.Grievance
	if err := r.gw.Read(ctx, grievancesPath+"/"+id, &grievance); err != nil {
		return nil, err
	}
	grievance.ID = id
	return &grievance, nil
}

func (r *grievanceRepository) Merge(ctx context.Context, id string, fields map[string]any) error {
	return r.gw.Merge(ctx, grievancesPath+"/"+id, fields)
}

func (r *grievanceRepository) Delete(ctx context.Context, id string) error {
	return r.gw.Delete(ctx, grievancesPath+"/"+id)
}

func (r *grievanceRepository) ListByUser(ctx context.Context, userID string) ([]domain.Grievance, error) {
	return r.list(ctx, func(g *domain.Grievance) bool { return g.SubmitterID == userID })
}

func (r *grievanceRepository) ListByStatus(ctx context.Context, status domain.GrievanceStatus) ([]domain.Grievance, error) {
	return r.list(ctx, func(g *domain.Grievance) bool { return g.Status == status })
}

func (r *grievanceRepository) ListAll(ctx context.Context) ([]domain.Grievance, error) {
	return r.list(ctx, nil)
}

func (r *grievanceRepository) list(ctx context.Context, keep func(*domain.Grievance) bool) ([]domain.Grievance, error) {
	children, err := r.gw.List(ctx, grievancesPath)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Grievance, 0, len(children))
	for _, key := range store.SortedKeys(children) {
		var grievance domain.Grievance
		if err := json.Unmarshal(children[key], &grievance); err != nil {
			return nil, err
		}
		grievance.ID = key
		if keep == nil || keep(&grievance) {
			out = append(out, grievance)
		}
	}
	// Keys from another process only order at second granularity, so
	// CreatedAt breaks same-second ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
