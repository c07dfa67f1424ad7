package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/store"
)

const creditRequestsPath = "creditRequests"

// CreditRequestRepository encapsulates credit-request persistence.
type CreditRequestRepository interface {
	Create(ctx context.Context, request *domain.CreditRequest) error
	GetByID(ctx context.Context, id string) (*domain.CreditRequest, error)
	Update(ctx context.Context, request *domain.CreditRequest) error
	FindPendingByUser(ctx context.Context, userID string) (*domain.CreditRequest, error)
	ListByStatus(ctx context.Context, status domain.CreditRequestStatus) ([]domain.CreditRequest, error)
}

type creditRequestRepository struct {
	gw store.Gateway
}

// NewCreditRequestRepository instantiates repository.
func NewCreditRequestRepository(gw store.Gateway) CreditRequestRepository {
	return &creditRequestRepository{gw: gw}
}

func (r *creditRequestRepository) Create(ctx context.Context, request *domain.CreditRequest) error {
	key, err := r.gw.Append(ctx, creditRequestsPath, request)
	if err != nil {
		return err
	}
	request.ID = key
	return r.gw.Write(ctx, creditRequestsPath+"/"+key, request)
}

func (r *creditRequestRepository) GetByID(ctx context.Context, id string) (*domain.CreditRequest, error) {
	var request domain.CreditRequest
	if err := r.gw.Read(ctx, creditRequestsPath+"/"+id, &request); err != nil {
		return nil, err
	}
	request.ID = id
	return &request, nil
}

func (r *creditRequestRepository) Update(ctx context.Context, request *domain.CreditRequest) error {
	return r.gw.Write(ctx, creditRequestsPath+"/"+request.ID, request)
}

func (r *creditRequestRepository) FindPendingByUser(ctx context.Context, userID string) (*domain.CreditRequest, error) {
	children, err := r.gw.List(ctx, creditRequestsPath)
	if err != nil {
		return nil, err
	}
	for key, raw := range children {
		var request domain.CreditRequest
		if err := json.Unmarshal(raw, &request); err != nil {
			continue
		}
		if request.UserID == userID && request.Status == domain.CreditRequestPending {
			request.ID = key
			return &request, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *creditRequestRepository) ListByStatus(ctx context.Context, status domain.CreditRequestStatus) ([]domain.CreditRequest, error) {
	children, err := r.gw.List(ctx, creditRequestsPath)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CreditRequest, 0, len(children))
	for _, key := range store.SortedKeys(children) {
		var request domain.CreditRequest
		if err := json.Unmarshal(children[key], &request); err != nil {
			return nil, err
		}
		if request.Status != status {
			continue
		}
		request.ID = key
		out = append(out, request)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestDate.Before(out[j].RequestDate)
	})
	return out, nil
}
