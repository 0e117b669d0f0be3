package requests

import (
	"context"
	"sort"
	"sync"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/errx"
	"github.com/ridermall/riderbot/storex"
)

// MemoryStore keeps requests in process memory. Used for development
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]dialogx.ServiceRequest
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[string]dialogx.ServiceRequest)}
}

func (s *MemoryStore) Save(_ context.Context, req dialogx.ServiceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (dialogx.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return dialogx.ServiceRequest{}, notFound(id)
	}
	return req, nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) (storex.Paginated[dialogx.ServiceRequest], error) {
	s.mu.RLock()
	var matched []dialogx.ServiceRequest
	for _, req := range s.requests {
		if opts.ServiceID != "" && req.ServiceID != opts.ServiceID {
			continue
		}
		if opts.Status != "" && req.Status != opts.Status {
			continue
		}
		if opts.UserID != "" && req.UserID != opts.UserID {
			continue
		}
		matched = append(matched, req)
	}
	s.mu.RUnlock()

	// Newest first, matching the database stores
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	p := opts.pagination()
	start := (p.Page - 1) * p.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return storex.NewPaginated(matched[start:end], p.Page, p.PageSize, len(matched)), nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status dialogx.RequestStatus) error {
	if !dialogx.ValidStatus(status) {
		return errx.New("unknown request status "+string(status), errx.TypeValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return notFound(id)
	}
	req.Status = status
	s.requests[id] = req
	return nil
}

func notFound(id string) error {
	return errx.New("request "+id+" not found", errx.TypeNotFound)
}
