package store

import (
	"context"
	"sync"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
)

// MemoryStore is an in-process Store used by tests and by library
// embedders that bring no Redis.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[string]*model.Project
	clips    map[string]*model.GeneratedClip
	files    map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*model.Project),
		clips:    make(map[string]*model.GeneratedClip),
		files:    make(map[string][]byte),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateProject(_ context.Context, project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *project
	s.projects[project.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	cp := *project
	return &cp, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, id string, update pipeline.ProjectUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return ErrProjectNotFound
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.Error != nil {
		project.Error = *update.Error
	}
	if update.ClipIDs != nil {
		project.ClipIDs = update.ClipIDs
	}
	if update.CompletedAt != nil {
		project.CompletedAt = update.CompletedAt
	}
	return nil
}

func (s *MemoryStore) SaveSource(_ context.Context, projectID string, src model.SourceFile, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[projectID]
	if !ok {
		return ErrProjectNotFound
	}
	s.files[src.ID] = append([]byte(nil), data...)
	project.Source = src
	return nil
}

func (s *MemoryStore) GetFile(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[id]
	if !ok {
		return nil, pipeline.ErrSourceNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) SaveClip(_ context.Context, clip *model.GeneratedClip) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *clip
	s.clips[clip.ID] = &cp
	return clip.ID, nil
}

func (s *MemoryStore) GetClip(_ context.Context, id string) (*model.GeneratedClip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, ok := s.clips[id]
	if !ok {
		return nil, ErrClipNotFound
	}
	cp := *clip
	return &cp, nil
}

// ClipCount reports how many clips have been persisted. Test helper.
func (s *MemoryStore) ClipCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clips)
}
