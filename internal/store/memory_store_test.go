package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
)

func TestMemoryStore_ClipRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	clip := &model.GeneratedClip{
		ID:        "clip-1",
		ProjectID: "proj-1",
		StartTime: 10,
		EndTime:   25,
		Duration:  15,
		Caption:   "Highlight 1",
		Status:    model.ClipStatusReady,
	}
	id, err := st.SaveClip(ctx, clip)
	if err != nil {
		t.Fatalf("SaveClip failed: %v", err)
	}
	if id != "clip-1" {
		t.Errorf("expected id 'clip-1', got %q", id)
	}
	if st.ClipCount() != 1 {
		t.Errorf("expected 1 clip, got %d", st.ClipCount())
	}

	got, err := st.GetClip(ctx, "clip-1")
	if err != nil {
		t.Fatalf("GetClip failed: %v", err)
	}
	if got.Caption != "Highlight 1" {
		t.Errorf("expected caption 'Highlight 1', got %q", got.Caption)
	}

	// Returned record is a copy; mutating it must not touch the store.
	got.Caption = "mutated"
	again, _ := st.GetClip(ctx, "clip-1")
	if again.Caption != "Highlight 1" {
		t.Error("stored clip was mutated through a returned copy")
	}

	if _, err := st.GetClip(ctx, "missing"); !errors.Is(err, ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
}

func TestMemoryStore_UpdateProjectPartial(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateProject(ctx, &model.Project{ID: "proj-1", Title: "raw footage", Status: model.ProjectStatusCreated}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	processing := model.ProjectStatusProcessing
	if err := st.UpdateProject(ctx, "proj-1", pipeline.ProjectUpdate{Status: &processing}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	got, _ := st.GetProject(ctx, "proj-1")
	if got.Status != model.ProjectStatusProcessing {
		t.Errorf("expected status processing, got %q", got.Status)
	}
	if got.CompletedAt != nil {
		t.Error("nil update fields must leave the record untouched")
	}

	completed := model.ProjectStatusCompleted
	now := time.Now()
	if err := st.UpdateProject(ctx, "proj-1", pipeline.ProjectUpdate{
		Status:      &completed,
		ClipIDs:     []string{"clip-1"},
		CompletedAt: &now,
	}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	got, _ = st.GetProject(ctx, "proj-1")
	if got.Status != model.ProjectStatusCompleted || len(got.ClipIDs) != 1 || got.CompletedAt == nil {
		t.Errorf("terminal update not applied: %+v", got)
	}

	if err := st.UpdateProject(ctx, "missing", pipeline.ProjectUpdate{Status: &completed}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestMemoryStore_GetFileMissing(t *testing.T) {
	st := NewMemoryStore()

	_, err := st.GetFile(context.Background(), "missing")
	if !errors.Is(err, pipeline.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}
