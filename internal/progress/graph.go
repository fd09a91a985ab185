package progress

import (
	"fmt"
	"math"

	"github.com/clipforge/api/internal/model"
)

// Stage IDs used by the clip pipeline. Callers may issue updates for
// stages absent from a given graph; the tracker ignores those.
const (
	StageInit          = "init"
	StageAnalyze       = "analyze"
	StageDetectScenes  = "detect-scenes"
	StageProcessAudio  = "process-audio"
	StageAISelect      = "ai-select"
	StageGenerateClips = "generate-clips"
	StageFinalize      = "finalize"
)

// Sub-stage IDs.
const (
	SubSceneDetection = "scene-detection"
	SubAudioEnergy    = "audio-energy"
	SubExtractAudio   = "extract-audio"
	SubTranscribe     = "transcribe"
	SubCutClips       = "cut-clips"
	SubMergeAudio     = "merge-audio"
	SubPersistClips   = "persist-clips"
)

// StageDef defines one weighted stage and its informational sub-stages.
// Pure data; behavior lives in the Tracker.
type StageDef struct {
	ID        string
	Name      string
	Weight    float64
	SubStages []SubStageDef
}

// SubStageDef defines one unweighted sub-stage.
type SubStageDef struct {
	ID   string
	Name string
}

// Graph is the static stage definition for one pipeline variant.
type Graph struct {
	stages []StageDef
}

// weightTolerance absorbs float rounding in the Σ weights == 1.0 check.
const weightTolerance = 1e-6

// NewGraph validates that stage weights sum to 1.0 and that ids are
// unique. Violations fail fast at construction, never at runtime as
// progress over 100.
func NewGraph(stages []StageDef) (*Graph, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("stage graph is empty")
	}
	seen := make(map[string]bool, len(stages))
	var sum float64
	for _, s := range stages {
		if s.ID == "" {
			return nil, fmt.Errorf("stage with empty id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate stage id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Weight <= 0 || s.Weight > 1 {
			return nil, fmt.Errorf("stage %q weight %v out of (0,1]", s.ID, s.Weight)
		}
		sum += s.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("stage weights sum to %v, want 1.0", sum)
	}
	return &Graph{stages: stages}, nil
}

// MustGraph panics on an invalid graph. Used for the package-level
// default, which is covered by tests.
func MustGraph(stages []StageDef) *Graph {
	g, err := NewGraph(stages)
	if err != nil {
		panic(err)
	}
	return g
}

// Stages returns freshly built stage read-models in definition order.
func (g *Graph) Stages() []model.Stage {
	out := make([]model.Stage, len(g.stages))
	for i, def := range g.stages {
		subs := make([]model.SubStage, len(def.SubStages))
		for j, sd := range def.SubStages {
			subs[j] = model.SubStage{ID: sd.ID, Name: sd.Name, Status: model.StagePending}
		}
		out[i] = model.Stage{
			ID:        def.ID,
			Name:      def.Name,
			Weight:    def.Weight,
			Status:    model.StagePending,
			SubStages: subs,
		}
	}
	return out
}

// DefaultGraph returns the fixed seven-stage clip pipeline graph.
func DefaultGraph() *Graph {
	return MustGraph([]StageDef{
		{ID: StageInit, Name: "Initializing", Weight: 0.05},
		{ID: StageAnalyze, Name: "Analyzing source", Weight: 0.15, SubStages: []SubStageDef{
			{ID: SubSceneDetection, Name: "Scene detection"},
			{ID: SubAudioEnergy, Name: "Audio energy analysis"},
		}},
		{ID: StageDetectScenes, Name: "Ranking scenes", Weight: 0.10},
		{ID: StageProcessAudio, Name: "Processing audio", Weight: 0.20, SubStages: []SubStageDef{
			{ID: SubExtractAudio, Name: "Extracting audio"},
			{ID: SubTranscribe, Name: "Transcribing"},
		}},
		{ID: StageAISelect, Name: "Selecting highlights", Weight: 0.15},
		{ID: StageGenerateClips, Name: "Generating clips", Weight: 0.30, SubStages: []SubStageDef{
			{ID: SubCutClips, Name: "Cutting clips"},
			{ID: SubMergeAudio, Name: "Merging audio"},
		}},
		{ID: StageFinalize, Name: "Finalizing", Weight: 0.05, SubStages: []SubStageDef{
			{ID: SubPersistClips, Name: "Persisting clips"},
		}},
	})
}
