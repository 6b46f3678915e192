package fusion

import (
	"reelsync/internal/classify"
	"reelsync/internal/taxonomy"
)

// Source records which signal(s) contributed to a decision and who won
// when they disagreed.
type Source string

const (
	SourceFolderOnly       Source = "folder_only"
	SourceAIOnly           Source = "ai_only"
	SourceBothAgree        Source = "both_agree"
	SourceFolderWins       Source = "folder_wins"
	SourceFolderWinsStrong Source = "folder_wins_strong"
	SourceAIWins           Source = "ai_wins"
)

// maxConfidence caps fused confidence so agreement never reads as certainty.
const maxConfidence = 0.99

// strongFolderScore is the raw direct-number score above which an explicit
// numeric folder label beats any AI suggestion outright.
const strongFolderScore = 0.9

// defaultAIConfidence substitutes for an AI suggestion that arrived without
// a confidence value.
const defaultAIConfidence = 0.5

// Alternative preserves the losing signal of a disagreement for audit.
type Alternative struct {
	TechniqueID string
	Score       float64
}

// Decision is the fused classification outcome.
type Decision struct {
	TechniqueID string
	Confidence  float64
	Source      Source
	Phase       string
	Alternative *Alternative
}

// Weights control the relative trust in the folder and AI signals.
type Weights struct {
	Folder float64
	AI     float64
}

// DefaultWeights trusts both signals equally.
func DefaultWeights() Weights {
	return Weights{Folder: 0.50, AI: 0.50}
}

// Fuser combines folder-derived and AI-suggested classifications into one
// confidence-scored decision. Pure and total: any legal input combination
// produces a decision or nil, never a panic.
type Fuser struct {
	index   *taxonomy.Index
	weights Weights
}

// New constructs a Fuser. The index supplies phases for AI-only decisions
// and may be nil when phase resolution is not needed.
func New(index *taxonomy.Index, weights Weights) *Fuser {
	if weights.Folder == 0 && weights.AI == 0 {
		weights = DefaultWeights()
	}
	return &Fuser{index: index, weights: weights}
}

// Fuse merges the folder signal with the AI suggestion. aiConfidence may be
// nil when the suggestion carries no confidence. Returns nil when neither
// signal is present.
func (f *Fuser) Fuse(folder *classify.Result, aiTechniqueID string, aiConfidence *float64) *Decision {
	hasFolder := folder != nil
	hasAI := aiTechniqueID != ""

	switch {
	case !hasFolder && !hasAI:
		return nil

	case hasFolder && !hasAI:
		return &Decision{
			TechniqueID: folder.TechniqueID,
			Confidence:  folder.Score * f.weights.Folder,
			Source:      SourceFolderOnly,
			Phase:       folder.Phase,
		}

	case !hasFolder && hasAI:
		return &Decision{
			TechniqueID: aiTechniqueID,
			Confidence:  f.aiScore(aiConfidence),
			Source:      SourceAIOnly,
			Phase:       f.phaseOf(aiTechniqueID),
		}
	}

	folderScore := folder.Score * f.weights.Folder
	aiScore := f.aiScore(aiConfidence)

	if folder.TechniqueID == aiTechniqueID {
		confidence := folderScore + aiScore
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		return &Decision{
			TechniqueID: folder.TechniqueID,
			Confidence:  confidence,
			Source:      SourceBothAgree,
			Phase:       f.pickPhase(folder.Phase, f.phaseOf(aiTechniqueID)),
		}
	}

	// An explicit numeric folder label outranks any heuristic AI suggestion.
	if folder.Method == classify.MethodDirectNumber && folder.Score >= strongFolderScore {
		return &Decision{
			TechniqueID: folder.TechniqueID,
			Confidence:  folderScore,
			Source:      SourceFolderWinsStrong,
			Phase:       f.pickPhase(folder.Phase, f.phaseOf(aiTechniqueID)),
			Alternative: &Alternative{TechniqueID: aiTechniqueID, Score: aiScore},
		}
	}

	if folderScore >= aiScore {
		return &Decision{
			TechniqueID: folder.TechniqueID,
			Confidence:  folderScore,
			Source:      SourceFolderWins,
			Phase:       f.pickPhase(folder.Phase, f.phaseOf(aiTechniqueID)),
			Alternative: &Alternative{TechniqueID: aiTechniqueID, Score: aiScore},
		}
	}

	return &Decision{
		TechniqueID: aiTechniqueID,
		Confidence:  aiScore,
		Source:      SourceAIWins,
		Phase:       f.pickPhase(f.phaseOf(aiTechniqueID), folder.Phase),
		Alternative: &Alternative{TechniqueID: folder.TechniqueID, Score: folderScore},
	}
}

func (f *Fuser) aiScore(aiConfidence *float64) float64 {
	confidence := defaultAIConfidence
	if aiConfidence != nil {
		confidence = *aiConfidence
	}
	return confidence * f.weights.AI
}

func (f *Fuser) phaseOf(techniqueID string) string {
	if f.index == nil {
		return ""
	}
	return f.index.Phase(techniqueID)
}

// pickPhase prefers the winner's phase but falls back to the loser's when
// the winner has none, so a decision is never left without a phase that
// either signal could supply.
func (f *Fuser) pickPhase(winner, loser string) string {
	if winner != "" {
		return winner
	}
	return loser
}
