package fusion_test

import (
	"math"
	"testing"

	"reelsync/internal/classify"
	"reelsync/internal/fusion"
	"reelsync/internal/taxonomy"
)

func newFuser(t *testing.T) *fusion.Fuser {
	t.Helper()
	idx, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	return fusion.New(idx, fusion.DefaultWeights())
}

func folderResult(id string, score float64, method classify.Method) *classify.Result {
	return &classify.Result{TechniqueID: id, Score: score, Phase: "2", Method: method}
}

func floatPtr(v float64) *float64 { return &v }

func TestFuseBothAbsent(t *testing.T) {
	f := newFuser(t)
	if decision := f.Fuse(nil, "", nil); decision != nil {
		t.Fatalf("expected nil, got %+v", decision)
	}
}

func TestFuseFolderOnly(t *testing.T) {
	f := newFuser(t)

	decision := f.Fuse(folderResult("2.1.3", 0.95, classify.MethodDirectNumber), "", nil)
	if decision == nil {
		t.Fatal("expected decision")
	}
	if decision.TechniqueID != "2.1.3" || decision.Source != fusion.SourceFolderOnly {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if math.Abs(decision.Confidence-0.475) > 1e-9 {
		t.Fatalf("expected confidence 0.475, got %v", decision.Confidence)
	}
	if decision.Alternative != nil {
		t.Fatal("folder-only decision must not carry an alternative")
	}
}

func TestFuseAIOnlyDefaultsConfidence(t *testing.T) {
	f := newFuser(t)

	decision := f.Fuse(nil, "2.2", nil)
	if decision == nil {
		t.Fatal("expected decision")
	}
	if decision.Source != fusion.SourceAIOnly || decision.TechniqueID != "2.2" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	// Missing AI confidence defaults to 0.5 before weighting.
	if math.Abs(decision.Confidence-0.25) > 1e-9 {
		t.Fatalf("expected confidence 0.25, got %v", decision.Confidence)
	}
	if decision.Phase != "2" {
		t.Fatalf("expected phase from vocabulary, got %q", decision.Phase)
	}
}

func TestFuseBothAgreeSumsAndCaps(t *testing.T) {
	f := newFuser(t)

	decision := f.Fuse(folderResult("2.1.3", 0.95, classify.MethodDirectNumber), "2.1.3", floatPtr(0.9))
	if decision == nil {
		t.Fatal("expected decision")
	}
	if decision.Source != fusion.SourceBothAgree {
		t.Fatalf("unexpected source: %q", decision.Source)
	}
	if math.Abs(decision.Confidence-0.925) > 1e-9 {
		t.Fatalf("expected confidence 0.925, got %v", decision.Confidence)
	}

	heavy := fusion.New(nil, fusion.Weights{Folder: 1, AI: 1})
	capped := heavy.Fuse(folderResult("2.1.3", 0.95, classify.MethodDirectNumber), "2.1.3", floatPtr(0.9))
	if capped.Confidence != 0.99 {
		t.Fatalf("expected cap at 0.99, got %v", capped.Confidence)
	}
}

func TestFuseStrongFolderBeatsAnyAI(t *testing.T) {
	f := newFuser(t)

	for _, aiConfidence := range []float64{0.1, 0.5, 0.99, 1.0} {
		decision := f.Fuse(folderResult("2.1.3", 0.95, classify.MethodDirectNumber), "4.1", floatPtr(aiConfidence))
		if decision == nil {
			t.Fatal("expected decision")
		}
		if decision.Source != fusion.SourceFolderWinsStrong {
			t.Fatalf("ai confidence %v: expected folder_wins_strong, got %q", aiConfidence, decision.Source)
		}
		if decision.TechniqueID != "2.1.3" {
			t.Fatalf("expected folder id to win, got %q", decision.TechniqueID)
		}
		if decision.Alternative == nil || decision.Alternative.TechniqueID != "4.1" {
			t.Fatalf("expected AI alternative retained, got %+v", decision.Alternative)
		}
	}
}

func TestFuseDisagreementComparesWeightedScores(t *testing.T) {
	f := newFuser(t)

	// Folder 0.85 * 0.5 = 0.425 vs AI 0.6 * 0.5 = 0.30: folder wins.
	decision := f.Fuse(folderResult("3.2", 0.85, classify.MethodNameMatch), "4.1", floatPtr(0.6))
	if decision.Source != fusion.SourceFolderWins || decision.TechniqueID != "3.2" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if decision.Alternative == nil || decision.Alternative.TechniqueID != "4.1" {
		t.Fatalf("expected AI alternative, got %+v", decision.Alternative)
	}

	// Folder 0.40 * 0.5 = 0.20 vs AI 0.9 * 0.5 = 0.45: AI wins.
	decision = f.Fuse(folderResult("3.2", 0.40, classify.MethodTagMatch), "4.1", floatPtr(0.9))
	if decision.Source != fusion.SourceAIWins || decision.TechniqueID != "4.1" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if decision.Alternative == nil || decision.Alternative.TechniqueID != "3.2" {
		t.Fatalf("expected folder alternative, got %+v", decision.Alternative)
	}
	if math.Abs(decision.Alternative.Score-0.20) > 1e-9 {
		t.Fatalf("expected alternative score 0.20, got %v", decision.Alternative.Score)
	}
}

func TestFuseEqualWeightedScoresFavorFolder(t *testing.T) {
	f := newFuser(t)

	decision := f.Fuse(folderResult("3.2", 0.80, classify.MethodNameFuzzyMatch), "4.1", floatPtr(0.80))
	if decision.Source != fusion.SourceFolderWins || decision.TechniqueID != "3.2" {
		t.Fatalf("expected folder to win ties, got %+v", decision)
	}
}

func TestFusePhaseFallsBackToLoser(t *testing.T) {
	idx, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	f := fusion.New(idx, fusion.DefaultWeights())

	// The winning AI id is unknown to the vocabulary, so the folder
	// signal's phase fills in.
	folder := &classify.Result{TechniqueID: "3.2", Score: 0.40, Phase: "3", Method: classify.MethodTagMatch}
	decision := f.Fuse(folder, "99.9", floatPtr(0.9))
	if decision.Source != fusion.SourceAIWins {
		t.Fatalf("unexpected source: %q", decision.Source)
	}
	if decision.Phase != "3" {
		t.Fatalf("expected loser's phase fallback, got %q", decision.Phase)
	}
}
