package classify_test

import (
	"testing"

	"reelsync/internal/classify"
	"reelsync/internal/taxonomy"
)

func newClassifier(t *testing.T, opts classify.Options) *classify.Classifier {
	t.Helper()
	idx, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	return classify.New(idx, opts)
}

func TestClassifyDirectNumber(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	result := c.Classify("2.1.3 Doorvragen", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "2.1.3" || result.Score != 0.95 || result.Method != classify.MethodDirectNumber {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Phase != "2" {
		t.Fatalf("unexpected phase: %q", result.Phase)
	}
}

func TestClassifyDirectNumberPrefersLongestPrefix(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	result := c.Classify("2.1 Explore", "")
	if result == nil || result.TechniqueID != "2.1" {
		t.Fatalf("expected 2.1, got %+v", result)
	}
}

func TestClassifyAliasRedirect(t *testing.T) {
	c := newClassifier(t, classify.Options{
		Aliases: map[string]string{"1.2.1": "1.3"},
	})

	// "1.2.1" must resolve through the alias even though "1.2" (a shorter
	// prefix) is a valid key.
	result := c.Classify("1.2.1 Intro", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "1.3" {
		t.Fatalf("expected alias target 1.3, got %q", result.TechniqueID)
	}
	if result.Method != classify.MethodDirectNumber {
		t.Fatalf("unexpected method: %q", result.Method)
	}
}

func TestClassifyNoMatchAlias(t *testing.T) {
	c := newClassifier(t, classify.Options{
		Aliases: map[string]string{"2.1.3": ""},
	})

	// The no-match alias must win over the literal key and must not fall
	// through to the shorter "2.1" or "2" prefixes.
	if result := c.Classify("2.1.3 Doorvragen", ""); result != nil && result.Method == classify.MethodDirectNumber {
		t.Fatalf("expected no direct-number match, got %+v", result)
	}
}

func TestClassifyFaseLevel(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	result := c.Classify("Fase 2 - Ontdekkingsfase", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "2" || result.Score != 0.20 || result.Method != classify.MethodFaseLevel {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyNameMatch(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	result := c.Classify("Extra - Actief en empathisch luisteren", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "2.1.6" || result.Score != 0.85 || result.Method != classify.MethodNameMatch {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyNameFuzzyMatch(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	// Folder name is a fragment of the entry name, so only the
	// bidirectional bare-name containment can match.
	result := c.Classify("Gentleman", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "1.2" || result.Score != 0.80 || result.Method != classify.MethodNameFuzzyMatch {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyTagMatch(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	result := c.Classify("Pingpong sessie", "")
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.Score != 0.40 || result.Method != classify.MethodTagMatch {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifySkipFolderBlocksNameAndAncestorStrategies(t *testing.T) {
	c := newClassifier(t, classify.Options{
		SkipFolders: []string{"intro"},
	})

	path := "Mijn Drive > 2.1 Explore > Intro"
	if result := c.Classify("Intro", path); result != nil {
		t.Fatalf("expected denylisted folder to yield nil, got %+v", result)
	}
}

func TestClassifyAncestorNumberFallback(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	path := "Mijn Drive > Fase 2 - Ontdekkingsfase > 2.1 Explore > Oefeningen"
	result := c.Classify("Oefeningen", path)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "2.1" || result.Score != 0.60 || result.Method != classify.MethodParentFolderNumber {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyAncestorFaseFallback(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	path := "Mijn Drive > Fase 3 - Aanbevelingsfase > Oefeningen"
	result := c.Classify("Oefeningen", path)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.TechniqueID != "3" || result.Score != 0.15 || result.Method != classify.MethodParentFaseLevel {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifyReturnsNilWithoutSignal(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	if result := c.Classify("Zzz", ""); result != nil {
		t.Fatalf("expected nil, got %+v", result)
	}
	if result := c.Classify("", "anything"); result != nil {
		t.Fatalf("expected nil for empty name, got %+v", result)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t, classify.Options{})

	path := "Mijn Drive > Fase 2 - Ontdekkingsfase > Pingpong sessie"
	first := c.Classify("Pingpong sessie", path)
	second := c.Classify("Pingpong sessie", path)
	if first == nil || second == nil {
		t.Fatal("expected matches")
	}
	if *first != *second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}
