package classify

import (
	"strings"

	"reelsync/internal/taxonomy"
)

// Method identifies which strategy produced a classification.
type Method string

const (
	MethodDirectNumber       Method = "direct_number"
	MethodFaseLevel          Method = "fase_level"
	MethodNameMatch          Method = "name_match"
	MethodNameFuzzyMatch     Method = "name_fuzzy_match"
	MethodTagMatch           Method = "tag_match"
	MethodParentFolderNumber Method = "parent_folder_number"
	MethodParentFaseLevel    Method = "parent_fase_level"
)

// Strategy base scores. An explicit numeric folder label is near-certain;
// a bare phase prefix is too coarse to trust alone.
const (
	scoreDirectNumber       = 0.95
	scoreFaseLevel          = 0.20
	scoreNameMatch          = 0.85
	scoreNameFuzzyMatch     = 0.80
	scoreTagMatch           = 0.40
	scoreParentFolderNumber = 0.60
	scoreParentFaseLevel    = 0.15
)

// Result is a folder-derived classification proposal.
type Result struct {
	TechniqueID string
	Name        string
	Score       float64
	Phase       string
	Method      Method
}

// PathSeparator joins folder names into the ancestor path strings the
// classifier consumes ("Mijn Drive > Fase 2 > 2.1 Explore").
const PathSeparator = " > "

// Options carries the deployment-specific inputs of the classifier.
type Options struct {
	// Aliases remaps extracted folder numbers to canonical ids. An empty
	// target means the number never matches, even when it is a valid key.
	Aliases map[string]string
	// SkipFolders lists lower-cased folder names that never classify by
	// name, tag, or ancestor matching.
	SkipFolders []string
}

type matcherFunc func(folderName, folderPath string) *Result

// Classifier proposes technique ids for folder names using an ordered list
// of matching strategies. It is immutable after construction and safe for
// concurrent use.
type Classifier struct {
	index       *taxonomy.Index
	aliases     map[string]string
	skipFolders map[string]struct{}
	matchers    []matcherFunc
}

// New constructs a Classifier over the given vocabulary.
func New(index *taxonomy.Index, opts Options) *Classifier {
	aliases := make(map[string]string, len(opts.Aliases))
	for key, target := range opts.Aliases {
		aliases[strings.TrimSpace(key)] = strings.TrimSpace(target)
	}
	skips := make(map[string]struct{}, len(opts.SkipFolders))
	for _, name := range opts.SkipFolders {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			skips[name] = struct{}{}
		}
	}

	c := &Classifier{index: index, aliases: aliases, skipFolders: skips}
	c.matchers = []matcherFunc{
		c.matchDirectNumber,
		c.matchFaseLevel,
		c.matchNameAndTags,
		c.matchAncestors,
	}
	return c
}

// Classify proposes a technique for the folder. folderPath is the full
// resolved path including the folder itself; the ancestor fallback walks it
// nearest-first, excluding the final segment. Returns nil when no strategy
// matches. Two calls with identical inputs yield identical results.
func (c *Classifier) Classify(folderName, folderPath string) *Result {
	name := strings.TrimSpace(folderName)
	if name == "" {
		return nil
	}
	for _, match := range c.matchers {
		if result := match(name, strings.TrimSpace(folderPath)); result != nil {
			return result
		}
	}
	return nil
}

func (c *Classifier) resultFor(id string, score float64, method Method) *Result {
	entry, ok := c.index.Get(id)
	if !ok {
		return nil
	}
	return &Result{
		TechniqueID: entry.ID,
		Name:        entry.Name,
		Score:       score,
		Phase:       entry.Phase,
		Method:      method,
	}
}

func (c *Classifier) skipped(folderName string) bool {
	_, ok := c.skipFolders[strings.ToLower(folderName)]
	return ok
}
