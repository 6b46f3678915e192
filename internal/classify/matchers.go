package classify

import (
	"strings"
	"unicode/utf8"
)

// minMatchRunes guards name and tag containment checks against trivially
// short fragments.
const minMatchRunes = 4

func (c *Classifier) matchDirectNumber(folderName, _ string) *Result {
	num := c.extractNumber(folderName)
	if num == "" {
		return nil
	}
	return c.resultFor(num, scoreDirectNumber, MethodDirectNumber)
}

func (c *Classifier) matchFaseLevel(folderName, _ string) *Result {
	m := fasePattern.FindStringSubmatch(folderName)
	if m == nil {
		return nil
	}
	return c.resultFor(m[1], scoreFaseLevel, MethodFaseLevel)
}

// matchNameAndTags compares the folder name against every vocabulary entry
// and keeps the single highest-scoring hit; ties keep the first found.
func (c *Classifier) matchNameAndTags(folderName, _ string) *Result {
	if c.skipped(folderName) {
		return nil
	}

	folderLower := strings.ToLower(folderName)
	folderBare := bareName(folderLower)

	var best *Result
	for _, entry := range c.index.All() {
		entryLower := strings.ToLower(entry.Name)

		if utf8.RuneCountInString(entryLower) >= minMatchRunes &&
			(strings.Contains(folderLower, entryLower) || strings.Contains(folderBare, entryLower)) {
			best = keepBest(best, c.resultFor(entry.ID, scoreNameMatch, MethodNameMatch))
			continue
		}

		entryBare := bareName(entryLower)
		if utf8.RuneCountInString(entryBare) >= minMatchRunes && utf8.RuneCountInString(folderBare) >= minMatchRunes &&
			(strings.Contains(folderBare, entryBare) || strings.Contains(entryBare, folderBare)) {
			best = keepBest(best, c.resultFor(entry.ID, scoreNameFuzzyMatch, MethodNameFuzzyMatch))
			continue
		}

		for _, tag := range entry.Tags {
			tagLower := strings.ToLower(tag)
			if utf8.RuneCountInString(tagLower) < minMatchRunes {
				continue
			}
			if strings.Contains(folderLower, tagLower) || strings.Contains(folderBare, tagLower) {
				best = keepBest(best, c.resultFor(entry.ID, scoreTagMatch, MethodTagMatch))
				break
			}
		}
	}
	return best
}

// matchAncestors retries the numeric and phase strategies on each ancestor,
// nearest to furthest, excluding the folder itself.
func (c *Classifier) matchAncestors(folderName, folderPath string) *Result {
	if c.skipped(folderName) || folderPath == "" {
		return nil
	}

	segments := strings.Split(folderPath, PathSeparator)
	// Nearest ancestor first; the final segment is the folder itself.
	ancestors := make([]string, 0, len(segments))
	for i := len(segments) - 2; i >= 0; i-- {
		ancestors = append(ancestors, strings.TrimSpace(segments[i]))
	}

	for _, ancestor := range ancestors {
		if num := c.extractNumber(ancestor); num != "" {
			if result := c.resultFor(num, scoreParentFolderNumber, MethodParentFolderNumber); result != nil {
				return result
			}
		}
	}
	for _, ancestor := range ancestors {
		if m := fasePattern.FindStringSubmatch(ancestor); m != nil {
			if result := c.resultFor(m[1], scoreParentFaseLevel, MethodParentFaseLevel); result != nil {
				return result
			}
		}
	}
	return nil
}

func bareName(lower string) string {
	return strings.TrimSpace(barePrefixPattern.ReplaceAllString(lower, ""))
}

func keepBest(current, candidate *Result) *Result {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.Score > current.Score {
		return candidate
	}
	return current
}
