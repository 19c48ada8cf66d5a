// Package hierarchy infers parent/child and related links between skills
// from keyword containment.
package hierarchy

import (
	"github.com/skillmapio/skillmap/pkg/models"
	"github.com/skillmapio/skillmap/pkg/similarity"
)

// Build assigns hierarchy links in place and returns the same slice. A
// candidate parent must be a different skill with strictly more top keywords
// that contains at least half of the child's top keywords. Assignment is
// first-match in keyword-then-candidate order, not best-match; best-match
// (highest containment ratio) would change existing output, so the simpler
// rule is kept. Skills that end up without a parent are all linked to each
// other as related.
func Build(skills []*models.Skill) []*models.Skill {
	index := make(map[string][]*models.Skill)
	for _, skill := range skills {
		for _, kw := range skill.TopKeywords {
			index[kw] = append(index[kw], skill)
		}
	}

	for _, skill := range skills {
		parent := findParent(skill, index)
		if parent == nil {
			continue
		}
		skill.ParentSkillID = parent.ID
		parent.ChildSkillIDs = append(parent.ChildSkillIDs, skill.ID)
	}

	linkTopLevel(skills)
	return skills
}

// findParent scans the first half of the skill's top keywords (rounded up)
// and returns the first acceptable candidate sharing one of them.
func findParent(skill *models.Skill, index map[string][]*models.Skill) *models.Skill {
	k := len(skill.TopKeywords)
	if k == 0 {
		return nil
	}
	parentKeys := skill.TopKeywords[:(k+1)/2]

	for _, key := range parentKeys {
		for _, candidate := range index[key] {
			if candidate == skill {
				continue
			}
			if len(candidate.TopKeywords) <= k {
				continue
			}
			contained := similarity.Overlap(skill.TopKeywords, similarity.SetOf(candidate.TopKeywords))
			if contained*2 >= k {
				return candidate
			}
		}
	}
	return nil
}

// linkTopLevel marks every pair of parentless skills as related.
func linkTopLevel(skills []*models.Skill) {
	var topLevel []*models.Skill
	for _, skill := range skills {
		if skill.ParentSkillID == "" {
			topLevel = append(topLevel, skill)
		}
	}
	if len(topLevel) < 2 {
		return
	}
	for _, skill := range topLevel {
		for _, other := range topLevel {
			if other != skill {
				skill.RelatedSkillIDs = append(skill.RelatedSkillIDs, other.ID)
			}
		}
	}
}
