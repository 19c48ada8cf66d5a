package models

import "time"

// SkillLevel is a discrete band of the numeric skill score.
type SkillLevel string

const (
	LevelNovice       SkillLevel = "Novice"
	LevelPractitioner SkillLevel = "Practitioner"
	LevelSpecialist   SkillLevel = "Specialist"
	LevelExpert       SkillLevel = "Expert"
)

// Level thresholds. Each band is inclusive on its lower bound:
// [0,26) Novice, [26,51) Practitioner, [51,76) Specialist, [76,100] Expert.
const (
	PractitionerThreshold = 26.0
	SpecialistThreshold   = 51.0
	ExpertThreshold       = 76.0
)

// LevelForScore maps a 0-100 score onto its skill level band.
func LevelForScore(score float64) SkillLevel {
	switch {
	case score >= ExpertThreshold:
		return LevelExpert
	case score >= SpecialistThreshold:
		return LevelSpecialist
	case score >= PractitionerThreshold:
		return LevelPractitioner
	default:
		return LevelNovice
	}
}

// SkillEvidence is one supporting post backing a skill. Relevance is the
// keyword overlap with the owning cluster normalized by the cluster keyword
// count; quality is the credibility rating from the evidence scorer. Both
// are in [0,1]. Titles are truncated to 200 characters.
type SkillEvidence struct {
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Domain    string  `json:"domain"`
	Relevance float64 `json:"relevance"`
	Quality   float64 `json:"quality"`
}

// ActionableItem is a categorized URL extracted from evidence together with
// a suggested next action.
type ActionableItem struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Action string `json:"action"`
	Domain string `json:"domain"`
}

// ActionableContent buckets evidence URLs by what a reader can do with them.
// Each URL appears in at most one bucket.
type ActionableContent struct {
	Repos []ActionableItem `json:"repos,omitempty"`
	Tools []ActionableItem `json:"tools,omitempty"`
	Docs  []ActionableItem `json:"docs,omitempty"`
	Posts []ActionableItem `json:"posts,omitempty"`
	Jobs  []ActionableItem `json:"jobs,omitempty"`
}

// Total returns the number of items across all buckets.
func (a *ActionableContent) Total() int {
	if a == nil {
		return 0
	}
	return len(a.Repos) + len(a.Tools) + len(a.Docs) + len(a.Posts) + len(a.Jobs)
}

// Skill is the externally visible output unit: one inferred area of
// expertise with its score, confidence, supporting evidence, and hierarchy
// links. Hierarchy fields are assigned in a single second pass over the full
// skill set and never revisited.
type Skill struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Score            float64            `json:"score"`
	Level            SkillLevel         `json:"level"`
	Confidence       float64            `json:"confidence"`
	EvidenceQuality  float64            `json:"evidenceQuality"`
	BookmarkCount    int                `json:"bookmarkCount"`
	Evidence         []SkillEvidence    `json:"evidence"`
	Capabilities     []string           `json:"capabilities,omitempty"`
	TopKeywords      []string           `json:"topKeywords,omitempty"`
	TopDomains       []string           `json:"topDomains,omitempty"`
	SuggestedQueries []string           `json:"suggestedQueries,omitempty"`
	Authors          []string           `json:"authors,omitempty"`
	FirstBookmarkAt  time.Time          `json:"firstBookmarkAt"`
	LastBookmarkAt   time.Time          `json:"lastBookmarkAt"`
	ParentSkillID    string             `json:"parentSkillId,omitempty"`
	ChildSkillIDs    []string           `json:"childSkillIds,omitempty"`
	RelatedSkillIDs  []string           `json:"relatedSkillIds,omitempty"`
	Actionable       *ActionableContent `json:"actionableContent,omitempty"`
}
