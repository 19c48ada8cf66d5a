package evidence

import (
	"strings"

	"github.com/skillmapio/skillmap/pkg/models"
)

type category int

const (
	catRepo category = iota
	catTool
	catDocs
	catPost
	catJob
)

// actionRule maps a URL substring to a category and suggested action.
// The table is ordered; the first matching rule wins.
type actionRule struct {
	substr   string
	category category
	action   string
}

var actionRules = []actionRule{
	{"github", catRepo, "clone/test"},
	{"gitlab", catRepo, "clone/test"},
	{"bitbucket", catRepo, "clone/test"},
	{"npmjs", catTool, "install/evaluate"},
	{"pypi", catTool, "install/evaluate"},
	{"crates.io", catTool, "install/evaluate"},
	{"hub.docker", catTool, "run/deploy"},
	{"readme", catDocs, "read/learn"},
	{"gitbook", catDocs, "read/learn"},
	{"mkdocs", catDocs, "read/learn"},
	{"readthedocs", catDocs, "read/learn"},
	{"medium", catPost, "review/understand"},
	{"dev.to", catPost, "review/understand"},
	{"blog.", catPost, "review/understand"},
	{"news.", catPost, "review/understand"},
	{"substack", catPost, "review/understand"},
	{"youtube", catPost, "watch/learn"},
	{"youtu.be", catPost, "watch/learn"},
	{"loom.com", catPost, "watch/learn"},
	{"linkedin", catPost, "review/understand"},
	{"crunchbase", catJob, "apply/explore"},
	{"wellfound", catJob, "apply/explore"},
	{"remoteok", catJob, "apply/explore"},
	{"weworkremotely", catJob, "apply/explore"},
	{"jobs.", catJob, "apply/explore"},
	{"careers.", catJob, "apply/explore"},
}

// ExtractActionable buckets evidence URLs into action categories. Each URL
// contributes to at most one bucket; unmatched URLs default to the posts
// bucket with a generic action. Returns nil when nothing matched.
func ExtractActionable(items []models.SkillEvidence) *models.ActionableContent {
	content := &models.ActionableContent{}
	seen := make(map[string]bool)

	for _, item := range items {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true

		cat, action := classify(strings.ToLower(item.URL))
		actionable := models.ActionableItem{
			URL:    item.URL,
			Title:  item.Title,
			Action: action,
			Domain: item.Domain,
		}

		switch cat {
		case catRepo:
			content.Repos = append(content.Repos, actionable)
		case catTool:
			content.Tools = append(content.Tools, actionable)
		case catDocs:
			content.Docs = append(content.Docs, actionable)
		case catJob:
			content.Jobs = append(content.Jobs, actionable)
		default:
			content.Posts = append(content.Posts, actionable)
		}
	}

	if content.Total() == 0 {
		return nil
	}
	return content
}

func classify(url string) (category, string) {
	for _, rule := range actionRules {
		if strings.Contains(url, rule.substr) {
			return rule.category, rule.action
		}
	}
	return catPost, "explore"
}
