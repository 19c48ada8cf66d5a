package scoring

import (
	"fmt"
	"strings"

	"github.com/skillmapio/skillmap/pkg/models"
)

// SuggestedQueries generates research queries for a skill. The year is
// taken from the engine's reference time so reruns within a run are stable
// while the queries stay current across years.
func (e *Engine) SuggestedQueries(name string, keywords []string) []string {
	year := e.now.Year()
	lower := strings.ToLower(name)

	queries := []string{
		fmt.Sprintf("%s best practices %d", lower, year),
		fmt.Sprintf("%s tutorial %d", lower, year),
		fmt.Sprintf("advanced %s techniques", lower),
	}
	for _, kw := range keywords {
		if kw == lower {
			continue
		}
		queries = append(queries, fmt.Sprintf("%s %s guide", lower, kw))
		break
	}
	return queries
}

// CapabilityTags derives short capability statements from the skill's level
// and leading keywords.
func CapabilityTags(name string, level models.SkillLevel, keywords []string) []string {
	lower := strings.ToLower(name)

	var tags []string
	switch level {
	case models.LevelExpert:
		tags = append(tags, "can lead "+lower+" work")
	case models.LevelSpecialist:
		tags = append(tags, "can build production "+lower+" systems")
	case models.LevelPractitioner:
		tags = append(tags, "applies "+lower+" hands-on")
	default:
		tags = append(tags, "is exploring "+lower)
	}

	added := 0
	for _, kw := range keywords {
		if kw == lower || added >= 2 {
			continue
		}
		tags = append(tags, "tracks "+kw)
		added++
	}
	return tags
}
