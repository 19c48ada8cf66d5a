package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/skillmapio/skillmap/pkg/models"
)

const defaultListLimit = 50

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptimeSec"`
	Posts     int    `json:"posts"`
	LastRunID string `json:"lastRunId,omitempty"`
	LastRunAt string `json:"lastRunAt,omitempty"`
	Skills    int    `json:"skills"`
}

type skillListResponse struct {
	Skills []*models.Skill `json:"skills"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{
		Status:    "ok",
		Version:   s.version,
		UptimeSec: int64(time.Since(s.startTime).Seconds()),
	}

	if n, err := s.posts.Count(ctx); err == nil {
		resp.Posts = n
	}
	if run, err := s.skills.LatestRun(ctx); err == nil && run != nil {
		resp.LastRunID = run.ID
		resp.LastRunAt = run.StartedAt.UTC().Format(time.RFC3339)
		resp.Skills = run.SkillCount
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.skills.LatestSkills(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Loading skills failed")
		writeError(w, http.StatusInternalServerError, "loading skills failed")
		return
	}

	q := r.URL.Query()

	if level := q.Get("level"); level != "" {
		skills = filterSkills(skills, func(sk *models.Skill) bool {
			return strings.EqualFold(string(sk.Level), level)
		})
	}
	if raw := q.Get("minScore"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minScore")
			return
		}
		skills = filterSkills(skills, func(sk *models.Skill) bool {
			return sk.Score >= min
		})
	}
	if needle := strings.ToLower(q.Get("q")); needle != "" {
		skills = filterSkills(skills, func(sk *models.Skill) bool {
			if strings.Contains(strings.ToLower(sk.Name), needle) {
				return true
			}
			for _, kw := range sk.TopKeywords {
				if strings.Contains(kw, needle) {
					return true
				}
			}
			return false
		})
	}

	sortSkills(skills, q.Get("sort"))

	total := len(skills)
	limit := intParam(q.Get("limit"), defaultListLimit)
	offset := intParam(q.Get("offset"), 0)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, skillListResponse{
		Skills: skills[offset:end],
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Service) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	skills, err := s.skills.LatestSkills(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Loading skills failed")
		writeError(w, http.StatusInternalServerError, "loading skills failed")
		return
	}
	for _, sk := range skills {
		if sk.ID == id {
			writeJSON(w, http.StatusOK, sk)
			return
		}
	}
	writeError(w, http.StatusNotFound, "skill not found")
}

func filterSkills(skills []*models.Skill, keep func(*models.Skill) bool) []*models.Skill {
	out := skills[:0:0]
	for _, sk := range skills {
		if keep(sk) {
			out = append(out, sk)
		}
	}
	return out
}

// sortSkills orders the list by the requested key. The store already returns
// skills by descending score, so that is the default.
func sortSkills(skills []*models.Skill, key string) {
	switch key {
	case "confidence":
		sort.SliceStable(skills, func(i, j int) bool {
			return skills[i].Confidence > skills[j].Confidence
		})
	case "bookmarks":
		sort.SliceStable(skills, func(i, j int) bool {
			return skills[i].BookmarkCount > skills[j].BookmarkCount
		})
	case "name":
		sort.SliceStable(skills, func(i, j int) bool {
			return skills[i].Name < skills[j].Name
		})
	default:
	}
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Encoding response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
