package models

// TopicCluster is a group of bookmarks sharing the same primary topic.
// Clusters are built incrementally while scanning bookmarks, then frozen
// once cohesion has been computed. Any cluster that survives filtering has
// at least the configured minimum number of members.
type TopicCluster struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Domains     []string `json:"domains"`
	Authors     []string `json:"authors"`
	BookmarkIDs []string `json:"bookmarkIds"`
	Cohesion    float64  `json:"cohesion"`
}

// MemberCount returns the number of bookmarks in the cluster.
func (c *TopicCluster) MemberCount() int {
	return len(c.BookmarkIDs)
}
