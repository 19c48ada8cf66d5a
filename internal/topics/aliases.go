package topics

// defaultAliases canonicalizes common abbreviations to their long forms so
// that posts using either spelling land in the same cluster. Alias lookup
// happens before the short-token filter, otherwise two-letter abbreviations
// like "ml" could never canonicalize.
var defaultAliases = map[string]string{
	"ai":         "artificial intelligence",
	"ml":         "machine learning",
	"dl":         "deep learning",
	"nlp":        "natural language processing",
	"llm":        "large language models",
	"llms":       "large language models",
	"k8s":        "kubernetes",
	"js":         "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"rustlang":   "rust",
	"py":         "python",
	"db":         "database",
	"dbs":        "database",
	"postgres":   "postgresql",
	"pg":         "postgresql",
	"devops":     "devops",
	"infra":      "infrastructure",
	"sec":        "security",
	"infosec":    "security",
	"cybersec":   "security",
	"frontend":   "frontend",
	"fe":         "frontend",
	"be":         "backend",
	"backend":    "backend",
	"ui":         "user interface",
	"ux":         "user experience",
	"api":        "api",
	"apis":       "api",
	"oss":        "open source",
	"opensource": "open source",
	"crypto":     "cryptocurrency",
	"web3":       "web3",
	"vr":         "virtual reality",
	"ar":         "augmented reality",
	"iot":        "internet of things",
	"cv":         "computer vision",
	"rl":         "reinforcement learning",
	"ci":         "continuous integration",
	"cd":         "continuous delivery",
	"cicd":       "continuous integration",
	"sre":        "site reliability engineering",
	"gcp":        "google cloud",
	"aws":        "aws",
	"k8":         "kubernetes",
	"tf":         "terraform",
}
