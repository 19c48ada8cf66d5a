package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skillmapio/skillmap/internal/topics"
)

// LoadLexicon reads a YAML lexicon file extending the built-in stopword
// list and alias table:
//
//	stopwords:
//	  - thread
//	  - thoughts
//	aliases:
//	  tsx: typescript
//	  psql: postgresql
//
// An empty path returns the zero lexicon, leaving the built-ins untouched.
func LoadLexicon(path string) (topics.Lexicon, error) {
	var lex topics.Lexicon
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return lex, fmt.Errorf("read lexicon: %w", err)
	}
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return lex, fmt.Errorf("parse lexicon: %w", err)
	}
	return lex, nil
}
