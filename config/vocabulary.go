package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary maps each recognized keyword to its category tag used in
// generated titles. An empty category means the keyword contributes no
// extra hashtag.
type Vocabulary struct {
	Keywords map[string]string `yaml:"keywords"`
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	defer f.Close()

	var v Vocabulary
	if err := yaml.NewDecoder(f).Decode(&v); err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	if len(v.Keywords) == 0 {
		return nil, fmt.Errorf("vocabulary %s: no keywords defined", path)
	}
	return &v, nil
}

func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.Keywords[word]
	return ok
}
