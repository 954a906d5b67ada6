package quizbank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads a JSON bank shaped as {"<category>": {"image": "...", "questions": [...]}}.
type FileSource struct {
	Path string
}

type fileCategory struct {
	Image     string     `json:"image"`
	Questions []Question `json:"questions"`
}

func (s FileSource) Load(_ context.Context) ([]Category, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	var raw map[string]fileCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	cats := make([]Category, 0, len(raw))
	for name, c := range raw {
		cats = append(cats, Category{Name: name, Image: c.Image, Questions: c.Questions})
	}
	return cats, nil
}
