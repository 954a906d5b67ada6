// Package quizbank holds the read-only trivia question bank used to build quiz boards.
package quizbank

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// Question is a single prompt with its accepted answer and an optional image.
type Question struct {
	Q   string `json:"q"`
	A   string `json:"a"`
	Img string `json:"img,omitempty"`
}

// Category groups questions under a display name and image.
type Category struct {
	Name      string     `json:"name"`
	Image     string     `json:"image"`
	Questions []Question `json:"questions"`
}

// CategoryInfo is the public listing entry for a category.
type CategoryInfo struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Source loads the categories of a bank from some backing store.
type Source interface {
	Load(ctx context.Context) ([]Category, error)
}

// Bank is an immutable, name-indexed set of categories. A nil or empty Bank is valid and lists
// no categories.
type Bank struct {
	byName map[string]Category
	names  []string
}

// New builds a bank from the given categories. Later duplicates replace earlier ones.
func New(categories []Category) *Bank {
	b := &Bank{byName: make(map[string]Category, len(categories))}
	for _, c := range categories {
		if c.Name == "" {
			continue
		}
		if _, dup := b.byName[c.Name]; !dup {
			b.names = append(b.names, c.Name)
		}
		b.byName[c.Name] = c
	}
	sort.Strings(b.names)
	return b
}

// Load reads the bank from src. Any failure is logged and degrades to an empty bank so rooms
// can still be created.
func Load(ctx context.Context, src Source, logger *logrus.Logger) *Bank {
	if src == nil {
		logger.Warn("quiz bank: no source configured, category listing will be empty")
		return New(nil)
	}
	cats, err := src.Load(ctx)
	if err != nil {
		logger.Warnf("quiz bank: failed to load: %v", err)
		return New(nil)
	}
	b := New(cats)
	logger.Infof("quiz bank: loaded %d categories", b.Len())
	return b
}

// Len returns the number of categories.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.names)
}

// Names returns the category names in sorted order.
func (b *Bank) Names() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Lookup returns the named category.
func (b *Bank) Lookup(name string) (Category, bool) {
	if b == nil {
		return Category{}, false
	}
	c, ok := b.byName[name]
	return c, ok
}

// Listing returns name and image for every category.
func (b *Bank) Listing() []CategoryInfo {
	out := make([]CategoryInfo, 0, b.Len())
	for _, n := range b.Names() {
		out = append(out, CategoryInfo{Name: n, Image: b.byName[n].Image})
	}
	return out
}
