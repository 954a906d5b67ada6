package quizbank

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads the bank from the quiz_categories and quiz_questions tables.
//
//	quiz_categories(name text primary key, image text not null default '')
//	quiz_questions(id bigserial, category text references quiz_categories(name),
//	               prompt text, answer text, image text not null default '')
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func (s PostgresSource) Load(ctx context.Context) ([]Category, error) {
	if s.Pool == nil {
		return nil, fmt.Errorf("postgres source: nil pool")
	}

	rows, err := s.Pool.Query(ctx, `SELECT name, image FROM quiz_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	var cats []Category
	index := make(map[string]int)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Image); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		index[c.Name] = len(cats)
		cats = append(cats, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	q := `
		SELECT category, prompt, answer, image
		FROM quiz_questions
		ORDER BY category, id
	`
	rows, err = s.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var question Question
		if err := rows.Scan(&category, &question.Q, &question.A, &question.Img); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		i, ok := index[category]
		if !ok {
			continue
		}
		cats[i].Questions = append(cats[i].Questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return cats, nil
}
