package entity

import (
	"strings"
	"time"
)

// WordSet is a named, persisted list of word/meaning pairs a practice session is built from.
type WordSet struct {
	ID        string
	Name      string
	Words     []WordPair
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WordPair is one entry of a word set.
type WordPair struct {
	Word    string `json:"word" yaml:"word"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

// Normalize trims user input, drops blank pairs and stamps timestamps.
func (ws *WordSet) Normalize(now time.Time) {
	ws.Name = strings.TrimSpace(ws.Name)
	ws.Words = NormalizeWordPairs(ws.Words)
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now
}

// NormalizeWordPairs trims both sides of every pair and removes pairs where both sides are empty.
func NormalizeWordPairs(pairs []WordPair) []WordPair {
	out := make([]WordPair, 0, len(pairs))
	for _, pair := range pairs {
		pair.Word = strings.TrimSpace(pair.Word)
		pair.Meaning = strings.TrimSpace(pair.Meaning)
		if pair.Word == "" && pair.Meaning == "" {
			continue
		}
		out = append(out, pair)
	}
	return out
}

// Validate checks that every pair has both a word and a meaning.
func (ws *WordSet) Validate() error {
	if ws.Name == "" {
		return ErrInvalidWordSetName
	}
	for _, pair := range ws.Words {
		if pair.Word == "" || pair.Meaning == "" {
			return ErrInvalidWordPair
		}
	}
	return nil
}
