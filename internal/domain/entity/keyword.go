package entity

import "fmt"

// KeywordRecord is one keyword with the search metrics returned by keyword research.
type KeywordRecord struct {
	Keyword           string `json:"keyword"`
	SearchVolume      int    `json:"search_volume"`
	KeywordDifficulty int    `json:"keyword_difficulty"`
}

// Validate checks the metric ranges.
func (k KeywordRecord) Validate() error {
	if k.Keyword == "" {
		return &ValidationError{Field: "keyword", Message: "keyword is required"}
	}
	if k.SearchVolume < 0 {
		return &ValidationError{Field: "search_volume", Message: "search volume must not be negative"}
	}
	if k.KeywordDifficulty < 0 || k.KeywordDifficulty > 100 {
		return &ValidationError{
			Field:   "keyword_difficulty",
			Message: fmt.Sprintf("difficulty %d is outside 0-100", k.KeywordDifficulty),
		}
	}
	return nil
}
