package domain

import (
	"strings"
	"time"
)

// TempIndexSuffix marks indices the crawler builds before swapping them in.
const TempIndexSuffix = "_tmp"

type IndexSummary struct {
	Name       string    `json:"name"`
	Entries    int64     `json:"entries"`
	DataSize   int64     `json:"dataSize"`
	FileSize   int64     `json:"fileSize"`
	LastUpdate time.Time `json:"lastUpdate"`
}

func (s IndexSummary) IsTemporary() bool {
	return strings.HasSuffix(s.Name, TempIndexSuffix)
}
