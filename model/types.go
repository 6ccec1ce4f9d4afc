// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"
)

// Source is one source file that has been ingested.
type Source struct {
	ID        int64     `json:"id"        db:"id"`
	Path      string    `json:"path"      db:"path"`   // path as given to the ingest stage
	Digest    string    `json:"digest"    db:"digest"` // hex BLAKE2b-256 of the file contents
	Size      int64     `json:"size"      db:"size"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ModuleSummary is a stored module without its signals and assignments.
type ModuleSummary struct {
	ID          int64     `json:"id"          db:"id"`
	SourceID    int64     `json:"sourceId"    db:"source_id"`
	Name        string    `json:"name"        db:"name"`
	Signals     int       `json:"signals"`
	Assignments int       `json:"assignments"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}
