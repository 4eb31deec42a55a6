package domain

import "time"

// SoftDelete is embedded by every persisted entity. A set DeletedAt means
// the record is logically removed; normal reads exclude it, a restore
// clears the timestamp and makes the record visible again.
//
// Deleted duplicates the timestamp as a boolean because mongo partial
// index filters only support equality-style predicates; the partial
// unique indexes (member phone, catalog exercise name) key off it.
type SoftDelete struct {
	Deleted   bool       `bson:"deleted" json:"-"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

func (s *SoftDelete) IsDeleted() bool {
	return s.Deleted
}

func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.Deleted = true
	s.DeletedAt = &at
}

func (s *SoftDelete) ClearDeleted() {
	s.Deleted = false
	s.DeletedAt = nil
}
