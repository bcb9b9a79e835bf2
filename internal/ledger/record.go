package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/validation"
)

// Record holds the identity and audit timestamps shared by ledger entities.
// Entities embed it by value.
type Record struct {
	ID       string
	Created  time.Time
	Modified time.Time
	Deleted  *time.Time
}

// NewRecord mints a record with a fresh ID, created and modified at now.
func NewRecord(now time.Time) Record {
	return Record{
		ID:       uuid.NewString(),
		Created:  now,
		Modified: now,
	}
}

// IsDeleted reports whether the record was soft deleted.
func (r Record) IsDeleted() bool {
	return r.Deleted != nil
}

// markDeleted soft deletes the record at t.
func (r *Record) markDeleted(t time.Time) {
	r.Deleted = &t
	r.Modified = t
}

// Validate checks the shared record invariants.
func (r Record) Validate() []validation.Violation {
	var errs []validation.Violation
	if r.ID == "" {
		errs = append(errs, validation.New(validation.KindMissingID, "id", nil, "id is required"))
	} else if _, err := uuid.Parse(r.ID); err != nil {
		errs = append(errs, validation.New(validation.KindMissingID, "id", r.ID, "id %q is not a uuid", r.ID))
	}
	if r.Modified.Before(r.Created) {
		errs = append(errs, validation.New(validation.KindModifiedBeforeCreated, "modified", r.Modified,
			"modified %s is before created %s", r.Modified.Format(time.RFC3339), r.Created.Format(time.RFC3339)))
	}
	if r.Deleted != nil && r.Deleted.Before(r.Created) {
		errs = append(errs, validation.New(validation.KindDeletedBeforeCreated, "deleted", *r.Deleted,
			"deleted %s is before created %s", r.Deleted.Format(time.RFC3339), r.Created.Format(time.RFC3339)))
	}
	return errs
}
