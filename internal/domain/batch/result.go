package batch

// ItemStatus is the ingestion outcome of a single review in a batch.
type ItemStatus string

// Batch item status values.
const (
	StatusCreated ItemStatus = "created"
	StatusUpdated ItemStatus = "updated"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of storing one review of a batch upsert.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewStored creates a successful result; created distinguishes insert from overwrite.
func NewStored(id string, created bool) Result {
	if created {
		return Result{id: id, status: StatusCreated}
	}
	return Result{id: id, status: StatusUpdated}
}

// NewError creates a failed result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the review identifier.
func (r Result) ID() string { return r.id }

// Status returns the ingestion outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// OK reports whether the item was stored.
func (r Result) OK() bool { return r.status != StatusError }
