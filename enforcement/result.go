package enforcement

// ResultStatus is the outcome of an enforcement call.
type ResultStatus int

// Result statuses.
const (
	StatusSuccess ResultStatus = iota
	StatusError
)

func (s ResultStatus) String() string {
	if s == StatusSuccess {
		return "success"
	}

	return "error"
}

// Result carries the output of an enforcement call.
//
// Content is allocated by the mechanism and owned by the Result; the caller
// takes ownership once Enforce returns.
type Result struct {
	status     ResultStatus
	hasContent bool
	content    []byte
	err        error
}

// Status returns the outcome of the call.
func (r *Result) Status() ResultStatus { return r.status }

// HasContent reports whether the call produced content.
func (r *Result) HasContent() bool { return r.hasContent }

// Content returns the transformed bytes.
func (r *Result) Content() []byte { return r.content }

// ContentSize returns the length of Content.
func (r *Result) ContentSize() int { return len(r.content) }

// Err returns the cause of a failed call, nil on success.
func (r *Result) Err() error { return r.err }

// SetStatus sets the outcome of the call.
func (r *Result) SetStatus(s ResultStatus) { r.status = s }

// SetHasContent sets the content flag and drops any previously stored content.
func (r *Result) SetHasContent(v bool) {
	r.hasContent = v
	r.content = nil
}

// SetContent stores the produced bytes; the Result takes ownership of b.
func (r *Result) SetContent(b []byte) { r.content = b }

// Fail marks the call as failed, discarding any partially produced content.
func (r *Result) Fail(err error) {
	r.status = StatusError
	r.hasContent = false
	r.content = nil
	r.err = err
}

// Reset returns the Result to its zero state so it can be reused.
func (r *Result) Reset() {
	*r = Result{}
}

// Begin prepares r for an enforcement call over t: status is set to success,
// the content flag reflects whether t carries a payload and any stale content
// or error is dropped. It returns the content flag.
func Begin(t *Ticket, r *Result) bool {
	r.Reset()

	hasContent := t.BufferSize() > 0

	r.SetStatus(StatusSuccess)
	r.SetHasContent(hasContent)

	return hasContent
}
