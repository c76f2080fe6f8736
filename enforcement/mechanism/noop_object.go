package mechanism

import (
	"bytes"
	"context"
	"fmt"

	"github.com/storagepath/enforce/enforcement"
)

// NoopObject copies payloads unchanged in both directions.
type NoopObject struct {
	id int64
}

// NewNoopObject creates a passthrough object.
func NewNoopObject(ctx context.Context, id int64) *NoopObject {
	log(ctx).Debugw("created noop object", "id", id)

	return &NoopObject{id}
}

// ObjectID implements enforcement.Object.
func (o *NoopObject) ObjectID() int64 { return o.id }

// Enforce implements enforcement.Object.
func (o *NoopObject) Enforce(t *enforcement.Ticket, r *enforcement.Result) {
	if !enforcement.Begin(t, r) {
		return
	}

	if !t.Operation().Valid() {
		r.Fail(invalidOperation(t.Operation()))
		return
	}

	r.SetContent(bytes.Clone(t.Buffer()))
}

// Configure implements enforcement.Object.
func (o *NoopObject) Configure(_ int, _ []int64) error { return nil }

// CollectStatistics implements enforcement.Object.
func (o *NoopObject) CollectStatistics(_ *enforcement.ObjectStatistics) error {
	return enforcement.ErrStatisticsUnavailable
}

func (o *NoopObject) String() string {
	return fmt.Sprintf("Noop enforcement object (%v).", o.id)
}

var _ enforcement.Object = (*NoopObject)(nil)
