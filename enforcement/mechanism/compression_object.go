package mechanism

import (
	"bytes"
	"context"
	"fmt"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/logging"
)

// CompressionObject compresses payloads on Encode and decompresses them on Decode.
//
// The compressor is fixed at construction; the object has no tunables.
type CompressionObject struct {
	id        int64
	algorithm compression.Name
	comp      compression.Compressor
	logger    logging.Logger
}

// NewCompressionObject creates a compression object using the named compressor
// (compression.DefaultAlgorithm when empty).
func NewCompressionObject(ctx context.Context, id int64, algorithm compression.Name) (*CompressionObject, error) {
	if algorithm == "" {
		algorithm = compression.DefaultAlgorithm
	}

	comp, err := compression.FindCompressor(algorithm)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	log(ctx).Debugw("created compression object", "id", id, "algorithm", algorithm)

	return &CompressionObject{
		id:        id,
		algorithm: algorithm,
		comp:      comp,
		logger:    log(ctx),
	}, nil
}

// ObjectID implements enforcement.Object.
func (o *CompressionObject) ObjectID() int64 {
	return o.id
}

// Algorithm returns the name of the compressor in use.
func (o *CompressionObject) Algorithm() compression.Name {
	return o.algorithm
}

// Enforce implements enforcement.Object.
func (o *CompressionObject) Enforce(t *enforcement.Ticket, r *enforcement.Result) {
	if !enforcement.Begin(t, r) {
		return
	}

	var (
		out bytes.Buffer
		err error
	)

	switch t.Operation() {
	case enforcement.Encode:
		err = o.comp.Compress(&out, t.Buffer())
	case enforcement.Decode:
		err = o.comp.Decompress(&out, t.Buffer())
	default:
		err = invalidOperation(t.Operation())
	}

	if err != nil {
		o.logger.Debugw("compression failed", "id", o.id, "operation", t.Operation(), "size", t.BufferSize(), "error", err)
		r.Fail(err)

		return
	}

	r.SetContent(out.Bytes())
}

// Configure accepts any configuration without changing behavior.
func (o *CompressionObject) Configure(_ int, _ []int64) error {
	return nil
}

// CollectStatistics is not supported by compression objects.
func (o *CompressionObject) CollectStatistics(_ *enforcement.ObjectStatistics) error {
	return enforcement.ErrStatisticsUnavailable
}

func (o *CompressionObject) String() string {
	return fmt.Sprintf("Compression enforcement object (%v).", o.id)
}

var _ enforcement.Object = (*CompressionObject)(nil)
