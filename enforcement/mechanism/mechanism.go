// Package mechanism implements the enforcement objects that transform request payloads.
package mechanism

import (
	"context"

	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/compression"
	"github.com/storagepath/enforce/logging"
)

var log = logging.Module("mechanism")

// Kinds of enforcement objects registered by this package.
const (
	KindCompression = "compression"
	KindEncryption  = "encryption"
	KindNoop        = "noop"
)

func invalidOperation(op enforcement.Operation) error {
	return errors.Wrapf(enforcement.ErrInvalidOperation, "operation %d", int(op))
}

func init() {
	enforcement.RegisterKind(KindCompression, "Lossless payload compression", func(ctx context.Context, def enforcement.Definition) (enforcement.Object, error) {
		o, err := NewCompressionObject(ctx, def.ID, compression.Name(def.Algorithm))
		if err != nil {
			return nil, err
		}

		return o, nil
	})

	enforcement.RegisterKind(KindEncryption, "Size-preserving tweakable payload encryption", func(ctx context.Context, def enforcement.Definition) (enforcement.Object, error) {
		o, err := NewEncryptionObject(ctx, def.ID, def.Algorithm, def.MasterKey)
		if err != nil {
			return nil, err
		}

		return o, nil
	})

	enforcement.RegisterKind(KindNoop, "Passthrough", func(ctx context.Context, def enforcement.Definition) (enforcement.Object, error) {
		return NewNoopObject(ctx, def.ID), nil
	})
}
