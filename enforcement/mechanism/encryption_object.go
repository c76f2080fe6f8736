package mechanism

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/storagepath/enforce/enforcement"
	"github.com/storagepath/enforce/enforcement/encryption"
	"github.com/storagepath/enforce/logging"
)

// encryptionState is swapped as a whole so that Enforce never observes a
// partially applied key change.
type encryptionState struct {
	algorithm string
	cipher    encryption.TweakableCipher
}

// EncryptionObject encrypts payloads on Encode and decrypts them on Decode.
//
// Output has the same length as the input. Each ticket tweak is zero-extended
// into the cipher tweak, so the caller must keep tweaks unique per position.
type EncryptionObject struct {
	id     int64
	state  atomic.Pointer[encryptionState]
	logger logging.Logger
}

// NewEncryptionObject creates an encryption object using the given algorithm
// (encryption.DefaultAlgorithm when empty) and master key.
func NewEncryptionObject(ctx context.Context, id int64, algorithm string, masterKey []byte) (*EncryptionObject, error) {
	if algorithm == "" {
		algorithm = encryption.DefaultAlgorithm
	}

	s, err := newEncryptionState(ctx, algorithm, masterKey)
	if err != nil {
		return nil, err
	}

	o := &EncryptionObject{id: id, logger: log(ctx)}
	o.state.Store(s)

	log(ctx).Debugw("created encryption object", "id", id, "algorithm", algorithm)

	return o, nil
}

func newEncryptionState(ctx context.Context, algorithm string, masterKey []byte) (*encryptionState, error) {
	c, err := encryption.CreateCipher(ctx, algorithm, masterKey)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create cipher")
	}

	return &encryptionState{algorithm, c}, nil
}

// ObjectID implements enforcement.Object.
func (o *EncryptionObject) ObjectID() int64 {
	return o.id
}

// Algorithm returns the name of the cipher in use.
func (o *EncryptionObject) Algorithm() string {
	return o.state.Load().algorithm
}

// Rekey replaces the master key. Calls to Enforce running concurrently use
// either the old or the new key, never a mix.
func (o *EncryptionObject) Rekey(ctx context.Context, masterKey []byte) error {
	s, err := newEncryptionState(ctx, o.Algorithm(), masterKey)
	if err != nil {
		return err
	}

	o.state.Store(s)

	log(ctx).Infow("encryption key replaced", "id", o.id)

	return nil
}

// Enforce implements enforcement.Object.
func (o *EncryptionObject) Enforce(t *enforcement.Ticket, r *enforcement.Result) {
	if !enforcement.Begin(t, r) {
		return
	}

	s := o.state.Load()
	tweak := encryption.DeriveTweak(t.Tweak())
	content := bytes.Clone(t.Buffer())

	var err error

	switch t.Operation() {
	case enforcement.Encode:
		err = s.cipher.Encrypt(content, content, &tweak)
	case enforcement.Decode:
		err = s.cipher.Decrypt(content, content, &tweak)
	default:
		err = invalidOperation(t.Operation())
	}

	if err != nil {
		o.logger.Debugw("encryption failed", "id", o.id, "operation", t.Operation(), "size", t.BufferSize(), "error", err)
		r.Fail(err)

		return
	}

	r.SetContent(content)
}

// Configure accepts any configuration without changing behavior; keys are
// replaced with Rekey.
func (o *EncryptionObject) Configure(_ int, _ []int64) error {
	return nil
}

// CollectStatistics is not supported by encryption objects.
func (o *EncryptionObject) CollectStatistics(_ *enforcement.ObjectStatistics) error {
	return enforcement.ErrStatisticsUnavailable
}

func (o *EncryptionObject) String() string {
	return fmt.Sprintf("Encryption enforcement object (%v).", o.id)
}

var _ enforcement.Object = (*EncryptionObject)(nil)
