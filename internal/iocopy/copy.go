// Package iocopy wraps io.Copy() with recycled shared buffers.
package iocopy

import (
	"bytes"
	"io"
	"sync"
)

const bufSize = 65536

//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() interface{} {
		p := make([]byte, bufSize)

		return &p
	},
}

// Copy is equivalent to io.Copy().
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	//nolint:forcetypeassert
	bufPtr := bufferPool.Get().(*[]byte)

	defer bufferPool.Put(bufPtr)

	//nolint:wrapcheck
	return io.CopyBuffer(dst, src, *bufPtr)
}

// JustCopy is like Copy() but does not return the number of bytes.
func JustCopy(dst io.Writer, src io.Reader) error {
	_, err := Copy(dst, src)

	return err
}

// ToBuffer drains src into dst after reserving room for sizeHint more bytes.
func ToBuffer(dst *bytes.Buffer, src io.Reader, sizeHint int) error {
	if sizeHint > 0 {
		dst.Grow(sizeHint)
	}

	//nolint:wrapcheck
	_, err := dst.ReadFrom(src)

	return err
}
