package tiff

import "github.com/valyala/bytebufferpool"

// scratchPool backs the IFD entry scratch buffer (the count*12+4 read in
// ReadIFD), a small, short-lived, allocated-then-discarded read issued once
// per IFD. Out-of-line tag values are read straight into the caller's dest
// and do not use the pool.
var scratchPool bytebufferpool.Pool

// getScratch returns a pooled buffer sized to exactly n bytes, reusing the
// buffer's existing capacity (and zeroing it) rather than allocating a
// fresh backing array when the pooled one is already big enough.
func getScratch(n int) *bytebufferpool.ByteBuffer {
	b := scratchPool.Get()
	if cap(b.B) >= n {
		b.B = b.B[:n]
		for i := range b.B {
			b.B[i] = 0
		}
	} else {
		b.B = make([]byte, n)
	}
	return b
}

func putScratch(b *bytebufferpool.ByteBuffer) {
	scratchPool.Put(b)
}
