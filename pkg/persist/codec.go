package persist

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
)

// writer accumulates the first write error so call sites can chain writes
// without checking err after every field, then report it once at the end.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) u8(v uint8) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write([]byte{v})
}

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) u32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) u64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, w.err = w.w.Write(buf[:])
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) bytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *writer) str(s string) {
	w.u64(uint64(len(s)))
	w.bytes([]byte(s))
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

// reader mirrors writer, turning any short read into IO_ERROR (truncation)
// at the point Err is finally checked.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) boolean() bool { return r.u8() != 0 }

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	var buf [8]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) f64() float64 { return math.Float64frombits(r.u64()) }

func (r *reader) bytesN(n uint64) []byte {
	if r.err != nil || n == 0 {
		return nil
	}
	const maxReasonable = 1 << 32
	if n > maxReasonable {
		r.err = dgerr.New("persist.reader.bytesN", dgerr.UnsupportedFormat)
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) str() string {
	n := r.u64()
	return string(r.bytesN(n))
}

// ioErr wraps a truncated read (or any other read failure) as the spec's
// IO_ERROR status; malformed-but-complete data is reported as
// UNSUPPORTED_FORMAT by the caller instead.
func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return dgerr.Wrap(op, dgerr.IOError, err)
}
