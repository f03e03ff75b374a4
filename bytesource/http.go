package bytesource

import (
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// defaultReadAheadSize is the read-ahead buffer size for sequential IFD
// scans: a header read is immediately followed by a root-IFD read a few
// bytes later, so one range request usually covers both.
const defaultReadAheadSize = 64 * 1024

// httpRangeSource implements ByteSource over HTTP range requests, with a
// read-ahead buffer so that the sequential header -> IFD -> next-IFD walk
// a Container does doesn't turn into one round trip per field.
type httpRangeSource struct {
	url    string
	client *fasthttp.Client
	size   int64
	mu     sync.Mutex
	pos    int64

	buffer        []byte
	bufferStart   int64
	bufferEnd     int64
	readAheadSize int
}

// NewHTTPRangeSource opens url as a ByteSource backed by HTTP range requests.
// If client is nil, a default fasthttp.Client with generous timeouts is used.
func NewHTTPRangeSource(url string, client *fasthttp.Client) (ByteSource, error) {
	if client == nil {
		client = &fasthttp.Client{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
	}
	rr := &httpRangeSource{
		url:           url,
		client:        client,
		readAheadSize: defaultReadAheadSize,
		bufferStart:   -1,
		bufferEnd:     -1,
	}
	rr.size = rr.fetchSize()
	if rr.size < 0 {
		return nil, ErrFileNotFound
	}
	return rr, nil
}

func (rr *httpRangeSource) fetchSize() int64 {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rr.url)
	req.Header.SetMethod("HEAD")

	if err := rr.client.Do(req, resp); err != nil {
		return -1
	}
	if n := resp.Header.ContentLength(); n > 0 {
		return int64(n)
	}
	return -1
}

func (rr *httpRangeSource) Read(dest []byte) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	n, err := rr.readAtLocked(dest, rr.pos)
	rr.pos += int64(n)
	return n, err
}

func (rr *httpRangeSource) ReadAt(dest []byte, off int64) (int, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.readAtLocked(dest, off)
}

func (rr *httpRangeSource) readAtLocked(dest []byte, off int64) (int, error) {
	if off >= rr.size {
		return 0, nil
	}
	toRead := len(dest)
	if off+int64(toRead) > rr.size {
		toRead = int(rr.size - off)
	}
	if toRead <= 0 {
		return 0, nil
	}

	if rr.buffer != nil && off >= rr.bufferStart && off < rr.bufferEnd {
		bufOff := int(off - rr.bufferStart)
		available := int(rr.bufferEnd - off)
		if available >= toRead {
			return copy(dest[:toRead], rr.buffer[bufOff:bufOff+toRead]), nil
		}
		n := copy(dest[:available], rr.buffer[bufOff:])
		nn, err := rr.fetchInto(dest[n:n+(toRead-n)], off+int64(n))
		return n + nn, err
	}

	return rr.readWithReadAhead(dest, off, toRead)
}

func (rr *httpRangeSource) readWithReadAhead(dest []byte, off int64, toRead int) (int, error) {
	readSize := rr.readAheadSize
	if readSize < toRead {
		readSize = toRead
	}
	if off+int64(readSize) > rr.size {
		readSize = int(rr.size - off)
	}

	data, err := rr.fetchRange(off, off+int64(readSize)-1)
	if err != nil {
		return 0, err
	}

	if len(data) > toRead {
		if cap(rr.buffer) >= len(data) {
			rr.buffer = rr.buffer[:len(data)]
		} else {
			rr.buffer = make([]byte, len(data))
		}
		copy(rr.buffer, data)
		rr.bufferStart = off
		rr.bufferEnd = off + int64(len(data))
	}

	if len(data) < toRead {
		toRead = len(data)
	}
	return copy(dest[:toRead], data[:toRead]), nil
}

func (rr *httpRangeSource) fetchInto(dest []byte, off int64) (int, error) {
	data, err := rr.fetchRange(off, off+int64(len(dest))-1)
	if err != nil {
		return 0, err
	}
	toRead := len(dest)
	if len(data) < toRead {
		toRead = len(data)
	}
	return copy(dest[:toRead], data[:toRead]), nil
}

func (rr *httpRangeSource) fetchRange(start, end int64) ([]byte, error) {
	if end >= rr.size {
		end = rr.size - 1
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rr.url)
	req.Header.SetMethod("GET")
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	if err := rr.client.Do(req, resp); err != nil {
		return nil, err
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusPartialContent && status != fasthttp.StatusOK {
		return nil, fmt.Errorf("bytesource: unexpected status code %d", status)
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (rr *httpRangeSource) Seek(offset int64, whence Whence) (int64, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var newPos int64
	switch whence {
	case SeekCurrent:
		newPos = rr.pos + offset
	case SeekEnd:
		newPos = rr.size + offset
	default:
		newPos = offset
	}
	if newPos < 0 {
		return rr.pos, ErrNegativePosition
	}

	if rr.buffer != nil && (newPos < rr.bufferStart || newPos >= rr.bufferEnd) {
		rr.bufferStart = -1
		rr.bufferEnd = -1
	}
	rr.pos = newPos
	return rr.pos, nil
}

func (rr *httpRangeSource) Close() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.buffer = nil
	return nil
}
