// Package stream turns chunked provider transports into incremental
// cumulative-text deliveries.
//
// Providers stream either server-sent-event frames ("data: {...}" lines,
// terminated by "data: [DONE]") or newline-delimited JSON objects. The relay
// decodes frame by frame, extracts the text carried by each chunk, appends it
// to an accumulator and hands the accumulator's current full value to the
// caller, so the callback argument is always "the message so far".
package stream

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"log/slog"
	"strings"
)

// Format selects the chunked transport framing.
type Format int

const (
	// FormatSSE decodes server-sent-event "data:" frames.
	FormatSSE Format = iota
	// FormatLines decodes newline-delimited JSON objects.
	FormatLines
)

// doneSentinel terminates an SSE stream.
const doneSentinel = "[DONE]"

// maxChunkSize bounds a single transport frame.
const maxChunkSize = 1 << 20

// Extract pulls the text out of one decoded chunk payload. It returns false
// for chunks that carry no text (keepalives, metadata, malformed frames);
// such chunks are skipped without aborting the stream.
type Extract func(raw []byte) (string, bool)

// Decoder reads chunk payloads from a transport body.
type Decoder struct {
	scanner *bufio.Scanner
	format  Format
	done    bool
}

// NewDecoder wraps a response body in a chunk decoder.
func NewDecoder(r io.Reader, format Format) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxChunkSize)
	return &Decoder{scanner: sc, format: format}
}

// Next returns the raw payload of the next chunk, or io.EOF when the
// transport signals completion (EOF, or the [DONE] sentinel for SSE).
func (d *Decoder) Next() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	for d.scanner.Scan() {
		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if d.format == FormatSSE {
			rest, ok := bytes.CutPrefix(line, []byte("data:"))
			if !ok {
				// comment or event-name line
				continue
			}
			rest = bytes.TrimSpace(rest)
			if string(rest) == doneSentinel {
				d.done = true
				return nil, io.EOF
			}
			return append([]byte(nil), rest...), nil
		}
		return append([]byte(nil), line...), nil
	}
	d.done = true
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Snapshots exposes the stream as a sequence of cumulative text snapshots:
// each yielded value is the full text accumulated so far. Chunks the extract
// function rejects are skipped. A transport read error ends the sequence; use
// Accumulate to observe it.
func (d *Decoder) Snapshots(extract Extract) iter.Seq[string] {
	return func(yield func(string) bool) {
		var acc strings.Builder
		for {
			raw, err := d.Next()
			if err != nil {
				return
			}
			text, ok := extract(raw)
			if !ok || text == "" {
				continue
			}
			acc.WriteString(text)
			if !yield(acc.String()) {
				return
			}
		}
	}
}

// Accumulate drains the decoder, invoking onChunk with the cumulative text
// after every chunk that carries any. Malformed chunks are logged and
// skipped. The returned string is the final accumulated text, identical to
// the last onChunk argument; a transport read error is returned alongside
// whatever text had been accumulated.
func Accumulate(d *Decoder, extract Extract, onChunk func(string), logger *slog.Logger) (string, error) {
	var acc strings.Builder
	for {
		raw, err := d.Next()
		if err == io.EOF {
			return acc.String(), nil
		}
		if err != nil {
			return acc.String(), err
		}
		text, ok := extract(raw)
		if !ok {
			if logger != nil {
				logger.Debug("skipping undecodable stream chunk", "chunk", truncateForLog(raw))
			}
			continue
		}
		if text == "" {
			continue
		}
		acc.WriteString(text)
		if onChunk != nil {
			onChunk(acc.String())
		}
	}
}

func truncateForLog(b []byte) string {
	const limit = 120
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
