// Package json wraps goccy/go-json for document files and command output.
package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// NewEncoder returns an encoder that leaves HTML characters unescaped.
func NewEncoder(w io.Writer) *gojson.Encoder {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// StreamingEncoder writes values one at a time, either as a single JSON
// array or as line-delimited JSON.
type StreamingEncoder struct {
	writer      io.Writer
	encoder     *gojson.Encoder
	firstRecord bool
	isArray     bool
	err         error
}

// NewStreamingEncoder creates a new streaming encoder. In array mode the
// opening bracket is written immediately.
func NewStreamingEncoder(w io.Writer, isArray bool) *StreamingEncoder {
	se := &StreamingEncoder{
		writer:      w,
		encoder:     NewEncoder(w),
		firstRecord: true,
		isArray:     isArray,
	}
	if isArray {
		se.write("[")
	}
	return se
}

// SetPretty enables indentation
func (se *StreamingEncoder) SetPretty(indent string) {
	se.encoder.SetIndent("", indent)
}

func (se *StreamingEncoder) write(s string) {
	if se.err == nil {
		_, se.err = io.WriteString(se.writer, s)
	}
}

// Encode encodes a single value
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.isArray && !se.firstRecord {
		se.write(",")
	}
	se.firstRecord = false
	if se.err != nil {
		return se.err
	}
	// Encode always terminates the value with a newline.
	se.err = se.encoder.Encode(v)
	return se.err
}

// Close writes the closing bracket in array mode and reports the first
// write error, if any.
func (se *StreamingEncoder) Close() error {
	if se.isArray {
		se.write("]\n")
	}
	return se.err
}
