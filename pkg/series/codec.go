package series

import (
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/vector"
)

// EncodeField writes s into the slot of schema field index for rows
// [0,height). s must have exactly height elements, the field's logical type
// and the physical element type DecodeField reads back for that field, so
// that decoding the slot restores s.
func EncodeField(buf []byte, schema *Schema, index int, s Series, height int) error {
	field, err := schema.field(index)
	if err != nil {
		return err
	}
	if s.Len() != height {
		return errors.Newf(errors.ErrorTypeValidation,
			"series %q has %d elements, row height is %d", s.Name(), s.Len(), height)
	}
	if s.Type() != field.Type {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"series %q is %s, field %q is %s", s.Name(), s.Type(), field.Name, field.Type)
	}
	want := field.Type.physical()
	if want == "" {
		return errors.Newf(errors.ErrorTypeUnsupportedType,
			"no codec for field %q of type %s", field.Name, field.Type).
			WithDetail("field", field.Name)
	}
	if s.physical() != want {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"series %q stores %s elements, field %q of type %s stores %s",
			s.Name(), s.physical(), field.Name, field.Type, want)
	}
	return s.ToBuffer(buf, schema.Stride, field)
}

// DecodeField reads height rows of schema field index out of buf. The
// concrete series is chosen by the field's logical type:
//
//	float64   -> *Owned[float64]
//	int64     -> *Owned[int64]
//	timestamp -> *Adapter[time.Time, int64] over 100ns ticks
//
// Any other type fails with ErrorTypeUnsupportedType.
func DecodeField(buf []byte, schema *Schema, index int, height int) (Series, error) {
	field, err := schema.field(index)
	if err != nil {
		return nil, err
	}
	if !field.Type.Supported() {
		return nil, errors.Newf(errors.ErrorTypeUnsupportedType,
			"no codec for field %q of type %s", field.Name, field.Type).
			WithDetail("field", field.Name)
	}

	var s Series
	switch field.Type {
	case TypeFloat64:
		s, err = asSeries(OwnedFromBuffer[float64](buf, schema.Stride, field, height))
	case TypeInt64:
		s, err = asSeries(OwnedFromBuffer[int64](buf, schema.Stride, field, height))
	case TypeTimestamp:
		var ticks *Owned[int64]
		if ticks, err = OwnedFromBuffer[int64](buf, schema.Stride, field, height); err == nil {
			s = NewTimestamps(ticks)
		}
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func asSeries[T vector.Element](c *Owned[T], err error) (Series, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// checkSlot validates that rows rows of a width-byte element fit field's
// slot in a buffer of size bytes.
func checkSlot(size, stride int, field Field, width, rows int) error {
	if field.Width != width {
		return errors.Newf(errors.ErrorTypeValidation,
			"field %q is %d bytes wide, element needs %d", field.Name, field.Width, width)
	}
	if field.Offset < 0 || field.Offset+field.Width > stride {
		return errors.Newf(errors.ErrorTypeValidation,
			"field %q occupies bytes [%d,%d) outside row stride %d",
			field.Name, field.Offset, field.Offset+field.Width, stride)
	}
	if !fitsRows(rows, stride, size) {
		return errors.Newf(errors.ErrorTypeData,
			"row buffer holds %d bytes, too few for %d rows of stride %d", size, rows, stride).
			WithDetail("field", field.Name)
	}
	return nil
}

// packRows copies n contiguous field.Width-byte elements from src into the
// field's slot of each row of dst.
func packRows(dst []byte, stride int, field Field, src []byte, n int) {
	w := field.Width
	for i := 0; i < n; i++ {
		off := i*stride + field.Offset
		copy(dst[off:off+w], src[i*w:(i+1)*w])
	}
}

// unpackRows is the inverse of packRows.
func unpackRows(dst []byte, src []byte, stride int, field Field, n int) {
	w := field.Width
	for i := 0; i < n; i++ {
		off := i*stride + field.Offset
		copy(dst[i*w:(i+1)*w], src[off:off+w])
	}
}
