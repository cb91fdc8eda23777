package series

import (
	"fmt"
	"math"
	"slices"

	"github.com/ajitpratap0/colseries/pkg/errors"
)

// TypeTag is the logical type a schema field declares.
type TypeTag string

const (
	TypeFloat64   TypeTag = "float64"
	TypeInt64     TypeTag = "int64"
	TypeTimestamp TypeTag = "timestamp"
	TypeString    TypeTag = "string"
	TypeBool      TypeTag = "bool"
	TypeBytes     TypeTag = "bytes"
)

// Width returns the default byte width of a field of this type, or 0 when the
// type has no fixed width.
func (t TypeTag) Width() int {
	switch t {
	case TypeFloat64, TypeInt64, TypeTimestamp:
		return 8
	case TypeBool:
		return 1
	default:
		return 0
	}
}

// Supported reports whether the row codec can decode fields of this type.
func (t TypeTag) Supported() bool { return t.physical() != "" }

// physical is the element type stored in a field of this type, or "" when
// the codec has no column for it.
func (t TypeTag) physical() TypeTag {
	switch t {
	case TypeFloat64:
		return TypeFloat64
	case TypeInt64, TypeTimestamp:
		return TypeInt64
	default:
		return ""
	}
}

func (t TypeTag) String() string { return string(t) }

// Field is a named, typed slot inside a fixed-size row.
type Field struct {
	Name   string  `json:"name" yaml:"name" bson:"name"`
	Type   TypeTag `json:"type" yaml:"type" bson:"type"`
	Offset int     `json:"offset" yaml:"offset" bson:"offset"`
	Width  int     `json:"width" yaml:"width" bson:"width"`
}

// Schema is the ordered field layout of a row buffer. Row i of a buffer
// starts at byte i*Stride; field f of that row starts at i*Stride+f.Offset.
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields" bson:"fields"`
	Stride int     `json:"stride" yaml:"stride" bson:"stride"`
}

// NewSchema packs fields back to back in the order given. Offsets are
// overwritten; a zero Width is replaced by the type's default width.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{Fields: make([]Field, len(fields))}
	offset := 0
	for i, f := range fields {
		if f.Width == 0 {
			f.Width = f.Type.Width()
		}
		f.Offset = offset
		offset += f.Width
		s.Fields[i] = f
	}
	s.Stride = offset
	return s
}

// Validate checks that field names are unique and that the fields partition
// the row without overlapping or spilling past Stride.
func (s *Schema) Validate() error {
	if s.Stride < 0 {
		return errors.Newf(errors.ErrorTypeValidation, "negative row stride %d", s.Stride)
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.New(errors.ErrorTypeValidation, "field name is required")
		}
		if _, dup := seen[f.Name]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Width <= 0 {
			return errors.Newf(errors.ErrorTypeValidation, "field %q has non-positive width %d", f.Name, f.Width)
		}
		if f.Offset < 0 || f.Offset+f.Width > s.Stride {
			return errors.Newf(errors.ErrorTypeValidation,
				"field %q occupies bytes [%d,%d) outside row stride %d", f.Name, f.Offset, f.Offset+f.Width, s.Stride)
		}
	}

	byOffset := slices.Clone(s.Fields)
	slices.SortFunc(byOffset, func(a, b Field) int { return a.Offset - b.Offset })
	for i := 1; i < len(byOffset); i++ {
		prev, cur := byOffset[i-1], byOffset[i]
		if prev.Offset+prev.Width > cur.Offset {
			return errors.Newf(errors.ErrorTypeValidation, "fields %q and %q overlap", prev.Name, cur.Name)
		}
	}
	return nil
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	return slices.IndexFunc(s.Fields, func(f Field) bool { return f.Name == name })
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	if i := s.Index(name); i >= 0 {
		return s.Fields[i], true
	}
	return Field{}, false
}

// BufferSize is the number of bytes a buffer of height rows occupies. Use
// Fits first when height comes from untrusted input.
func (s *Schema) BufferSize(height int) int {
	return height * s.Stride
}

// Fits reports whether height rows fit in size bytes without overflowing
// height*Stride.
func (s *Schema) Fits(height, size int) bool {
	return fitsRows(height, s.Stride, size)
}

func fitsRows(rows, stride, size int) bool {
	if rows < 0 || size < 0 {
		return false
	}
	if stride == 0 || rows == 0 {
		return true
	}
	if rows > math.MaxInt/stride {
		return false
	}
	return rows*stride <= size
}

func (s *Schema) field(index int) (Field, error) {
	if index < 0 || index >= len(s.Fields) {
		return Field{}, errors.Newf(errors.ErrorTypeIndexOutOfRange,
			"field index %d out of range [0,%d)", index, len(s.Fields))
	}
	return s.Fields[index], nil
}

func (f Field) String() string {
	return fmt.Sprintf("%s %s @%d+%d", f.Name, f.Type, f.Offset, f.Width)
}
