package schema

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind tags the dynamic type of a captured cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBinary
	KindOther
)

var kindNames = [...]string{
	KindNull:    "null",
	KindInteger: "integer",
	KindReal:    "real",
	KindText:    "text",
	KindBinary:  "binary",
	KindOther:   "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single cell with an explicit kind tag. Two values are equal
// only when both their kinds and payloads are equal, so integer 1 and real
// 1.0 are distinct. Null equals null.
type Value struct {
	Kind  Kind
	Int   int64
	Real  float64
	Text  string
	Bytes []byte
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Real returns a floating point value.
func Real(f float64) Value { return Value{Kind: KindReal, Real: f} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Binary returns a binary value.
func Binary(b []byte) Value { return Value{Kind: KindBinary, Bytes: b} }

// Other returns a value of a kind the auditor does not model (dates,
// booleans, decimals, driver-specific types), carried by its text form.
func Other(s string) Value { return Value{Kind: KindOther, Text: s} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// FromAny converts a value produced by a database driver into a tagged Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint:
		return fromUint(uint64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Real(float64(t))
	case float64:
		return Real(t)
	case string:
		return Text(t)
	case []byte:
		b := make([]byte, len(t))
		copy(b, t)
		return Binary(b)
	case bool:
		return Other(strconv.FormatBool(t))
	case time.Time:
		return Other(t.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return Other(t.String())
	default:
		return Other(fmt.Sprint(t))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Other(strconv.FormatUint(u, 10))
	}
	return Int(int64(u))
}

// Equal reports kind-and-payload equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInteger:
		return v.Int == o.Int
	case KindReal:
		return v.Real == o.Real || (math.IsNaN(v.Real) && math.IsNaN(o.Real))
	case KindBinary:
		return string(v.Bytes) == string(o.Bytes)
	default:
		return v.Text == o.Text
	}
}

// AppendKey appends an unambiguous encoding of v to dst. Keys of a tuple of
// values may be concatenated and compared as strings.
func (v Value) AppendKey(dst []byte) []byte {
	dst = append(dst, byte('0'+v.Kind))
	var payload string
	switch v.Kind {
	case KindNull:
		return append(dst, ';')
	case KindInteger:
		payload = strconv.FormatInt(v.Int, 10)
	case KindReal:
		f := v.Real
		if f == 0 {
			f = 0 // -0 and 0 are Equal
		}
		payload = strconv.FormatFloat(f, 'g', -1, 64)
	case KindBinary:
		payload = string(v.Bytes)
	default:
		payload = v.Text
	}
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, ':')
	return append(dst, payload...)
}

// String renders v for messages.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindBinary:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	default:
		return v.Text
	}
}

const otherTag = "!other"

// MarshalYAML encodes v as a scalar whose tag carries the kind.
func (v Value) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind {
	case KindNull:
		n.Tag, n.Value = "!!null", "null"
	case KindInteger:
		n.Tag, n.Value = "!!int", strconv.FormatInt(v.Int, 10)
	case KindReal:
		n.Tag, n.Value = "!!float", formatYAMLFloat(v.Real)
	case KindText:
		n.Tag, n.Value = "!!str", v.Text
	case KindBinary:
		n.Tag, n.Value = "!!binary", base64.StdEncoding.EncodeToString(v.Bytes)
	default:
		n.Tag, n.Value = otherTag, v.Text
	}
	return n, nil
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}

// UnmarshalYAML decodes a scalar written by MarshalYAML. Untagged plain
// scalars resolve by their implicit YAML type; booleans and timestamps
// become KindOther.
func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cell must be a scalar", n.Line)
	}
	switch n.ShortTag() {
	case "!!null":
		*v = Null()
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return err
		}
		*v = Int(i)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		*v = Real(f)
	case "!!str":
		*v = Text(n.Value)
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid binary cell: %w", n.Line, err)
		}
		*v = Binary(b)
	default:
		*v = Other(n.Value)
	}
	return nil
}

// UnmarshalYAML decodes every cell of a row sequence, null cells included.
// yaml.v3 skips Value.UnmarshalYAML for null nodes inside slices, which
// would drop them from the row.
func (r *Row) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: row must be a sequence", n.Line)
	}
	row := make(Row, len(n.Content))
	for i, c := range n.Content {
		if err := (&row[i]).UnmarshalYAML(c); err != nil {
			return err
		}
	}
	*r = row
	return nil
}
