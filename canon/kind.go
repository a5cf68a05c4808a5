package canon

import "fmt"

type Kind int

const (
	NullKind Kind = iota
	IntKind
	FloatKind
	StringKind
	BoolKind
	DateKind
	RecordKind
	SequenceKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		NullKind:     "null",
		IntKind:      "integer",
		FloatKind:    "float",
		StringKind:   "string",
		BoolKind:     "boolean",
		DateKind:     "date",
		RecordKind:   "record",
		SequenceKind: "sequence",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"null":     NullKind,
		"integer":  IntKind,
		"float":    FloatKind,
		"string":   StringKind,
		"boolean":  BoolKind,
		"date":     DateKind,
		"record":   RecordKind,
		"sequence": SequenceKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func Kinds() []Kind {
	return []Kind{
		NullKind,
		IntKind,
		FloatKind,
		StringKind,
		BoolKind,
		DateKind,
		RecordKind,
		SequenceKind,
	}
}

func (k Kind) IsLeaf() bool {
	switch k {
	case RecordKind, SequenceKind:
		return false
	default:
		return true
	}
}
