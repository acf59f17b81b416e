package checker

import "strings"

// Normalizer resolves native type spellings into logical types using a
// per-engine lookup table. Spellings missing from the table resolve to
// TypeUnknown.
type Normalizer struct {
	table map[string]LogicalType
}

// NewNormalizer creates a normalizer from a spelling table. The table is
// copied so callers cannot mutate it afterwards.
func NewNormalizer(spellings map[string]LogicalType) *Normalizer {
	table := make(map[string]LogicalType, len(spellings))
	for k, v := range spellings {
		table[k] = v
	}
	return &Normalizer{table: table}
}

// Normalize resolves a native type spelling to its logical type
func (n *Normalizer) Normalize(typeName string) LogicalType {
	if t, ok := n.table[strings.TrimSpace(typeName)]; ok {
		return t
	}
	return TypeUnknown
}

// TreeSpellings maps row-store native type spellings to logical types.
// Covers ROOT leaf codes, C++ spellings from typed dumps, and the
// canonical spellings the PostgreSQL source emits.
var TreeSpellings = map[string]LogicalType{
	"Int_t":               TypeInt32,
	"Float_t":             TypeFloat32,
	"Double_t":            TypeFloat64,
	"Bool_t":              TypeBool,
	"int":                 TypeInt32,
	"int32":               TypeInt32,
	"int32_t":             TypeInt32,
	"float":               TypeFloat32,
	"double":              TypeFloat64,
	"bool":                TypeBool,
	"vector<int>":         TypeVecInt32,
	"vector<int32>":       TypeVecInt32,
	"vector<float>":       TypeVecFloat32,
	"vector<double>":      TypeVecFloat64,
	"vector<bool>":        TypeVecBool,
	"std::vector<int>":    TypeVecInt32,
	"std::vector<float>":  TypeVecFloat32,
	"std::vector<double>": TypeVecFloat64,
	"std::vector<bool>":   TypeVecBool,
}

// NTupleSpellings maps columnar-store native type spellings to logical
// types. Covers std:: spellings and the Parquet physical type names.
var NTupleSpellings = map[string]LogicalType{
	"std::int32_t":              TypeInt32,
	"float":                     TypeFloat32,
	"double":                    TypeFloat64,
	"bool":                      TypeBool,
	"int32":                     TypeInt32,
	"boolean":                   TypeBool,
	"std::vector<std::int32_t>": TypeVecInt32,
	"std::vector<float>":        TypeVecFloat32,
	"std::vector<double>":       TypeVecFloat64,
	"std::vector<bool>":         TypeVecBool,
	"list<int32>":               TypeVecInt32,
	"list<float>":               TypeVecFloat32,
	"list<double>":              TypeVecFloat64,
	"list<boolean>":             TypeVecBool,
}

// nearMatches lists the logical type pairs considered close enough to
// flag instead of fail. Both orientations are checked by Classify.
var nearMatches = [][2]LogicalType{
	{TypeFloat32, TypeFloat64},
	{TypeVecFloat32, TypeVecFloat64},
}

// Classify compares two resolved logical types. The result is symmetric:
// Classify(a, b) always equals Classify(b, a).
func Classify(a, b LogicalType) TypeClass {
	if a == TypeUnknown || b == TypeUnknown {
		return ClassMissing
	}
	if a == b {
		return ClassExact
	}
	for _, pair := range nearMatches {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return ClassNearMatch
		}
	}
	return ClassMismatch
}
