package checker

// LogicalType is the engine-independent type a native field type resolves to.
// Anything outside the supported set normalizes to TypeUnknown.
type LogicalType int

const (
	TypeUnknown LogicalType = iota
	TypeInt32
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeVecInt32
	TypeVecFloat32
	TypeVecFloat64
	TypeVecBool
)

// String returns the canonical display spelling for a logical type
func (t LogicalType) String() string {
	switch t {
	case TypeInt32:
		return "int"
	case TypeFloat32:
		return "float"
	case TypeFloat64:
		return "double"
	case TypeBool:
		return "bool"
	case TypeVecInt32:
		return "vector<int>"
	case TypeVecFloat32:
		return "vector<float>"
	case TypeVecFloat64:
		return "vector<double>"
	case TypeVecBool:
		return "vector<bool>"
	default:
		return "unknown"
	}
}

// IsVector reports whether the logical type is a variable-length collection
func (t LogicalType) IsVector() bool {
	switch t {
	case TypeVecInt32, TypeVecFloat32, TypeVecFloat64, TypeVecBool:
		return true
	default:
		return false
	}
}

// Elem returns the element type of a vector type, or TypeUnknown for scalars
func (t LogicalType) Elem() LogicalType {
	switch t {
	case TypeVecInt32:
		return TypeInt32
	case TypeVecFloat32:
		return TypeFloat32
	case TypeVecFloat64:
		return TypeFloat64
	case TypeVecBool:
		return TypeBool
	default:
		return TypeUnknown
	}
}

// TypeClass classifies a pair of logical types for reporting
type TypeClass int

const (
	// ClassExact means both sides resolved to the same logical type
	ClassExact TypeClass = iota
	// ClassNearMatch means the types differ only in floating point width
	ClassNearMatch
	// ClassMismatch means both sides resolved but to incompatible types
	ClassMismatch
	// ClassMissing means at least one side did not resolve to a supported type
	ClassMissing
)

// String returns the display label for a type classification
func (c TypeClass) String() string {
	switch c {
	case ClassExact:
		return "exact"
	case ClassNearMatch:
		return "near-match"
	case ClassMismatch:
		return "mismatch"
	case ClassMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// NativeField is a field as enumerated by a source, before normalization
type NativeField struct {
	Name     string
	TypeName string
}

// FieldDescriptor is a cataloged field with its resolved logical type
type FieldDescriptor struct {
	Name     string      `json:"name"`
	TypeName string      `json:"type_name"`
	Type     LogicalType `json:"-"`
	Index    int         `json:"index"`
}

// FieldMatch pairs a TTree-side field with an RNTuple-side field by name.
// Either side may be nil when the name exists only in one catalog.
type FieldMatch struct {
	Tree   *FieldDescriptor `json:"ttree,omitempty"`
	NTuple *FieldDescriptor `json:"rntuple,omitempty"`
}

// Name returns the field name of whichever side is present
func (m FieldMatch) Name() string {
	if m.Tree != nil {
		return m.Tree.Name
	}
	if m.NTuple != nil {
		return m.NTuple.Name
	}
	return ""
}

// Complete reports whether both sides of the match are present
func (m FieldMatch) Complete() bool {
	return m.Tree != nil && m.NTuple != nil
}

// TypeComparison records the type classification for one matched name
type TypeComparison struct {
	Name       string    `json:"name"`
	TreeType   string    `json:"ttree_type"`
	NTupleType string    `json:"rntuple_type"`
	Class      TypeClass `json:"-"`
	ClassLabel string    `json:"class"`
}

// SubfieldComparison records per-side element totals for a vector field
type SubfieldComparison struct {
	FieldName   string `json:"field_name"`
	TreeElem    string `json:"ttree_element_type"`
	NTupleElem  string `json:"rntuple_element_type"`
	TreeTotal   uint64 `json:"ttree_total"`
	NTupleTotal uint64 `json:"rntuple_total"`
}

// Matches reports whether the element totals agree
func (s SubfieldComparison) Matches() bool {
	return s.TreeTotal == s.NTupleTotal
}

// DistributionSummary holds histogram-derived statistics for one value pool
type DistributionSummary struct {
	Count  uint64  `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Empty reports whether the summary describes an empty pool
func (d DistributionSummary) Empty() bool {
	return d.Count == 0
}

// Equal reports bit-identical agreement of two summaries
func (d DistributionSummary) Equal(o DistributionSummary) bool {
	return d.Count == o.Count && d.Mean == o.Mean && d.StdDev == o.StdDev
}

// DistributionPair compares the pooled distribution of one value type
// across the two sources
type DistributionPair struct {
	Type         LogicalType         `json:"-"`
	TypeLabel    string              `json:"type"`
	Tree         DistributionSummary `json:"ttree"`
	NTuple       DistributionSummary `json:"rntuple"`
	Match        bool                `json:"match"`
	HasChiSquare bool                `json:"has_chi_square"`
	ChiSquare    float64             `json:"chi_square"`
}

// Report is the full outcome of one comparison run
type Report struct {
	TreeName      string               `json:"ttree_name"`
	NTupleName    string               `json:"rntuple_name"`
	TreeEntries   uint64               `json:"ttree_entries"`
	NTupleEntries uint64               `json:"rntuple_entries"`
	TreeFields    []FieldDescriptor    `json:"ttree_fields"`
	NTupleFields  []FieldDescriptor    `json:"rntuple_fields"`
	Matches       []FieldMatch         `json:"field_matches"`
	Types         []TypeComparison     `json:"type_comparisons"`
	Subfields     []SubfieldComparison `json:"subfield_comparisons"`
	Distributions []DistributionPair   `json:"distributions"`
	Problems      []string             `json:"problems,omitempty"`
	Passed        bool                 `json:"passed"`
}

// EntriesMatch reports whether both sources hold the same number of entries
func (r *Report) EntriesMatch() bool {
	return r.TreeEntries == r.NTupleEntries
}

// FieldCountsMatch reports whether both catalogs hold the same number of fields
func (r *Report) FieldCountsMatch() bool {
	return len(r.TreeFields) == len(r.NTupleFields)
}

// NamesMatch reports whether every field name was found on both sides
func (r *Report) NamesMatch() bool {
	for _, m := range r.Matches {
		if !m.Complete() {
			return false
		}
	}
	return true
}

// TypesExact reports whether every matched name classified as an exact type match
func (r *Report) TypesExact() bool {
	for _, t := range r.Types {
		if t.Class != ClassExact {
			return false
		}
	}
	return true
}

// SubfieldsMatch reports whether every vector field agreed on element totals
func (r *Report) SubfieldsMatch() bool {
	for _, s := range r.Subfields {
		if !s.Matches() {
			return false
		}
	}
	return true
}

// DistributionsMatch reports whether every pooled distribution agreed
func (r *Report) DistributionsMatch() bool {
	for _, d := range r.Distributions {
		if !d.Match {
			return false
		}
	}
	return true
}
