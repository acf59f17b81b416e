package checker

import (
	"context"
	"fmt"
	"log/slog"
)

// Source is a readable dataset: a named collection of typed fields over a
// fixed number of entries. Implementations enumerate fields in declaration
// order and read one field's values across all entries per call.
type Source interface {
	// RowCount returns the number of entries in the dataset
	RowCount() (uint64, error)

	// Fields enumerates every field in declaration order
	Fields() ([]NativeField, error)

	// ReadInt32 reads all values of a 32-bit integer field
	ReadInt32(field string) ([]int32, error)

	// ReadFloat32 reads all values of a single-precision field
	ReadFloat32(field string) ([]float32, error)

	// ReadFloat64 reads all values of a double-precision field
	ReadFloat64(field string) ([]float64, error)

	// ReadBool reads all values of a boolean field
	ReadBool(field string) ([]bool, error)

	// ReadVectorLengths returns the per-entry element count of a
	// collection field
	ReadVectorLengths(field string) ([]uint64, error)

	// Close releases any resources held by the source
	Close() error
}

// poolOrder fixes the reporting order of the pooled distributions
var poolOrder = []LogicalType{TypeInt32, TypeFloat32, TypeFloat64, TypeBool}

// valuePool accumulates scalar values by logical type, widened to float64
// for binning. The widening is exact for every supported type so pooled
// statistics stay bit-identical across sources holding the same data.
type valuePool map[LogicalType][]float64

func newValuePool() valuePool {
	return valuePool{
		TypeInt32:   nil,
		TypeFloat32: nil,
		TypeFloat64: nil,
		TypeBool:    nil,
	}
}

// Options configures a Checker. Zero-value fields fall back to the
// default normalizers, sentinel, and logger.
type Options struct {
	TreeNormalizer   *Normalizer
	NTupleNormalizer *Normalizer
	Sentinel         SentinelFunc
	Logger           *slog.Logger
}

// Checker runs the full comparison between a row-oriented source and a
// columnar source
type Checker struct {
	tree       Source
	ntuple     Source
	treeName   string
	ntupleName string
	treeCat    *Catalog
	ntupleCat  *Catalog
	reconciler *SubfieldReconciler
	logger     *slog.Logger
}

// NewChecker creates a checker over the two sources. The names are carried
// into the report for display only.
func NewChecker(tree, ntuple Source, treeName, ntupleName string, opts Options) *Checker {
	if opts.TreeNormalizer == nil {
		opts.TreeNormalizer = NewNormalizer(TreeSpellings)
	}
	if opts.NTupleNormalizer == nil {
		opts.NTupleNormalizer = NewNormalizer(NTupleSpellings)
	}
	if opts.Sentinel == nil {
		opts.Sentinel = DefaultSentinel
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Checker{
		tree:       tree,
		ntuple:     ntuple,
		treeName:   treeName,
		ntupleName: ntupleName,
		treeCat:    NewCatalog(opts.TreeNormalizer, NoSentinel),
		ntupleCat:  NewCatalog(opts.NTupleNormalizer, opts.Sentinel),
		reconciler: NewSubfieldReconciler(tree, ntuple, opts.Sentinel),
		logger:     opts.Logger,
	}
}

// Compare runs every check and assembles the report. Only failures to
// open, enumerate, or count the sources are returned as errors; data
// disagreements and per-field read failures are recorded in the report.
func (c *Checker) Compare(ctx context.Context) (*Report, error) {
	report := &Report{
		TreeName:   c.treeName,
		NTupleName: c.ntupleName,
	}

	treeEntries, err := c.tree.RowCount()
	if err != nil {
		return nil, fmt.Errorf("%w: ttree %q: %w", ErrSourceUnavailable, c.treeName, err)
	}
	ntupleEntries, err := c.ntuple.RowCount()
	if err != nil {
		return nil, fmt.Errorf("%w: rntuple %q: %w", ErrSourceUnavailable, c.ntupleName, err)
	}
	report.TreeEntries = treeEntries
	report.NTupleEntries = ntupleEntries

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.TreeFields, err = c.treeCat.Enumerate(c.tree)
	if err != nil {
		return nil, fmt.Errorf("ttree %q: %w", c.treeName, err)
	}
	report.NTupleFields, err = c.ntupleCat.Enumerate(c.ntuple)
	if err != nil {
		return nil, fmt.Errorf("rntuple %q: %w", c.ntupleName, err)
	}

	c.logger.Debug(fmt.Sprintf("Cataloged %d ttree fields, %d rntuple fields",
		len(report.TreeFields), len(report.NTupleFields)))

	report.Matches = MatchFields(report.TreeFields, report.NTupleFields)
	report.Types = classifyMatches(report.Matches)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.compareSubfields(report)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.compareDistributions(report)

	report.Passed = report.EntriesMatch() &&
		report.FieldCountsMatch() &&
		report.NamesMatch() &&
		report.TypesExact() &&
		report.SubfieldsMatch() &&
		report.DistributionsMatch()

	return report, nil
}

// classifyMatches builds the type comparison table. One-sided matches
// classify as missing with an empty spelling on the absent side.
func classifyMatches(matches []FieldMatch) []TypeComparison {
	types := make([]TypeComparison, 0, len(matches))
	for _, m := range matches {
		t := TypeComparison{Name: m.Name()}
		switch {
		case m.Complete():
			t.TreeType = m.Tree.TypeName
			t.NTupleType = m.NTuple.TypeName
			t.Class = Classify(m.Tree.Type, m.NTuple.Type)
		case m.Tree != nil:
			t.TreeType = m.Tree.TypeName
			t.Class = ClassMissing
		default:
			t.NTupleType = m.NTuple.TypeName
			t.Class = ClassMissing
		}
		t.ClassLabel = t.Class.String()
		types = append(types, t)
	}
	return types
}

// compareSubfields reconciles element counts for every matched vector
// field. Read failures are recorded as problems, not returned.
func (c *Checker) compareSubfields(report *Report) {
	for _, m := range report.Matches {
		if !m.Complete() {
			continue
		}
		if ExtractElementType(m.Tree.TypeName) == "" {
			continue
		}

		cmp, err := c.reconciler.Reconcile(m.Name(), m.Tree.TypeName, m.NTuple.TypeName)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("Subfield count failed for %s: %v", m.Name(), err))
			report.Problems = append(report.Problems,
				fmt.Sprintf("subfield count failed for %s: %v", m.Name(), err))
		}
		report.Subfields = append(report.Subfields, cmp)
	}
}

// compareDistributions pools the scalar values of matched fields per
// source, then summarizes and compares each pool
func (c *Checker) compareDistributions(report *Report) {
	treePool := newValuePool()
	ntuplePool := newValuePool()

	for _, m := range report.Matches {
		if !m.Complete() {
			continue
		}
		c.pour(c.tree, m.Tree, treePool, report)
		c.pour(c.ntuple, m.NTuple, ntuplePool, report)
	}

	for _, t := range poolOrder {
		treeValues := treePool[t]
		ntupleValues := ntuplePool[t]

		pair := DistributionPair{
			Type:      t,
			TypeLabel: t.String(),
			Tree:      Summarize(treeValues, t),
			NTuple:    Summarize(ntupleValues, t),
		}
		pair.Match = pair.Tree.Equal(pair.NTuple)
		pair.ChiSquare, pair.HasChiSquare = ChiSquare(treeValues, ntupleValues, t)
		report.Distributions = append(report.Distributions, pair)
	}
}

// pour reads one scalar field and appends its values to the pool. Vector
// and unknown types contribute nothing. A failed read leaves the pool
// untouched and records a problem.
func (c *Checker) pour(src Source, desc *FieldDescriptor, pool valuePool, report *Report) {
	var (
		values []float64
		err    error
	)

	switch desc.Type {
	case TypeInt32:
		var ints []int32
		if ints, err = src.ReadInt32(desc.Name); err == nil {
			values = make([]float64, len(ints))
			for i, v := range ints {
				values[i] = float64(v)
			}
		}
	case TypeFloat32:
		var floats []float32
		if floats, err = src.ReadFloat32(desc.Name); err == nil {
			values = make([]float64, len(floats))
			for i, v := range floats {
				values[i] = float64(v)
			}
		}
	case TypeFloat64:
		values, err = src.ReadFloat64(desc.Name)
	case TypeBool:
		var bools []bool
		if bools, err = src.ReadBool(desc.Name); err == nil {
			values = make([]float64, len(bools))
			for i, v := range bools {
				if v {
					values[i] = 1
				}
			}
		}
	default:
		return
	}

	if err != nil {
		c.logger.Warn(fmt.Sprintf("Read failed for field %s: %v", desc.Name, err))
		report.Problems = append(report.Problems,
			fmt.Sprintf("read failed for field %s: %v", desc.Name, err))
		return
	}

	pool[desc.Type] = append(pool[desc.Type], values...)
}
