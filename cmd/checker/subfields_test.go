package checker

import (
	"errors"
	"testing"
)

func TestExtractElementType(t *testing.T) {
	tests := []struct {
		typeName string
		want     string
	}{
		{"vector<float>", "float"},
		{"std::vector<std::int32_t>", "std::int32_t"},
		{"vector<vector<float>>", "vector<float>"}, // outermost brackets
		{"list<int32>", "int32"},
		{"float", ""},
		{"vector<", ""},
		{">vector<", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			if got := ExtractElementType(tt.typeName); got != tt.want {
				t.Errorf("ExtractElementType(%q) = %q, want %q", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestReconcileMatchingElements(t *testing.T) {
	tree := &memSource{lengths: map[string][]uint64{"hits": {2, 0, 3}}}
	ntuple := &memSource{lengths: map[string][]uint64{"hits": {1, 4}}}

	r := NewSubfieldReconciler(tree, ntuple, DefaultSentinel)
	cmp, err := r.Reconcile("hits", "vector<float>", "std::vector<float>")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if cmp.TreeTotal != 5 {
		t.Errorf("TreeTotal = %d, want 5", cmp.TreeTotal)
	}
	if cmp.NTupleTotal != 5 {
		t.Errorf("NTupleTotal = %d, want 5", cmp.NTupleTotal)
	}
	if !cmp.Matches() {
		t.Error("totals agree, Matches() should be true")
	}
}

func TestReconcileElementTypeDisagreement(t *testing.T) {
	tree := &memSource{lengths: map[string][]uint64{"hits": {3}}}
	ntuple := &memSource{lengths: map[string][]uint64{"hits": {3}}}

	r := NewSubfieldReconciler(tree, ntuple, nil)
	cmp, err := r.Reconcile("hits", "vector<float>", "std::vector<double>")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// Columnar side counts only when its element type agrees
	if cmp.TreeTotal != 3 {
		t.Errorf("TreeTotal = %d, want 3", cmp.TreeTotal)
	}
	if cmp.NTupleTotal != 0 {
		t.Errorf("NTupleTotal = %d, want 0", cmp.NTupleTotal)
	}
}

func TestReconcileUnsupportedElements(t *testing.T) {
	tree := &memSource{lengths: map[string][]uint64{"tags": {7}}}
	ntuple := &memSource{lengths: map[string][]uint64{"tags": {7}}}

	tests := []struct {
		name       string
		treeType   string
		ntupleType string
	}{
		{"strings", "vector<string>", "std::vector<std::string>"},
		{"unsigned", "vector<uint32>", "std::vector<std::uint32_t>"},
	}

	r := NewSubfieldReconciler(tree, ntuple, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := r.Reconcile("tags", tt.treeType, tt.ntupleType)
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if cmp.TreeTotal != 0 || cmp.NTupleTotal != 0 {
				t.Errorf("totals = %d, %d, want 0, 0", cmp.TreeTotal, cmp.NTupleTotal)
			}
		})
	}
}

func TestReconcileSentinelSkipsColumnarSide(t *testing.T) {
	tree := &memSource{lengths: map[string][]uint64{"_0": {2}}}
	ntuple := &memSource{lengths: map[string][]uint64{"_0": {9}}}

	r := NewSubfieldReconciler(tree, ntuple, DefaultSentinel)
	cmp, err := r.Reconcile("_0", "vector<int>", "std::vector<std::int32_t>")
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if cmp.TreeTotal != 2 {
		t.Errorf("TreeTotal = %d, want 2", cmp.TreeTotal)
	}
	if cmp.NTupleTotal != 0 {
		t.Errorf("NTupleTotal = %d, want 0 for sentinel field", cmp.NTupleTotal)
	}
}

func TestReconcileReadFailure(t *testing.T) {
	tree := &memSource{failReads: map[string]bool{"hits": true}}
	ntuple := &memSource{lengths: map[string][]uint64{"hits": {1}}}

	r := NewSubfieldReconciler(tree, ntuple, nil)
	if _, err := r.Reconcile("hits", "vector<int>", "std::vector<std::int32_t>"); !errors.Is(err, ErrFieldUnreadable) {
		t.Errorf("Reconcile() error = %v, want ErrFieldUnreadable", err)
	}
}
