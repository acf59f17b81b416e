package checker

import "testing"

func descriptors(pairs ...[2]string) []FieldDescriptor {
	out := make([]FieldDescriptor, len(pairs))
	for i, p := range pairs {
		out[i] = FieldDescriptor{Name: p[0], TypeName: p[1], Index: i}
	}
	return out
}

func TestMatchFieldsOrdering(t *testing.T) {
	tree := descriptors(
		[2]string{"pt", "float"},
		[2]string{"eta", "float"},
		[2]string{"energy", "double"},
	)
	ntuple := descriptors(
		[2]string{"pt", "float"},
		[2]string{"mass", "double"},
		[2]string{"eta", "float"},
	)

	matches := MatchFields(tree, ntuple)
	if len(matches) != 4 {
		t.Fatalf("MatchFields() returned %d matches, want 4", len(matches))
	}

	// TTree order first, then RNTuple leftovers in their catalog order
	wantNames := []string{"pt", "eta", "energy", "mass"}
	for i, want := range wantNames {
		if matches[i].Name() != want {
			t.Errorf("matches[%d].Name() = %q, want %q", i, matches[i].Name(), want)
		}
	}

	if !matches[0].Complete() || !matches[1].Complete() {
		t.Error("pt and eta should be matched on both sides")
	}
	if matches[2].NTuple != nil {
		t.Error("energy should be ttree-only")
	}
	if matches[3].Tree != nil {
		t.Error("mass should be rntuple-only")
	}
}

func TestMatchFieldsConsumesEachNameOnce(t *testing.T) {
	tree := descriptors(
		[2]string{"x", "int"},
		[2]string{"x", "int"},
	)
	ntuple := descriptors(
		[2]string{"x", "std::int32_t"},
	)

	matches := MatchFields(tree, ntuple)
	if len(matches) != 2 {
		t.Fatalf("MatchFields() returned %d matches, want 2", len(matches))
	}
	if !matches[0].Complete() {
		t.Error("first x should pair with the rntuple x")
	}
	if matches[1].NTuple != nil {
		t.Error("second x should be left unpaired")
	}
}

func TestMatchFieldsEmptyCatalogs(t *testing.T) {
	if got := MatchFields(nil, nil); len(got) != 0 {
		t.Errorf("MatchFields(nil, nil) = %v, want empty", got)
	}

	ntuple := descriptors([2]string{"only", "float"})
	matches := MatchFields(nil, ntuple)
	if len(matches) != 1 || matches[0].Tree != nil {
		t.Errorf("MatchFields(nil, one) = %+v, want one rntuple-only match", matches)
	}
}
