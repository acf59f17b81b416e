package checker

import (
	"fmt"
	"strings"
)

// ExtractElementType returns the token between the first '<' and the last
// '>' of a collection type spelling, so nested collections keep their full
// inner spelling. Returns "" when the spelling has no such pair.
func ExtractElementType(typeName string) string {
	open := strings.Index(typeName, "<")
	if open < 0 {
		return ""
	}
	end := strings.LastIndex(typeName, ">")
	if end <= open {
		return ""
	}
	return typeName[open+1 : end]
}

// canonicalElement reduces an element type spelling to one of the four
// supported element tokens, or "" when the element cannot be counted.
// Unsigned integers look like "int" spellings but are not countable.
func canonicalElement(elem string) string {
	switch {
	case elem == "":
		return ""
	case strings.Contains(elem, "uint"):
		return ""
	case strings.Contains(elem, "double"):
		return "double"
	case strings.Contains(elem, "float"):
		return "float"
	case strings.Contains(elem, "bool"):
		return "bool"
	case strings.Contains(elem, "int"):
		return "int"
	default:
		return ""
	}
}

// SubfieldReconciler counts collection elements across both sources for
// vector fields matched by name
type SubfieldReconciler struct {
	tree     Source
	ntuple   Source
	sentinel SentinelFunc
}

// NewSubfieldReconciler creates a reconciler over the two sources. A nil
// sentinel keeps every columnar field countable.
func NewSubfieldReconciler(tree, ntuple Source, sentinel SentinelFunc) *SubfieldReconciler {
	if sentinel == nil {
		sentinel = NoSentinel
	}
	return &SubfieldReconciler{tree: tree, ntuple: ntuple, sentinel: sentinel}
}

// Reconcile counts elements of one vector field on both sides. The
// row-side total is counted whenever its element type is supported. The
// columnar side is counted only when its own spelling describes a
// collection of the same element type; otherwise it reports zero.
func (r *SubfieldReconciler) Reconcile(name, treeType, ntupleType string) (SubfieldComparison, error) {
	cmp := SubfieldComparison{
		FieldName:  name,
		TreeElem:   ExtractElementType(treeType),
		NTupleElem: ExtractElementType(ntupleType),
	}

	treeToken := canonicalElement(cmp.TreeElem)
	if treeToken != "" {
		total, err := sumLengths(r.tree, name)
		if err != nil {
			return cmp, fmt.Errorf("%w: %s: %w", ErrFieldUnreadable, name, err)
		}
		cmp.TreeTotal = total
	}

	if r.sentinel(name, -1, -1) {
		return cmp, nil
	}

	ntupleToken := canonicalElement(cmp.NTupleElem)
	if ntupleToken != "" && ntupleToken == treeToken {
		total, err := sumLengths(r.ntuple, name)
		if err != nil {
			return cmp, fmt.Errorf("%w: %s: %w", ErrFieldUnreadable, name, err)
		}
		cmp.NTupleTotal = total
	}

	return cmp, nil
}

func sumLengths(src Source, name string) (uint64, error) {
	lengths, err := src.ReadVectorLengths(name)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, l := range lengths {
		total += l
	}
	return total, nil
}
