package checker

import "errors"

var errReadBroken = errors.New("read broken")

// memSource is an in-memory Source for tests
type memSource struct {
	rows    uint64
	fields  []NativeField
	ints    map[string][]int32
	floats  map[string][]float32
	doubles map[string][]float64
	bools   map[string][]bool
	lengths map[string][]uint64

	failRowCount bool
	failFields   bool
	failReads    map[string]bool
}

func (m *memSource) RowCount() (uint64, error) {
	if m.failRowCount {
		return 0, errReadBroken
	}
	return m.rows, nil
}

func (m *memSource) Fields() ([]NativeField, error) {
	if m.failFields {
		return nil, errReadBroken
	}
	return m.fields, nil
}

func (m *memSource) readFails(field string) bool {
	return m.failReads != nil && m.failReads[field]
}

func (m *memSource) ReadInt32(field string) ([]int32, error) {
	if m.readFails(field) {
		return nil, errReadBroken
	}
	return m.ints[field], nil
}

func (m *memSource) ReadFloat32(field string) ([]float32, error) {
	if m.readFails(field) {
		return nil, errReadBroken
	}
	return m.floats[field], nil
}

func (m *memSource) ReadFloat64(field string) ([]float64, error) {
	if m.readFails(field) {
		return nil, errReadBroken
	}
	return m.doubles[field], nil
}

func (m *memSource) ReadBool(field string) ([]bool, error) {
	if m.readFails(field) {
		return nil, errReadBroken
	}
	return m.bools[field], nil
}

func (m *memSource) ReadVectorLengths(field string) ([]uint64, error) {
	if m.readFails(field) {
		return nil, errReadBroken
	}
	return m.lengths[field], nil
}

func (m *memSource) Close() error {
	return nil
}
