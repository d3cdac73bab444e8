// Package assert holds the few assertions shared by the tests of this
// module. Each one stops the test on failure.
package assert

import "reflect"

// Tester is satisfied by *testing.T and *testing.B.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil accepts untyped nil and nil values of nillable kinds.
func Nil(t Tester, got interface{}) {
	t.Helper()
	if !isNil(got) {
		t.Fatalf("want nil, got %+v", got)
	}
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Equal compares with reflect.DeepEqual.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics calls fn and fails unless it panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatal("no panic")
	}
}

func panics(fn func()) (ok bool) {
	defer func() { ok = recover() != nil }()
	fn()
	return
}

// IsErr accepts got if it is want or if want.Is(got) holds, which covers
// wrapped registered errors.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want error %q, got %+v", want, got)
}
