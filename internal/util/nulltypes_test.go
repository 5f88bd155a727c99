package util

import "testing"

func TestNullInt64FromPtr(t *testing.T) {
	if n := NullInt64FromPtr(nil); n.Valid {
		t.Error("nil pointer should produce invalid NullInt64")
	}

	v := int64(7)
	n := NullInt64FromPtr(&v)
	if !n.Valid || n.Int64 != 7 {
		t.Errorf("got %+v, want valid 7", n)
	}
}

func TestPtrFromNullInt64(t *testing.T) {
	n := NullInt64FromPtr(nil)
	if p := PtrFromNullInt64(n); p != nil {
		t.Errorf("got %v, want nil", *p)
	}

	v := int64(9)
	p := PtrFromNullInt64(NullInt64FromPtr(&v))
	if p == nil || *p != 9 {
		t.Errorf("got %v, want 9", p)
	}
}
