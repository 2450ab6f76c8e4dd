package db

import "testing"

func TestVectorParam(t *testing.T) {
	got := VectorParam([]float32{0.1, -0.25, 2})
	want := "[0.1,-0.25,2]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVectorParam_Empty(t *testing.T) {
	if got := VectorParam(nil); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}
