package checksum

import "testing"

func TestSumKnownVector(t *testing.T) {
	got := Sum([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Sum(abc) = %q, want %q", got, want)
	}
}

func TestSumJSONStable(t *testing.T) {
	v := map[string]int{"b": 2, "a": 1}
	a, err := SumJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := SumJSON(map[string]int{"a": 1, "b": 2})
	if a != b {
		t.Errorf("digests differ for equal maps: %s vs %s", a, b)
	}
	if a != Sum([]byte(`{"a":1,"b":2}`)) {
		t.Errorf("SumJSON does not match Sum of encoding")
	}
}
