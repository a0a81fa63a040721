package expiry

import "testing"

func TestFlagHas(t *testing.T) {
	f := OffLRU | Dying
	if !f.has(OffLRU) {
		t.Fatal("expected OffLRU set")
	}
	if !f.has(Dying) {
		t.Fatal("expected Dying set")
	}
	if f.has(Insert) {
		t.Fatal("Insert must not be set")
	}
	if f.has(Move) || f.has(Busy) {
		t.Fatal("only OffLRU and Dying should read as set")
	}
}
