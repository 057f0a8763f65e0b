package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		if !l.Allow("client", 5, 1) {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if l.Allow("client", 5, 1) {
		t.Fatalf("request beyond burst should be denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		l.Allow("a", 3, 1)
	}
	if l.Allow("a", 3, 1) {
		t.Fatalf("key a should be exhausted")
	}
	if !l.Allow("b", 3, 1) {
		t.Fatalf("key b should have its own bucket")
	}
}
