package cache

import (
	"strings"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key("u1", "Backend Engineer, Go, 3 years")
	b := Key("u1", "Backend Engineer, Go, 3 years")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestKeyNormalizesWhitespaceAndCase(t *testing.T) {
	a := Key("u1", "Backend  Engineer,\n Go")
	b := Key("u1", "backend engineer, go")
	if a != b {
		t.Fatalf("expected normalized keys to match, got %q and %q", a, b)
	}
}

func TestKeyOwnerScoped(t *testing.T) {
	a := Key("u1", "Backend Engineer")
	b := Key("u2", "Backend Engineer")
	if a == b {
		t.Fatal("expected different owners to yield different keys")
	}
}

func TestKeyLongDescriptionsWithSharedPrefixDiffer(t *testing.T) {
	base := strings.Repeat("senior backend engineer ", 5)
	a := Key("u1", base+"with kubernetes")
	b := Key("u1", base+"with terraform")
	if a == b {
		t.Fatal("expected checksum to separate descriptions sharing a slug prefix")
	}
}

func TestKeyFormat(t *testing.T) {
	key := Key("u1", "Backend Engineer, Go, 3 years")
	if !strings.HasPrefix(key, "analysis:u1:") {
		t.Fatalf("unexpected key prefix: %q", key)
	}
}
