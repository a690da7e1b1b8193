package validate_test

import (
	"testing"

	"fieldbasket/internal/validate"
)

func TestName(t *testing.T) {
	if got, ok := validate.Name("  Amy Chen "); !ok || got != "Amy Chen" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := validate.Name("   "); ok {
		t.Fatal("blank name accepted")
	}
	long := make([]byte, 41)
	for i := range long {
		long[i] = 'a'
	}
	if _, ok := validate.Name(string(long)); ok {
		t.Fatal("41-char name accepted")
	}
}

func TestPhone(t *testing.T) {
	good := []string{"0912345678", "+886 912-345-678", "(02) 2345-6789"}
	for _, s := range good {
		if _, ok := validate.Phone(s); !ok {
			t.Errorf("rejected %q", s)
		}
	}
	bad := []string{"12345", "call me", "0912345678x99999999999"}
	for _, s := range bad {
		if _, ok := validate.Phone(s); ok {
			t.Errorf("accepted %q", s)
		}
	}
}

func TestEmail(t *testing.T) {
	if _, ok := validate.Email("t@example.com"); !ok {
		t.Fatal("rejected valid email")
	}
	for _, s := range []string{"", "nope", "a@b", "a b@example.com"} {
		if _, ok := validate.Email(s); ok {
			t.Errorf("accepted %q", s)
		}
	}
}

func TestLast5(t *testing.T) {
	if _, ok := validate.Last5("12345"); !ok {
		t.Fatal("rejected 12345")
	}
	for _, s := range []string{"1234", "123456", "12a45", ""} {
		if _, ok := validate.Last5(s); ok {
			t.Errorf("accepted %q", s)
		}
	}
}

func TestCodeAndOrderID(t *testing.T) {
	if _, ok := validate.Code("TEA-OOLONG"); !ok {
		t.Fatal("rejected valid code")
	}
	for _, s := range []string{"", "has space", "semi;colon"} {
		if _, ok := validate.Code(s); ok {
			t.Errorf("accepted code %q", s)
		}
	}
	if _, ok := validate.OrderID("Ab1_2"); !ok {
		t.Fatal("rejected valid order id")
	}
	for _, s := range []string{"abcd", "abcdef", "ab!de"} {
		if _, ok := validate.OrderID(s); ok {
			t.Errorf("accepted order id %q", s)
		}
	}
}

func TestOptionalTruncates(t *testing.T) {
	if got := validate.Optional("  hello  ", 60); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := validate.Optional("abcdefgh", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
