package vds

import (
	"errors"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("underlying cause")
	cases := []struct {
		err    error
		target error
	}{
		{NewVerifyError("verify", cause), ErrVerify},
		{NewDecodeError("item", cause), ErrDecode},
		{NewGroupError("pairing", cause), ErrGroup},
		{NewStorageError("get_item", cause), ErrStorage},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.target) {
			t.Fatalf("errors.Is(%v, %v) = false", c.err, c.target)
		}
		if !errors.Is(c.err, cause) {
			t.Fatalf("errors.Is(%v, cause) = false, wrapping chain broken", c.err)
		}
	}
}

func TestRootDigestEqual(t *testing.T) {
	a := RootDigest([]byte{1, 2, 3})
	b := RootDigest([]byte{1, 2, 3})
	c := RootDigest([]byte{1, 2, 4})
	if !a.Equal(b) {
		t.Fatalf("identical digests compared unequal")
	}
	if a.Equal(c) {
		t.Fatalf("differing digests compared equal")
	}
}
