package pkg

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "stylec" {
		t.Errorf("Name = %q, want stylec", Name)
	}

	if Description == "" {
		t.Error("Description is empty")
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v == "" || strings.ContainsAny(v, " \n") {
		t.Errorf("Version() = %q", v)
	}

	if parts := strings.Split(v, "."); len(parts) != 3 {
		t.Errorf("Version() = %q, want major.minor.patch", v)
	}
}

func TestError(t *testing.T) {
	err := ErrWriteOutput.Wrap(io.ErrShortWrite)

	if !errors.Is(err, ErrWriteOutput) {
		t.Error("wrapped error does not match its sentinel")
	}

	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("wrapped error does not match its cause")
	}

	if errors.Is(err, ErrJSONMarshal) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if got, want := err.Error(), "failed to write output: short write"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if len(ErrWriteOutput) != 1 {
		t.Errorf("Wrap modified the sentinel: %v", ErrWriteOutput)
	}
}

func TestUnwrapErrors(t *testing.T) {
	inner := errors.New("inner")
	outer := errors.Join(inner, io.EOF)

	chain := UnwrapErrors(outer)
	if len(chain) != 3 || chain[0] != inner || chain[1] != io.EOF {
		t.Errorf("UnwrapErrors() = %v", chain)
	}

	if UnwrapErrors(nil) != nil {
		t.Error("UnwrapErrors(nil) is not nil")
	}
}
