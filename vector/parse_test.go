package vector

import (
	"errors"
	"math"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

// parseArray feeds src through a decoder the way the write path does: the
// caller consumes the array-start token, ParseValue takes the rest.
func parseArray(t *testing.T, d *Descriptor, src string) ([]float32, error) {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		t.Fatalf("reading array start: %v", err)
	}
	if tok != json.Delim('[') {
		t.Fatalf("test input must start with an array, got %v", tok)
	}
	return ParseValue(dec, d, "doc-1")
}

func TestParseValue_ExactArity(t *testing.T) {
	d := newTestDescriptor(t, 4, FormatV2)

	got, err := parseArray(t, d, `[0.5, -1.25, 3, 42.0]`)
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	want := []float32{0.5, -1.25, 3, 42}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseValue_IntegerLiterals(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	got, err := parseArray(t, d, `[1, 2, 3]`)
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("values = %v, want [1 2 3]", got)
	}
}

func TestParseValue_Oversize(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	_, err := parseArray(t, d, `[1, 2, 3, 4, 5]`)
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("error = %v, want ArityError", err)
	}
	if arity.Declared != 3 || arity.Actual != 4 {
		t.Fatalf("arity = %d/%d, want 4/3", arity.Actual, arity.Declared)
	}
	if !strings.Contains(arity.Error(), "exceeds") {
		t.Fatalf("message %q does not report the exceeded bound", arity.Error())
	}
}

func TestParseValue_OversizeFailsBeforeTail(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	// Everything past the declared bound is malformed. A parser that kept
	// tokenizing would surface a syntax error instead of the arity error.
	_, err := parseArray(t, d, `[1, 2, 3, !!not json!!`)
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("error = %v, want ArityError before the malformed tail", err)
	}
}

func TestParseValue_Undersize(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	_, err := parseArray(t, d, `[1, 2]`)
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("error = %v, want ArityError", err)
	}
	if arity.Declared != 3 || arity.Actual != 2 {
		t.Fatalf("arity = %d/%d, want 2/3", arity.Actual, arity.Declared)
	}
	if !strings.Contains(arity.Error(), "fewer") {
		t.Fatalf("message %q does not report the shortfall", arity.Error())
	}
}

func TestParseValue_EmptyArray(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	_, err := parseArray(t, d, `[]`)
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("error = %v, want ArityError", err)
	}
	if arity.Actual != 0 {
		t.Fatalf("actual = %d, want 0", arity.Actual)
	}
}

func TestParseValue_TypeMismatch(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	cases := []struct {
		name  string
		src   string
		pos   int
		token string
	}{
		{"string", `[0.5, "x", 1]`, 1, "a string"},
		{"boolean", `[true, 1, 2]`, 0, "a boolean"},
		{"null", `[1, 2, null]`, 2, "null"},
		{"nested array", `[1, [2], 3]`, 1, "a nested array"},
		{"object", `[{"a": 1}, 2, 3]`, 0, "an object"},
	}
	for _, tc := range cases {
		_, err := parseArray(t, d, tc.src)
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("%s: error = %v, want TypeMismatchError", tc.name, err)
		}
		if mismatch.Position != tc.pos {
			t.Fatalf("%s: position = %d, want %d", tc.name, mismatch.Position, tc.pos)
		}
		if mismatch.Token != tc.token {
			t.Fatalf("%s: token = %q, want %q", tc.name, mismatch.Token, tc.token)
		}
	}
}

func TestParseValue_RangeSaturates(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	got, err := parseArray(t, d, `[1e50, -1e50, 1e-60]`)
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if !math.IsInf(float64(got[0]), 1) {
		t.Fatalf("values[0] = %v, want +Inf", got[0])
	}
	if !math.IsInf(float64(got[1]), -1) {
		t.Fatalf("values[1] = %v, want -Inf", got[1])
	}
	if got[2] != 0 {
		t.Fatalf("values[2] = %v, want 0", got[2])
	}
}
