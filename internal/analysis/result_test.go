package analysis

import (
	"errors"
	"image"
	"testing"
)

func TestResultErr(t *testing.T) {
	cause := errors.New("boom")

	cases := []struct {
		name      string
		res       Result
		wantOK    bool
		wantCause error
	}{
		{"success", Success("text"), true, nil},
		{"failure", Failure(cause), false, cause},
		{"nil cause", Failure(nil), false, ErrAnalysisFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.res.OK() != tc.wantOK {
				t.Fatalf("OK() = %v, want %v", tc.res.OK(), tc.wantOK)
			}
			if tc.wantCause == nil {
				if tc.res.Err() != nil {
					t.Errorf("expected nil error, got %v", tc.res.Err())
				}
				return
			}
			if !errors.Is(tc.res.Err(), ErrAnalysisFailed) {
				t.Errorf("expected ErrAnalysisFailed in %v", tc.res.Err())
			}
			if !errors.Is(tc.res.Err(), tc.wantCause) {
				t.Errorf("expected cause %v in %v", tc.wantCause, tc.res.Err())
			}
		})
	}
}

func TestFormatFailure(t *testing.T) {
	want := "Error during analysis: Connection refused\n\n" +
		"Common fixes:\n" +
		"- Ensure Ollama is running (`ollama serve` in a terminal)\n" +
		"- Confirm the llava model is pulled (`ollama pull llava:13b` or `llava:7b`)\n" +
		"- For faster performance, try the 7B model"

	if got := FormatFailure(errors.New("Connection refused")); got != want {
		t.Errorf("unexpected message:\n%s", got)
	}
}

func TestEncodePNGNil(t *testing.T) {
	if _, err := EncodePNG(nil); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestEncodePNGEmpty(t *testing.T) {
	if _, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for zero-sized image")
	}
}
