package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirmAnswers(t *testing.T) {
	cases := []struct {
		input      string
		defaultYes bool
		want       bool
	}{
		{"y\n", false, true},
		{"yes\n", false, true},
		{"n\n", true, false},
		{"no\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"garbage\n", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tc.input), &out, "proceed?", tc.defaultYes, false)
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tc.want {
				t.Errorf("Confirm(%q, defaultYes=%v) = %v, want %v", tc.input, tc.defaultYes, got, tc.want)
			}
		})
	}
}

func TestConfirmHidePromptsSkipsRead(t *testing.T) {
	var out bytes.Buffer
	got, err := Confirm(strings.NewReader(""), &out, "proceed?", true, true)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !got {
		t.Error("hidden prompt should return defaultYes without reading input")
	}
	if !strings.Contains(out.String(), "skipped") {
		t.Errorf("output = %q, want a [skipped] marker", out.String())
	}
}
