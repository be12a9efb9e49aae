package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"plain note":                            "plain note",
		"<b>bold</b> move":                      "bold move",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "alert(1)",
		"  padded  ":                            "padded",
		"line one\nline two":                    "line one\nline two",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	if got := Line("  Pine   River\tCapital \n"); got != "Pine River Capital" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestLinePtr(t *testing.T) {
	if LinePtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
	blank := "   "
	if LinePtr(&blank) != nil {
		t.Fatal("expected nil for blank input")
	}
	title := " Portfolio  Manager "
	if got := LinePtr(&title); got == nil || *got != "Portfolio Manager" {
		t.Fatalf("unexpected title: %v", got)
	}
}
