package writing

import (
	"testing"
)

func TestToPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "hello world", "hello world"},
		{"simple tags", "<p>hello world</p>", "hello world"},
		{"adjacent blocks", "<p>first</p><p>second</p>", "first second"},
		{"nested tags", "<div><strong>bold</strong> and <em>italic</em></div>", "bold and italic"},
		{"entities", "Tom &amp; Jerry &lt;3", "Tom & Jerry <3"},
		{"nbsp", "one&nbsp;two", "one two"},
		{"image contributes nothing", `<p>before</p><img src="x.png"/><p>after</p>`, "before after"},
		{"whitespace runs", "a   b\n\t c", "a b c"},
		{"only markup", "<br/><img src='x'/>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPlainText(tt.in); got != tt.want {
				t.Errorf("ToPlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"single word", "hello", 1},
		{"multiple words", "the quick brown fox", 4},
		{"extra spaces", "  a   b  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.in); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountContentWords(t *testing.T) {
	if got := CountContentWords("<p>one two</p><p>three</p>"); got != 3 {
		t.Errorf("CountContentWords = %d, want 3", got)
	}
}
