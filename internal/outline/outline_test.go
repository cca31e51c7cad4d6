package outline

import "testing"

func TestCountWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"two words", 2},
		{"  spaced   out  words  ", 3},
		{"line\nbreaks\tcount", 3},
	}
	for _, c := range cases {
		if got := CountWords(c.text); got != c.want {
			t.Errorf("CountWords(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestTotalWords(t *testing.T) {
	sections := []*Section{
		{Title: "A", Words: 10, Sections: []*Section{
			{Title: "A.1", Words: 5},
			{Title: "A.2", Words: 3, Sections: []*Section{
				{Title: "A.2.1", Words: 2},
			}},
		}},
		{Title: "B", Words: 7},
	}
	if got := TotalWords(sections); got != 27 {
		t.Errorf("TotalWords = %d, want 27", got)
	}
	if got := TotalWords(nil); got != 0 {
		t.Errorf("TotalWords(nil) = %d, want 0", got)
	}
}
