package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  東京  ", want: "東京"},
		{name: "trim ideographic space", input: "　猫　", want: "猫"},
		{name: "compress multiple spaces", input: "東京   に", want: "東京 に"},
		{name: "newlines become one space", input: "行く\n\n\tよ", want: "行く よ"},
		{name: "punctuation preserved", input: "「猫」。", want: "「猫」。"},
		{name: "latin preserved", input: "Hello World", want: "Hello World"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: " 　 ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
