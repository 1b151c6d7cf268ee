package render

import (
	"slices"
	"testing"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "fits",
			text:  "need tp",
			width: 10,
			want:  []string{"need tp"},
		},
		{
			name:  "word boundary",
			text:  "anyone selling runes",
			width: 10,
			want:  []string{"anyone", "selling", "runes"},
		},
		{
			name:  "pure wide runes",
			text:  "你好世界",
			width: 4,
			want:  []string{"你好", "世界"},
		},
		{
			name:  "mix wide and ascii",
			text:  "你好 hello",
			width: 4,
			want:  []string{"你好", "hell", "o"},
		},
		{
			name:  "keeps empty lines",
			text:  "a\n\nb",
			width: 4,
			want:  []string{"a", "", "b"},
		},
		{
			name:  "no width",
			text:  "anything goes here",
			width: 0,
			want:  []string{"anything goes here"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.width)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("wrapText(%q,%d)=%v want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
