package source

import (
	"testing"
)

func TestSpanLen(t *testing.T) {
	s := Span{File: 1, Start: 10, End: 25}
	if got := s.Len(); got != 15 {
		t.Errorf("Len() = %d, want 15", got)
	}
}

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "b extends past a on both sides",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 5, End: 25},
			expected: Span{File: 1, Start: 5, End: 25},
		},
		{
			name:     "b contained within a",
			a:        Span{File: 1, Start: 0, End: 30},
			b:        Span{File: 1, Start: 10, End: 20},
			expected: Span{File: 1, Start: 0, End: 30},
		},
		{
			name:     "disjoint files return a unchanged",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpanZeroideToEnd(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		expected Span
	}{
		{
			name:     "normal span",
			span:     Span{File: 1, Start: 10, End: 20},
			expected: Span{File: 1, Start: 20, End: 20},
		},
		{
			name:     "already zero-length span",
			span:     Span{File: 1, Start: 15, End: 15},
			expected: Span{File: 1, Start: 15, End: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ZeroideToEnd()
			if result != tt.expected {
				t.Errorf("ZeroideToEnd() = %+v, want %+v", result, tt.expected)
			}
			if result.Start != result.End {
				t.Errorf("result is not zero-length: Start=%d, End=%d", result.Start, result.End)
			}
		})
	}
}
