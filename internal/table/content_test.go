package table

import (
	"math"
	"testing"

	"github.com/yildizm/statelist/internal/state"
	st "github.com/yildizm/statelist/internal/state/statetest"
)

func TestLoadingFrameWraps(t *testing.T) {
	l := NewLoading("Fetching")
	n := len(loadingFrames)

	tests := []struct {
		name  string
		frame int
		want  int
	}{
		{"first", 0, 0},
		{"wraps forward", n + 1, 1},
		{"negative", -1, n - 1},
		{"min int", math.MinInt, ((math.MinInt % n) + n) % n},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := l.Render(st.Surface{F: tt.frame}, state.Path(0, 0))
			if want := loadingFrames[tt.want] + " Fetching"; cell.Text != want {
				t.Errorf("Expected %q, got %q", want, cell.Text)
			}
		})
	}
}
