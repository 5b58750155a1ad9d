package preview

import "testing"

func TestPlace(t *testing.T) {
	tun := Tunables{OffsetX: 20, OffsetY: 20}

	cases := []struct {
		name string
		at   origin
		w, h int
		want Position
	}{
		{
			name: "default offset right and down",
			at:   origin{x: 100, y: 100, viewportW: 1920, viewportH: 1080},
			w:    300, h: 200,
			want: Position{X: 120, Y: 120},
		},
		{
			name: "flips left at right edge",
			at:   origin{x: 1800, y: 100, viewportW: 1920, viewportH: 1080},
			w:    300, h: 200,
			want: Position{X: 1800 - 20 - 300, Y: 120},
		},
		{
			name: "flips up at bottom edge",
			at:   origin{x: 100, y: 1000, viewportW: 1920, viewportH: 1080},
			w:    300, h: 200,
			want: Position{X: 120, Y: 1000 - 20 - 200},
		},
		{
			name: "flips both at the corner",
			at:   origin{x: 1900, y: 1060, viewportW: 1920, viewportH: 1080},
			w:    300, h: 200,
			want: Position{X: 1900 - 20 - 300, Y: 1060 - 20 - 200},
		},
		{
			name: "exact fit does not flip",
			at:   origin{x: 100, y: 100, viewportW: 420, viewportH: 320},
			w:    300, h: 200,
			want: Position{X: 120, Y: 120},
		},
		{
			name: "clamped at zero when flip would go negative",
			at:   origin{x: 10, y: 10, viewportW: 50, viewportH: 50},
			w:    300, h: 200,
			want: Position{X: 0, Y: 0},
		},
		{
			name: "unknown viewport never flips",
			at:   origin{x: 5000, y: 5000},
			w:    300, h: 200,
			want: Position{X: 5020, Y: 5020},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := place(tc.at, tc.w, tc.h, tun)
			if got != tc.want {
				t.Errorf("place: got %+v, want %+v", got, tc.want)
			}
		})
	}
}
