package preview

// place positions a w×h container relative to the captured pointer origin.
// The default placement is the pointer offset right and down; if that would
// overflow the viewport's right or bottom edge the container flips to the
// opposite side of the pointer on that axis. Coordinates never go negative.
// An unknown viewport (zero) disables the flip on that axis.
func place(at origin, w, h int, tun Tunables) Position {
	x := at.x + tun.OffsetX
	if at.viewportW > 0 && x+w > at.viewportW {
		x = at.x - tun.OffsetX - w
	}

	y := at.y + tun.OffsetY
	if at.viewportH > 0 && y+h > at.viewportH {
		y = at.y - tun.OffsetY - h
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Position{X: x, Y: y}
}
