// Package loader fetches images over HTTP and probes their intrinsic
// dimensions. Each Load call reports exactly one outcome — an Info with
// measured dimensions, or an error — with no retries. Decoding supports
// png/jpeg/gif from the standard library plus webp and bmp via
// golang.org/x/image; SVG responses are accepted without dimensions.
package loader
