package tmx

import "github.com/pkg/errors"

// ErrInvalidFormat is returned when the container tag does not match
// "TMX0" or a header field violates a pixel_format/palette_count
// invariant.
var ErrInvalidFormat = errors.New("tmx: invalid format")

// ErrUnsupportedPixelFormat is returned when from_raster is asked for a
// pixel format outside the thirteen supported PSM variants.
var ErrUnsupportedPixelFormat = errors.New("tmx: unsupported pixel format")

// ErrZeroSizedMip is returned on encode when a requested mip count
// would produce a mip level with zero width or height. Parse never
// returns this error; a zero-sized mip read from an existing file is
// accepted as-is, matching real assets produced by lenient encoders.
var ErrZeroSizedMip = errors.New("tmx: mip level has zero width or height")
