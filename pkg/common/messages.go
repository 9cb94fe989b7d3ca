// Package common provides shared logging, error-formatting, and framing
// helpers used by the TMX codec and its CLI.
package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToOpenInput      = "failed to open input file"
	ErrFailedToCreateOutput   = "failed to create output file"
	ErrFailedToReadTMX        = "failed to read TMX file"
	ErrFailedToWriteTMX       = "failed to write TMX file"
	ErrFailedToLoadRaster     = "failed to load source image"
	ErrFailedToSaveRaster     = "failed to save decoded image"
	ErrFailedToReadManifest   = "failed to read metadata manifest"
	ErrFailedToWriteManifest  = "failed to write metadata manifest"
	ErrFailedToQuantize       = "failed to quantize source image"
	ErrUnknownPixelFormat     = "unknown pixel format"
	ErrUnknownRasterExtension = "unrecognized raster file extension"
)

// Info messages
const (
	InfoParsedTMX           = "Parsed TMX: %dx%d, format=%s, mips=%d"
	InfoWroteTMX            = "Wrote TMX: %d bytes"
	InfoDecodedRaster       = "Decoded raster saved to: %s"
	InfoEncodedTMX          = "Encoded TMX saved to: %s"
	InfoQuantizedColors     = "Quantized to %d colors (requested %d)"
	InfoUsedEmbeddedPalette = "Reused embedded palette (%d colors, limit %d), skipping quantization"
	InfoWroteManifest       = "Wrote metadata manifest to: %s"
)

// Debug messages
const (
	DebugHeaderFields     = "header: flag=0x%04X user_id=%d length=%d tag=%s"
	DebugPaletteRead      = "read palette %d/%d (%d entries)"
	DebugMipRead          = "read mip %d: %dx%d"
	DebugQuantizeBoxSplit = "split box %d -> volume=%d, variance=%.2f"
)

// Warning messages
const (
	WarnZeroSizedMip      = "mip level %d has zero width or height, storing as empty"
	WarnCommentTruncated  = "comment truncated from %d to %d bytes"
	WarnSentinelWrapModes = "wrap_modes is unset (0xFF), reporting Repeat/Repeat"
	WarnCacheInvalidated  = "raster cache invalidated: requested (palette=%d, mip=%d), cached (palette=%d, mip=%d)"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}
