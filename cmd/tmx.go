// Package cmd provides command-line interface for TMX texture processing.
// This file contains commands for decoding, encoding, and inspecting
// TMX texture files used in PlayStation 2 games.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/hansbonini/tmxtools/pkg/raster"
	"github.com/hansbonini/tmxtools/pkg/tmx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// tmxCmd represents the parent command for all TMX texture operations.
var tmxCmd = &cobra.Command{
	Use:   "tmx",
	Short: "Process TMX texture files from PlayStation 2 games",
	Long: `Process TMX texture containers used in PlayStation 2 games.

Commands:
  decode    Convert a TMX file to a PNG/BMP raster plus a YAML metadata sidecar
  encode    Convert a PNG/BMP raster plus metadata back into a TMX file
  info      Print a TMX file's header fields without writing any output

Examples:
  tmxtools tmx decode TEXTURE.TMX texture.png
  tmxtools tmx encode texture.png TEXTURE.TMX --format PSMT8
  tmxtools tmx info TEXTURE.TMX`,
}

// metadata is the YAML sidecar format carrying the TMX fields a decode
// → encode round trip needs to reconstruct an equivalent container.
type metadata struct {
	PixelFormat   string `yaml:"pixel_format"`
	MipCount      int    `yaml:"mip_count"`
	WrapX         string `yaml:"wrap_x"`
	WrapY         string `yaml:"wrap_y"`
	UserTextureID int32  `yaml:"user_texture_id"`
	UserClutID    int32  `yaml:"user_clut_id"`
	Comment       string `yaml:"comment"`
}

func wrapModeName(w tmx.WrapMode) string {
	if w == tmx.WrapClamp {
		return "clamp"
	}
	return "repeat"
}

func parseWrapModeName(s string) tmx.WrapMode {
	if strings.EqualFold(s, "clamp") {
		return tmx.WrapClamp
	}
	return tmx.WrapRepeat
}

// tmxDecodeCmd converts a TMX file into a raster image and a metadata
// sidecar YAML file.
var tmxDecodeCmd = &cobra.Command{
	Use:   "decode [input.tmx] [output.png]",
	Short: "Decode a TMX file to a raster image",
	Long: `Decode a TMX texture file into a PNG or BMP raster image, plus a
YAML metadata sidecar carrying the fields needed to re-encode it.

Example:
  tmxtools tmx decode TEXTURE.TMX texture.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := args[1]

		verbose, _ := cmd.Flags().GetBool("verbose")
		common.SetVerboseMode(verbose)

		paletteIndex, _ := cmd.Flags().GetInt("palette")
		mipIndex, _ := cmd.Flags().GetInt("mip")

		file, err := os.Open(inputFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenInput, err)
		}
		defer file.Close()

		img, err := tmx.Parse(file)
		if err != nil {
			return common.FormatError(common.ErrFailedToReadTMX, err)
		}

		r, err := tmx.ToRaster(img, paletteIndex, mipIndex)
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadRaster, err)
		}

		if err := r.Save(outputFile); err != nil {
			return common.FormatError(common.ErrFailedToSaveRaster, err)
		}
		common.LogInfo(common.InfoDecodedRaster, outputFile)

		meta := metadata{
			PixelFormat:   img.PixelFormat.String(),
			MipCount:      int(img.MipCount),
			WrapX:         wrapModeName(img.WrapModeX()),
			WrapY:         wrapModeName(img.WrapModeY()),
			UserTextureID: img.UserTextureID,
			UserClutID:    img.UserClutID,
			Comment:       img.Comment(),
		}
		metaPath := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".yaml"
		if err := writeMetadata(metaPath, meta); err != nil {
			return common.FormatError(common.ErrFailedToWriteManifest, err)
		}
		common.LogInfo(common.InfoWroteManifest, metaPath)

		fmt.Printf("Decoded %s -> %s\n", inputFile, outputFile)
		return nil
	},
}

// tmxEncodeCmd converts a raster image (plus optional metadata sidecar)
// into a TMX file.
var tmxEncodeCmd = &cobra.Command{
	Use:   "encode [input.png] [output.tmx]",
	Short: "Encode a raster image into a TMX file",
	Long: `Encode a PNG or BMP raster image into a TMX texture file. Indexed
pixel formats reuse the source's own palette when it is already paletted
and fits the format, and are otherwise quantized with Wu's algorithm. A
YAML metadata sidecar (named after the input by default) supplies the
comment, user ids and wrap modes; the pixel format comes from --format.

Example:
  tmxtools tmx encode texture.png TEXTURE.TMX --format PSMT8`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		outputFile := args[1]

		verbose, _ := cmd.Flags().GetBool("verbose")
		common.SetVerboseMode(verbose)

		formatName, _ := cmd.Flags().GetString("format")
		commentFlag, _ := cmd.Flags().GetString("comment")
		metaPathFlag, _ := cmd.Flags().GetString("metadata")

		format, err := gs.ParsePixelFormat(formatName)
		if err != nil {
			return common.FormatError(common.ErrUnknownPixelFormat, err)
		}

		r, err := raster.Load(inputFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadRaster, err)
		}

		comment := commentFlag
		var meta metadata
		metaPath := metaPathFlag
		if metaPath == "" {
			metaPath = strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".yaml"
		}
		if _, statErr := os.Stat(metaPath); statErr == nil {
			if meta, err = readMetadata(metaPath); err != nil {
				return common.FormatError(common.ErrFailedToReadManifest, err)
			}
			if comment == "" {
				comment = meta.Comment
			}
		}

		img, err := tmx.FromRaster(r, format, comment)
		if err != nil {
			return common.FormatError(common.ErrFailedToQuantize, err)
		}
		img.UserTextureID = meta.UserTextureID
		img.UserClutID = meta.UserClutID
		if meta.WrapX != "" || meta.WrapY != "" {
			img.WrapModes = 0
			img.SetWrapModeX(parseWrapModeName(meta.WrapX))
			img.SetWrapModeY(parseWrapModeName(meta.WrapY))
		}

		out, err := os.Create(outputFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToCreateOutput, err)
		}
		defer out.Close()

		if err := tmx.Serialize(out, img); err != nil {
			return common.FormatError(common.ErrFailedToWriteTMX, err)
		}
		common.LogInfo(common.InfoEncodedTMX, outputFile)

		fmt.Printf("Encoded %s -> %s (%s)\n", inputFile, outputFile, format)
		return nil
	},
}

// tmxInfoCmd prints a TMX file's header fields without writing output.
var tmxInfoCmd = &cobra.Command{
	Use:   "info [input.tmx]",
	Short: "Print a TMX file's header fields",
	Long: `Parse a TMX texture file and print its header fields: dimensions,
pixel format, palette count, mip count, wrap modes, and comment.

Example:
  tmxtools tmx info TEXTURE.TMX`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		file, err := os.Open(inputFile)
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenInput, err)
		}
		defer file.Close()

		img, err := tmx.Parse(file)
		if err != nil {
			return common.FormatError(common.ErrFailedToReadTMX, err)
		}

		fmt.Printf("Dimensions:    %dx%d\n", img.Width, img.Height)
		fmt.Printf("Pixel format:  %s\n", img.PixelFormat)
		if img.IsIndexed() {
			fmt.Printf("Palettes:      %d x %d colors (%s)\n", len(img.Palettes), img.PaletteColorCount(), img.PaletteFormat)
		}
		fmt.Printf("Mip count:     %d\n", img.MipCount)
		fmt.Printf("Mip K/L:       %.4f / %d\n", img.MipK(), img.MipL())
		fmt.Printf("Wrap modes:    %s / %s\n", wrapModeName(img.WrapModeX()), wrapModeName(img.WrapModeY()))
		fmt.Printf("User texture:  %d\n", img.UserTextureID)
		fmt.Printf("User clut:     %d\n", img.UserClutID)
		fmt.Printf("Comment:       %q\n", img.Comment())

		return nil
	},
}

func writeMetadata(path string, meta metadata) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(meta)
}

func readMetadata(path string) (metadata, error) {
	var meta metadata
	file, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&meta); err != nil {
		return meta, fmt.Errorf("failed to decode metadata file: %w", err)
	}
	return meta, nil
}

func init() {
	rootCmd.AddCommand(tmxCmd)

	tmxCmd.AddCommand(tmxDecodeCmd)
	tmxCmd.AddCommand(tmxEncodeCmd)
	tmxCmd.AddCommand(tmxInfoCmd)

	tmxDecodeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output with detailed field information")
	tmxDecodeCmd.Flags().Int("palette", 0, "Palette index to use when decoding an indexed image")
	tmxDecodeCmd.Flags().Int("mip", -1, "Mip level to decode (-1 for the base level)")

	tmxEncodeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output with detailed field information")
	tmxEncodeCmd.Flags().String("format", "PSMCT32", "Target PS2 pixel format (e.g. PSMCT32, PSMT8, PSMT4)")
	tmxEncodeCmd.Flags().String("comment", "", "user_comment to embed (overrides the metadata sidecar)")
	tmxEncodeCmd.Flags().String("metadata", "", "Path to the YAML metadata sidecar (defaults to the input path with a .yaml extension)")
}
