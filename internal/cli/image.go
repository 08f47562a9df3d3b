package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fkalasek/topbot/internal/metrics"
)

var imageOutput string

var imageCmd = &cobra.Command{
	Use:   "image <popis>",
	Short: "Generate an image from a description",
	Long: `Generate an image with the image model and write it to a file.

Examples:
  topbot image "kočka na skateboardu" -o kocka.png
  topbot image "západ slunce nad Prahou"`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "topbot-image.png", "output file")
}

func runImage(cmd *cobra.Command, args []string) error {
	start := time.Now()
	dataURL, err := gemini.GenerateImage(cmd.Context(), args[0])
	collector.Record(metrics.OpImageGenerate, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("generate image: %w", err)
	}

	data, err := decodeDataURL(dataURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(imageOutput, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	fmt.Printf("Obrázek uložen do %s (%d bajtů) 🖼️\n", imageOutput, len(data))
	return nil
}

// decodeDataURL extracts the payload of a data:<mime>;base64,<data> URL.
func decodeDataURL(dataURL string) ([]byte, error) {
	_, payload, found := strings.Cut(dataURL, "base64,")
	if !found {
		return nil, fmt.Errorf("provider returned an unexpected image format")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return data, nil
}
