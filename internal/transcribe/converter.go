package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// Converter normalizes arbitrary audio containers to the single format the
// transcription backend accepts.
type Converter interface {
	ToWav(ctx context.Context, srcPath string) (string, error)
}

// FFmpegConverter shells out to ffmpeg. The binary must be on PATH.
type FFmpegConverter struct{}

func NewFFmpegConverter() *FFmpegConverter {
	return &FFmpegConverter{}
}

// ToWav decodes srcPath into mono 16 kHz PCM WAV under the system temp dir.
// The caller owns the returned path and must remove it.
func (c *FFmpegConverter) ToWav(ctx context.Context, srcPath string) (string, error) {
	outPath := filepath.Join(os.TempDir(), "voicechat-"+uuid.NewString()+".wav")

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-i", srcPath,
		"-ac", "1",
		"-ar", "16000",
		"-acodec", "pcm_s16le",
		outPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("ffmpeg: %w: %s", err, out)
	}
	return outPath, nil
}
