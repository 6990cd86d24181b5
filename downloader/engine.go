package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cpxfetch/internal"
	"cpxfetch/utils"
)

// StreamEngine downloads a resolved URL to disk in fixed-size chunks
// with a progress readout. Strictly sequential; one file per run,
// overwritten in place.
type StreamEngine struct {
	httpClient *utils.SessionClient
	fileOps    *utils.FileOperations
}

// NewStreamEngine creates an engine with a default session client
func NewStreamEngine() *StreamEngine {
	return NewStreamEngineWithClient(utils.NewSessionClient())
}

// NewStreamEngineWithClient creates an engine using an existing session
// so the download shares cookies with the resolution phase.
func NewStreamEngineWithClient(httpClient *utils.SessionClient) *StreamEngine {
	return &StreamEngine{
		httpClient: httpClient,
		fileOps:    utils.NewFileOperations(),
	}
}

// Download streams the direct URL into the configured destination
// directory and returns the written file's path.
func (e *StreamEngine) Download(ctx context.Context, directURL string, config *internal.DownloadConfig) (string, error) {
	if config == nil {
		return "", fmt.Errorf("download config cannot be nil")
	}

	outputName := config.OutputName
	if outputName == "" {
		outputName = internal.DefaultOutputName
	}
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = internal.DefaultChunkSize
	}

	if err := e.fileOps.EnsureDir(config.DestDir); err != nil {
		return "", internal.NewGatewayError(0, fmt.Sprintf("cannot create destination directory: %v", err), internal.ErrPermissionDenied)
	}

	resp, err := e.httpClient.GetStream(ctx, directURL)
	if err != nil {
		return "", internal.NewNetworkError(0, "download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", internal.NewNetworkError(resp.StatusCode, "download", fmt.Errorf("unexpected status %s", resp.Status))
	}

	// -1 means the server did not send a content-length; progress then
	// reports transferred bytes without a percentage.
	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	outputPath := filepath.Join(config.DestDir, outputName)
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", internal.NewGatewayError(0, fmt.Sprintf("cannot create output file: %v", err), internal.ErrDownloadFailed)
	}
	defer file.Close()

	internal.LogInfo("Downloading %s to %s (%d bytes expected)", directURL, outputPath, total)

	tracker := utils.NewProgressTracker(total, config.Quiet)

	if err := e.copyChunks(ctx, file, resp.Body, chunkSize, tracker); err != nil {
		tracker.Finish()
		return "", err
	}

	summary := tracker.Finish()

	if total > 0 && summary.TotalBytes != total {
		return "", internal.NewGatewayError(0,
			fmt.Sprintf("incomplete download: expected %d bytes, wrote %d", total, summary.TotalBytes),
			internal.ErrDownloadFailed)
	}

	internal.LogInfo("Download completed: %d bytes in %v", summary.TotalBytes, summary.TotalTime)
	return outputPath, nil
}

// copyChunks copies the body in fixed-size chunks, skipping zero-length
// reads and advancing the tracker after each written chunk.
func (e *StreamEngine) copyChunks(ctx context.Context, dst io.Writer, src io.Reader, chunkSize int, tracker *utils.ProgressTracker) error {
	buffer := make([]byte, chunkSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := src.Read(buffer)
		if n > 0 {
			written, writeErr := dst.Write(buffer[:n])
			if writeErr != nil {
				return internal.NewGatewayError(0, fmt.Sprintf("write failure: %v", writeErr), internal.ErrDownloadFailed)
			}
			if written != n {
				return internal.NewGatewayError(0, fmt.Sprintf("short write: wrote %d, expected %d", written, n), internal.ErrDownloadFailed)
			}
			tracker.Add(int64(written))
		}

		if err != nil {
			if err == io.EOF {
				return nil
			}
			return internal.NewNetworkError(0, "download stream", err)
		}
	}
}
