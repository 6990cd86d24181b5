package internal

import "context"

// TokenFetcher retrieves the gateway's anti-forgery token.
type TokenFetcher interface {
	FetchToken(ctx context.Context) (string, error)
}

// LinkResolver turns a target URL into a direct download link.
type LinkResolver interface {
	Resolve(ctx context.Context, targetURL string) (*ResolveResult, error)
}

// DownloadEngine streams a resolved URL to disk.
type DownloadEngine interface {
	Download(ctx context.Context, directURL string, config *DownloadConfig) (string, error)
}

// ArchiveExtractor unpacks a downloaded archive into a directory.
type ArchiveExtractor interface {
	Extract(archivePath, destDir string) error
}
