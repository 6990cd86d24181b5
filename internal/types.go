package internal

import "time"

// ResolveResult contains the outcome of a gateway link resolution.
type ResolveResult struct {
	// DirectURL is the final direct download URL after the HEAD
	// redirect chain has been followed.
	DirectURL string `json:"direct_url"`
	// WorkingURL is the URL of the gateway response the extraction
	// rules were applied to; relative matches resolve against it.
	WorkingURL string `json:"working_url"`
	// Rule names the extraction rule that produced the link.
	Rule       string    `json:"rule"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// DownloadConfig contains configuration for a single download run.
type DownloadConfig struct {
	DestDir    string
	OutputName string
	ChunkSize  int
	Quiet      bool
}
