// Package slog provides logging decorators for advault services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/psawicki/advault"
)

// Ensure LoggingDownloader implements advault.MediaDownloader.
var _ advault.MediaDownloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a MediaDownloader with debug logging.
type LoggingDownloader struct {
	next   advault.MediaDownloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next advault.MediaDownloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download logs the fetch and delegates to the wrapped downloader.
func (d *LoggingDownloader) Download(ctx context.Context, url string, kind advault.MediaKind, cookie string) (data []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Info("download",
			"url", url,
			"kind", kind,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url, kind, cookie)
}
