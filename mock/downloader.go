package mock

import (
	"context"

	"github.com/psawicki/advault"
)

var _ advault.MediaDownloader = (*MediaDownloader)(nil)

// MediaDownloader is a mock implementation of advault.MediaDownloader.
type MediaDownloader struct {
	DownloadFn func(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error)
}

func (d *MediaDownloader) Download(ctx context.Context, url string, kind advault.MediaKind, cookie string) ([]byte, error) {
	return d.DownloadFn(ctx, url, kind, cookie)
}
