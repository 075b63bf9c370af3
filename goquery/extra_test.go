package goquery_test

import (
	"testing"

	"github.com/psawicki/advault"
	"github.com/psawicki/advault/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure ExtraFinder implements advault.ExtraContentFinder at compile time.
var _ advault.ExtraContentFinder = (*goquery.ExtraFinder)(nil)

func TestExtraFinder_Find(t *testing.T) {
	t.Parallel()

	t.Run("no marker returns nil", func(t *testing.T) {
		t.Parallel()

		f := goquery.NewExtraFinder()
		got, err := f.Find(`<html><body><div>Just an ad</div></body></html>`)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("finds assets block with text and media", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div role="dialog">the ad itself</div>
<div>
	<div><span>Additional assets from this ad</span></div>
	<div>
		<img src="https://scontent.xx.fbcdn.net/v/asset1.jpg">
		<video src="https://video.xx.fbcdn.net/v/clip.mp4" poster="https://scontent.xx.fbcdn.net/v/poster.jpg"></video>
		<img src="https://static.xx.fbcdn.net/rsrc.php/ui-sprite.png">
	</div>
</div>
</body></html>`

		f := goquery.NewExtraFinder()
		got, err := f.Find(html)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Contains(t, got.Text, "Additional assets from this ad")
		require.Len(t, got.Media, 3)
		assert.Equal(t, advault.MediaImage, got.Media[0].Kind)
		assert.Equal(t, "https://scontent.xx.fbcdn.net/v/asset1.jpg", got.Media[0].URL)
		assert.Equal(t, advault.MediaVideo, got.Media[1].Kind)
		assert.Equal(t, "https://video.xx.fbcdn.net/v/clip.mp4", got.Media[1].URL)
		assert.Equal(t, "https://scontent.xx.fbcdn.net/v/poster.jpg", got.Media[2].URL)
		for _, m := range got.Media {
			assert.Equal(t, advault.OriginExtra, m.Origin)
		}
	})

	t.Run("recognizes content items variant", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div>
	<span>Additional content items from this ad</span>
	<div><img src="https://scontent.xx.fbcdn.net/v/item.jpg"></div>
</div>
</body></html>`

		f := goquery.NewExtraFinder()
		got, err := f.Find(html)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Media, 1)
		assert.Equal(t, "https://scontent.xx.fbcdn.net/v/item.jpg", got.Media[0].URL)
	})

	t.Run("skips relative and sprite URLs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div>
	<span>Additional assets from this ad</span>
	<div>
		<img src="/relative.jpg">
		<img src="https://static.xx.fbcdn.net/images/emoji.php/smile.png">
	</div>
</div>
</body></html>`

		f := goquery.NewExtraFinder()
		got, err := f.Find(html)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Media)
	})
}
