package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/youruser/casecard/internal/util"
)

// PhotoFetcher downloads photos for photo_url requests under a host policy.
type PhotoFetcher struct {
	client   *http.Client
	policy   util.HostPolicy
	maxBytes int64
}

func NewPhotoFetcher(policy util.HostPolicy, timeout time.Duration, maxBytes int64) *PhotoFetcher {
	return &PhotoFetcher{client: policy.Client(timeout), policy: policy, maxBytes: maxBytes}
}

// Fetch downloads photo bytes from url. The payload is only sniffed here;
// decoding happens in the renderer.
func (f *PhotoFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := util.GetBytes(ctx, f.client, f.policy, url, f.maxBytes)
	if err != nil {
		if errors.Is(err, util.ErrBodyTooLarge) {
			return nil, fmt.Errorf("%w: %s", ErrTooLarge, url)
		}
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyPhoto
	}
	if mime := http.DetectContentType(body); !strings.HasPrefix(mime, "image/") && mime != "application/octet-stream" {
		return nil, fmt.Errorf("photo %s: unexpected content type %s", url, mime)
	}
	return body, nil
}
