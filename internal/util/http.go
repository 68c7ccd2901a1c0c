package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"syscall"
	"time"
)

var (
	ErrBodyTooLarge = errors.New("response body exceeds limit")
	ErrBlockedHost  = errors.New("host not allowed")
)

const maxRedirects = 5

// HostPolicy limits where outbound fetches may go. An empty Allow list
// permits any host name. Loopback, private, link-local and other
// non-public addresses are refused unless AllowPrivate is set; the check
// runs on the resolved address of every connection, redirects included.
type HostPolicy struct {
	Allow        []string
	AllowPrivate bool
}

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func publicAddr(a netip.Addr) bool {
	a = a.Unmap()
	return a.IsGlobalUnicast() && !a.IsPrivate() && !sharedAddressSpace.Contains(a)
}

func (p HostPolicy) checkURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrBlockedHost, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if len(p.Allow) > 0 && !slices.ContainsFunc(p.Allow, func(h string) bool { return strings.EqualFold(h, host) }) {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	return nil
}

func (p HostPolicy) checkDial(_, address string, _ syscall.RawConn) error {
	if p.AllowPrivate {
		return nil
	}
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedHost, address)
	}
	if !publicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s is not a public address", ErrBlockedHost, ap.Addr())
	}
	return nil
}

// Client returns an HTTP client that enforces p. It ignores proxy settings
// from the environment so the address check sees the real peer.
func (p HostPolicy) Client(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout, Control: p.checkDial}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: timeout,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return p.checkURL(req.URL)
		},
	}
}

// GetBytes fetches rawURL with client after checking it against p, and
// returns at most limit bytes of its body. A non-positive limit disables the
// size check.
func GetBytes(ctx context.Context, client *http.Client, p HostPolicy, rawURL string, limit int64) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if err := p.checkURL(u); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}
