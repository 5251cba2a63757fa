package nfce

import (
	"NotaScan-Backend/domain"
	"NotaScan-Backend/internal/utils"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

type (
	// DocumentFetcher resolves a QR-code payload to the raw fiscal XML.
	// The ingestion pipeline depends only on this contract, so tests and
	// alternative portals can plug in their own implementation.
	DocumentFetcher interface {
		Fetch(ctx context.Context, qrCodeData string) ([]byte, error)
	}

	portalFetcher struct {
		client    *http.Client
		portalURL string
	}
)

const defaultFetchTimeout = 15 * time.Second

// NFC-e QR codes embed the 44-digit access key (chave de acesso),
// either inside a consultation URL or as a bare digit string.
var accessKeyPattern = regexp.MustCompile(`\d{44}`)

func NewDocumentFetcher() DocumentFetcher {
	timeout := defaultFetchTimeout
	if v := utils.GetConfig("NFCE_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return &portalFetcher{
		client:    &http.Client{Timeout: timeout},
		portalURL: utils.GetConfig("NFCE_PORTAL_URL"),
	}
}

func ExtractAccessKey(qrCodeData string) string {
	return accessKeyPattern.FindString(qrCodeData)
}

func (f *portalFetcher) resolveURL(qrCodeData string) (string, error) {
	if u, err := url.ParseRequestURI(qrCodeData); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return qrCodeData, nil
	}

	accessKey := ExtractAccessKey(qrCodeData)
	if accessKey == "" || f.portalURL == "" {
		return "", domain.ErrInvalidPayload
	}
	return fmt.Sprintf("%s?chNFe=%s", f.portalURL, accessKey), nil
}

func (f *portalFetcher) Fetch(ctx context.Context, qrCodeData string) ([]byte, error) {
	target, err := f.resolveURL(qrCodeData)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachableSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrInvalidPayload
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: portal returned %s", domain.ErrUnreachableSource, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachableSource, err)
	}
	return body, nil
}
