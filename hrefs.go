package wfs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// HrefReport is the outcome of checking the in-service links of one sample
type HrefReport struct {
	// Checked counts every matching href, reachable or not
	Checked int
	Broken  []BrokenLink
}

// BrokenLink is an href that could not be fetched
type BrokenLink struct {
	URL string
	Err error
}

func (b BrokenLink) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrBrokenLink, b.URL, b.Err)
}

func (b BrokenLink) Unwrap() error {
	return ErrBrokenLink
}

// HrefChecker probes the href attributes of a feature response that point back
// into the service under test, e.g. xlink:href references between features.
// Links to other hosts are not followed.
type HrefChecker struct {
	Fetcher Fetcher
	Logger  *slog.Logger
}

// Check fetches every href attribute, in document order and regardless of the
// element carrying it, whose value contains the endpoint URL. A failed fetch is
// recorded and checking goes on with the next href.
func (h *HrefChecker) Check(ctx context.Context, doc xmldom.Document, endpoint Endpoint) HrefReport {
	var report HrefReport
	if doc == nil || doc.DocumentElement() == nil {
		return report
	}

	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, href := range attributeValuesByLocalName(doc.DocumentElement(), "href") {
		if !strings.Contains(href, endpoint.String()) {
			continue
		}
		report.Checked++
		if _, err := h.Fetcher.Fetch(ctx, href); err != nil {
			logger.Warn("broken link", "url", href, "error", err)
			report.Broken = append(report.Broken, BrokenLink{URL: href, Err: err})
		}
	}
	logger.Info("checked links", "count", report.Checked, "broken", len(report.Broken))
	return report
}
