package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/config"
)

const defaultRenderTimeout = 30 * time.Second

// A4 paper in inches, portrait
const (
	paperWidth  = 8.27
	paperHeight = 11.7
	pageMargin  = 0.4
)

// ChromedpOption is a functional option for configuring the renderer
type ChromedpOption func(*ChromedpRenderer)

// WithRemoteURL points the renderer at a remote Chrome instance instead
// of launching one locally.
func WithRemoteURL(url string) ChromedpOption {
	return func(r *ChromedpRenderer) {
		r.remoteURL = url
	}
}

// WithNoSandbox runs Chrome without its sandbox. Required when the server
// runs as root inside a container.
func WithNoSandbox() ChromedpOption {
	return func(r *ChromedpRenderer) {
		r.noSandbox = true
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) ChromedpOption {
	return func(r *ChromedpRenderer) {
		r.logger = logger
	}
}

// ChromedpRenderer renders invoice PDFs through the Chrome DevTools
// Protocol. The allocator is shared across renders; each render gets its
// own browser context.
type ChromedpRenderer struct {
	clinic      config.InvoiceConfig
	timeout     time.Duration
	remoteURL   string
	noSandbox   bool
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer using the clinic letterhead from
// configuration
func NewChromedpRenderer(clinic config.InvoiceConfig, opts ...ChromedpOption) *ChromedpRenderer {
	r := &ChromedpRenderer{
		clinic:  clinic,
		timeout: clinic.RenderTimeout,
		logger:  zap.NewNop(),
	}
	if r.timeout == 0 {
		r.timeout = defaultRenderTimeout
	}
	for _, opt := range opts {
		opt(r)
	}

	r.initAllocator()
	return r
}

func (r *ChromedpRenderer) initAllocator() {
	if r.remoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.remoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.noSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// RenderInvoice renders the invoice to PDF bytes
func (r *ChromedpRenderer) RenderInvoice(ctx context.Context, data appsales.InvoiceData) ([]byte, error) {
	html, err := renderHTML(r.clinic, data)
	if err != nil {
		return nil, fmt.Errorf("render invoice template: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	start := time.Now()
	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(pageMargin).
				WithMarginRight(pageMargin).
				WithMarginBottom(pageMargin).
				WithMarginLeft(pageMargin).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("invoice render timed out after %v: %w", r.timeout, err)
		}
		return nil, fmt.Errorf("chromedp render: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	r.logger.Info("invoice PDF rendered",
		zap.String("invoice_number", data.InvoiceNumber),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(start)))

	return pdfData, nil
}

// Close releases the Chrome allocator
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

var _ appsales.InvoiceRenderer = (*ChromedpRenderer)(nil)
