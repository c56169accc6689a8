package adapters

import (
	"context"
	"fmt"
	"sync"

	"delivery-client/internal/core/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// LogOpener records the link and leaves opening it to the caller's UI.
type LogOpener struct {
	logger *zap.Logger
}

// NewLogOpener creates a new LogOpener.
func NewLogOpener() *LogOpener {
	return &LogOpener{logger: logger.Named("checkout")}
}

// Open logs link.
func (o *LogOpener) Open(ctx context.Context, link string) error {
	o.logger.Info("Payment link ready", zap.String("link", link))
	return nil
}

// BrowserOpener opens payment links as new tabs of a visible browser. The
// browser is launched on first use and reused afterwards.
type BrowserOpener struct {
	proxyAddr string
	logger    *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserOpener creates a BrowserOpener. proxyAddr may be empty.
func NewBrowserOpener(proxyAddr string) *BrowserOpener {
	return &BrowserOpener{
		proxyAddr: proxyAddr,
		logger:    logger.Named("browser"),
	}
}

// Open opens link in a new tab.
func (o *BrowserOpener) Open(ctx context.Context, link string) error {
	browser, err := o.connect()
	if err != nil {
		return err
	}

	if _, err := browser.Page(proto.TargetCreateTarget{URL: link}); err != nil {
		return fmt.Errorf("failed to open payment link: %w", err)
	}
	o.logger.Debug("Payment link opened", zap.String("link", link))
	return nil
}

func (o *BrowserOpener) connect() (*rod.Browser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.browser != nil {
		return o.browser, nil
	}

	l := launcher.New().
		Headless(false).
		Leakless(true)
	if o.proxyAddr != "" {
		l = l.Proxy(o.proxyAddr)
	}

	o.logger.Debug("Launching browser...", zap.String("proxy_addr", o.proxyAddr))
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	o.browser = browser
	return browser, nil
}

// Close shuts the browser down if it was launched.
func (o *BrowserOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.browser == nil {
		return nil
	}
	err := o.browser.Close()
	o.browser = nil
	return err
}
