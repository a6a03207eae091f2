package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Supported browser kinds.
const (
	KindChromium = "chromium" // managed Chromium, downloaded by the launcher on first use
	KindChrome   = "chrome"   // system Chrome/Chromium found on PATH
	KindRemote   = "remote"   // already running browser reachable at Options.ControlURL
)

// Options controls how a browser is started or attached to.
type Options struct {
	Kind       string
	Headless   bool
	Bin        string
	ControlURL string
}

// RodBrowser implements Browser over a single go-rod page.
type RodBrowser struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

// Launch starts (or connects to) a browser and opens a blank page.
// The returned browser must be closed by the caller. ctx only bounds start
// up; the browser outlives it so Close still works after cancellation.
func Launch(ctx context.Context, opts Options) (*RodBrowser, error) {
	kind := strings.ToLower(strings.TrimSpace(opts.Kind))
	if kind == "" {
		kind = KindChromium
	}

	var (
		controlURL string
		l          *launcher.Launcher
	)

	switch kind {
	case KindRemote:
		if opts.ControlURL == "" {
			return nil, fmt.Errorf("browser kind %q requires a control URL", kind)
		}
		controlURL = opts.ControlURL
	case KindChromium, KindChrome:
		l = launcher.New().Headless(opts.Headless)
		bin := opts.Bin
		if bin == "" && kind == KindChrome {
			path, found := launcher.LookPath()
			if !found {
				return nil, fmt.Errorf("no system chrome found on PATH")
			}
			bin = path
		}
		if bin != "" {
			l = l.Bin(bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch %s: %w", kind, err)
		}
		controlURL = u
	default:
		return nil, fmt.Errorf("unsupported browser kind %q", opts.Kind)
	}

	if err := ctx.Err(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &RodBrowser{browser: browser, page: page, launcher: l}, nil
}

// Navigate loads url and waits for the load event. Navigation failures the
// browser renders as its own error page are not reported as errors.
func (b *RodBrowser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		var navErr *rod.NavigationError
		if !errors.As(err, &navErr) {
			return fmt.Errorf("failed to navigate to %s: %w", url, err)
		}
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (b *RodBrowser) FindElement(ctx context.Context, by By, value string) (Element, error) {
	el, err := findOne(b.page.Context(ctx).Sleeper(rod.NotFoundSleeper), by, value)
	if err != nil {
		return nil, err
	}
	return &rodElement{el: el}, nil
}

func (b *RodBrowser) FindElements(ctx context.Context, by By, value string) ([]Element, error) {
	return findAll(b.page.Context(ctx), by, value)
}

func (b *RodBrowser) WaitForElement(ctx context.Context, by By, value string, timeout time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := findOne(b.page.Context(waitCtx), by, value)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s %q after %s", ErrWaitTimeout, by, value, timeout)
		}
		return nil, err
	}
	// Detach from the wait deadline so later actions are not cut short.
	return &rodElement{el: el.Context(ctx)}, nil
}

// Close closes the browser and stops any process this package launched.
func (b *RodBrowser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Clear() error {
	if err := e.el.SelectAllText(); err != nil {
		return err
	}
	return e.el.Input("")
}

func (e *rodElement) SendKeys(text string) error {
	return e.el.Input(text)
}

func (e *rodElement) FindElement(by By, value string) (Element, error) {
	el, err := findOne(e.el.Sleeper(rod.NotFoundSleeper), by, value)
	if err != nil {
		return nil, err
	}
	return &rodElement{el: el}, nil
}

func (e *rodElement) FindElements(by By, value string) ([]Element, error) {
	return findAll(e.el, by, value)
}

// finder is the lookup surface shared by *rod.Page and *rod.Element.
type finder interface {
	Element(selector string) (*rod.Element, error)
	ElementX(xpath string) (*rod.Element, error)
	Elements(selector string) (rod.Elements, error)
	ElementsX(xpath string) (rod.Elements, error)
}

func findOne(f finder, by By, value string) (*rod.Element, error) {
	sel, isXPath := selector(by, value)

	var (
		el  *rod.Element
		err error
	)
	if isXPath {
		el, err = f.ElementX(sel)
	} else {
		el, err = f.Element(sel)
	}
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{By: by, Value: value}
		}
		return nil, err
	}
	// Lookups fail fast; interactions on the result should still wait.
	return el.Sleeper(rod.DefaultSleeper), nil
}

func findAll(f finder, by By, value string) ([]Element, error) {
	sel, isXPath := selector(by, value)

	var (
		els rod.Elements
		err error
	)
	if isXPath {
		els, err = f.ElementsX(sel)
	} else {
		els, err = f.Elements(sel)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

// selector translates a lookup into a CSS selector or XPath expression.
func selector(by By, value string) (sel string, isXPath bool) {
	switch by {
	case ByID:
		return "[id=" + strconv.Quote(value) + "]", false
	case ByName:
		return "[name=" + strconv.Quote(value) + "]", false
	case ByXPath:
		return value, true
	default:
		return value, false
	}
}
