// Package driver defines the browser automation handle consumed by the test
// runner and a go-rod backed implementation of it.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// By selects how a selector value is interpreted.
type By int

const (
	ByID By = iota
	ByName
	ByXPath
	ByCSS
)

func (b By) String() string {
	switch b {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByXPath:
		return "xpath"
	case ByCSS:
		return "css"
	default:
		return fmt.Sprintf("by(%d)", int(b))
	}
}

var (
	// ErrElementNotFound is returned (wrapped in *NotFoundError) when a lookup matches nothing.
	ErrElementNotFound = errors.New("element not found")
	// ErrWaitTimeout is returned when a bounded wait expires.
	ErrWaitTimeout = errors.New("timed out waiting for element")
)

// NotFoundError describes the selector of a failed lookup.
type NotFoundError struct {
	By    By
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to locate element by %s %q", e.By, e.Value)
}

func (e *NotFoundError) Unwrap() error {
	return ErrElementNotFound
}

// Element is a single node on the current page.
type Element interface {
	Text() (string, error)
	Click() error
	Clear() error
	SendKeys(text string) error
	FindElement(by By, value string) (Element, error)
	FindElements(by By, value string) ([]Element, error)
}

// Browser provides navigation and element lookup on a single page.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	FindElement(ctx context.Context, by By, value string) (Element, error)
	// FindElements returns an empty slice, not an error, when nothing matches.
	FindElements(ctx context.Context, by By, value string) ([]Element, error)
	WaitForElement(ctx context.Context, by By, value string, timeout time.Duration) (Element, error)
	Close() error
}
