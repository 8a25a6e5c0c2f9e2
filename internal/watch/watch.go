// Package watch polls a live game page with a headless browser and turns the
// player names shown on it into detector observations.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/config"
	"github.com/goserg/opponentanalyzer/internal/detector"
)

// DefaultSelector matches the player name labels on the game page.
const DefaultSelector = ".user-username-component"

type Source struct {
	url      string
	selector string
	interval time.Duration
	headless bool
	log      *logrus.Entry
}

func New(cfg config.Watch, l *logrus.Logger) *Source {
	s := &Source{
		url:      cfg.URL,
		selector: cfg.Selector,
		interval: cfg.Interval.Duration,
		headless: cfg.Headless,
		log:      l.WithField("from", "watch"),
	}
	if s.selector == "" {
		s.selector = DefaultSelector
	}
	if s.interval <= 0 {
		s.interval = time.Second
	}
	return s
}

// Run opens the page and sends an observation to out every time the pair of
// names changes. It returns when ctx is done or the browser fails.
func (s *Source) Run(ctx context.Context, out chan<- detector.Observation) error {
	if s.url == "" {
		return fmt.Errorf("watch: empty url")
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", s.headless))
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(s.url)); err != nil {
		return fmt.Errorf("watch: navigate %s: %w", s.url, err)
	}
	s.log.WithField("url", s.url).Info("watching page")

	script := namesScript(s.selector)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	var last detector.Observation
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		var (
			names    []string
			location string
		)
		err := chromedp.Run(browserCtx,
			chromedp.Evaluate(script, &names),
			chromedp.Location(&location),
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch: poll: %w", err)
		}
		o, ok := observation(names, location)
		if !ok || o == last {
			continue
		}
		last = o
		s.log.WithField("candidates", o.Candidates).Trace("names changed")
		select {
		case out <- o:
		case <-ctx.Done():
			return nil
		}
	}
}

// namesScript returns the trimmed, non-empty texts of all elements matching selector.
func namesScript(selector string) string {
	quoted, _ := json.Marshal(selector)
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(e => e.textContent.trim()).filter(Boolean)`,
		quoted,
	)
}

func observation(names []string, location string) (detector.Observation, bool) {
	if len(names) < 2 {
		return detector.Observation{}, false
	}
	return detector.Observation{
		Candidates: [2]string{strings.TrimSpace(names[0]), strings.TrimSpace(names[1])},
		Known:      knownFromURL(location),
	}, true
}

// knownFromURL reads the locally known player from the username query parameter.
func knownFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("username"))
}
