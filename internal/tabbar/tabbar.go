// Package tabbar keeps the selection pill of the stylist tab row in step
// with the selected tab.
//
// A Controller is one mounted tab bar. It owns the tab geometry registry,
// the last resolved pill span, the emphasis window and a viewport
// subscription. Everything runs on the owner's event loop: the owner calls
// Sync after every update with the current selection, feeds layout passes
// through ApplyLayout (or lets the controller re-measure through its
// Layout on resize), and calls Teardown exactly when the bar goes away.
package tabbar

import (
	"time"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/emphasis"
	"github.com/lotas/salonreviews/internal/indicator"
	"github.com/lotas/salonreviews/internal/metrics"
	"github.com/lotas/salonreviews/internal/viewport"
)

// Layout measures the tab row for a viewport width. It returns the row
// container and every tab it placed.
type Layout interface {
	Measure(width int) (container indicator.Rect, tabs []indicator.Placement)
}

// Config tunes the pill.
type Config struct {
	Pad      int           // inset between tab and pill edges, in cells
	Emphasis time.Duration // emphasis window after a selection change
}

// DefaultConfig returns the terminal defaults.
func DefaultConfig() Config {
	return Config{Pad: indicator.DefaultPad, Emphasis: emphasis.DefaultDuration}
}

// Controller synchronizes the pill with the selected tab.
type Controller struct {
	cfg      Config
	layout   Layout
	onSelect func(string)

	registry  *indicator.Registry
	container indicator.Rect
	width     int

	selected string
	synced   bool

	span    indicator.Span
	visible bool

	window *emphasis.Window
	sub    *viewport.Subscription
	torn   bool
}

// New returns an unmounted controller. onSelect is the selection setter of
// the owning screen; layout may be nil when the owner only uses
// ApplyLayout.
func New(cfg Config, sched emphasis.Scheduler, layout Layout, onSelect func(string), opts ...emphasis.Option) *Controller {
	if cfg.Pad < 0 {
		cfg.Pad = 0
	}
	c := &Controller{
		cfg:      cfg,
		layout:   layout,
		onSelect: onSelect,
		registry: indicator.NewRegistry(),
	}
	opts = append([]emphasis.Option{emphasis.OnEnd(func(o emphasis.Outcome) {
		metrics.EmphasisWindows.WithLabelValues(string(o)).Inc()
		if o == emphasis.OutcomeCancelled {
			applog.Info("emphasis.cancel")
		}
	})}, opts...)
	c.window = emphasis.New(sched, cfg.Emphasis, opts...)
	return c
}

// Mount subscribes to viewport changes on hub. If the hub already knows a
// size, the row is measured right away.
func (c *Controller) Mount(hub *viewport.Hub) {
	if c.torn || c.sub != nil {
		return
	}
	c.sub = hub.Subscribe(c.handleViewport)
	metrics.ViewportSubscribers.Inc()
	applog.Info("tabbar.mount", "pad", c.cfg.Pad, "emphasis", c.window.Duration())
	if sz := hub.Last(); sz.Width > 0 {
		c.handleViewport(sz)
	}
}

// Teardown cancels the emphasis deadline, drops the viewport subscription
// and clears the registry. The controller is inert afterwards.
func (c *Controller) Teardown() {
	if c.torn {
		return
	}
	c.torn = true
	c.window.Close()
	if c.sub != nil {
		if c.sub.Unsubscribe() {
			metrics.ViewportSubscribers.Dec()
		}
		c.sub = nil
	}
	c.registry.Clear()
	c.visible = false
	c.span = indicator.Span{}
	applog.Info("tabbar.teardown", "selected", indicator.Key(c.selected))
}

// Select handles a tab activation. Activating the current tab is a no-op;
// otherwise the owner's setter is called and Select reports true. The pill
// moves on the next Sync.
func (c *Controller) Select(id string) bool {
	if c.torn || (c.synced && id == c.selected) {
		return false
	}
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return true
}

// Sync tells the controller what the selection is now. A change re-resolves
// the pill and opens the emphasis window; the very first Sync only
// resolves.
func (c *Controller) Sync(selection string) {
	if c.torn {
		return
	}
	if c.synced && selection == c.selected {
		return
	}
	first := !c.synced
	prev := c.selected
	c.selected = selection
	c.synced = true
	c.resolve()
	if first {
		return
	}
	c.window.Open()
	metrics.SelectionChanges.Inc()
	applog.Info("tabbar.select", "from", indicator.Key(prev), "to", indicator.Key(selection), "pill", c.visible)
}

// Register records a tab's rect. Registering the selected tab re-resolves.
func (c *Controller) Register(key string, rect indicator.Rect) {
	if c.torn {
		return
	}
	c.registry.Register(key, rect)
	if key == indicator.Key(c.selected) {
		c.resolve()
	}
}

// Unregister forgets a tab. Losing the selected tab hides the pill.
func (c *Controller) Unregister(key string) {
	if c.torn {
		return
	}
	if c.registry.Unregister(key) && key == indicator.Key(c.selected) {
		c.resolve()
	}
}

// SetContainer updates the row container rect.
func (c *Controller) SetContainer(rect indicator.Rect) {
	if c.torn || rect == c.container {
		return
	}
	c.container = rect
	c.resolve()
}

// ApplyLayout is one full layout pass: every placed tab is registered, tabs
// that were not placed are unregistered, and the pill is resolved once.
func (c *Controller) ApplyLayout(container indicator.Rect, tabs []indicator.Placement) {
	if c.torn {
		return
	}
	c.container = container
	placed := make(map[string]bool, len(tabs))
	for _, t := range tabs {
		placed[t.Key] = true
		c.registry.Register(t.Key, t.Rect)
	}
	for _, k := range c.registry.Keys() {
		if !placed[k] {
			c.registry.Unregister(k)
		}
	}
	c.resolve()
}

// Relayout re-measures the row at the last known width, e.g. after the
// artist list changed.
func (c *Controller) Relayout() {
	if c.torn || c.layout == nil || c.width <= 0 {
		return
	}
	container, tabs := c.layout.Measure(c.width)
	c.ApplyLayout(container, tabs)
}

func (c *Controller) handleViewport(sz viewport.Size) {
	if c.torn {
		return
	}
	c.width = sz.Width
	if c.layout != nil && c.width > 0 {
		c.Relayout()
		return
	}
	c.resolve()
}

func (c *Controller) resolve() {
	c.span, c.visible = indicator.Resolve(indicator.Key(c.selected), c.registry, c.container, c.cfg.Pad)
	if c.visible {
		metrics.IndicatorResolutions.WithLabelValues("hit").Inc()
		return
	}
	metrics.IndicatorResolutions.WithLabelValues("miss").Inc()
	if c.registry.Len() > 0 {
		applog.Warn("tabbar.unresolved", "key", indicator.Key(c.selected), "tabs", c.registry.Len())
	}
}

// Indicator returns the pill span; false means no pill is drawn.
func (c *Controller) Indicator() (indicator.Span, bool) {
	return c.span, c.visible
}

// Emphasizing reports whether the emphasis window is open.
func (c *Controller) Emphasizing() bool {
	return c.window.Active()
}

// Selected returns the selection seen by the last Sync.
func (c *Controller) Selected() string {
	return c.selected
}

// Container returns the row container rect.
func (c *Controller) Container() indicator.Rect {
	return c.container
}

// Width returns the last viewport width seen.
func (c *Controller) Width() int {
	return c.width
}

// TabAt maps a column to the selection of the tab drawn there.
func (c *Controller) TabAt(x int) (string, bool) {
	key, ok := c.registry.HitTest(x)
	if !ok {
		return "", false
	}
	if key == indicator.AllKey {
		return "", true
	}
	return key, true
}

// Registered reports whether a tab is registered under key.
func (c *Controller) Registered(key string) bool {
	_, ok := c.registry.Lookup(key)
	return ok
}

// Mounted reports whether the controller holds a viewport subscription.
func (c *Controller) Mounted() bool {
	return c.sub != nil
}

// TornDown reports whether Teardown has run.
func (c *Controller) TornDown() bool {
	return c.torn
}
