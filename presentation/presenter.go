package presentation

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

type State int

const (
	StateUninitialized State = iota
	StateProbing
	StateConfigured
	StateBuilt
	StateInvalidated
	StateDestroyed
)

var stateNames = map[State]string{
	StateUninitialized: "Uninitialized",
	StateProbing:       "Probing",
	StateConfigured:    "Configured",
	StateBuilt:         "Built",
	StateInvalidated:   "Invalidated",
	StateDestroyed:     "Destroyed",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return "Unknown"
	}
	return name
}

// DrawableSizer reports the window's framebuffer size in pixels, which differs from its
// window-manager size on high-density displays. *sdl.Window satisfies it.
type DrawableSizer interface {
	VulkanGetDrawableSize() (int32, int32)
}

// Presenter owns the swapchain for one surface and walks it through
// probe, configure and build, and again after the surface is invalidated.
// It is not safe for concurrent use.
type Presenter struct {
	driver  Driver
	device  core1_0.PhysicalDevice
	surface khr_surface.Surface
	indices QueueFamilyIndices
	window  DrawableSizer
	logger  *slog.Logger

	state      State
	support    SurfaceSupport
	config     PresentationConfig
	chain      *SwapImageChain
	generation int
	lastBuild  time.Duration
}

func NewPresenter(driver Driver, device core1_0.PhysicalDevice, surface khr_surface.Surface, indices QueueFamilyIndices, window DrawableSizer, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Presenter{
		driver:  driver,
		device:  device,
		surface: surface,
		indices: indices,
		window:  window,
		logger:  logger,
	}
}

func (p *Presenter) State() State {
	return p.state
}

func (p *Presenter) Chain() *SwapImageChain {
	return p.chain
}

func (p *Presenter) Config() PresentationConfig {
	return p.config
}

func (p *Presenter) Support() SurfaceSupport {
	return p.support
}

func (p *Presenter) Generation() int {
	return p.generation
}

func (p *Presenter) LastBuildTime() time.Duration {
	return p.lastBuild
}

func (p *Presenter) expect(op string, allowed ...State) error {
	for _, state := range allowed {
		if p.state == state {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "%s from state %s", op, p.state)
}

// Initialize takes a fresh presenter straight to Built.
func (p *Presenter) Initialize() error {
	err := p.expect("initialize", StateUninitialized)
	if err != nil {
		return err
	}

	return p.rebuild()
}

func (p *Presenter) Probe() error {
	err := p.expect("probe", StateUninitialized, StateInvalidated)
	if err != nil {
		return err
	}

	previous := p.state
	p.state = StateProbing

	support, err := ProbeSurface(p.driver, p.device, p.surface)
	if err == nil {
		err = inadequateSupport(support)
	}
	if err != nil {
		p.state = previous
		return err
	}

	p.support = support
	return nil
}

func (p *Presenter) Configure() error {
	err := p.expect("configure", StateProbing)
	if err != nil {
		return err
	}

	config, err := SelectConfig(p.support, p.drawableExtent())
	if err != nil {
		return err
	}

	if !IsPreferredFormat(khr_surface.SurfaceFormat{Format: config.Format, ColorSpace: config.ColorSpace}) {
		p.logger.Debug("preferred surface format unavailable, using first reported",
			"format", config.Format, "colorSpace", config.ColorSpace)
	}
	if config.PresentMode != PreferredPresent {
		p.logger.Debug("mailbox present mode unavailable, using FIFO")
	}

	p.config = config
	p.state = StateConfigured
	return nil
}

func (p *Presenter) Build() error {
	err := p.expect("build", StateConfigured)
	if err != nil {
		return err
	}

	start := hrtime.Now()
	chain, err := BuildSwapchain(p.driver, p.surface, p.config, p.indices, p.chain)
	if err != nil {
		return err
	}

	// The old chain was handed to the driver as OldSwapchain and can go now.
	p.chain.Destroy(p.driver)

	p.chain = chain
	p.generation++
	p.lastBuild = hrtime.Since(start)
	p.state = StateBuilt

	p.logger.Info("swapchain built",
		"generation", p.generation,
		"format", chain.Format,
		"presentMode", chain.PresentMode,
		"width", chain.Extent.Width,
		"height", chain.Extent.Height,
		"images", len(chain.Images),
		"elapsed", p.lastBuild)
	return nil
}

// Invalidate records that the surface changed under the built chain, typically after a
// resize. The chain stays alive until the next Build retires it.
func (p *Presenter) Invalidate() error {
	err := p.expect("invalidate", StateBuilt)
	if err != nil {
		return err
	}

	p.state = StateInvalidated
	return nil
}

// Recreate rebuilds the chain for the surface's current state. The caller must have
// drained all work using the current chain. A minimized window leaves everything as it
// is and returns ErrSurfaceMinimized.
func (p *Presenter) Recreate() error {
	err := p.expect("recreate", StateBuilt, StateInvalidated)
	if err != nil {
		return err
	}

	extent := p.drawableExtent()
	if extent.Width == 0 || extent.Height == 0 {
		return errors.WithStack(ErrSurfaceMinimized)
	}

	if p.state == StateBuilt {
		p.state = StateInvalidated
	}

	return p.rebuild()
}

func (p *Presenter) rebuild() error {
	err := p.Probe()
	if err != nil {
		return err
	}

	err = p.Configure()
	if err != nil {
		return err
	}

	return p.Build()
}

func (p *Presenter) Destroy() {
	if p.state == StateDestroyed {
		return
	}

	p.chain.Destroy(p.driver)
	p.state = StateDestroyed
}

func (p *Presenter) drawableExtent() core1_0.Extent2D {
	if p.window == nil {
		return core1_0.Extent2D{}
	}

	width, height := p.window.VulkanGetDrawableSize()
	return core1_0.Extent2D{Width: int(width), Height: int(height)}
}
