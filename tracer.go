// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package spheretrace

import (
	"fmt"

	"github.com/gogpu/spheretrace/render"
	"github.com/gogpu/spheretrace/scene"
	"github.com/gogpu/spheretrace/watch"
)

// Tracer is the per-frame driver: it owns the camera, the light, the change
// monitor watching both and the progressive renderer.
//
// Tracer is not safe for concurrent use; call it from the frame loop.
type Tracer struct {
	cfg      Config
	device   render.Device
	camera   *render.Camera
	light    *render.DirectionalLight
	monitor  *watch.Monitor
	renderer *render.Progressive

	spheres []scene.Sphere
	stats   scene.Stats
	enabled bool
}

// New creates a tracer on device with the given kernel and compositor.
// The scene is generated by [Tracer.Enable].
func New(device render.Device, kernel render.Kernel, compositor render.Compositor, cfg Config) (*Tracer, error) {
	camera := render.NewCamera()
	camera.FovY = cfg.FovY
	light := render.NewDirectionalLight(cfg.LightIntensity)

	monitor := watch.NewMonitor(light.Transform, camera.Transform)
	r, err := render.NewProgressive(device, kernel, compositor,
		render.WithMonitor(monitor),
		render.WithSeed(cfg.Seed),
		render.WithLogger(Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("spheretrace: %w", err)
	}

	attachLogger(device)
	return &Tracer{
		cfg:      cfg,
		device:   device,
		camera:   camera,
		light:    light,
		monitor:  monitor,
		renderer: r,
	}, nil
}

// Enable generates the scene from the configuration, uploads it and resets
// accumulation. Calling Enable again regenerates the same scene.
func (t *Tracer) Enable() error {
	spheres, stats := scene.GenerateStats(t.cfg.sceneParams())
	if err := t.renderer.SetScene(spheres); err != nil {
		return fmt.Errorf("spheretrace: enable: %w", err)
	}
	t.spheres = spheres
	t.stats = stats
	t.enabled = true
	Logger().Info("spheretrace: scene generated",
		"seed", t.cfg.Seed,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"metal", stats.Metal)
	return nil
}

// Disable releases the scene. Frames render the background only until the
// next Enable.
func (t *Tracer) Disable() {
	t.renderer.ReleaseScene()
	t.spheres = nil
	t.stats = scene.Stats{}
	t.enabled = false
}

// Enabled reports whether a scene is active.
func (t *Tracer) Enabled() bool { return t.enabled }

// SetConfig replaces the configuration. Scene parameters take effect on the
// next Enable, or immediately when a scene is active. A new seed also
// restarts the per-frame sampling stream. Light intensity and
// field of view apply to the next frame.
func (t *Tracer) SetConfig(cfg Config) error {
	if cfg.LightIntensity != t.cfg.LightIntensity || cfg.FovY != t.cfg.FovY {
		t.light.Intensity = cfg.LightIntensity
		t.camera.FovY = cfg.FovY
		t.renderer.Reset()
	}
	if cfg.Seed != t.cfg.Seed {
		t.renderer.Reseed(cfg.Seed)
	}
	regenerate := t.enabled && cfg.sceneParams() != t.cfg.sceneParams()
	t.cfg = cfg
	if regenerate {
		return t.Enable()
	}
	return nil
}

// Config returns the current configuration.
func (t *Tracer) Config() Config { return t.cfg }

// Frame renders one frame at viewport size and returns the presented image.
// When present is non-nil the converged image is copied into it.
func (t *Tracer) Frame(vp render.Viewport, present render.Image) (render.Image, error) {
	return t.renderer.RenderFrame(render.Frame{
		Viewport: vp,
		Camera:   t.camera,
		Light:    t.light,
		Present:  present,
	})
}

// Watch adds item to the change monitor. Any change it reports resets
// accumulation like a camera or light move.
func (t *Tracer) Watch(item watch.Watchable) {
	t.monitor.Watch(item)
}

// SetSkybox sets the environment image. The tracer borrows img.
func (t *Tracer) SetSkybox(img render.Image) {
	t.renderer.SetSkybox(img)
}

// Camera returns the camera. Moving its transform resets accumulation.
func (t *Tracer) Camera() *render.Camera { return t.camera }

// Light returns the directional light. Moving its transform resets
// accumulation.
func (t *Tracer) Light() *render.DirectionalLight { return t.light }

// Spheres returns the accepted spheres of the active scene.
func (t *Tracer) Spheres() []scene.Sphere { return t.spheres }

// Stats returns the statistics of the last generation pass.
func (t *Tracer) Stats() scene.Stats { return t.stats }

// Samples returns the number of frames accumulated since the last reset.
func (t *Tracer) Samples() uint32 { return t.renderer.Samples() }

// Renderer returns the underlying progressive renderer.
func (t *Tracer) Renderer() *render.Progressive { return t.renderer }

// Close releases all renderer resources. The device, kernel and compositor
// stay owned by the caller.
func (t *Tracer) Close() {
	t.renderer.Close()
	t.spheres = nil
	t.enabled = false
	detachLogger(t.device)
}
