// Package presentation negotiates a swapchain between a physical device and a window
// surface: it resolves the graphics and present queue families, probes what the surface
// supports, selects format, present mode, extent and image count, and builds the
// swapchain, rebuilding it when the surface is invalidated.
package presentation
