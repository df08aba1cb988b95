// Package viewer holds the paging and zoom state of the document preview.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/akolanti/DocForm/internal/config"
)

type Status string

const (
	NoFile  Status = "no_file"
	Loading Status = "loading"
	Loaded  Status = "loaded"
	Failed  Status = "failed"
)

const LoadFailedMessage = "Error loading PDF."

type State struct {
	Status      Status  `json:"status"`
	PageCount   int     `json:"page_count"`
	CurrentPage int     `json:"current_page"`
	Scale       float64 `json:"scale"`
	Error       string  `json:"error,omitempty"`
}

// Viewport is the scroll geometry of the preview container at the time of a
// zoom request.
type Viewport struct {
	ScrollLeft   float64 `json:"scroll_left"`
	ScrollTop    float64 `json:"scroll_top"`
	ClientWidth  float64 `json:"client_width"`
	ClientHeight float64 `json:"client_height"`
	ScrollWidth  float64 `json:"scroll_width"`
	ScrollHeight float64 `json:"scroll_height"`
}

type Scroll struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

var ErrNotLoaded = errors.New("no document loaded")

func New() State {
	return State{Status: NoFile, Scale: config.DefaultScale}
}

// Select starts loading a newly chosen file.
func (s *State) Select() {
	*s = State{Status: Loading, Scale: config.DefaultScale}
}

// Loaded moves to page 1 with a scale fitting the page into the container.
func (s *State) Loaded(pageCount int, containerWidth, pageWidth float64) {
	s.Status = Loaded
	s.PageCount = max(pageCount, 1)
	s.CurrentPage = 1
	s.Error = ""
	s.Fit(containerWidth, pageWidth)
}

// Fit sets the scale so the page width matches the container. Unknown sizes
// keep the default scale.
func (s *State) Fit(containerWidth, pageWidth float64) {
	scale := config.DefaultScale
	if containerWidth > 0 && pageWidth > 0 {
		scale = containerWidth / pageWidth
	}
	s.Scale = math.Max(roundScale(scale), config.MinZoomScale)
}

func (s *State) Fail(err error) {
	s.Status = Failed
	s.PageCount = 0
	s.CurrentPage = 0
	s.Error = LoadFailedMessage
	if err != nil {
		s.Error = fmt.Sprintf("%s %v", LoadFailedMessage, err)
	}
}

func (s *State) Next() error {
	return s.GoTo(s.CurrentPage + 1)
}

func (s *State) Previous() error {
	return s.GoTo(s.CurrentPage - 1)
}

// GoTo clamps n into [1, PageCount].
func (s *State) GoTo(n int) error {
	if s.Status != Loaded {
		return ErrNotLoaded
	}
	s.CurrentPage = min(max(n, 1), s.PageCount)
	return nil
}

func (s *State) ZoomIn(vp Viewport) (Scroll, error) {
	return s.zoom(config.ZoomStep, vp)
}

func (s *State) ZoomOut(vp Viewport) (Scroll, error) {
	return s.zoom(-config.ZoomStep, vp)
}

// zoom changes the scale and returns the scroll offsets that keep the point at
// the viewport centre in place. Content size is assumed to scale linearly.
func (s *State) zoom(step float64, vp Viewport) (Scroll, error) {
	if s.Status != Loaded {
		return Scroll{}, ErrNotLoaded
	}
	prev := s.Scale
	s.Scale = math.Max(roundScale(prev+step), config.MinZoomScale)

	if vp.ScrollWidth <= 0 || vp.ScrollHeight <= 0 || prev <= 0 {
		return Scroll{Left: vp.ScrollLeft, Top: vp.ScrollTop}, nil
	}
	ratioX := (vp.ScrollLeft + vp.ClientWidth/2) / vp.ScrollWidth
	ratioY := (vp.ScrollTop + vp.ClientHeight/2) / vp.ScrollHeight
	factor := s.Scale / prev

	return Scroll{
		Left: math.Max(ratioX*vp.ScrollWidth*factor-vp.ClientWidth/2, 0),
		Top:  math.Max(ratioY*vp.ScrollHeight*factor-vp.ClientHeight/2, 0),
	}, nil
}

func (s State) ScalePercent() int {
	return int(math.Round(s.Scale * 100))
}

// Fragment returns PDF open parameters for the embedded preview.
func (s State) Fragment() string {
	page := max(s.CurrentPage, 1)
	return fmt.Sprintf("#page=%d&zoom=%d", page, s.ScalePercent())
}

// roundScale drops float noise from repeated 0.1 steps.
func roundScale(v float64) float64 {
	return math.Round(v*100) / 100
}
