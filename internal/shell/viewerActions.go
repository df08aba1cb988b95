package shell

import (
	"context"
	"fmt"

	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/internal/viewer"
)

type ZoomDirection string

const (
	ZoomIn  ZoomDirection = "in"
	ZoomOut ZoomDirection = "out"
)

type PageAction string

const (
	PageNext     PageAction = "next"
	PagePrevious PageAction = "previous"
)

// ViewerLoaded is reported by the browser once the preview has a width. The
// scale is fitted to it.
func (s *Service) ViewerLoaded(ctx context.Context, sessionID string, containerWidth float64) (sessionModel.Session, error) {
	return s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		if session.File == nil {
			return viewer.ErrNotLoaded
		}
		switch session.Viewer.Status {
		case viewer.Loading:
			session.Viewer.Loaded(session.File.Pages, containerWidth, session.File.PageWidth)
		case viewer.Loaded:
			session.Viewer.Fit(containerWidth, session.File.PageWidth)
		default:
			return viewer.ErrNotLoaded
		}
		return nil
	})
}

// Page moves the preview one page forward or back. Moves past either end keep
// the current page.
func (s *Service) Page(ctx context.Context, sessionID string, action PageAction) (sessionModel.Session, error) {
	return s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		switch action {
		case PageNext:
			return session.Viewer.Next()
		case PagePrevious:
			return session.Viewer.Previous()
		}
		return fmt.Errorf("unknown page action %q", action)
	})
}

func (s *Service) GoToPage(ctx context.Context, sessionID string, page int) (sessionModel.Session, error) {
	return s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		return session.Viewer.GoTo(page)
	})
}

// Zoom changes the scale by one step and returns the scroll offsets that keep
// the centre of vp in view.
func (s *Service) Zoom(ctx context.Context, sessionID string, dir ZoomDirection, vp viewer.Viewport) (sessionModel.Session, viewer.Scroll, error) {
	var scroll viewer.Scroll
	session, err := s.update(ctx, sessionID, func(session *sessionModel.Session) error {
		var err error
		switch dir {
		case ZoomIn:
			scroll, err = session.Viewer.ZoomIn(vp)
		case ZoomOut:
			scroll, err = session.Viewer.ZoomOut(vp)
		default:
			err = fmt.Errorf("unknown zoom direction %q", dir)
		}
		return err
	})
	return session, scroll, err
}
