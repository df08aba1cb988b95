package adapter

import (
	"net/url"

	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/domain/sessionModel"
	"github.com/akolanti/DocForm/internal/render"
	"github.com/akolanti/DocForm/internal/viewer"
)

const DocumentPath = "/document"

func ToSessionResponse(session sessionModel.Session) api.SessionResponse {
	res := api.SessionResponse{
		ID:           session.ID,
		DocumentType: string(session.DocumentType),
		Status:       string(session.Status),
		Error:        session.Error,
		Records:      session.Records,
		Tokens:       session.Tokens,
		Viewer:       session.Viewer,
	}
	if session.File != nil {
		res.FileName = session.File.Name
	}
	return res
}

func ToViewerResponse(session sessionModel.Session, scroll *viewer.Scroll) api.ViewerResponse {
	return api.ViewerResponse{
		Status:       session.Viewer.Status,
		Page:         session.Viewer.CurrentPage,
		PageCount:    session.Viewer.PageCount,
		ScalePercent: session.Viewer.ScalePercent(),
		DocumentURL:  DocumentURL(session),
		Scroll:       scroll,
		Error:        session.Viewer.Error,
	}
}

// DocumentURL points the preview at the session's file. The upload id busts
// the browser cache when the file is replaced.
func DocumentURL(session sessionModel.Session) string {
	if session.File == nil {
		return ""
	}
	q := url.Values{}
	if session.UploadID != "" {
		q.Set("v", session.UploadID)
	}
	u := DocumentPath
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u + session.Viewer.Fragment()
}

func ToPageData(session sessionModel.Session, documentTypes []string) render.PageData {
	data := render.PageData{
		DocumentTypes: documentTypes,
		SelectedType:  string(session.DocumentType),
		Status:        string(session.Status),
		Error:         session.Error,
		Viewer: render.ViewerView{
			Status:       string(session.Viewer.Status),
			Message:      session.Viewer.Error,
			Page:         session.Viewer.CurrentPage,
			PageCount:    session.Viewer.PageCount,
			ScalePercent: session.Viewer.ScalePercent(),
			DocumentURL:  DocumentURL(session),
		},
	}
	if session.File != nil {
		data.FileName = session.File.Name
	}
	if session.HasResult() {
		data.Panes = render.RenderSet(session.Records, session.Tokens, render.Options{})
	}
	return data
}

func BadRequest(message string) api.ErrorResponse {
	return api.ErrorResponse{Success: false, Error: message}
}
