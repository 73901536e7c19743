package handler

import (
	"net/http"

	"github.com/ezapply/ezapply/internal/flash"
	"github.com/ezapply/ezapply/internal/ui"
	"github.com/ezapply/ezapply/internal/ui/pages"
)

type homeHandler struct{}

func NewHomeHandler() *homeHandler {
	return &homeHandler{}
}

func (h *homeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	msg := popFlash(w, r)
	ui.Render(w, r, pages.Home(msg))
}

func (h *homeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, pages.NotFound())
}

// popFlash reads and clears the pending flash message for page renders.
func popFlash(w http.ResponseWriter, r *http.Request) *flash.Message {
	msg, ok := flash.Pop(w, r)
	if !ok {
		return nil
	}
	return &msg
}
