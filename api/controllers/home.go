package controllers

import "net/http"

type homeView struct {
	Title string
}

func HomePage(rn *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rn.Render(r.Context(), w, "home.html", homeView{Title: "Home"})
	}
}
