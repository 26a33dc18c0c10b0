package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) Mux() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/booth", c.getBooth)
		r.Post("/booth/skip", c.skip)
		r.Put("/booth/vote", c.castVote)
		r.Delete("/booth/vote", c.removeVote)
		r.Put("/booth/favorite", c.favorite)
		r.Delete("/booth/favorite", c.unfavorite)

		r.Get("/waitlist", c.getWaitlist)
		r.Post("/waitlist", c.joinWaitlist)
		r.Delete("/waitlist/{user-id}", c.leaveWaitlist)

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", c.getPlaylists)
			r.Post("/", c.createPlaylist)
			r.Get("/{playlist-id}", c.getPlaylist)
			r.Patch("/{playlist-id}", c.updatePlaylist)
			r.Delete("/{playlist-id}", c.deletePlaylist)
			r.Post("/{playlist-id}/shuffle", c.shufflePlaylist)
			r.Get("/{playlist-id}/media", c.getPlaylistItems)
			r.Post("/{playlist-id}/media", c.addPlaylistItems)
			r.Put("/{playlist-id}/move", c.movePlaylistItems)
			r.Delete("/{playlist-id}/media", c.removePlaylistItems)
			r.Get("/{playlist-id}/media/{item-id}", c.getPlaylistItem)
			r.Patch("/{playlist-id}/media/{item-id}", c.updatePlaylistItem)
		})
	})

	r.HandleFunc("/ws", c.serveWS)

	return r
}
