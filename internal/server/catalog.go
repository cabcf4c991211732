package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/discograph/pkg/buildinfo"
	"github.com/matzehuels/discograph/pkg/catalog"
	apperr "github.com/matzehuels/discograph/pkg/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleArtistSearch answers GET /artist/{name} with matching artists, or []
// when there are none.
func (s *Server) handleArtistSearch(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "malformed artist name"))
		return
	}
	hits, err := s.gw.SearchArtists(r.Context(), name)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

// pathParam returns the decoded URL parameter key. chi matches against
// RawPath when the request carries one (an escaped slash, say), and the
// parameter is still escaped in that case only.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// handleArtistDetails answers GET /artist-details/{id}.
func (s *Server) handleArtistDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := s.gw.GetArtistDetail(r.Context(), id)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.NewArtistDetailResponse(*detail))
}

// handleReleaseDetails answers GET /release-details/{id}.
func (s *Server) handleReleaseDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	videos, err := s.gw.GetReleaseVideos(r.Context(), id)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []catalog.VideoRef{}
	}
	writeJSON(w, http.StatusOK, catalog.ReleaseDetailResponse{Videos: videos})
}

func (s *Server) logFailure(r *http.Request, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
}
