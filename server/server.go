// Package server contains misc server utilities.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Supergraph maps the stem each instrument is mounted at to the routes
// below it.  It is an http.Handler that lists itself as JSON
type Supergraph struct {
	mu     sync.RWMutex
	routes map[string][]string
}

// NewSupergraph returns an empty supergraph
func NewSupergraph() *Supergraph {
	return &Supergraph{routes: map[string][]string{}}
}

// Add records the routes served below stem
func (s *Supergraph) Add(stem string, routes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[stem] = routes
}

// Stems returns the mounted stems in sorted order
func (s *Supergraph) Stems() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.routes))
	for k := range s.routes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Supergraph) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(s.routes)
	if err != nil {
		fstr := fmt.Sprintf("error encoding list of routes data to json %q", err)
		log.Error(fstr)
		http.Error(w, fstr, http.StatusInternalServerError)
	}
}

// ListenAndServe serves h at addr until ctx is done, then shuts the server
// down, giving in-flight requests up to grace to finish.
// A server closed this way returns nil
func ListenAndServe(ctx context.Context, addr string, h http.Handler, grace time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: h}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	log.WithField("addr", addr).Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
