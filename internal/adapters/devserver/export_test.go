package devserver

// Clients returns the number of connected live-reload clients.
func (s *Server) Clients() int {
	return s.hub.Len()
}

// InjectScript exposes injectScript for tests.
var InjectScript = injectScript
