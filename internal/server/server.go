package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ldi/jot/internal/store"
)

// Server is a read-only web viewer over the task list. Mutations stay with
// the interactive surfaces; the browser only ever sees the current display
// order.
type Server struct {
	store  *store.Store
	server *http.Server
}

func NewServer(s *store.Store) *Server {
	return &Server{store: s}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/", s.handleIndex)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.respond(w, s.store.List())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

func (s *Server) respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>jot</title></head>
<body>
<h1>jot</h1>
<ul id="tasks"></ul>
<script>
fetch('/api/tasks').then(r => r.json()).then(tasks => {
  const ul = document.getElementById('tasks');
  for (const t of tasks) {
    const li = document.createElement('li');
    li.textContent = (t.isCompleted ? '[x] ' : '[ ] ') + t.text + ' — ' + t.date + ' ' + t.time;
    if (t.isCompleted) li.style.textDecoration = 'line-through';
    ul.appendChild(li);
  }
});
</script>
</body>
</html>
`
