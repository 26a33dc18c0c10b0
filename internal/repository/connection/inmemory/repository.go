package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/EDM-Spot/core/internal/repository/connection"
)

// repo tracks which websocket connection belongs to which user. A user
// has at most one live gateway connection per instance.
type repo struct {
	connList map[*websocket.Conn]string
	userList map[string]*websocket.Conn
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		userList: make(map[string]*websocket.Conn),
	}
}

func (r *repo) Add(conn *websocket.Conn, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" {
		return connection.ErrAlreadyExists
	}

	if old, ok := r.userList[userID]; ok {
		old.Close()
		delete(r.connList, old)
	}

	r.connList[conn] = userID
	r.userList[userID] = conn

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}
	conn.Close()

	delete(r.connList, conn)
	delete(r.userList, userID)

	return userID, nil
}

func (r *repo) GetConn(userID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.userList[userID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetConns() []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.connList))
	for conn := range r.connList {
		conns = append(conns, conn)
	}

	return conns
}
