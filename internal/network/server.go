package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vskvj3/geomys/internal/core"
	"github.com/vskvj3/geomys/internal/utils"
)

type Server struct {
	CommandHandler *core.CommandHandler
	Port           string

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewServer prepares a server for handler, restoring its lists from the
// persistence log first.
func NewServer(port string, handler *core.CommandHandler) (*Server, error) {
	logger := utils.GetLogger()

	if handler == nil || handler.Database == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	// appending to a log that could not be replayed would lose its contents
	applied, err := handler.RebuildFromPersistence()
	if err != nil {
		return nil, fmt.Errorf("could not restore from persistence: %w", err)
	}
	if applied > 0 {
		logger.Info(fmt.Sprintf("Loaded %d requests from persistence", applied))
	}

	logger.Info("TCP server initialized on port " + port)
	return &Server{
		CommandHandler: handler,
		Port:           port,
		conns:          make(map[net.Conn]struct{}),
	}, nil
}

// Listen binds the configured port, falling back to a random one, and
// returns the bound address.
func (s *Server) Listen() (net.Addr, error) {
	logger := utils.GetLogger()

	// Attempt to bind to the configured port
	listener, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		logger.Warn("Port " + s.Port + " unavailable. Selecting a random port...")
		listener, err = net.Listen("tcp", ":0")
		if err != nil {
			return nil, fmt.Errorf("error starting server: %w", err)
		}
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Server is listening on " + listener.Addr().String())
	return listener.Addr(), nil
}

// Serve accepts connections until Close is called
func (s *Server) Serve() error {
	logger := utils.GetLogger()

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening, call Listen() first")
	}

	// Accept incoming connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection: " + err.Error())
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}
		logger.Info("Accepted client: " + conn.RemoteAddr().String())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.HandleConnection(conn)
		}()
	}
}

// Close stops accepting, drops every open connection and waits for their handlers
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Handle an incoming client connection. Requests and responses are
// consecutive msgpack maps on the stream.
func (s *Server) HandleConnection(conn net.Conn) {
	logger := utils.GetLogger()
	defer func() {
		logger.Info("Client disconnected: " + conn.RemoteAddr().String())
		s.untrack(conn)
		conn.Close()
	}()

	dec := msgpack.NewDecoder(conn)
	dec.UseLooseInterfaceDecoding(true)
	enc := msgpack.NewEncoder(conn)

	for {
		var request map[string]interface{}
		if err := dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logger.Info("Client closed the connection: " + conn.RemoteAddr().String())
			} else {
				logger.Error("Failed to decode request: " + err.Error())
			}
			return
		}

		logger.Debug(fmt.Sprintf("Received %v from %s", request["command"], conn.RemoteAddr()))

		response, err := s.CommandHandler.HandleCommand(request)
		if err != nil {
			response = map[string]interface{}{"status": "ERROR", "message": err.Error()}
		}
		if err := enc.Encode(response); err != nil {
			logger.Error("Failed to send response: " + err.Error())
			return
		}
	}
}
