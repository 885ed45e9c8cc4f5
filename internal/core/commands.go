package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vskvj3/geomys/internal/datastructures"
	"github.com/vskvj3/geomys/internal/persistence"
	"github.com/vskvj3/geomys/internal/utils"
)

// RequestLogger records mutating requests so they can be replayed later
type RequestLogger interface {
	LogRequest(req map[string]interface{}) error
	LoadRequests() ([]map[string]interface{}, error)
}

var _ RequestLogger = (*persistence.Persistence)(nil)

type CommandHandler struct {
	Database    *Database
	Persistence RequestLogger

	// writeMu keeps the log in the order writes were applied
	writeMu sync.Mutex
}

// Create a new CommandHandler instance. disk may be nil to run in memory only.
func NewCommandHandler(db *Database, disk RequestLogger) *CommandHandler {
	return &CommandHandler{Database: db, Persistence: disk}
}

// IsWriteCommand reports whether command changes a list
func IsWriteCommand(command string) bool {
	switch strings.ToUpper(command) {
	case "LPUSH", "RPUSH", "LPOP", "RPOP", "LTRUNC", "LREMWHERE", "DEL":
		return true
	}
	return false
}

// HandleCommand executes request and returns the response map. Successful
// writes are appended to the persistence log in the order they were applied.
// A write that could not be logged stays applied in memory; its response
// carries "persisted": false so the client does not retry it.
func (h *CommandHandler) HandleCommand(request map[string]interface{}) (map[string]interface{}, error) {
	command, ok := request["command"].(string)
	if !ok {
		return nil, errors.New("invalid or missing 'command' field")
	}
	command = strings.ToUpper(command)

	if !IsWriteCommand(command) {
		return h.execute(command, request)
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	response, err := h.execute(command, request)
	if err != nil || h.Persistence == nil {
		return response, err
	}

	if err := h.Persistence.LogRequest(request); err != nil {
		utils.GetLogger().Error(fmt.Sprintf("%s applied but not logged to disk: %v", command, err))
		response["persisted"] = false
		response["warning"] = "request logging to disk failed: " + err.Error()
	}
	return response, nil
}

// RebuildFromPersistence replays every logged write and returns how many
// requests were applied.
func (h *CommandHandler) RebuildFromPersistence() (int, error) {
	if h.Persistence == nil {
		return 0, nil
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	requests, err := h.Persistence.LoadRequests()
	if err != nil {
		return 0, err
	}

	logger := utils.GetLogger()
	for i, req := range requests {
		command, _ := req["command"].(string)
		if _, err := h.execute(strings.ToUpper(command), req); err != nil {
			// LPOP on an emptied list and similar failures were never logged,
			// so a failure here means the log and the state diverged.
			logger.Warn(fmt.Sprintf("Replay of record %d (%s) failed: %v", i, command, err))
		}
	}
	return len(requests), nil
}

func (h *CommandHandler) execute(command string, request map[string]interface{}) (map[string]interface{}, error) {
	db := h.Database

	switch command {
	case "PING":
		return map[string]interface{}{"status": "OK", "message": "PONG"}, nil

	case "ECHO":
		message, ok := request["message"].(string)
		if !ok {
			return nil, errors.New("ECHO requires a 'message' field")
		}
		return map[string]interface{}{"status": "OK", "message": message}, nil

	case "LPUSH", "RPUSH":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		values, err := utils.ToInt64Slice(request["values"])
		if err != nil {
			return nil, fmt.Errorf("%s 'values': %w", command, err)
		}

		var length int
		if command == "LPUSH" {
			length, err = db.LPush(key, values...)
		} else {
			length, err = db.RPush(key, values...)
		}
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": int64(length)}, nil

	case "LPOP", "RPOP":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		var value int64
		if command == "LPOP" {
			value, err = db.LPop(key)
		} else {
			value, err = db.RPop(key)
		}
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": value}, nil

	case "LLEN":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": int64(db.Len(key))}, nil

	case "LEMPTY":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": db.IsEmpty(key)}, nil

	case "LTRUNC":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		position, err := utils.ToInt64(request["position"])
		if err != nil {
			return nil, fmt.Errorf("LTRUNC 'position': %w", err)
		}
		err = db.Truncate(key, int(position))
		if errors.Is(err, datastructures.ErrInvalidPosition) {
			// an out of range position is a no-op, not a failure
			return map[string]interface{}{"status": "OK", "truncated": false}, nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "truncated": true}, nil

	case "LREMWHERE":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		name, ok := request["predicate"].(string)
		if !ok {
			return nil, errors.New("LREMWHERE requires a 'predicate' field")
		}
		args, err := utils.ToInt64Slice(request["args"])
		if err != nil {
			return nil, fmt.Errorf("LREMWHERE 'args': %w", err)
		}
		pred, err := ParsePredicate(name, args)
		if err != nil {
			return nil, err
		}
		removed, err := db.RemoveWhere(key, pred)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": int64(removed)}, nil

	case "LEQUAL":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		other, ok := request["other"].(string)
		if !ok {
			return nil, errors.New("LEQUAL requires an 'other' field")
		}
		return map[string]interface{}{"status": "OK", "value": db.Equal(key, other)}, nil

	case "LRANGE":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		dir, err := parseDirection(request["direction"])
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": db.Values(key, dir)}, nil

	case "LRENDER":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		dir, err := parseDirection(request["direction"])
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": db.Render(key, dir)}, nil

	case "DEL":
		key, err := requireKey(command, request)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": db.Del(key)}, nil

	case "KEYS":
		return map[string]interface{}{"status": "OK", "value": db.Keys()}, nil

	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func requireKey(command string, request map[string]interface{}) (string, error) {
	key, ok := request["key"].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("%s requires a 'key' field", command)
	}
	return key, nil
}

func parseDirection(v interface{}) (datastructures.Direction, error) {
	if v == nil {
		return datastructures.Forward, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("invalid direction: %v", v)
	}
	switch strings.ToLower(s) {
	case "", "forward":
		return datastructures.Forward, nil
	case "backward":
		return datastructures.Backward, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s", s)
	}
}
