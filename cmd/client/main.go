package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vskvj3/geomys/internal/network"
)

// parseInts converts command arguments to integers
func parseInts(args []string) ([]int64, error) {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %s", a)
		}
		out = append(out, n)
	}
	return out, nil
}

// argParser parses and validates the command and its arguments
func argParser(input string) (map[string]interface{}, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no command entered")
	}

	command := strings.ToUpper(parts[0])
	args := parts[1:]
	request := map[string]interface{}{
		"command": command,
	}

	switch command {
	case "PING", "KEYS":
		if len(args) > 0 {
			return nil, fmt.Errorf("%s does not require any arguments", command)
		}

	case "ECHO":
		if len(args) < 1 {
			return nil, fmt.Errorf("ECHO requires a message")
		}
		request["message"] = strings.Join(args, " ")

	case "LPUSH", "RPUSH":
		// no values pushes a single zero
		if len(args) < 1 {
			return nil, fmt.Errorf("%s requires a key", command)
		}
		values, err := parseInts(args[1:])
		if err != nil {
			return nil, err
		}
		request["key"] = args[0]
		request["values"] = values

	case "LPOP", "RPOP", "LLEN", "LEMPTY", "DEL":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s requires a key", command)
		}
		request["key"] = args[0]

	case "LTRUNC":
		if len(args) != 2 {
			return nil, fmt.Errorf("LTRUNC requires a key and position")
		}
		position, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("position must be an integer")
		}
		request["key"] = args[0]
		request["position"] = position

	case "LREMWHERE":
		if len(args) < 2 {
			return nil, fmt.Errorf("LREMWHERE requires a key and predicate")
		}
		predArgs, err := parseInts(args[2:])
		if err != nil {
			return nil, err
		}
		request["key"] = args[0]
		request["predicate"] = args[1]
		request["args"] = predArgs

	case "LEQUAL":
		if len(args) != 2 {
			return nil, fmt.Errorf("LEQUAL requires two keys")
		}
		request["key"] = args[0]
		request["other"] = args[1]

	case "LRENDER", "LRANGE":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%s requires a key and optional direction", command)
		}
		request["key"] = args[0]
		if len(args) == 2 {
			request["direction"] = strings.ToLower(args[1])
		}

	default:
		// Unknown command
		return nil, fmt.Errorf("unknown command: %s", command)
	}

	return request, nil
}

func main() {
	addr := flag.String("addr", "localhost:6379", "Server address")
	flag.Parse()

	client, err := network.Dial(*addr, 5*time.Second)
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("Connected to server. Type commands (e.g., RPUSH key 1 2 3, LRENDER key backward, LREMWHERE key even) and press Enter.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") || strings.EqualFold(input, "exit") {
			return
		}

		request, err := argParser(input)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		response, err := client.Do(request)
		if err != nil {
			if response != nil {
				fmt.Println("Server Error:", err)
				continue
			}
			fmt.Println(err)
			return
		}

		if warning, ok := response["warning"].(string); ok {
			fmt.Println("Server Warning:", warning)
		}
		if message, ok := response["message"].(string); ok {
			fmt.Println("Server:", message)
		} else if value, ok := response["value"]; ok {
			fmt.Println("Server:", value)
		} else if truncated, ok := response["truncated"].(bool); ok && !truncated {
			fmt.Println("Server: OK (position out of range, list unchanged)")
		} else {
			fmt.Println("Server: OK")
		}
	}
}
