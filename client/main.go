// Terminal client for poking at a wordroom server: joins a room, prints
// every document the coordinator sends, and turns simple stdin commands
// into protocol messages.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type clientMessage struct {
	Type   string `json:"type"`
	Word   string `json:"word,omitempty"`
	Agrees bool   `json:"agrees"`
}

func main() {
	server := flag.String("server", "localhost:8080", "game server host:port")
	roomCode := flag.String("room", "LOBBY", "room code to join")
	name := flag.String("name", "", "display name")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	q := url.Values{}
	q.Set("room", *roomCode)
	if *name != "" {
		q.Set("playerName", *name)
	}
	u := url.URL{Scheme: "ws", Host: *server, Path: "/ws", RawQuery: q.Encode()}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- %s", string(message))
		}
	}()

	// Heartbeats keep the roster entry fresh while idle.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.WriteJSON(clientMessage{Type: "heartbeat"})
			case <-done:
				return
			}
		}
	}()

	log.Println("Commands: 'propose WORD', 'yes', 'no' to vote.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)

			var msg clientMessage
			switch {
			case strings.HasPrefix(text, "propose "):
				msg = clientMessage{Type: "propose", Word: strings.TrimPrefix(text, "propose ")}
			case text == "yes":
				msg = clientMessage{Type: "vote", Agrees: true}
			case text == "no":
				msg = clientMessage{Type: "vote", Agrees: false}
			case text == "":
				continue
			default:
				log.Printf("Unknown command %q", text)
				continue
			}

			data, _ := json.Marshal(msg)
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> %s", string(data))
		}
	}
}
