// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // operator panel runs on the lab network
	},
}

// PanelMessage is sent by the browser.
type PanelMessage struct {
	Action string `json:"action"` // key
	Key    string `json:"key,omitempty"`
}

// PanelResponse is sent to the browser.
type PanelResponse struct {
	Type    string          `json:"type"` // status, ack, error
	Status  *align.Snapshot `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
}

// statusCache keeps the most recent snapshot from the status topic.
type statusCache struct {
	mu   sync.RWMutex
	last align.Snapshot
	have bool
}

func (c *statusCache) set(s align.Snapshot) {
	c.mu.Lock()
	c.last = s
	c.have = true
	c.mu.Unlock()
}

func (c *statusCache) get() (align.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.have
}

// keyPublisher sends a key release to the viewer.
type keyPublisher func(calibration.Key) error

type panel struct {
	status  *statusCache
	publish keyPublisher
	push    time.Duration
}

// RunWeb serves the operator panel: current calibration over HTTP and a
// websocket that streams status and accepts arrow key actions.
func RunWeb() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	p := &panel{
		status: &statusCache{},
		publish: func(k calibration.Key) error {
			return publishKey(client, cfg.TopicKeys, k, "web")
		},
		push: time.Duration(cfg.StatusPublishInterval) * time.Millisecond,
	}

	token := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := decodeStatus(msg.Payload())
		if err != nil {
			log.Printf("web: %v", err)
			return
		}
		p.status.set(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicStatus)

	mux := http.NewServeMux()
	p.routes(mux)
	mux.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (p *panel) routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", p.handleStatus)
	mux.HandleFunc("/api/key", p.handleKey)
	mux.HandleFunc("/ws", p.handleWS)
}

func (p *panel) handleStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := p.status.get()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// handleKey accepts POST /api/key?key=left for scripted calibration.
func (p *panel) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	k, err := calibration.ParseKey(r.URL.Query().Get("key"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := p.publish(k); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// panelConn serializes writes to one websocket.
type panelConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *panelConn) send(r PanelResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(r)
}

func (p *panel) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	pc := &panelConn{conn: conn}
	done := make(chan struct{})
	defer close(done)
	go p.pushStatus(pc, done)

	for {
		var msg PanelMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("web: websocket read error: %v", err)
			}
			return
		}

		switch msg.Action {
		case "key":
			k, err := calibration.ParseKey(msg.Key)
			if err != nil {
				_ = pc.send(PanelResponse{Type: "error", Message: err.Error()})
				continue
			}
			if err := p.publish(k); err != nil {
				_ = pc.send(PanelResponse{Type: "error", Message: err.Error()})
				continue
			}
			_ = pc.send(PanelResponse{Type: "ack", Message: k.String()})
		default:
			_ = pc.send(PanelResponse{Type: "error", Message: fmt.Sprintf("unknown action %q", msg.Action)})
		}
	}
}

func (p *panel) pushStatus(pc *panelConn, done <-chan struct{}) {
	interval := p.push
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastTicks uint64
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s, ok := p.status.get()
			if !ok || s.Ticks == lastTicks {
				continue
			}
			lastTicks = s.Ticks
			if err := pc.send(PanelResponse{Type: "status", Status: &s}); err != nil {
				return
			}
		}
	}
}
