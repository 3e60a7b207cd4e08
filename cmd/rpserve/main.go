package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	rp "github.com/hardentoo/realphysics4d"
)

// Time allowed to write a snapshot to one client.
const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type BodySnapshot struct {
	ID          string     `json:"id"`
	Position    mgl64.Vec3 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
	Awake       bool       `json:"awake"`
}

type Snapshot struct {
	Step   int            `json:"step"`
	Bodies []BodySnapshot `json:"bodies"`
}

func TakeSnapshot(step int, bodies []*rp.RpBody) Snapshot {
	res := Snapshot{
		Step:   step,
		Bodies: make([]BodySnapshot, 0, len(bodies)),
	}

	for _, body := range bodies {
		q := body.GetOrientation()
		id, _ := body.GetUserData().(string)
		res.Bodies = append(res.Bodies, BodySnapshot{
			ID:          id,
			Position:    body.GetPosition(),
			Orientation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			Awake:       body.IsAwake(),
		})
	}

	return res
}

// client serializes writes to one websocket connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteJSON fails when the peer does not take the message within wait.
func (c *client) WriteJSON(v interface{}, wait time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(wait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

type hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	writeWait time.Duration
}

func newHub(writeWait time.Duration) *hub {
	return &hub{
		clients:   make(map[*client]struct{}),
		writeWait: writeWait,
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

func (h *hub) broadcast(snapshot Snapshot) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.WriteJSON(snapshot, h.writeWait); err != nil {
			log.Printf("[rpserve] write error: %v", err)
			h.remove(c)
		}
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[rpserve] upgrade error: %v", err)
		return
	}

	c := &client{conn: conn}
	h.add(c)
	log.Printf("[rpserve] client connected: %s", r.RemoteAddr)

	// Incoming messages are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("[rpserve] client disconnected: %s", r.RemoteAddr)
			h.remove(c)
			return
		}
	}
}

func simulate(world *rp.RpWorld, bodies []*rp.RpBody, hz float64, h *hub) {
	dt := 1.0 / hz
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	step := 0
	for range ticker.C {
		world.Step(dt)
		step++
		h.broadcast(TakeSnapshot(step, bodies))
	}
}

func main() {
	settingsPath := flag.String("settings", "", "YAML settings file (defaults when empty)")
	scenePath := flag.String("scene", "", "YAML scene file")
	addr := flag.String("addr", ":8080", "listen address")
	hz := flag.Float64("hz", 60.0, "simulation steps per second")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	settings := rp.MakeRpSettings()
	if *settingsPath != "" {
		var err error
		settings, err = rp.LoadRpSettings(*settingsPath)
		if err != nil {
			logger.Fatalf("[rpserve] %v", err)
		}
	}

	if *hz <= 0 {
		logger.Fatalf("[rpserve] -hz must be positive, got %v", *hz)
	}

	world := rp.NewRpWorld(settings)
	world.SetLogger(logger)

	var bodies []*rp.RpBody
	if *scenePath != "" {
		scene, err := LoadScene(*scenePath)
		if err != nil {
			logger.Fatalf("[rpserve] %v", err)
		}

		bodies, err = scene.Build(world)
		if err != nil {
			logger.Fatalf("[rpserve] build scene: %v", err)
		}
	}

	logger.Printf("[rpserve] %d bodies, %d joints", world.GetBodyCount(), world.GetJointCount())

	h := newHub(writeWait)
	go simulate(world, bodies, *hz, h)

	http.HandleFunc("/ws", h.serveWS)

	logger.Printf("[rpserve] listening on %s", *addr)
	logger.Fatal(http.ListenAndServe(*addr, nil))
}
