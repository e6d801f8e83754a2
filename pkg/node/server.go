// Package node wires the MyBuddy device link to the messaging layer:
// a websocket telemetry stream and an HTTP command endpoint.
package node

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/robonomics/go-mybuddy/internal/config"
	"github.com/robonomics/go-mybuddy/internal/log"
	"github.com/robonomics/go-mybuddy/pkg/command"
	"github.com/robonomics/go-mybuddy/pkg/hub"
	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/telemetry"
)

// Node owns the device link and the lifecycle of the telemetry publisher
// and the command dispatcher.
type Node struct {
	cfg        config.Config
	app        *fiber.App
	link       mybuddy.Link
	closer     func() error
	dispatcher *command.Dispatcher
	publisher  *telemetry.Publisher
	anglesHub  *hub.Hub

	shutdownOnce sync.Once
}

// New opens the serial link and builds the node. A port that cannot be
// opened is fatal: the error is returned and nothing is registered.
func New(cfg config.Config) (*Node, error) {
	client, err := mybuddy.Open(cfg.SerialPort, cfg.BaudRate)
	if err != nil {
		return nil, err
	}
	log.Info("serial port opened", "port", cfg.SerialPort, "baud", cfg.BaudRate)

	n := newWithLink(cfg, client)
	n.closer = client.Close
	return n, nil
}

// newWithLink builds the node around an already-open device link.
// Split out so tests can inject a mock link.
func newWithLink(cfg config.Config, link mybuddy.Link) *Node {
	n := &Node{
		cfg:       cfg,
		link:      link,
		anglesHub: hub.New("angles"),
	}
	n.dispatcher = command.NewDispatcher(link)
	n.publisher = telemetry.NewPublisher(link, n.anglesHub, cfg.TelemetryPeriod)

	app := fiber.New(fiber.Config{
		AppName:               "go-mybuddy",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Post("/send_angles", n.handleSendAngles)
	api.Get("/angles", n.handleGetAngles)

	app.Get("/healthz", n.handleHealthz)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/angles", websocket.New(n.handleAnglesWS))

	n.app = app
	return n
}

// Start runs the hub, the telemetry publisher and the HTTP listener.
// Blocks until the listener stops.
func (n *Node) Start() error {
	go n.anglesHub.Run()
	go n.publisher.Run()

	log.Info("node listening", "addr", n.cfg.ListenAddr)
	return n.app.Listen(n.cfg.ListenAddr)
}

// Shutdown stops telemetry, the HTTP surface, and releases the device
// link. Idempotent; every exit path should reach it.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.publisher.Stop()
		n.anglesHub.Stop()
		if err := n.app.Shutdown(); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		if n.closer != nil {
			if err := n.closer(); err != nil {
				log.Warn("serial close", "error", err)
			}
		}
		log.Info("node shut down")
	})
}
