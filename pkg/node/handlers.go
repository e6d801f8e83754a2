package node

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/robonomics/go-mybuddy/pkg/hub"
	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/protocol"
)

// handleSendAngles is the request/response command surface. Validation
// outcomes (including rejections) are HTTP 200 with a result string;
// only an unparseable body is a 400.
func (n *Node) handleSendAngles(c *fiber.Ctx) error {
	var req protocol.SendAnglesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	return c.JSON(n.dispatcher.Dispatch(req))
}

// handleGetAngles reads all three groups on demand. Unlike telemetry,
// a failed read here is the caller's problem and maps to a 502.
func (n *Node) handleGetAngles(c *fiber.Ctx) error {
	left, err := n.link.GetAngles(mybuddy.LeftArm)
	if err != nil {
		return readError(c, mybuddy.LeftArm, err)
	}
	right, err := n.link.GetAngles(mybuddy.RightArm)
	if err != nil {
		return readError(c, mybuddy.RightArm, err)
	}
	waist, err := n.link.GetAngle(mybuddy.Waist, 1)
	if err != nil {
		return readError(c, mybuddy.Waist, err)
	}

	return c.JSON(protocol.AnglesMessage{
		LeftArm:  protocol.NewAngleSample(mybuddy.LeftArm, left),
		RightArm: protocol.NewAngleSample(mybuddy.RightArm, right),
		Waist:    protocol.NewAngleSample(mybuddy.Waist, []float64{waist}),
	})
}

func readError(c *fiber.Ctx, group mybuddy.Group, err error) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "read " + group.String() + ": " + err.Error(),
	})
}

// handleHealthz reports liveness and the subscriber count.
func (n *Node) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"subscribers": n.anglesHub.ClientCount(),
	})
}

// handleAnglesWS attaches a telemetry subscriber to the angles hub.
func (n *Node) handleAnglesWS(conn *websocket.Conn) {
	client := hub.NewClient(n.anglesHub, conn)
	client.Run()
}
