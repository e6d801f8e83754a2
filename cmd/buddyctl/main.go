// Command buddyctl is an operator client for a running buddy-node.
//
//	buddyctl watch                 stream joint telemetry
//	buddyctl angles                one-shot read of all joints
//	buddyctl send -part L -joint 1 -angle 10 -speed 50
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/robonomics/go-mybuddy/internal/httpc"
	"github.com/robonomics/go-mybuddy/pkg/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8280", "Node address")
	flag.Parse()

	var err error
	switch flag.Arg(0) {
	case "watch":
		err = watch(*addr)
	case "angles":
		err = angles(*addr)
	case "send":
		err = send(*addr, flag.Args()[1:])
	default:
		fmt.Fprintln(os.Stderr, "usage: buddyctl [-addr host:port] watch|angles|send")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// watch subscribes to the telemetry stream and prints one line per tick.
func watch(addr string) error {
	url := "ws://" + addr + "/ws/angles"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	// Closing the conn is how we interrupt the blocking read; remember
	// why it closed so Ctrl-C exits cleanly.
	var interrupted atomic.Bool
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		interrupted.Store(true)
		conn.Close()
	}()

	for {
		var msg protocol.AnglesMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if interrupted.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		printSample(msg.LeftArm)
		printSample(msg.RightArm)
		printSample(msg.Waist)
		fmt.Println()
	}
}

func printSample(s protocol.AngleSample) {
	parts := make([]string, len(s.Names))
	for i, name := range s.Names {
		pos := 0.0
		if i < len(s.Positions) {
			pos = s.Positions[i]
		}
		parts[i] = fmt.Sprintf("%s=%+7.2f", name, pos)
	}
	fmt.Printf("%-9s %s  %s\n", s.Group, s.Stamp.Format("15:04:05.000"), strings.Join(parts, " "))
}

// angles does a one-shot read via the HTTP API.
func angles(addr string) error {
	resp, err := httpc.Client.Get("http://" + addr + "/api/angles")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("node returned %s: %s", resp.Status, body)
	}

	var msg protocol.AnglesMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return err
	}
	printSample(msg.LeftArm)
	printSample(msg.RightArm)
	printSample(msg.Waist)
	return nil
}

// send posts a single-entry move command and prints the result string.
func send(addr string, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	part := fs.String("part", "", "Robot part: L, R or W")
	joint := fs.Int("joint", 0, "Joint number (1-6)")
	angle := fs.Float64("angle", 0, "Target angle in degrees")
	speed := fs.Int("speed", 50, "Joint speed (1-100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := protocol.SendAnglesRequest{
		PartID:      *part,
		JointNumber: []int{*joint},
		Angle:       []float64{*angle},
		Speed:       []int{*speed},
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := httpc.Post("http://"+addr+"/api/send_angles", "application/json", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("node returned %s: %s", resp.Status, body)
	}

	var result protocol.SendAnglesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return err
	}
	fmt.Println(result.Result)
	return nil
}
