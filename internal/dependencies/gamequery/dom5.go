package gamequery

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/mcoot/dombot/internal/model"
	"github.com/mcoot/dombot/internal/nations"
)

const (
	cmdGameInfo   byte = 0x03
	cmdDisconnect byte = 0x0b

	flagRaw        byte = 'H'
	flagCompressed byte = 'J'

	nationSlots = 250
	// Bytes before the NUL-terminated game name
	gameInfoHeaderLen = 6
	// Upper bound on a response payload; real answers are a few kilobytes
	maxPayloadLen = 1 << 20

	defaultTimeout = 5 * time.Second
)

var frameMagic = [2]byte{'f', 'H'}

// Dom5Client speaks the Dominions 5 server info protocol over TCP
type Dom5Client struct {
	catalog *nations.Catalog
	timeout time.Duration
	dialer  net.Dialer
}

// Ensure Dom5Client implements Client
var _ Client = (*Dom5Client)(nil)

// NewDom5Client creates a client naming nations from catalog. The timeout
// bounds a whole fetch when the context carries no earlier deadline.
func NewDom5Client(catalog *nations.Catalog, timeout time.Duration) *Dom5Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dom5Client{catalog: catalog, timeout: timeout}
}

// Fetch connects to address and reads the game's nation roster and turn
func (c *Dom5Client) Fetch(ctx context.Context, address string) (*GameData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.fetch(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrGameServerUnreachable, address, err)
	}
	return data, nil
}

func (c *Dom5Client) fetch(ctx context.Context, address string) (*GameData, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	// Unblock reads if the context is cancelled before the deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write(encodeRequest(cmdGameInfo)); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	payload, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	// Best effort; the server drops the connection either way
	_, _ = conn.Write(encodeRequest(cmdDisconnect))

	return c.parseGameInfo(payload)
}

func encodeRequest(cmd byte) []byte {
	buf := make([]byte, 0, 8)
	buf = append(buf, frameMagic[:]...)
	buf = append(buf, 0x01)
	buf = binary.LittleEndian.AppendUint32(buf, 1)
	return append(buf, cmd)
}

func readResponse(r io.Reader) ([]byte, error) {
	var header [7]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if header[0] != frameMagic[0] || header[1] != frameMagic[1] {
		return nil, fmt.Errorf("bad frame magic %q", header[:2])
	}
	length := binary.LittleEndian.Uint32(header[3:])
	if length > maxPayloadLen {
		return nil, fmt.Errorf("payload of %d bytes exceeds limit", length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	switch header[2] {
	case flagRaw:
		return body, nil
	case flagCompressed:
		return inflate(body)
	default:
		return nil, fmt.Errorf("unknown frame flag %#x", header[2])
	}
}

func inflate(body []byte) ([]byte, error) {
	if len(body) < 4 {
		return nil, errors.New("compressed payload too short")
	}
	size := binary.LittleEndian.Uint32(body[:4])
	if size > maxPayloadLen {
		return nil, fmt.Errorf("uncompressed payload of %d bytes exceeds limit", size)
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[4:]))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("inflate payload: %w", err)
	}
	return out, nil
}

func (c *Dom5Client) parseGameInfo(payload []byte) (*GameData, error) {
	if len(payload) < gameInfoHeaderLen {
		return nil, errors.New("game info too short")
	}
	rest := payload[gameInfoHeaderLen:]
	nameEnd := bytes.IndexByte(rest, 0)
	if nameEnd < 0 {
		return nil, errors.New("game name is not terminated")
	}
	name := string(rest[:nameEnd])
	rest = rest[nameEnd+1:]

	if len(rest) < 3*nationSlots+4 {
		return nil, fmt.Errorf("game info truncated: %d bytes after name", len(rest))
	}
	status := rest[:nationSlots]
	turn := int32(binary.LittleEndian.Uint32(rest[3*nationSlots:]))

	data := &GameData{Name: name, CurrentTurn: int(turn)}
	for i, s := range status {
		if s == 0 {
			continue
		}
		id := model.NationID(i)
		data.Nations = append(data.Nations, model.Nation{ID: id, Name: c.catalog.Name(id)})
	}
	return data, nil
}
