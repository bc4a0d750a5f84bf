package radio

import (
	"encoding/binary"
	"testing"

	"github.com/cornellrocketryteam/control-core/internal/flightpacket"
)

type recordingTransport struct {
	writes [][]byte
}

func (t *recordingTransport) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	t.writes = append(t.writes, cp)
	return len(p), nil
}

func TestTransmitWritesSyncWordThenPayload(t *testing.T) {
	transport := &recordingTransport{}
	r := NewWithTransport(transport)

	p := &flightpacket.Packet{FlightMode: flightpacket.Ascent, Altitude: 42.5}
	if err := r.Transmit(p); err != nil {
		t.Fatalf("Transmit: %v", err)
	}

	if len(transport.writes) != 2 {
		t.Fatalf("expected 2 separate writes (sync word, payload), got %d", len(transport.writes))
	}
	if len(transport.writes[0]) != 4 {
		t.Fatalf("sync word write length = %d, want 4", len(transport.writes[0]))
	}
	got := binary.LittleEndian.Uint32(transport.writes[0])
	if got != SyncWord {
		t.Fatalf("sync word = %#x, want %#x", got, SyncWord)
	}
	if len(transport.writes[1]) != flightpacket.PayloadSize {
		t.Fatalf("payload write length = %d, want %d", len(transport.writes[1]), flightpacket.PayloadSize)
	}
}
