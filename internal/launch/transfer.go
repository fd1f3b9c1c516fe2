//go:build linux

package launch

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/syncchan"
)

// sendPending hands the child the exact set of interfaces P is about
// to move into its network namespace. It rides the sync channel's
// raw byte stream, length-prefixed, strictly between P's Wait(POST_
// CONFIGURE) and its Wake(POST_CONFIGURE+1) — the one window both
// sides agree nothing else is in flight on the stream.
func sendPending(ep *syncchan.Endpoint, pending []pendingMove) error {
	wire := make([]wirePendingMove, len(pending))
	for i, p := range pending {
		wire[i] = wirePendingMove{Net: p.net, TempName: p.tempName}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return errkind.New(errkind.IO, "encode pending network moves", err)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := ep.File().Write(lenBuf[:]); err != nil {
		return errkind.New(errkind.IO, "send pending network moves length", err)
	}
	if _, err := ep.File().Write(b); err != nil {
		return errkind.New(errkind.IO, "send pending network moves", err)
	}
	return nil
}

// recvPending is the child-side counterpart of sendPending.
func recvPending(ep *syncchan.Endpoint) ([]pendingMove, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(ep.File(), lenBuf[:]); err != nil {
		return nil, errkind.New(errkind.IO, "receive pending network moves length", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	b := make([]byte, n)
	if _, err := io.ReadFull(ep.File(), b); err != nil {
		return nil, errkind.New(errkind.IO, "receive pending network moves", err)
	}
	var wire []wirePendingMove
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, errkind.New(errkind.IO, "decode pending network moves", err)
	}
	return wirePendingToPendingMove(wire), nil
}
