//go:build linux

package launch

import (
	"encoding/base64"
	"encoding/json"

	"github.com/mihalicyn/golxc/internal/errkind"
	"github.com/mihalicyn/golxc/internal/lxcconf"
)

// wirePendingMove is the JSON-serialisable form of pendingMove, used
// to hand the child the exact set of interfaces it should expect to
// find (already moved) inside its network namespace.
type wirePendingMove struct {
	Net      *lxcconf.NetConf
	TempName string
}

// wireData is everything the child process needs before the handshake
// starts, carried across re-exec in a single environment variable, the
// idiom the teacher's fork/exec code uses for small handoffs (env
// carries "console=...", "pipe=...", "data_path=..."; here it carries
// one opaque blob instead of several scalar keys, which avoids
// re-deriving Conf fields individually on the other side of exec).
// The pending network moves are not known this early — P only
// computes them after the child signals POST_CONFIGURE — so those
// cross over the sync channel itself (see transfer.go), not here.
type wireData struct {
	Conf         *lxcconf.Conf
	NonceDir     string
	InitProgram  string
	InitArgs     []string
	SyncFD       int // position of the sync child-end in the exec'd process's fd table
	SlaveFDStart int // first of Conf.TTYCount contiguous tty slave fds
}

const envWireKey = "GOLXC_WIRE"

func encodeWire(w *wireData) (string, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return "", errkind.New(errkind.IO, "encode child wire data", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decodeWire(s string) (*wireData, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errkind.New(errkind.IO, "decode child wire data", err)
	}
	var w wireData
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, errkind.New(errkind.IO, "unmarshal child wire data", err)
	}
	return &w, nil
}
