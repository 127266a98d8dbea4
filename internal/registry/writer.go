package registry

import (
	"sort"

	"github.com/google/uuid"
)

// pump writes queued frames to the transport until the outbox is closed, then closes
// the transport. Frames queued after a failed write are dropped.
func pump(conn *Connection, onSendFailure func(id uuid.UUID)) {
	defer conn.transport.Close() //nolint:errcheck // nothing to do on close failure

	failed := false
	for data := range conn.outbox {
		if failed {
			continue
		}

		if err := conn.transport.Send(data); err != nil {
			failed = true
			go onSendFailure(conn.ID)
		}
	}
}

func sortByJoin(conns []*Connection) {
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].joinSeq < conns[j].joinSeq
	})
}

func sortByConnect(conns []*Connection) {
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].seq < conns[j].seq
	})
}
