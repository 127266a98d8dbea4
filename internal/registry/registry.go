package registry

import (
	"github.com/google/uuid"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
)

type Role int

const (
	RoleNone Role = iota
	PrimaryA
	PrimaryB
	Observer
)

func (that Role) String() string {
	switch that {
	case PrimaryA:
		return "primary-a"
	case PrimaryB:
		return "primary-b"
	case Observer:
		return "observer"
	default:
		return "none"
	}
}

func (that Role) IsPrimary() bool {
	return that == PrimaryA || that == PrimaryB
}

// Seat returns 0 for PrimaryA, 1 for PrimaryB and -1 otherwise.
func (that Role) Seat() int {
	switch that {
	case PrimaryA:
		return 0
	case PrimaryB:
		return 1
	default:
		return -1
	}
}

// Transport is the outbound half of a client connection.
type Transport interface {
	Send(data []byte) error
	Close() error
}

type Connection struct {
	ID   uuid.UUID
	Name string
	Role Role

	active    bool
	seq       int
	joinSeq   int
	outbox    chan []byte
	transport Transport
}

func (that *Connection) IsActive() bool {
	return that.active
}

func (that *Connection) IsJoined() bool {
	return that.Role != RoleNone
}

// Registry tracks the connections of one match. It is not safe for concurrent use:
// every call must happen under the owning match's lock.
type Registry struct {
	allowObservers bool
	queueSize      int

	connections map[uuid.UUID]*Connection
	seats       [2]uuid.UUID
	seq         int
	joinSeq     int

	onSendFailure func(id uuid.UUID)
}

func New(allowObservers bool, queueSize int) *Registry {
	if queueSize < 1 {
		queueSize = 1
	}

	return &Registry{
		allowObservers: allowObservers,
		queueSize:      queueSize,
		connections:    make(map[uuid.UUID]*Connection),
		onSendFailure:  func(uuid.UUID) {},
	}
}

// OnSendFailure sets the hook run, on its own goroutine, when a frame cannot be delivered.
// Connections registered before the call keep the previous hook.
func (that *Registry) OnSendFailure(hook func(id uuid.UUID)) {
	that.onSendFailure = hook
}

// Register - creates an active connection that owns transport and starts its writer.
func (that *Registry) Register(transport Transport) uuid.UUID {
	that.seq++

	conn := &Connection{
		ID:        uuid.New(),
		active:    true,
		seq:       that.seq,
		outbox:    make(chan []byte, that.queueSize),
		transport: transport,
	}

	that.connections[conn.ID] = conn

	go pump(conn, that.onSendFailure)

	return conn.ID
}

// AssignRole - gives the connection the first free seat, or Observer when both are taken.
func (that *Registry) AssignRole(id uuid.UUID, name string) (Role, error) {
	conn, ok := that.connections[id]
	if !ok {
		return RoleNone, apperror.ErrUnknownConnection
	}

	if !conn.IsActive() {
		return RoleNone, apperror.ErrConnectionInactive
	}

	if conn.IsJoined() {
		return conn.Role, apperror.ErrRoleAlreadyAssigned
	}

	role := RoleNone
	for seat, holder := range that.seats {
		if holder == uuid.Nil {
			that.seats[seat] = id
			role = Role(seat + 1)
			break
		}
	}

	if role == RoleNone {
		if !that.allowObservers {
			return RoleNone, apperror.ErrCapacityExceeded
		}
		role = Observer
	}

	that.joinSeq++
	conn.Name = name
	conn.Role = role
	conn.joinSeq = that.joinSeq

	return role, nil
}

func (that *Registry) Lookup(id uuid.UUID) (*Connection, bool) {
	conn, ok := that.connections[id]
	return conn, ok
}

// Deactivate - marks the connection inactive, frees its seat and lets the writer close the
// transport once queued frames are flushed. It reports true only for the call that actually
// deactivated the connection.
func (that *Registry) Deactivate(id uuid.UUID) bool {
	conn, ok := that.connections[id]
	if !ok || !conn.IsActive() {
		return false
	}

	conn.active = false
	close(conn.outbox)

	if seat := conn.Role.Seat(); seat >= 0 && that.seats[seat] == id {
		that.seats[seat] = uuid.Nil
	}

	delete(that.connections, id)

	return true
}

// Deliver queues data for the connection without blocking. A full queue counts as a
// failed send.
func (that *Registry) Deliver(id uuid.UUID, data []byte) bool {
	conn, ok := that.connections[id]
	if !ok || !conn.IsActive() {
		return false
	}

	select {
	case conn.outbox <- data:
		return true
	default:
		go that.onSendFailure(id)
		return false
	}
}

// Joined returns the active connections holding a role, in join order.
func (that *Registry) Joined() []*Connection {
	joined := make([]*Connection, 0, len(that.connections))
	for _, conn := range that.connections {
		if conn.IsActive() && conn.IsJoined() {
			joined = append(joined, conn)
		}
	}

	sortByJoin(joined)

	return joined
}

// Active returns every active connection, joined or not, in connection order.
func (that *Registry) Active() []*Connection {
	active := make([]*Connection, 0, len(that.connections))
	for _, conn := range that.connections {
		if conn.IsActive() {
			active = append(active, conn)
		}
	}

	sortByConnect(active)

	return active
}

func (that *Registry) ActiveNames() []string {
	joined := that.Joined()

	names := make([]string, 0, len(joined))
	for _, conn := range joined {
		names = append(names, conn.Name)
	}

	return names
}

func (that *Registry) Primary(role Role) (*Connection, bool) {
	seat := role.Seat()
	if seat < 0 || that.seats[seat] == uuid.Nil {
		return nil, false
	}

	conn, ok := that.connections[that.seats[seat]]
	return conn, ok
}

func (that *Registry) PrimaryCount() int {
	count := 0
	for _, holder := range that.seats {
		if holder != uuid.Nil {
			count++
		}
	}

	return count
}

// IDs lists every active connection, joined or not.
func (that *Registry) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(that.connections))
	for id := range that.connections {
		ids = append(ids, id)
	}

	return ids
}
