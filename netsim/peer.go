package netsim

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/aero/movement"
	"github.com/oomph-ac/aero/oerror"
	"github.com/oomph-ac/aero/player/component"
	"github.com/oomph-ac/aero/simulation"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Peer is one machine taking part in the movement of a character. It routes the messages
// of its movement component over links.
type Peer struct {
	name string
	log  *logrus.Logger

	mc *component.GlideMovementComponent

	out       *Link
	broadcast []*Link
	in        []*Link

	closed atomic.Bool
}

var _ component.Network = (*Peer)(nil)

func NewPeer(name string, log *logrus.Logger) *Peer {
	return &Peer{name: name, log: log}
}

// Name returns the name of the peer.
func (p *Peer) Name() string {
	return p.name
}

// Attach sets the movement component driven by the peer.
func (p *Peer) Attach(mc *component.GlideMovementComponent) {
	p.mc = mc
}

// Component returns the movement component driven by the peer.
func (p *Peer) Component() *component.GlideMovementComponent {
	return p.mc
}

// SendVia sets the link Send writes to.
func (p *Peer) SendVia(l *Link) {
	p.out = l
}

// BroadcastVia adds a link Broadcast writes to.
func (p *Peer) BroadcastVia(l *Link) {
	p.broadcast = append(p.broadcast, l)
}

// ReceiveFrom adds a link the peer reads from.
func (p *Peer) ReceiveFrom(l *Link) {
	p.in = append(p.in, l)
}

func (p *Peer) Send(msg movement.Message) {
	if p.out == nil || p.closed.Load() {
		return
	}
	if err := p.out.Send(msg); err != nil {
		p.log.Errorf("%s: %v", p.name, err)
	}
}

func (p *Peer) Broadcast(msg movement.Message) {
	if p.closed.Load() {
		return
	}
	for _, l := range p.broadcast {
		if err := l.Send(msg); err != nil {
			p.log.Errorf("%s: %v", p.name, err)
		}
	}
}

// Tick delivers the messages received since the last tick and ticks the movement
// component. accel and view are only used by an autonomous proxy.
func (p *Peer) Tick(dt float64, accel, view mgl64.Vec3) {
	p.run(func() {
		if p.mc.Role() == simulation.RoleAutonomousProxy {
			p.mc.TickLocal(dt, accel, view)
			return
		}
		p.mc.Tick(dt)
	})
}

// Sync delivers the messages received since the last tick without making a new move. An
// autonomous proxy only handles its acknowledgements and corrections.
func (p *Peer) Sync(dt float64) {
	p.run(func() {
		p.mc.Tick(dt)
	})
}

func (p *Peer) run(tick func()) {
	defer func() {
		if err := recover(); err != nil {
			p.log.Errorf("%s: Tick() panic: %v", p.name, err)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("peer", p.name)
				scope.SetTag("role", p.mc.Role().String())
			})
			hub.Recover(oerror.New("peer %s crashed: %v", p.name, err))
			hub.Flush(time.Second * 5)
			p.Close()
		}
	}()

	if p.closed.Load() || p.mc == nil {
		return
	}
	for _, l := range p.in {
		msgs, err := l.Receive()
		if err != nil {
			p.log.Warnf("%s: %v", p.name, err)
		}
		for _, msg := range msgs {
			p.mc.Deliver(msg)
		}
	}
	tick()
}

// Close stops the peer. A closed peer neither sends nor ticks.
func (p *Peer) Close() {
	p.closed.Store(true)
}

// Closed returns true if the peer was closed.
func (p *Peer) Closed() bool {
	return p.closed.Load()
}
