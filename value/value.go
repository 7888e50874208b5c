// Package value implements the closed domain-value model that event
// ingestion and query collaborators exchange with a value index: a
// tagged View over every supported scalar and container type. Mirroring
// the original data model's variant-over-scalars-and-containers shape
// (booleans, numbers, durations, timestamps, strings, network addresses,
// ports, and vector/set/table containers), View is a single struct with
// a Kind tag and an exhaustive type switch at every consumer, rather than
// an open interface hierarchy; there is no extensibility point here,
// since the domain is fixed.
package value

import (
	"fmt"
	"net/netip"
	"time"
)

// Kind identifies which field of a View is meaningful.
type Kind int

const (
	None Kind = iota
	Boolean
	Integer
	Count
	Real
	Duration
	Timestamp
	String
	Pattern
	Address
	Subnet
	Port
	Vector
	Set
	Table
	Enumeration
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Count:
		return "count"
	case Real:
		return "real"
	case Duration:
		return "duration"
	case Timestamp:
		return "timestamp"
	case String:
		return "string"
	case Pattern:
		return "pattern"
	case Address:
		return "address"
	case Subnet:
		return "subnet"
	case Port:
		return "port"
	case Vector:
		return "vector"
	case Set:
		return "set"
	case Table:
		return "table"
	case Enumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// Entry is one (key, value) pair of a Table view.
type Entry struct {
	Key   View
	Value View
}

// View is a cheap-to-construct tagged reference to a value of any
// supported domain type. The zero value is None.
type View struct {
	kind   Kind
	b      bool
	i      int64
	u      uint64
	f      float64
	d      time.Duration
	ts     time.Time
	s      string
	addr   netip.Addr
	prefix int
	port   uint16
	proto  string
	items  []View
	table  []Entry
}

func (v View) Kind() Kind   { return v.kind }
func (v View) IsNone() bool { return v.kind == None }

func NewNone() View { return View{kind: None} }

func NewBoolean(b bool) View { return View{kind: Boolean, b: b} }
func (v View) Bool() bool    { return v.b }

func NewInteger(i int64) View { return View{kind: Integer, i: i} }
func (v View) Int() int64     { return v.i }

func NewCount(u uint64) View { return View{kind: Count, u: u} }
func (v View) Count() uint64 { return v.u }

func NewReal(f float64) View { return View{kind: Real, f: f} }
func (v View) Real() float64 { return v.f }

func NewDuration(d time.Duration) View { return View{kind: Duration, d: d} }
func (v View) Dur() time.Duration      { return v.d }

func NewTimestamp(t time.Time) View { return View{kind: Timestamp, ts: t} }
func (v View) Time() time.Time      { return v.ts }

func NewString(s string) View { return View{kind: String, s: s} }
func NewPattern(s string) View { return View{kind: Pattern, s: s} }
func NewEnumeration(s string) View { return View{kind: Enumeration, s: s} }
func (v View) Str() string { return v.s }

func NewAddress(addr netip.Addr) View { return View{kind: Address, addr: addr} }
func (v View) Addr() netip.Addr       { return v.addr }

func NewSubnet(network netip.Addr, prefix int) View {
	return View{kind: Subnet, addr: network, prefix: prefix}
}
func (v View) Prefix() int { return v.prefix }

func NewPort(number uint16, protocol string) View {
	return View{kind: Port, port: number, proto: protocol}
}
func (v View) PortNumber() uint16 { return v.port }
func (v View) Protocol() string   { return v.proto }

func NewVector(items ...View) View { return View{kind: Vector, items: items} }
func NewSet(items ...View) View    { return View{kind: Set, items: items} }
func (v View) Items() []View       { return v.items }

func NewTable(entries ...Entry) View { return View{kind: Table, table: entries} }
func (v View) Entries() []Entry      { return v.table }

// String renders a human-readable form, used by error messages and the
// demo binary; not a wire format.
func (v View) String() string {
	switch v.kind {
	case None:
		return "none"
	case Boolean:
		return fmt.Sprintf("%t", v.b)
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Count:
		return fmt.Sprintf("%d", v.u)
	case Real:
		return fmt.Sprintf("%g", v.f)
	case Duration:
		return v.d.String()
	case Timestamp:
		return v.ts.Format(time.RFC3339Nano)
	case String, Pattern, Enumeration:
		return v.s
	case Address:
		return v.addr.String()
	case Subnet:
		return fmt.Sprintf("%s/%d", v.addr, v.prefix)
	case Port:
		return fmt.Sprintf("%d/%s", v.port, v.proto)
	case Vector, Set:
		return fmt.Sprintf("%v", v.items)
	case Table:
		return fmt.Sprintf("%v", v.table)
	default:
		return "<invalid>"
	}
}
