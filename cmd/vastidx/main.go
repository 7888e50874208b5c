// Command vastidx builds a handful of value indexes from a literal
// in-memory event batch and runs one flag-parsed lookup against them. It
// is a worked caller for the factory/valueindex public API, not an
// ingestion pipeline or query planner: there is no JSON loading, no file
// format, no multi-field expression language. Real collaborators build
// indexes the same way, field by field, and combine Lookup results with
// their own boolean logic.
package main

import (
	"flag"
	"fmt"
	"net/netip"
	"os"
	"strconv"

	"github.com/precurse/vast/factory"
	"github.com/precurse/vast/index"
	"github.com/precurse/vast/value"
)

type event struct {
	active bool
	bytes  int64
	host   string
	source netip.Addr
}

func sampleEvents() []event {
	return []event{
		{active: true, bytes: 128, host: "edge-01", source: netip.MustParseAddr("10.0.0.1")},
		{active: false, bytes: 512, host: "edge-02", source: netip.MustParseAddr("10.0.0.2")},
		{active: true, bytes: 2048, host: "edge-01", source: netip.MustParseAddr("10.0.1.1")},
		{active: true, bytes: 64, host: "edge-03", source: netip.MustParseAddr("10.0.0.1")},
		{active: false, bytes: 256, host: "edge-02", source: netip.MustParseAddr("10.0.1.2")},
	}
}

var operators = map[string]index.Operator{
	"==": index.Equal,
	"!=": index.NotEqual,
	"<":  index.Less,
	"<=": index.LessEqual,
	">":  index.Greater,
	">=": index.GreaterEqual,
	"in": index.In,
}

func main() {
	field := flag.String("field", "host", "event field to query: active, bytes, host, source")
	op := flag.String("op", "==", "operator: ==, !=, <, <=, >, >=, in")
	val := flag.String("value", "edge-01", "value to compare against")
	flag.Parse()

	events := sampleEvents()

	activeIdx, err := factory.New(factory.Descriptor{Kind: value.Boolean}, nil)
	exitOnError(err)
	bytesIdx, err := factory.New(factory.Descriptor{Kind: value.Integer}, nil)
	exitOnError(err)
	hostIdx, err := factory.New(factory.Descriptor{Kind: value.String}, factory.Attributes{"max_length": "32"})
	exitOnError(err)
	sourceIdx, err := factory.New(factory.Descriptor{Kind: value.Address}, nil)
	exitOnError(err)

	for _, e := range events {
		exitOnError(activeIdx.Append(value.NewBoolean(e.active)))
		exitOnError(bytesIdx.Append(value.NewInteger(e.bytes)))
		exitOnError(hostIdx.Append(value.NewString(e.host)))
		exitOnError(sourceIdx.Append(value.NewAddress(e.source)))
	}
	fmt.Printf("Indexed %d events\n", len(events))

	operator, ok := operators[*op]
	if !ok {
		fmt.Printf("Unknown operator %q\n", *op)
		os.Exit(1)
	}

	var target index.Index
	var queryValue value.View
	switch *field {
	case "active":
		target = activeIdx
		b, err := strconv.ParseBool(*val)
		exitOnError(err)
		queryValue = value.NewBoolean(b)
	case "bytes":
		target = bytesIdx
		n, err := strconv.ParseInt(*val, 10, 64)
		exitOnError(err)
		queryValue = value.NewInteger(n)
	case "host":
		target = hostIdx
		queryValue = value.NewString(*val)
	case "source":
		target = sourceIdx
		addr, err := netip.ParseAddr(*val)
		exitOnError(err)
		queryValue = value.NewAddress(addr)
	default:
		fmt.Printf("Unknown field %q\n", *field)
		os.Exit(1)
	}

	matches, err := index.Lookup(target, operator, queryValue)
	exitOnError(err)

	fmt.Printf("Query: %s %s %s\n", *field, *op, *val)
	printMatches(matches)
}

func printMatches(bm interface {
	Rank() int
	Select(int) (int, bool)
}) {
	n := bm.Rank()
	fmt.Printf("Matches: %d\n", n)
	for i := 0; i < n; i++ {
		id, ok := bm.Select(i)
		if !ok {
			break
		}
		fmt.Printf("  event %d\n", id)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
