// Command graphlayer-cli is an interactive, line-at-a-time driver for
// link/degree/neighbour operations against an in-memory graph, grounded on the teacher's
// cmd/cli/main.go bufio.Scanner REPL shape (banner, command dispatch,
// "help"/"exit") with the Cypher-query surface replaced by the graph
// facade's operation set.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/filterexpr"
	"github.com/dd0wney/graphlayer/pkg/graph"
	"github.com/dd0wney/graphlayer/pkg/graphtxn"
	"github.com/dd0wney/graphlayer/pkg/registry"
)

type cli struct {
	ctx           context.Context
	graph         *graph.Graph
	person        cellstore.SchemaID
	knows         cellstore.SchemaID
	vertexByLabel map[string]cellstore.Id
	scanner       *bufio.Scanner
}

func main() {
	flag.Parse()

	store := memstore.New()
	reg := registry.NewInMemoryRegistry()
	g, err := graph.New(store, reg)
	if err != nil {
		fmt.Printf("failed to bootstrap graph: %v\n", err)
		os.Exit(1)
	}

	person, err := g.NewVertexGroup([]registry.FieldDef{{Name: "name", Type: cellstore.TypeString}})
	if err != nil {
		fmt.Printf("failed to register person schema: %v\n", err)
		os.Exit(1)
	}
	knows, err := g.NewEdgeGroup(registry.EdgeAttributes{EdgeType: registry.Directed, HasBody: true},
		[]registry.FieldDef{{Name: "since", Type: cellstore.TypeInt}})
	if err != nil {
		fmt.Printf("failed to register knows schema: %v\n", err)
		os.Exit(1)
	}

	c := &cli{
		ctx:           context.Background(),
		graph:         g,
		person:        person,
		knows:         knows,
		vertexByLabel: make(map[string]cellstore.Id),
		scanner:       bufio.NewScanner(os.Stdin),
	}

	printBanner()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
	c.run()
}

func printBanner() {
	fmt.Println(`
  graphlayer interactive CLI
  in-memory store, one "person" vertex schema, one "knows" edge schema
`)
}

func (c *cli) run() {
	for {
		fmt.Print("graphlayer> ")
		if !c.scanner.Scan() {
			break
		}
		input := strings.TrimSpace(c.scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("bye")
			break
		}
		c.dispatch(input)
		fmt.Println()
	}
}

func (c *cli) dispatch(input string) {
	parts := strings.Fields(input)
	switch strings.ToLower(parts[0]) {
	case "help":
		c.help()
	case "add-person":
		c.addPerson(parts[1:])
	case "link":
		c.link(parts[1:])
	case "degree":
		c.degree(parts[1:])
	case "neighbours", "neighbors":
		c.neighbours(parts[1:])
	default:
		fmt.Printf("unknown command %q, type 'help'\n", parts[0])
	}
}

func (c *cli) help() {
	fmt.Println(`commands:
  add-person <label> <name>             create a person vertex, remembered as <label>
  link <from-label> <to-label> <since>  create a "knows" edge with the given since value
  degree <label> <outbound|inbound>     print the degree of a remembered vertex
  neighbours <label> <outbound|inbound> [filter]
                                         list neighbours, optionally filtered (e.g. edge.since > 2020)
  exit                                   quit`)
}

func (c *cli) addPerson(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: add-person <label> <name>")
		return
	}
	label, name := args[0], strings.Join(args[1:], " ")
	v, err := c.graph.NewVertex(c.ctx, c.person, map[string]cellstore.Value{"name": cellstore.StringValue(name)})
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	c.vertexByLabel[label] = v.ID
	fmt.Printf("created %s -> %s\n", label, v.ID)
}

func (c *cli) resolve(label string) (cellstore.Id, bool) {
	id, ok := c.vertexByLabel[label]
	return id, ok
}

func (c *cli) link(args []string) {
	if len(args) < 3 {
		fmt.Println("usage: link <from-label> <to-label> <since>")
		return
	}
	from, ok := c.resolve(args[0])
	if !ok {
		fmt.Printf("unknown label %q\n", args[0])
		return
	}
	to, ok := c.resolve(args[1])
	if !ok {
		fmt.Printf("unknown label %q\n", args[1])
		return
	}
	since, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		fmt.Printf("invalid since value: %v\n", err)
		return
	}
	if _, err := c.graph.Link(c.ctx, from, c.knows, to, map[string]cellstore.Value{"since": cellstore.IntValue(since)}); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("linked")
}

func parseDirection(s string) (graphtxn.Direction, bool) {
	switch strings.ToLower(s) {
	case "outbound":
		return graphtxn.Outbound, true
	case "inbound":
		return graphtxn.Inbound, true
	default:
		return graphtxn.Outbound, false
	}
}

func (c *cli) degree(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: degree <label> <outbound|inbound>")
		return
	}
	v, ok := c.resolve(args[0])
	if !ok {
		fmt.Printf("unknown label %q\n", args[0])
		return
	}
	dir, ok := parseDirection(args[1])
	if !ok {
		fmt.Printf("unknown direction %q\n", args[1])
		return
	}
	deg, err := c.graph.Degree(c.ctx, v, c.knows, dir)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(deg)
}

func (c *cli) neighbours(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: neighbours <label> <outbound|inbound> [filter]")
		return
	}
	v, ok := c.resolve(args[0])
	if !ok {
		fmt.Printf("unknown label %q\n", args[0])
		return
	}
	dir, ok := parseDirection(args[1])
	if !ok {
		fmt.Printf("unknown direction %q\n", args[1])
		return
	}

	var tester filterexpr.Tester
	if len(args) > 2 {
		exprs, err := filterexpr.Parse(strings.Join(args[2:], " "))
		if err != nil {
			fmt.Printf("filter error: %v\n", err)
			return
		}
		tester = filterexpr.NewCELTester(exprs)
	}

	pairs, err := c.graph.Neighbourhoods(c.ctx, v, c.knows, dir, tester)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	personSchema, err := c.graph.Registry().Get(c.person)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	nameField, _ := personSchema.FieldID("name")

	for _, p := range pairs {
		name, _ := p.Vertex.Body[nameField].AsString()
		fmt.Printf("%s (%s)\n", name, p.Vertex.ID)
	}
}
