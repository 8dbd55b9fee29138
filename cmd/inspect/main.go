// Command inspect prints a structural report of a network's nodes
// (parents, candidate-value counts) and, interactively, a node's
// candidate values on request.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bartasx/browserforge/bayesnet"
	"github.com/bartasx/browserforge/config"
)

func askUser(scanner *bufio.Scanner, message string) bool {
	fmt.Println(message)
	if !scanner.Scan() {
		log.Fatal("aborting...")
	}
	switch scanner.Text() {
	case "y", "Y", "yes", "Yes":
		return true
	}
	return false
}

func main() {
	configFileName := flag.String("config", "app.toml", "application config file")
	which := flag.String("network", "input", `which network to inspect: "input" or "value"`)
	flag.Parse()

	cfg, err := config.Load(*configFileName)
	if err != nil {
		log.Fatal(err)
	}
	l, err := cfg.NewLoader()
	if err != nil {
		log.Fatal(err)
	}

	fileName := cfg.InputFileName
	if *which == "value" {
		fileName = cfg.ValueFileName
	}
	file, err := l.LoadFile(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	net, err := bayesnet.LoadNetwork(file)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d nodes (sampling order)\n", fileName, len(net.Nodes))
	for _, node := range net.Nodes {
		fmt.Printf("  %-24s parents=%-30v values=%d\n", node.Name, node.ParentNames, len(node.PossibleValues))
	}

	scanner := bufio.NewScanner(os.Stdin)
	if askUser(scanner, "Print a node's candidate values?") {
		fmt.Println("node name:")
		if !scanner.Scan() {
			log.Fatal("aborting...")
		}
		name := scanner.Text()
		node, ok := net.Node(name)
		if !ok {
			fmt.Printf("no such node %q\n", name)
			return
		}
		for v := range node.PossibleValues {
			fmt.Println(" ", v)
		}
	}
}
