// Command cortogen drives a single generation run from a JSON-described
// object graph: parse the graph, resolve declare/define order, and emit
// source text through a chosen driver.
package main

func main() {
	Execute()
}
