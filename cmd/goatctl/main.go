// Command goatctl drives goatmalloc arenas from the command line: it sizes
// arenas, replays allocation scripts and runs randomized simulations.
package main

func main() {
	execute()
}
