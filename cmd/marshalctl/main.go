// Command marshalctl inspects the marshal kind registry: which kinds a
// feature profile activates, how a tag resolves, the tag manifest stored
// with cached metadata, and an interactive browser that round-trips values
// through native memory.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
