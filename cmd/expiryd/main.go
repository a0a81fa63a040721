// Command expiryd runs the expiry/LRU core outside of go test, so the
// actor/LRU/mailbox interaction can be observed directly. It has no
// wire protocol: the core it wraps exposes only an in-process API.
package main

import "github.com/varnishgo/expirelru/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
