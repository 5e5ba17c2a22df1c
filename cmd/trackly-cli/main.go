// Command trackly-cli manages the ledger from a terminal using the same
// storage configuration as the server.
package main

import (
	"context"
	"os"
)

const usage = `usage: trackly-cli <command> [flags]

commands:
  add -title T -amount A -category C [-date YYYY-MM-DD]
  rm <id>
  ls
  summary
  categories
  export [-format csv|xlsx] [-o path|-]
  theme [toggle]
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
