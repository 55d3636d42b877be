// Command semantic-search ingests documents and answers questions over
// them with grounded, citation-validated responses.
package main

import (
	"os"

	"github.com/ankitghanghas07/semantic-search/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
