// Command jisho segments Japanese text and looks words up, either directly
// against jisho.org or through a running jishod server.
package main

import "github.com/heartmarshall/instant-jisho/internal/cli"

func main() {
	cli.Execute()
}
